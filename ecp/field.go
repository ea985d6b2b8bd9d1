package ecp

import (
	"bignum.mleku.dev"
)

// field is arithmetic modulo a prime p under one strategy. When the strategy
// multiplies by Montgomery reduction, elements are held in Montgomery form
// so that every multiplication is a single product.
type field struct {
	arith   bignum.Arith
	p       bignum.Int
	mont    *bignum.MontContext
	product bignum.MontgomeryProduct
	one     bignum.Int
}

func newField(a bignum.Arith, p *bignum.Int) (*field, error) {
	f := &field{arith: a, p: *p, product: a.Product}
	if a.Mult == bignum.MulModMontgomery {
		ctx, err := a.NewMontContext(p)
		if err != nil {
			return nil, err
		}
		f.mont = ctx
		f.one = ctx.RModN()
	} else {
		f.one.SetUint64(1)
	}
	return f, nil
}

// enter converts a reduced integer into field representation.
func (f *field) enter(z, x *bignum.Int) {
	if f.mont != nil {
		f.mont.ToMont(z, x, f.product)
		return
	}
	*z = *x
}

// leave converts back to an ordinary integer.
func (f *field) leave(z, x *bignum.Int) {
	if f.mont != nil {
		f.mont.FromMont(z, x, f.product)
		return
	}
	*z = *x
}

// fieldOps chains operations on one field and keeps the first error.
type fieldOps struct {
	f   *field
	err error
}

func (o *fieldOps) mul(z, x, y *bignum.Int) {
	if o.err != nil {
		return
	}
	if o.f.mont != nil {
		o.f.mont.Product(z, x, y, o.f.product)
		return
	}
	o.err = o.f.arith.MulModClassic(z, x, y, &o.f.p)
}

func (o *fieldOps) sqr(z, x *bignum.Int) { o.mul(z, x, x) }

func (o *fieldOps) add(z, x, y *bignum.Int) { z.AddMod(x, y, &o.f.p) }

func (o *fieldOps) sub(z, x, y *bignum.Int) { z.SubMod(x, y, &o.f.p) }

// dbl sets z = 2x.
func (o *fieldOps) dbl(z, x *bignum.Int) { z.AddMod(x, x, &o.f.p) }

func (o *fieldOps) inv(z, x *bignum.Int) {
	if o.err != nil {
		return
	}
	var t bignum.Int
	o.f.leave(&t, x)
	if o.err = o.f.arith.InvMod(&t, &t, &o.f.p); o.err != nil {
		return
	}
	o.f.enter(z, &t)
}
