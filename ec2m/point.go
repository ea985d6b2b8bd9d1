package ec2m

import (
	"bignum.mleku.dev"
	"bignum.mleku.dev/internal/ecsig"
)

// Point is an affine point. Inf marks the point at infinity, in which case X
// and Y are ignored.
type Point struct {
	X, Y bignum.Int
	Inf  bool
}

// Equal reports whether p and q are the same point.
func (p *Point) Equal(q *Point) bool {
	if p.Inf || q.Inf {
		return p.Inf == q.Inf
	}
	return p.X.Equal(&q.X) && p.Y.Equal(&q.Y)
}

// fieldOps chains field operations and keeps the first error.
type fieldOps struct {
	f   *bignum.Field2m
	err error
}

func (o *fieldOps) mul(z, x, y *bignum.Int) {
	if o.err == nil {
		o.err = o.f.Mul(z, x, y)
	}
}

func (o *fieldOps) sqr(z, x *bignum.Int) {
	if o.err == nil {
		o.err = o.f.Sqr(z, x)
	}
}

func (o *fieldOps) div(z, x, y *bignum.Int) {
	if o.err == nil {
		o.err = o.f.Div(z, x, y)
	}
}

func (o *fieldOps) inv(z, x *bignum.Int) {
	if o.err == nil {
		o.err = o.f.Inv(z, x)
	}
}

// IsOnCurve reports whether p satisfies y^2 + xy = x^3 + ax^2 + b with
// reduced coordinates. The point at infinity is on every curve.
func (c *Curve) IsOnCurve(p *Point) bool {
	if p.Inf {
		return true
	}
	m := c.Field.Degree()
	if p.X.Degree() >= m || p.Y.Degree() >= m {
		return false
	}
	o := fieldOps{f: c.Field}
	var lhs, rhs, t bignum.Int
	o.sqr(&lhs, &p.Y)
	o.mul(&t, &p.X, &p.Y)
	lhs.AddGF2m(&lhs, &t)

	var x2 bignum.Int
	o.sqr(&x2, &p.X)
	o.mul(&rhs, &x2, &p.X)
	o.mul(&t, &x2, &c.A)
	rhs.AddGF2m(&rhs, &t)
	rhs.AddGF2m(&rhs, &c.B)
	return o.err == nil && lhs.Equal(&rhs)
}

// Neg returns -p = (x, x + y).
func (c *Curve) Neg(p *Point) Point {
	if p.Inf {
		return *p
	}
	r := Point{X: p.X}
	r.Y.AddGF2m(&p.X, &p.Y)
	return r
}

// Double returns 2p in affine coordinates:
// l = x + y/x, x3 = l^2 + l + a, y3 = x^2 + (l + 1) x3.
func (c *Curve) Double(p *Point) (Point, error) {
	if p.Inf || p.X.IsZero() {
		return Point{Inf: true}, nil
	}
	o := fieldOps{f: c.Field}
	var l, t bignum.Int
	var r Point
	o.div(&l, &p.Y, &p.X)
	l.AddGF2m(&l, &p.X)

	o.sqr(&r.X, &l)
	r.X.AddGF2m(&r.X, &l)
	r.X.AddGF2m(&r.X, &c.A)

	l.AddGF2m(&l, bignum.NewInt(1))
	o.mul(&t, &l, &r.X)
	o.sqr(&r.Y, &p.X)
	r.Y.AddGF2m(&r.Y, &t)
	return r, o.err
}

// Add returns p + q in affine coordinates:
// l = (y1 + y2)/(x1 + x2), x3 = l^2 + l + x1 + x2 + a, y3 = l(x1 + x3) + x3 + y1.
func (c *Curve) Add(p, q *Point) (Point, error) {
	switch {
	case p.Inf:
		return *q, nil
	case q.Inf:
		return *p, nil
	case p.X.Equal(&q.X):
		if p.Y.Equal(&q.Y) {
			return c.Double(p)
		}
		return Point{Inf: true}, nil
	}
	o := fieldOps{f: c.Field}
	var l, dx, dy, r, t bignum.Int
	dx.AddGF2m(&p.X, &q.X)
	dy.AddGF2m(&p.Y, &q.Y)
	o.div(&l, &dy, &dx)

	var res Point
	o.sqr(&r, &l)
	r.AddGF2m(&r, &l)
	r.AddGF2m(&r, &dx)
	r.AddGF2m(&r, &c.A)
	res.X = r

	t.AddGF2m(&p.X, &res.X)
	o.mul(&res.Y, &l, &t)
	res.Y.AddGF2m(&res.Y, &res.X)
	res.Y.AddGF2m(&res.Y, &p.Y)
	return res, o.err
}

// ldPoint is a López-Dahab projective point (X:Y:Z) standing for the affine
// point (X/Z, Y/Z^2). Z = 0 is the point at infinity.
type ldPoint struct {
	X, Y, Z bignum.Int
}

func (c *Curve) toLD(p *Point) ldPoint {
	if p.Inf {
		return ldPoint{X: *bignum.NewInt(1)}
	}
	return ldPoint{X: p.X, Y: p.Y, Z: *bignum.NewInt(1)}
}

func (c *Curve) fromLD(p *ldPoint) (Point, error) {
	if p.Z.IsZero() {
		return Point{Inf: true}, nil
	}
	o := fieldOps{f: c.Field}
	var zi, zi2 bignum.Int
	var r Point
	o.inv(&zi, &p.Z)
	o.sqr(&zi2, &zi)
	o.mul(&r.X, &p.X, &zi)
	o.mul(&r.Y, &p.Y, &zi2)
	return r, o.err
}

// doubleLD is Hankerson-Menezes-Vanstone algorithm 3.24 with a general a.
func (c *Curve) doubleLD(p *ldPoint) (ldPoint, error) {
	if p.Z.IsZero() {
		return *p, nil
	}
	o := fieldOps{f: c.Field}
	var r ldPoint
	var t1, t2 bignum.Int
	o.sqr(&t1, &p.Z)
	o.sqr(&t2, &p.X)
	o.mul(&r.Z, &t1, &t2)
	o.sqr(&r.X, &t2)
	o.sqr(&t1, &t1)
	o.mul(&t2, &t1, &c.B)
	r.X.AddGF2m(&r.X, &t2)
	o.sqr(&t1, &p.Y)
	if !c.A.IsZero() {
		var az bignum.Int
		o.mul(&az, &c.A, &r.Z)
		t1.AddGF2m(&t1, &az)
	}
	t1.AddGF2m(&t1, &t2)
	o.mul(&r.Y, &r.X, &t1)
	o.mul(&t1, &t2, &r.Z)
	r.Y.AddGF2m(&r.Y, &t1)
	return r, o.err
}

// addMixedLD adds an affine point q to p (algorithm 3.25).
func (c *Curve) addMixedLD(p *ldPoint, q *Point) (ldPoint, error) {
	if q.Inf {
		return *p, nil
	}
	if p.Z.IsZero() {
		return c.toLD(q), nil
	}
	o := fieldOps{f: c.Field}
	var r ldPoint
	var t1, t2, t3 bignum.Int
	o.mul(&t1, &p.Z, &q.X)
	o.sqr(&t2, &p.Z)
	r.X.AddGF2m(&p.X, &t1)
	o.mul(&t1, &p.Z, &r.X)
	o.mul(&t3, &t2, &q.Y)
	r.Y.AddGF2m(&p.Y, &t3)
	if o.err != nil {
		return r, o.err
	}
	if r.X.IsZero() {
		if r.Y.IsZero() {
			qq := c.toLD(q)
			return c.doubleLD(&qq)
		}
		return ldPoint{X: *bignum.NewInt(1)}, nil
	}
	o.sqr(&r.Z, &t1)
	o.mul(&t3, &t1, &r.Y)
	if !c.A.IsZero() {
		var at bignum.Int
		o.mul(&at, &c.A, &t2)
		t1.AddGF2m(&t1, &at)
	}
	o.sqr(&t2, &r.X)
	o.mul(&r.X, &t2, &t1)
	o.sqr(&t2, &r.Y)
	r.X.AddGF2m(&r.X, &t2)
	r.X.AddGF2m(&r.X, &t3)
	o.mul(&t2, &q.X, &r.Z)
	t2.AddGF2m(&t2, &r.X)
	o.sqr(&t1, &r.Z)
	t3.AddGF2m(&t3, &r.Z)
	o.mul(&r.Y, &t3, &t2)
	t2.AddGF2m(&q.X, &q.Y)
	o.mul(&t3, &t1, &t2)
	r.Y.AddGF2m(&r.Y, &t3)
	return r, o.err
}

// ScalarMult returns k*p by left-to-right double-and-add in López-Dahab
// coordinates. It is not constant time.
func (c *Curve) ScalarMult(p *Point, k *bignum.Int) (Point, error) {
	acc := ldPoint{X: *bignum.NewInt(1)}
	var err error
	for i := k.BitLen() - 1; i >= 0; i-- {
		if acc, err = c.doubleLD(&acc); err != nil {
			return Point{}, err
		}
		if b, _ := k.Bit(i); b == 1 {
			if acc, err = c.addMixedLD(&acc, p); err != nil {
				return Point{}, err
			}
		}
	}
	return c.fromLD(&acc)
}

// ScalarBaseMult returns k*G.
func (c *Curve) ScalarBaseMult(k *bignum.Int) (Point, error) {
	return c.ScalarMult(&c.G, k)
}

// CombinedMult returns u1*G + u2*q.
func (c *Curve) CombinedMult(q *Point, u1, u2 *bignum.Int) (Point, error) {
	a, err := c.ScalarBaseMult(u1)
	if err != nil {
		return a, err
	}
	b, err := c.ScalarMult(q, u2)
	if err != nil {
		return b, err
	}
	return c.Add(&a, &b)
}

// AffineX returns the x coordinate read as an integer.
func (c *Curve) AffineX(p *Point) (bignum.Int, error) {
	if p.Inf {
		return bignum.Int{}, ecsig.ErrInfinity
	}
	return p.X, nil
}
