package ecp

import (
	"bignum.mleku.dev"
	"bignum.mleku.dev/internal/ecsig"
)

// Point is an affine point with ordinary integer coordinates. Inf marks the
// point at infinity.
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

// jacobian is (X:Y:Z) standing for (X/Z^2, Y/Z^3), coordinates in field
// representation. Z = 0 is the point at infinity.
type jacobian struct {
	X, Y, Z bignum.Int
}

// Group is a Curve bound to an arithmetic strategy. It is immutable and safe
// for concurrent use.
type Group struct {
	*Curve
	f *field
	a bignum.Int // curve a in field representation
	g jacobian
}

// Bind prepares the curve for point arithmetic with strategy a.
func (c *Curve) Bind(a bignum.Arith) (*Group, error) {
	f, err := newField(a, &c.P)
	if err != nil {
		return nil, err
	}
	g := &Group{Curve: c, f: f}
	f.enter(&g.a, &c.A)
	g.g = g.toJacobian(&c.G)
	return g, nil
}

func (g *Group) ops() fieldOps { return fieldOps{f: g.f} }

func (g *Group) toJacobian(p *Point) jacobian {
	if p.Inf {
		return jacobian{X: g.f.one, Y: g.f.one}
	}
	var j jacobian
	g.f.enter(&j.X, &p.X)
	g.f.enter(&j.Y, &p.Y)
	j.Z = g.f.one
	return j
}

func (g *Group) toAffine(j *jacobian) (Point, error) {
	if j.Z.IsZero() {
		return Point{Inf: true}, nil
	}
	o := g.ops()
	var zi, zi2, zi3, x, y bignum.Int
	o.inv(&zi, &j.Z)
	o.sqr(&zi2, &zi)
	o.mul(&zi3, &zi2, &zi)
	o.mul(&x, &j.X, &zi2)
	o.mul(&y, &j.Y, &zi3)
	if o.err != nil {
		return Point{}, o.err
	}
	var p Point
	g.f.leave(&p.X, &x)
	g.f.leave(&p.Y, &y)
	return p, nil
}

// double is the general-a Jacobian doubling:
// S = 4XY^2, M = 3X^2 + aZ^4, X' = M^2 - 2S, Y' = M(S - X') - 8Y^4, Z' = 2YZ.
func (g *Group) double(p *jacobian) (jacobian, error) {
	if p.Z.IsZero() || p.Y.IsZero() {
		return jacobian{X: g.f.one, Y: g.f.one}, nil
	}
	o := g.ops()
	var r jacobian
	var xx, yy, yyyy, zz, s, m, t bignum.Int
	o.sqr(&xx, &p.X)
	o.sqr(&yy, &p.Y)
	o.sqr(&yyyy, &yy)
	o.sqr(&zz, &p.Z)

	o.mul(&s, &p.X, &yy)
	o.dbl(&s, &s)
	o.dbl(&s, &s)

	o.dbl(&m, &xx)
	o.add(&m, &m, &xx)
	if !g.a.IsZero() {
		o.sqr(&t, &zz)
		o.mul(&t, &t, &g.a)
		o.add(&m, &m, &t)
	}

	o.sqr(&r.X, &m)
	o.dbl(&t, &s)
	o.sub(&r.X, &r.X, &t)

	o.sub(&t, &s, &r.X)
	o.mul(&r.Y, &m, &t)
	o.dbl(&yyyy, &yyyy)
	o.dbl(&yyyy, &yyyy)
	o.dbl(&yyyy, &yyyy)
	o.sub(&r.Y, &r.Y, &yyyy)

	o.mul(&r.Z, &p.Y, &p.Z)
	o.dbl(&r.Z, &r.Z)
	return r, o.err
}

// add is the Jacobian addition with U1 = X1 Z2^2, U2 = X2 Z1^2,
// S1 = Y1 Z2^3, S2 = Y2 Z1^3, H = U2 - U1, R = S2 - S1.
func (g *Group) add(p, q *jacobian) (jacobian, error) {
	if p.Z.IsZero() {
		return *q, nil
	}
	if q.Z.IsZero() {
		return *p, nil
	}
	o := g.ops()
	var z1z1, z2z2, u1, u2, s1, s2, h, r bignum.Int
	o.sqr(&z1z1, &p.Z)
	o.sqr(&z2z2, &q.Z)
	o.mul(&u1, &p.X, &z2z2)
	o.mul(&u2, &q.X, &z1z1)
	o.mul(&s1, &p.Y, &q.Z)
	o.mul(&s1, &s1, &z2z2)
	o.mul(&s2, &q.Y, &p.Z)
	o.mul(&s2, &s2, &z1z1)
	o.sub(&h, &u2, &u1)
	o.sub(&r, &s2, &s1)
	if o.err != nil {
		return jacobian{}, o.err
	}
	if h.IsZero() {
		if r.IsZero() {
			return g.double(p)
		}
		return jacobian{X: g.f.one, Y: g.f.one}, nil
	}
	var res jacobian
	var hh, hhh, v, t bignum.Int
	o.sqr(&hh, &h)
	o.mul(&hhh, &h, &hh)
	o.mul(&v, &u1, &hh)

	o.sqr(&res.X, &r)
	o.sub(&res.X, &res.X, &hhh)
	o.dbl(&t, &v)
	o.sub(&res.X, &res.X, &t)

	o.sub(&t, &v, &res.X)
	o.mul(&res.Y, &r, &t)
	o.mul(&t, &s1, &hhh)
	o.sub(&res.Y, &res.Y, &t)

	o.mul(&res.Z, &p.Z, &q.Z)
	o.mul(&res.Z, &res.Z, &h)
	return res, o.err
}

// Add returns p + q.
func (g *Group) Add(p, q *Point) (Point, error) {
	jp, jq := g.toJacobian(p), g.toJacobian(q)
	r, err := g.add(&jp, &jq)
	if err != nil {
		return Point{}, err
	}
	return g.toAffine(&r)
}

// Double returns 2p.
func (g *Group) Double(p *Point) (Point, error) {
	jp := g.toJacobian(p)
	r, err := g.double(&jp)
	if err != nil {
		return Point{}, err
	}
	return g.toAffine(&r)
}

// Neg returns -p = (x, p - y).
func (g *Group) Neg(p *Point) Point {
	if p.Inf || p.Y.IsZero() {
		return *p
	}
	r := Point{X: p.X}
	r.Y.Sub(&g.P, &p.Y)
	return r
}

func (g *Group) scalarMult(p *jacobian, k *bignum.Int) (jacobian, error) {
	acc := jacobian{X: g.f.one, Y: g.f.one}
	var err error
	for i := k.BitLen() - 1; i >= 0; i-- {
		if acc, err = g.double(&acc); err != nil {
			return acc, err
		}
		if b, _ := k.Bit(i); b == 1 {
			if acc, err = g.add(&acc, p); err != nil {
				return acc, err
			}
		}
	}
	return acc, nil
}

// ScalarMult returns k*p by double-and-add. It is not constant time.
func (g *Group) ScalarMult(p *Point, k *bignum.Int) (Point, error) {
	jp := g.toJacobian(p)
	r, err := g.scalarMult(&jp, k)
	if err != nil {
		return Point{}, err
	}
	return g.toAffine(&r)
}

// ScalarBaseMult returns k*G.
func (g *Group) ScalarBaseMult(k *bignum.Int) (Point, error) {
	r, err := g.scalarMult(&g.g, k)
	if err != nil {
		return Point{}, err
	}
	return g.toAffine(&r)
}

// CombinedMult returns u1*G + u2*q with a single joint double-and-add pass
// (Shamir's trick).
func (g *Group) CombinedMult(q *Point, u1, u2 *bignum.Int) (Point, error) {
	jq := g.toJacobian(q)
	sum, err := g.add(&g.g, &jq)
	if err != nil {
		return Point{}, err
	}
	table := [4]*jacobian{nil, &g.g, &jq, &sum}
	acc := jacobian{X: g.f.one, Y: g.f.one}
	n := max(u1.BitLen(), u2.BitLen())
	for i := n - 1; i >= 0; i-- {
		if acc, err = g.double(&acc); err != nil {
			return Point{}, err
		}
		b1, _ := u1.Bit(i)
		b2, _ := u2.Bit(i)
		if idx := b1 | b2<<1; idx != 0 {
			if acc, err = g.add(&acc, table[idx]); err != nil {
				return Point{}, err
			}
		}
	}
	return g.toAffine(&acc)
}

// AffineX returns the x coordinate of p.
func (g *Group) AffineX(p *Point) (bignum.Int, error) {
	if p.Inf {
		return bignum.Int{}, ecsig.ErrInfinity
	}
	return p.X, nil
}
