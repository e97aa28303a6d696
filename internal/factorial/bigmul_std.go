//go:build !gmp

package factorial

import "math/big"

const bigBackend = "math/big"

// bigProduct is a running arbitrary-precision product backed by math/big.
type bigProduct struct {
	v      big.Int
	factor big.Int
}

func newBigProduct() *bigProduct {
	p := &bigProduct{}
	p.v.SetInt64(1)
	return p
}

// MulUint64 multiplies the product by x.
func (p *bigProduct) MulUint64(x uint64) {
	p.factor.SetUint64(x)
	p.v.Mul(&p.v, &p.factor)
}

// Mul multiplies the product by q.
func (p *bigProduct) Mul(q *bigProduct) {
	p.v.Mul(&p.v, &q.v)
}

// BitLen returns the bit length of the product.
func (p *bigProduct) BitLen() int { return p.v.BitLen() }

// Big returns the product as a *big.Int.
func (p *bigProduct) Big() *big.Int { return new(big.Int).Set(&p.v) }
