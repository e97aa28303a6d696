//go:build gmp

package factorial

import (
	"math/big"

	"github.com/ncw/gmp"
)

const bigBackend = "GMP"

// bigProduct is a running arbitrary-precision product backed by libgmp.
// Build with -tags gmp; requires cgo and libgmp.
type bigProduct struct {
	v      *gmp.Int
	factor *gmp.Int
}

func newBigProduct() *bigProduct {
	return &bigProduct{v: gmp.NewInt(1), factor: new(gmp.Int)}
}

// MulUint64 multiplies the product by x.
func (p *bigProduct) MulUint64(x uint64) {
	p.factor.SetUint64(x)
	p.v.Mul(p.v, p.factor)
}

// Mul multiplies the product by q.
func (p *bigProduct) Mul(q *bigProduct) {
	p.v.Mul(p.v, q.v)
}

// BitLen returns the bit length of the product.
func (p *bigProduct) BitLen() int { return p.v.BitLen() }

// Big converts the product to a *big.Int.
func (p *bigProduct) Big() *big.Int {
	z, _ := new(big.Int).SetString(p.v.String(), 10)
	return z
}
