package dexmath

import (
	"math/big"
	"sync"
)

// BpsDenominator is the number of basis points in one whole.
const BpsDenominator = 10000

var (
	bpsDen = big.NewInt(BpsDenominator)

	// Gas limit headroom applied to node estimates: 3/2.
	gasMul = big.NewInt(3)
	gasDen = big.NewInt(2)

	defaultMath = newMathService()
)

type mathTmp struct {
	a *big.Int
	b *big.Int
}

type mathService struct {
	pool *sync.Pool
}

func newMathService() *mathService {
	return &mathService{
		pool: &sync.Pool{
			New: func() any {
				return &mathTmp{
					a: new(big.Int),
					b: new(big.Int),
				}
			},
		},
	}
}

// mulDivInto sets out = x * num / den, truncated toward zero.
func (m *mathService) mulDivInto(out, x, num, den *big.Int) bool {
	if out == nil || den.Sign() == 0 {
		return false
	}

	t := m.pool.Get().(*mathTmp)
	t.a.Mul(x, num)
	out.Quo(t.a, den)
	m.pool.Put(t)
	return true
}

func (m *mathService) minAmountOutInto(out, amount *big.Int, slippageBps int64) bool {
	if out == nil || amount.Sign() < 0 || slippageBps < 0 || slippageBps >= BpsDenominator {
		return false
	}

	t := m.pool.Get().(*mathTmp)
	// keep := 10000 - bps.
	t.b.SetInt64(BpsDenominator - slippageBps)
	t.a.Mul(amount, t.b)
	out.Quo(t.a, bpsDen)
	m.pool.Put(t)
	return true
}

// MinAmountOut returns floor(amount * (10000 - slippageBps) / 10000), or
// false when amount is negative or slippageBps is outside [0, 10000).
func MinAmountOut(amount *big.Int, slippageBps int64) (*big.Int, bool) {
	out := new(big.Int)
	ok := defaultMath.minAmountOutInto(out, amount, slippageBps)
	return out, ok
}

// Quote returns the amount of token B equivalent to amountA at the reserve
// ratio of a constant product pool: amountA * reserveB / reserveA.
//
// Returns (0, false) if any value is zero.
func Quote(amountA, reserveA, reserveB *big.Int) (*big.Int, bool) {
	out := new(big.Int)
	if amountA.Sign() <= 0 || reserveA.Sign() <= 0 || reserveB.Sign() <= 0 {
		return out, false
	}
	ok := defaultMath.mulDivInto(out, amountA, reserveB, reserveA)
	return out, ok
}

// PadGasLimit returns the node estimate scaled by 3/2.
func PadGasLimit(estimate *big.Int) *big.Int {
	out := new(big.Int)
	defaultMath.mulDivInto(out, estimate, gasMul, gasDen)
	return out
}
