package selector

import "math"

// lcg is a 31-bit linear congruential generator. Each Shuffle call owns its
// own instance so two shuffles can never interleave draws.
//
// The step is computed in float64 and reduced modulo 2^32 before masking,
// which reproduces the sequence of the browser client: once the product
// exceeds 2^53 its low bits are rounded away, so plain integer arithmetic
// would diverge after the first draw.
type lcg struct{ state float64 }

const (
	lcgMul  = 1103515245
	lcgInc  = 12345
	lcgMask = 0x7fffffff
)

func newLCG(seed int64) *lcg { return &lcg{state: float64(uint64(seed) & lcgMask)} }

// next returns a value in [0, 1].
func (g *lcg) next() float64 {
	// The explicit conversion forbids a fused multiply-add.
	p := float64(g.state * lcgMul)
	v := math.Mod(p+lcgInc, 1<<32)
	g.state = float64(uint64(v) & lcgMask)
	return g.state / lcgMask
}

// Shuffle returns a seeded Fisher-Yates permutation of list. The same seed
// always yields the same permutation; list itself is left untouched.
func Shuffle[T any](list []T, seed int64) []T {
	out := make([]T, len(list))
	copy(out, list)
	rng := newLCG(seed)
	for i := len(out) - 1; i > 0; i-- {
		j := min(int(rng.next()*float64(i+1)), i)
		out[i], out[j] = out[j], out[i]
	}
	return out
}
