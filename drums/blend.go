package drums

import (
	"math"

	"go-boom/debug"
	"go-boom/grid"
	"go-boom/seed"
	"go-boom/style"
)

func weight(w float64) float64 {
	if math.IsNaN(w) || w < 0 {
		return 0
	}
	if math.IsInf(w, 1) {
		return 1
	}
	return w
}

// Blend picks one of two styles with a single weighted coin flip and generates
// a groove for it. It selects, it does not interpolate the rule tables.
func Blend(a, b style.Spec, weightA, weightB float64, opts Options) (grid.Pattern, style.Spec) {
	wa, wb := weight(weightA), weight(weightB)
	if wa+wb <= 0 {
		wa, wb = 1, 1
	}

	s := seed.Resolve(opts.Seed)
	rng := seed.New(s)
	chosen := b
	if rng.Float64() < wa/(wa+wb) {
		chosen = a
	}
	opts.Seed = rng.Int64N(math.MaxInt32)

	debug.Log("blend", "%s %.2f / %s %.2f seed=%d -> %s", a.Name, wa, b.Name, wb, s, chosen.Name)
	return Generate(chosen, opts), chosen
}
