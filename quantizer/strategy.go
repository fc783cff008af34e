package quantizer

import (
	"fmt"
	"math"

	"github.com/JMMackenzie/lssy"
)

// Strategy selects one of the four bin-construction algorithms. The
// numeric values match the bintype CLI argument (1-4).
type Strategy int

// The four supported strategies, in CLI bintype order.
const (
	FD  Strategy = 1 // Fixed Domain: equal count per bin.
	FR  Strategy = 2 // Fixed Range: equal width per bin.
	GD  Strategy = 3 // Geometric Domain: symmetric geometric bin sizes.
	CFR Strategy = 4 // Central Fixed Range: singleton tails + FR middle.
)

// String returns the strategy's short label, as reported by the
// reference implementation's diagnostics.
func (s Strategy) String() string {
	switch s {
	case FD:
		return "FD"
	case FR:
		return "FR"
	case GD:
		return "GD"
	case CFR:
		return "CFR"
	default:
		return fmt.Sprintf("Strategy(%d)", int(s))
	}
}

// ParseStrategy maps the CLI bintype argument to a Strategy.
func ParseStrategy(bintype int) (Strategy, error) {
	s := Strategy(bintype)
	switch s {
	case FD, FR, GD, CFR:
		return s, nil
	default:
		return 0, fmt.Errorf("%w: bintype must be 1 (FD), 2 (FR), 3 (GD) or 4 (CFR), got %d",
			lssy.ErrArgument, bintype)
	}
}

// eps guards against the extreme values of F falling exactly on a bin
// boundary; it is applied only to doubles during the Fixed Range and
// Geometric Domain derivations.
const eps = 1e-10

// buildFrequencies dispatches to the strategy's bin-count builder,
// filling c[0..numBins) with the per-bin frequency counts. Sum(c) == len(f)
// always holds; callers derive U and S from c afterward.
func buildFrequencies(s Strategy, c []uint64, f []float32) error {
	switch s {
	case FD:
		fixedDomain(c, f)
	case FR:
		fixedRange(c, f)
	case GD:
		geometricDomain(c, f)
	case CFR:
		centralFixedRange(c, f)
	default:
		return fmt.Errorf("%w: unknown strategy %d", lssy.ErrArgument, int(s))
	}

	return nil
}

// fixedDomain assigns an equal count of values to every bin, splitting
// the remainder symmetrically into the one or two middle bins.
func fixedDomain(c []uint64, f []float32) {
	numBins := len(c)
	nF := uint64(len(f))
	step := nF / uint64(numBins)

	var soFar uint64

	half := (numBins - 1) / 2
	for i := 0; i < half; i++ {
		c[i] = step
		c[numBins-i-1] = step
		soFar += 2 * step
	}

	splitMiddle(c, numBins, nF-soFar)
}

// splitMiddle distributes the leftover count into the one or two middle
// bins of a symmetric strategy (FD, GD): evenly when num_bins is even
// (lower half gets the floor), into the single center bin otherwise.
func splitMiddle(c []uint64, numBins int, remaining uint64) {
	if numBins%2 == 0 {
		c[numBins/2-1] = remaining / 2
		c[numBins/2] = remaining - c[numBins/2-1]
	} else {
		c[numBins/2] = remaining
	}
}

// fixedRange assigns equal-width slices of the value range to each bin,
// walking F once. lo = F[0]-eps, hi = F[N-1]+eps guarantee the extreme
// values are strictly interior to their bins.
func fixedRange(c []uint64, f []float32) {
	numBins := len(c)
	nF := len(f)

	if nF == 0 {
		return
	}

	lo := float64(f[0]) - eps
	hi := float64(f[nF-1]) + eps
	width := (hi - lo) / float64(numBins)

	iF := 0

	for i := 0; i < numBins; i++ {
		boundary := lo + float64(i+1)*width
		for iF < nF && float64(f[iF]) < boundary {
			iF++
			c[i]++
		}
	}
}

// geometricDomain fits a symmetric geometric progression of bin sizes:
// BIN1 at each end, growing inward by ratio r, with r found by
// bisection so the two halves together cover N values.
func geometricDomain(c []uint64, f []float32) {
	const bin1 = 1

	numBins := len(c)
	nF := float64(len(f))

	r := geometricRatio(bin1, numBins, nF)

	c[0] = bin1
	c[numBins-1] = bin1

	this := float64(bin1)
	soFar := uint64(2 * bin1)

	half := (numBins - 1) / 2
	for i := 1; i < half; i++ {
		this *= r
		c[i] = uint64(this)
		c[numBins-i-1] = uint64(this)
		soFar += 2 * uint64(this)
	}

	splitMiddle(c, numBins, uint64(nF)-soFar)
}

// geometricRatio solves BIN1*(r^(numBins/2) - 1)/(r-1) = N/2 for r by
// bisection on [1+eps, 1000], converging when the interval width drops
// below eps.
func geometricRatio(bin1 float64, numBins int, nF float64) float64 {
	lo := 1.00000001
	hi := 1000.0

	half := float64(numBins) / 2.0
	target := nF / 2.0

	var r float64

	for hi-lo >= eps {
		r = (lo + hi) / 2
		fmid := bin1 * (math.Pow(r, half) - 1) / (r - 1)

		if fmid < target {
			lo = r
		} else {
			hi = r
		}
	}

	return r
}

// centralFixedRange carves off num_bins/4 singleton bins from each end
// (exact capture of the extreme tails) and applies Fixed Range to the
// remaining middle slice.
func centralFixedRange(c []uint64, f []float32) {
	numBins := len(c)
	singles := numBins / 4

	for i := 0; i < singles; i++ {
		c[i] = 1
		c[numBins-i-1] = 1
	}

	fixedRange(c[singles:numBins-singles], f[singles:len(f)-singles])
}
