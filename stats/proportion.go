package stats

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// ZVal returns the two-tailed Z-value for a confidence given in percent.
func ZVal(confidence float64) float64 {
	dist := distuv.Normal{
		Mu:    0,
		Sigma: 1,
	}
	return dist.Quantile((1 + confidence/100) / 2)
}

// Proportion counts successes out of trials, e.g. winnable deals out of
// deals solved.
type Proportion struct {
	Successes int
	Trials    int
}

func (p *Proportion) Add(success bool) {
	p.Trials++
	if success {
		p.Successes++
	}
}

// Rate is Successes/Trials, or 0 with no trials.
func (p Proportion) Rate() float64 {
	if p.Trials == 0 {
		return 0
	}
	return float64(p.Successes) / float64(p.Trials)
}

// WilsonInterval returns the Wilson score interval for the rate. It stays
// inside [0, 1] even for rates near the edges or few trials.
func (p Proportion) WilsonInterval(confidence float64) (float64, float64) {
	if p.Trials == 0 {
		return 0, 1
	}
	z := ZVal(confidence)
	n := float64(p.Trials)
	phat := p.Rate()
	denom := 1 + z*z/n
	center := (phat + z*z/(2*n)) / denom
	half := z * math.Sqrt(phat*(1-phat)/n+z*z/(4*n*n)) / denom
	return math.Max(0, center-half), math.Min(1, center+half)
}
