package analysis

import (
	"math"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat/distuv"

	"gachasim/domain/core"
)

// DefaultAlpha is the significance level callers compare p-values against.
const DefaultAlpha = 0.05

// RateTestResult is the outcome of a one-sample two-sided t-test of
// observed per-run rates against a baseline rate.
type RateTestResult struct {
	TStatistic   float64
	PValue       float64
	ObservedMean float64
	SampleSize   int
	// ZeroVariance marks the degenerate case where every sample is
	// identical; the p-value is then 1.0 (mean equals baseline exactly)
	// or 0.0 (it does not) rather than NaN.
	ZeroVariance bool
}

// Significant reports whether the null hypothesis (true mean rate equals
// the baseline) is rejected at level alpha.
func (r RateTestResult) Significant(alpha float64) bool {
	return r.PValue < alpha
}

// TestRate performs a one-sample two-sided t-test of the sample mean
// against baselineRate, the item's nominal physical share (1 / number of
// item types). Fails with core.ErrInsufficientData given fewer than 2
// samples.
func TestRate(samples []float64, baselineRate float64) (RateTestResult, error) {
	if len(samples) < 2 {
		return RateTestResult{}, core.NewInsufficientDataError("rate test needs at least 2 samples")
	}

	mean, err := stats.Mean(samples)
	if err != nil {
		return RateTestResult{}, err
	}
	variance, err := stats.SampleVariance(samples)
	if err != nil {
		return RateTestResult{}, err
	}

	n := float64(len(samples))
	result := RateTestResult{ObservedMean: mean, SampleSize: len(samples)}

	if variance == 0 {
		result.ZeroVariance = true
		if mean == baselineRate {
			result.TStatistic = 0
			result.PValue = 1.0
		} else {
			result.TStatistic = math.Inf(sign(mean - baselineRate))
			result.PValue = 0
		}
		return result, nil
	}

	result.TStatistic = (mean - baselineRate) / math.Sqrt(variance/n)
	result.PValue = studentPValue(result.TStatistic, len(samples)-1)
	return result, nil
}

// studentPValue computes the exact two-tailed p-value from Student's
// t-distribution.
func studentPValue(tStatistic float64, degreesOfFreedom int) float64 {
	if degreesOfFreedom <= 0 {
		return 1.0
	}
	tDist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: float64(degreesOfFreedom)}
	return 2 * (1 - tDist.CDF(math.Abs(tStatistic)))
}

func sign(x float64) int {
	if x < 0 {
		return -1
	}
	return 1
}
