package run

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildThresholds(t *testing.T) {
	thresholds := BuildThresholds([]float64{0.25, 1.0, 0, 0.75, 0.50}, 250)

	assert.Equal(t, []Threshold{
		{Label: "100%", Fraction: 1.0, Capsules: 250},
		{Label: "75%", Fraction: 0.75, Capsules: 187},
		{Label: "50%", Fraction: 0.50, Capsules: 125},
		{Label: "25%", Fraction: 0.25, Capsules: 62},
		{Label: "0%", Fraction: 0, Capsules: 0},
	}, thresholds)
}

func TestBuildThresholds_OrderedFullestFirst(t *testing.T) {
	thresholds := BuildThresholds([]float64{0.1, 0.9, 0.5}, 100)

	for i := 1; i < len(thresholds); i++ {
		assert.Greater(t, thresholds[i-1].Capsules, thresholds[i].Capsules)
	}
}

func TestLabels(t *testing.T) {
	thresholds := BuildThresholds([]float64{1.0, 0.5}, 50)
	assert.Equal(t, []ThresholdLabel{"100%", "50%"}, Labels(thresholds))
}
