package report

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gachasim/adapters/rng"
	"gachasim/app"
	"gachasim/domain/customer"
	"gachasim/internal/config"
	"gachasim/internal/logging"
)

func sampleReport(t *testing.T) *app.RunReport {
	t.Helper()
	cfg := &config.Config{
		Items:           []string{"Cat Keychain", "Rare Gold Cat"},
		CapsulesPerItem: 10,
		ItemDesire:      map[string]float64{"Rare Gold Cat": 1.0},
		Patience: map[string]map[int]float64{
			customer.DefaultPatienceKey: {2: 1.0},
		},
		Lifetimes:  20,
		Thresholds: []float64{1.0, 0.5, 0},
		Seed:       3,
		Workers:    1,
		Tests: []config.RateTest{
			{Threshold: 0.5, Item: "Rare Gold Cat"},
		},
	}
	require.NoError(t, cfg.Validate())

	service := app.NewSimulationService(logging.NewLogger(logging.LogLevelError), rng.NewSeeded(cfg.Seed))
	report, err := service.Run(context.Background(), cfg)
	require.NoError(t, err)
	return report
}

func TestRenderText(t *testing.T) {
	report := sampleReport(t)

	var buf bytes.Buffer
	require.NoError(t, RenderText(&buf, report))
	out := buf.String()

	assert.Contains(t, out, "GACHAPON DEPLETION ANALYSIS (20 LIFETIMES)")
	assert.Contains(t, out, "Machine State at Depletion Snapshots")
	assert.Contains(t, out, "When machine is ~100% FULL")
	assert.Contains(t, out, "When machine is ~0% FULL")
	assert.Contains(t, out, "Cat Keychain")
	assert.Contains(t, out, "Rare Gold Cat")
	assert.Contains(t, out, "Statistical Significance Analysis")
	assert.Contains(t, out, `Hypothesis Test for "Rare Gold Cat" at 50% Fullness`)
	assert.Contains(t, out, "p-value")
	assert.Contains(t, out, "null hypothesis")
	assert.Contains(t, out, "END OF REPORT")
}

func TestRenderText_InsufficientDataTest(t *testing.T) {
	report := sampleReport(t)
	report.Tests[0].Err = assert.AnError

	var buf bytes.Buffer
	require.NoError(t, RenderText(&buf, report))
	assert.Contains(t, buf.String(), "Not enough data to perform significance test.")
}

func TestWriteWorkbook(t *testing.T) {
	report := sampleReport(t)
	path := filepath.Join(t.TempDir(), "report.xlsx")

	require.NoError(t, WriteWorkbook(report, path))
	assert.FileExists(t, path)
}
