package app

import (
	"context"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"gachasim/domain/machine"
	"gachasim/domain/run"
	"gachasim/internal/aggregate"
	"gachasim/internal/analysis"
	"gachasim/internal/config"
	"gachasim/internal/errors"
	"gachasim/internal/logging"
	"gachasim/internal/sim"
	"gachasim/ports"
)

// ProgressFunc is invoked as lifetimes complete. done counts finished
// lifetimes, total is the configured run count.
type ProgressFunc func(done, total int)

// TestOutcome pairs one configured significance test with its result.
// Err carries the recoverable insufficient-data case; the run as a whole
// still succeeds.
type TestOutcome struct {
	Threshold run.ThresholdLabel
	Item      machine.Item
	Result    analysis.RateTestResult
	Err       error
}

// RunReport is the complete output of a simulation run, handed to the
// report renderer.
type RunReport struct {
	Summary  *aggregate.Summary
	Baseline float64
	Alpha    float64
	Tests    []TestOutcome
	Elapsed  time.Duration
}

// SimulationService orchestrates a full run: many independent machine
// lifetimes folded into one aggregate, finalized, then significance-tested.
// Lifetimes are computationally independent, so they execute in parallel;
// the aggregator is the sole serialization point and is fed under a mutex.
type SimulationService struct {
	logger   *logging.Logger
	rng      ports.RNGPort
	progress ProgressFunc
	// progressEvery throttles progress callbacks; reported every N
	// completed lifetimes.
	progressEvery int
}

// NewSimulationService creates a simulation service.
func NewSimulationService(logger *logging.Logger, rng ports.RNGPort) *SimulationService {
	return &SimulationService{logger: logger, rng: rng, progressEvery: 500}
}

// WithProgress registers a progress callback.
func (s *SimulationService) WithProgress(fn ProgressFunc) *SimulationService {
	s.progress = fn
	return s
}

// Run executes cfg.Lifetimes machine lifetimes and returns the finalized
// report. cfg must already be validated.
func (s *SimulationService) Run(ctx context.Context, cfg *config.Config) (*RunReport, error) {
	started := time.Now()

	behavior, err := cfg.BehaviorModel()
	if err != nil {
		return nil, err
	}
	items := cfg.ItemList()
	thresholds := run.BuildThresholds(cfg.Thresholds, cfg.TotalCapsules())
	simulator := sim.NewLifetimeSimulator(behavior, thresholds)
	aggregator := aggregate.New(items, run.Labels(thresholds))

	workers := cfg.Workers
	if workers == 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	s.logger.Info("running %d lifetimes (%d items, %d capsules, %d workers, seed %d)",
		cfg.Lifetimes, len(items), cfg.TotalCapsules(), workers, cfg.Seed)

	var (
		mu   sync.Mutex
		done atomic.Int64
	)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i := 0; i < cfg.Lifetimes; i++ {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			inv := machine.NewInventory(items, cfg.CapsulesPerItem)
			result, err := simulator.Run(s.rng.LifetimeStream(i), inv)
			if err != nil {
				return errors.SimulationFailed(err)
			}
			s.logger.Debug("lifetime %d: %d sessions, run %s", i, len(result.Outcomes), result.RunID)

			mu.Lock()
			aggregator.AddResult(result)
			mu.Unlock()

			n := int(done.Add(1))
			if s.progress != nil && (n%s.progressEvery == 0 || n == cfg.Lifetimes) {
				s.progress(n, cfg.Lifetimes)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	summary, err := aggregator.Finalize(cfg.Lifetimes)
	if err != nil {
		return nil, err
	}

	report := &RunReport{
		Summary:  summary,
		Baseline: cfg.BaselineRate(),
		Alpha:    analysis.DefaultAlpha,
		Elapsed:  time.Since(started),
	}
	for _, t := range cfg.Tests {
		label := labelFor(thresholds, t.Threshold)
		item := machine.Item(t.Item)
		outcome := TestOutcome{Threshold: label, Item: item}
		outcome.Result, outcome.Err = analysis.TestRate(summary.SamplesFor(label, item), cfg.BaselineRate())
		if outcome.Err != nil {
			s.logger.Warn("rate test %s/%s: %v", label, item, outcome.Err)
		}
		report.Tests = append(report.Tests, outcome)
	}

	s.logger.Info("completed %d lifetimes in %s", cfg.Lifetimes, report.Elapsed)
	return report, nil
}

func labelFor(thresholds []run.Threshold, fraction float64) run.ThresholdLabel {
	for _, t := range thresholds {
		if t.Fraction == fraction {
			return t.Label
		}
	}
	return ""
}
