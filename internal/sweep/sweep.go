// Package sweep runs many independent simulations on a worker pool.
package sweep

import (
	"context"
	"fmt"
	"sync"

	"grid-sim-go/internal/engine"
	"grid-sim-go/internal/models"
	"grid-sim-go/internal/reporter"

	"go.uber.org/zap"
)

// Job is one simulation of a sweep. Each job owns a copy of its configs and its own seed.
type Job struct {
	Index  int
	ID     string
	Market models.MarketConfig
	Grid   models.GridConfig
	Seed   int64
}

// Outcome pairs a job with its result or error.
type Outcome struct {
	Job    Job
	Result *models.SimulationResult
	Err    error
}

// Sink receives outcomes as they complete. Calls are serialised.
type Sink interface {
	Record(Outcome) error
}

// RunFunc executes a single job.
type RunFunc func(job Job, logger *zap.Logger) (*models.SimulationResult, error)

// Runner fans jobs out to a fixed number of workers.
type Runner struct {
	workers int
	run     RunFunc
	sink    Sink
	logger  *zap.Logger
}

// NewRunner creates a Runner. workers < 1 falls back to a single worker; sink may be nil.
func NewRunner(workers int, sink Sink, logger *zap.Logger) *Runner {
	if workers < 1 {
		workers = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{
		workers: workers,
		run:     runEngine,
		sink:    sink,
		logger:  logger,
	}
}

func runEngine(job Job, logger *zap.Logger) (*models.SimulationResult, error) {
	return engine.Run(job.Market, job.Grid, engine.WithSeed(job.Seed), engine.WithLogger(logger))
}

// Run executes jobs and returns their outcomes in job order.
// Cancelling ctx stops dispatching; jobs already started run to completion and
// undispatched jobs report ctx.Err().
func (r *Runner) Run(ctx context.Context, jobs []Job) []Outcome {
	outcomes := make([]Outcome, len(jobs))
	jobChan := make(chan int)
	resultChan := make(chan Outcome, r.workers)

	var wg sync.WaitGroup
	for w := 0; w < r.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobChan {
				job := jobs[i]
				result, err := r.run(job, r.logger.With(zap.String("job", job.ID)))
				if err != nil {
					err = fmt.Errorf("job %s: %w", job.ID, err)
				}
				outcomes[i] = Outcome{Job: job, Result: result, Err: err}
				resultChan <- outcomes[i]
			}
		}()
	}

	sinkDone := make(chan struct{})
	go r.sinkLoop(resultChan, sinkDone)

	dispatched := 0
dispatch:
	for i := range jobs {
		if ctx.Err() != nil {
			break
		}
		select {
		case <-ctx.Done():
			break dispatch
		case jobChan <- i:
			dispatched++
		}
	}
	close(jobChan)
	wg.Wait()
	close(resultChan)
	<-sinkDone

	for i := dispatched; i < len(jobs); i++ {
		outcomes[i] = Outcome{Job: jobs[i], Err: ctx.Err()}
	}
	if dispatched < len(jobs) {
		r.logger.Sugar().Warnf("扫描被取消, %d/%d 个任务未执行", len(jobs)-dispatched, len(jobs))
	}
	return outcomes
}

// sinkLoop 串行地把结果交给 sink
func (r *Runner) sinkLoop(results <-chan Outcome, done chan<- struct{}) {
	defer close(done)
	for outcome := range results {
		if r.sink == nil {
			continue
		}
		if err := r.sink.Record(outcome); err != nil {
			r.logger.Sugar().Errorf("Failed to record outcome of job %s: %v", outcome.Job.ID, err)
		}
	}
}

// Expand builds the cartesian product grid counts x volatilities x repetitions over base.
// Empty dimensions fall back to the base value. Seeds count up from baseSeed and skip 0,
// which would otherwise select a time-based seed.
func Expand(base models.Config, sc models.SweepConfig, baseSeed int64) []Job {
	gridCounts := sc.GridCounts
	if len(gridCounts) == 0 {
		gridCounts = []int{base.Grid.Grids}
	}
	vols := sc.Volatilities
	if len(vols) == 0 {
		vols = []float64{base.Market.Volatility}
	}
	reps := sc.Repetitions
	if reps < 1 {
		reps = 1
	}

	jobs := make([]Job, 0, len(gridCounts)*len(vols)*reps)
	seed := baseSeed
	for _, g := range gridCounts {
		for _, v := range vols {
			for rep := 0; rep < reps; rep++ {
				market := base.Market
				market.Volatility = v
				gridCfg := base.Grid
				gridCfg.Grids = g

				if seed == 0 {
					seed++
				}
				jobs = append(jobs, Job{
					Index:  len(jobs),
					ID:     fmt.Sprintf("g%d-v%g-r%d", g, v, rep),
					Market: market,
					Grid:   gridCfg,
					Seed:   seed,
				})
				seed++
			}
		}
	}
	return jobs
}

// Rows converts outcomes into report rows.
func Rows(outcomes []Outcome) []reporter.SweepRow {
	rows := make([]reporter.SweepRow, len(outcomes))
	for i, o := range outcomes {
		rows[i] = reporter.SweepRow{
			JobID:      o.Job.ID,
			Grids:      o.Job.Grid.Grids,
			Volatility: o.Job.Market.Volatility,
			Seed:       o.Job.Seed,
			Err:        o.Err,
		}
		if o.Result != nil {
			// 以实际运行使用的种子为准
			rows[i].Seed = o.Result.Seed
			rows[i].Metrics = o.Result.Metrics
		}
	}
	return rows
}
