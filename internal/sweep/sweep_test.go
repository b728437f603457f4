package sweep

import (
	"context"
	"errors"
	"sync"
	"testing"

	"grid-sim-go/internal/config"
	"grid-sim-go/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// mockSink 记录收到的结果
type mockSink struct {
	sync.Mutex
	recorded []string
	err      error
}

func (m *mockSink) Record(o Outcome) error {
	m.Lock()
	defer m.Unlock()
	m.recorded = append(m.recorded, o.Job.ID)
	return m.err
}

func (m *mockSink) ids() []string {
	m.Lock()
	defer m.Unlock()
	return append([]string(nil), m.recorded...)
}

func smallConfig() models.Config {
	cfg := config.Default()
	cfg.Market.Steps = 200
	return *cfg
}

func TestExpandCartesianProduct(t *testing.T) {
	base := smallConfig()
	jobs := Expand(base, models.SweepConfig{
		GridCounts:   []int{10, 20},
		Volatilities: []float64{0.005, 0.01, 0.02},
		Repetitions:  2,
	}, 100)

	require.Len(t, jobs, 12)
	seen := make(map[string]bool)
	for i, job := range jobs {
		assert.Equal(t, i, job.Index)
		assert.Equal(t, int64(100+i), job.Seed)
		assert.False(t, seen[job.ID], "duplicate job id %s", job.ID)
		seen[job.ID] = true
	}
	assert.Equal(t, 10, jobs[0].Grid.Grids)
	assert.Equal(t, 0.005, jobs[0].Market.Volatility)
	assert.Equal(t, 20, jobs[11].Grid.Grids)
	assert.Equal(t, 0.02, jobs[11].Market.Volatility)

	// 基础配置不被修改
	assert.Equal(t, 20, base.Grid.Grids)
}

func TestExpandFallsBackToBase(t *testing.T) {
	base := smallConfig()
	jobs := Expand(base, models.SweepConfig{}, 1)
	require.Len(t, jobs, 1)
	assert.Equal(t, base.Grid.Grids, jobs[0].Grid.Grids)
	assert.Equal(t, base.Market.Volatility, jobs[0].Market.Volatility)
}

func TestRunReturnsOutcomesInJobOrder(t *testing.T) {
	jobs := Expand(smallConfig(), models.SweepConfig{GridCounts: []int{8, 16, 32}, Repetitions: 3}, 5)
	sink := &mockSink{}
	runner := NewRunner(4, sink, zap.NewNop())

	outcomes := runner.Run(context.Background(), jobs)

	require.Len(t, outcomes, len(jobs))
	for i, o := range outcomes {
		require.NoError(t, o.Err)
		assert.Equal(t, jobs[i].ID, o.Job.ID)
		require.NotNil(t, o.Result)
		assert.Equal(t, jobs[i].Seed, o.Result.Seed)
		assert.Len(t, o.Result.GridLevels, jobs[i].Grid.Grids+1)
	}
	assert.ElementsMatch(t, idsOf(jobs), sink.ids())
}

func TestParallelMatchesSequential(t *testing.T) {
	jobs := Expand(smallConfig(), models.SweepConfig{Volatilities: []float64{0.004, 0.012}, Repetitions: 2}, 9)

	parallel := NewRunner(3, nil, nil).Run(context.Background(), jobs)
	sequential := NewRunner(1, nil, nil).Run(context.Background(), jobs)

	for i := range jobs {
		require.NoError(t, parallel[i].Err)
		assert.Equal(t, sequential[i].Result.Metrics, parallel[i].Result.Metrics)
		assert.Equal(t, sequential[i].Result.Trades, parallel[i].Result.Trades)
	}
}

func TestRunWrapsJobErrors(t *testing.T) {
	boom := errors.New("boom")
	runner := NewRunner(2, &mockSink{err: errors.New("sink down")}, zap.NewNop())
	runner.run = func(job Job, _ *zap.Logger) (*models.SimulationResult, error) {
		if job.Index == 1 {
			return nil, boom
		}
		return &models.SimulationResult{Seed: job.Seed}, nil
	}

	outcomes := runner.Run(context.Background(), Expand(smallConfig(), models.SweepConfig{Repetitions: 3}, 0))

	assert.NoError(t, outcomes[0].Err)
	assert.ErrorIs(t, outcomes[1].Err, boom)
	assert.Contains(t, outcomes[1].Err.Error(), outcomes[1].Job.ID)
	assert.NoError(t, outcomes[2].Err)

	rows := Rows(outcomes)
	require.Len(t, rows, 3)
	assert.ErrorIs(t, rows[1].Err, boom)
}

func TestCancelledContextSkipsJobs(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var calls int
	var mu sync.Mutex
	runner := NewRunner(2, nil, zap.NewNop())
	runner.run = func(job Job, _ *zap.Logger) (*models.SimulationResult, error) {
		mu.Lock()
		calls++
		mu.Unlock()
		return &models.SimulationResult{}, nil
	}

	outcomes := runner.Run(ctx, Expand(smallConfig(), models.SweepConfig{Repetitions: 4}, 0))

	require.Len(t, outcomes, 4)
	for _, o := range outcomes {
		assert.ErrorIs(t, o.Err, context.Canceled)
	}
	assert.Zero(t, calls)
}

func idsOf(jobs []Job) []string {
	ids := make([]string, len(jobs))
	for i, j := range jobs {
		ids[i] = j.ID
	}
	return ids
}

func TestExpandSkipsZeroSeed(t *testing.T) {
	jobs := Expand(smallConfig(), models.SweepConfig{Repetitions: 4}, -2)

	seeds := make([]int64, len(jobs))
	for i, j := range jobs {
		seeds[i] = j.Seed
	}
	assert.Equal(t, []int64{-2, -1, 1, 2}, seeds)
}

func TestNegativeSeedSweepIsReproducible(t *testing.T) {
	jobs := Expand(smallConfig(), models.SweepConfig{Repetitions: 3}, -1)

	first := NewRunner(2, nil, nil).Run(context.Background(), jobs)
	second := NewRunner(2, nil, nil).Run(context.Background(), jobs)

	rows := Rows(first)
	for i := range jobs {
		require.NoError(t, first[i].Err)
		assert.NotZero(t, rows[i].Seed)
		assert.Equal(t, first[i].Result.Seed, rows[i].Seed)
		assert.Equal(t, first[i].Result.PricePath, second[i].Result.PricePath)
	}
}
