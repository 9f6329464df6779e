package engine_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MarkTee/Psych403-FinalProject/engine"
)

// fakePresenter drives the runner without a window. In echo mode it answers
// every prompt with the count it was just shown; otherwise it replays the
// scripted digits and reaction times.
type fakePresenter struct {
	echo   bool
	digits []int
	rts    []time.Duration

	shown   []int // circle count of each stimulus, in order
	prompts int
	abortOn int // 1-based prompt index that aborts, 0 = never
}

func (f *fakePresenter) ShowMessage(string, time.Duration) error { return nil }
func (f *fakePresenter) WaitKey() error                          { return nil }
func (f *fakePresenter) ShowFixation(time.Duration) error        { return nil }

func (f *fakePresenter) ShowCircles(points []engine.Point, _ time.Duration) error {
	f.shown = append(f.shown, len(points))
	return nil
}

func (f *fakePresenter) PromptDigit(string) (int, time.Duration, error) {
	f.prompts++
	if f.abortOn > 0 && f.prompts == f.abortOn {
		return 0, 0, engine.ErrAborted
	}
	if f.echo {
		return engine.EncodeCount(f.shown[len(f.shown)-1]), 500 * time.Millisecond, nil
	}
	i := f.prompts - 1
	return f.digits[i], f.rts[i], nil
}

func testConfig() *engine.Config {
	cfg := engine.DefaultConfig()
	cfg.Seed = 42
	return cfg
}

func TestRunProducesOneRecordPerTrial(t *testing.T) {
	cfg := testConfig()
	pres := &fakePresenter{echo: true}

	records, err := engine.NewRunner(cfg, pres).Run()
	require.NoError(t, err)
	require.Len(t, records, cfg.Blocks*cfg.TrialsPerBlock)

	seen := map[[2]int]bool{}
	for i, rec := range records {
		pair := [2]int{rec.Block, rec.Trial}
		assert.False(t, seen[pair], "duplicate block/trial pair %v", pair)
		seen[pair] = true

		assert.GreaterOrEqual(t, rec.Block, 1)
		assert.LessOrEqual(t, rec.Block, cfg.Blocks)
		assert.GreaterOrEqual(t, rec.Trial, 1)
		assert.LessOrEqual(t, rec.Trial, cfg.TrialsPerBlock)
		assert.GreaterOrEqual(t, rec.CorrectCount, 1)
		assert.LessOrEqual(t, rec.CorrectCount, cfg.MaxCircles)
		assert.GreaterOrEqual(t, rec.ResponseCount, 1)
		assert.LessOrEqual(t, rec.ResponseCount, 10)
		assert.GreaterOrEqual(t, rec.ResponseTime, time.Duration(0))
		assert.Equal(t, rec.CorrectCount == rec.ResponseCount, rec.Correct)

		// The echo presenter always answers with the shown count.
		assert.True(t, rec.Correct, "record %d should be correct", i)
		assert.Equal(t, pres.shown[i], rec.CorrectCount)
	}
}

func TestRunScenarioTwoTrials(t *testing.T) {
	cfg := testConfig()
	cfg.Blocks = 1
	cfg.TrialsPerBlock = 2
	pres := &fakePresenter{
		digits: []int{3, 0},
		rts:    []time.Duration{800 * time.Millisecond, 1500 * time.Millisecond},
	}

	runner := engine.NewRunner(cfg, pres, engine.WithConditions(func(int) []int {
		return []int{3, 10}
	}))
	records, err := runner.Run()
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, engine.TrialRecord{
		Block: 1, Trial: 1,
		CorrectCount: 3, ResponseCount: 3, Correct: true,
		ResponseTime: 800 * time.Millisecond,
	}, records[0])
	assert.Equal(t, engine.TrialRecord{
		Block: 1, Trial: 2,
		CorrectCount: 10, ResponseCount: 10, Correct: true,
		ResponseTime: 1500 * time.Millisecond,
	}, records[1])

	summary := engine.Summarize(records)
	assert.Equal(t, 100.0, summary.Accuracy())
	assert.Equal(t, 1150*time.Millisecond, summary.MeanRT)
}

func TestRunBalancedBlocks(t *testing.T) {
	cfg := testConfig()
	cfg.Balanced = true
	pres := &fakePresenter{echo: true}

	records, err := engine.NewRunner(cfg, pres).Run()
	require.NoError(t, err)

	// Each block must show every count 1..10 exactly once.
	for block := 1; block <= cfg.Blocks; block++ {
		counts := map[int]int{}
		for _, rec := range records {
			if rec.Block == block {
				counts[rec.CorrectCount]++
			}
		}
		for n := 1; n <= cfg.MaxCircles; n++ {
			assert.Equal(t, 1, counts[n], "block %d count %d", block, n)
		}
	}
}

func TestRunAbortKeepsCompletedRecords(t *testing.T) {
	cfg := testConfig()
	pres := &fakePresenter{echo: true, abortOn: 3}

	records, err := engine.NewRunner(cfg, pres).Run()
	require.Error(t, err)
	assert.True(t, errors.Is(err, engine.ErrAborted))
	assert.Len(t, records, 2)
}

func TestRunRejectsInvalidConfig(t *testing.T) {
	cfg := testConfig()
	cfg.Blocks = 0

	_, err := engine.NewRunner(cfg, &fakePresenter{echo: true}).Run()
	require.Error(t, err)
}

func TestDecodeDigit(t *testing.T) {
	tests := []struct {
		digit int
		want  int
	}{
		{0, 10},
		{1, 1},
		{5, 5},
		{9, 9},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, engine.DecodeDigit(tt.digit))
	}

	// Round trip: every reportable count encodes to a digit that decodes
	// back to itself.
	for n := 1; n <= 10; n++ {
		assert.Equal(t, n, engine.DecodeDigit(engine.EncodeCount(n)))
	}
}

func TestTrialStateString(t *testing.T) {
	assert.Equal(t, "fixation", engine.StateFixation.String())
	assert.Equal(t, "stimulus_visible", engine.StateStimulusVisible.String())
	assert.Equal(t, "awaiting_response", engine.StateAwaitingResponse.String())
	assert.Equal(t, "scored", engine.StateScored.String())
}
