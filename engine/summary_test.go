package engine_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MarkTee/Psych403-FinalProject/engine"
)

func TestSummarize(t *testing.T) {
	records := []engine.TrialRecord{
		{Block: 1, Trial: 1, CorrectCount: 3, ResponseCount: 3, Correct: true, ResponseTime: 600 * time.Millisecond},
		{Block: 1, Trial: 2, CorrectCount: 3, ResponseCount: 4, Correct: false, ResponseTime: 1000 * time.Millisecond},
		{Block: 2, Trial: 1, CorrectCount: 8, ResponseCount: 8, Correct: true, ResponseTime: 1400 * time.Millisecond},
	}

	s := engine.Summarize(records)
	assert.Equal(t, 3, s.Trials)
	assert.Equal(t, 2, s.Correct)
	assert.InDelta(t, 66.66667, s.Accuracy(), 0.001)
	assert.Equal(t, 1000*time.Millisecond, s.MeanRT)

	require.Len(t, s.ByBlock, 2)
	assert.Equal(t, engine.GroupStat{Key: 1, Trials: 2, Correct: 1, MeanRT: 800 * time.Millisecond}, s.ByBlock[0])
	assert.Equal(t, engine.GroupStat{Key: 2, Trials: 1, Correct: 1, MeanRT: 1400 * time.Millisecond}, s.ByBlock[1])

	require.Len(t, s.ByCount, 2)
	assert.Equal(t, 3, s.ByCount[0].Key)
	assert.Equal(t, 8, s.ByCount[1].Key)
	assert.Equal(t, 50.0, s.ByCount[0].Accuracy())
}

func TestSummarizeEmpty(t *testing.T) {
	s := engine.Summarize(nil)
	assert.Equal(t, 0, s.Trials)
	assert.Equal(t, 0.0, s.Accuracy())
	assert.Equal(t, time.Duration(0), s.MeanRT)
	assert.Empty(t, s.ByBlock)
	assert.Empty(t, s.ByCount)
}

func TestSummaryWriteText(t *testing.T) {
	records := []engine.TrialRecord{
		{Block: 1, Trial: 1, CorrectCount: 3, ResponseCount: 3, Correct: true, ResponseTime: 800 * time.Millisecond},
		{Block: 1, Trial: 2, CorrectCount: 10, ResponseCount: 10, Correct: true, ResponseTime: 1500 * time.Millisecond},
	}

	var sb strings.Builder
	require.NoError(t, engine.Summarize(records).WriteText(&sb))
	out := sb.String()

	assert.Contains(t, out, "Per-Block Accuracy")
	assert.Contains(t, out, "Block 1: 100%")
	assert.Contains(t, out, "Per-Circles Accuracy")
	assert.Contains(t, out, "3 circles: 100%")
	assert.Contains(t, out, "10 circles: 100%")
	assert.Contains(t, out, "Overall Accuracy: 100%")
	assert.Contains(t, out, "Overall RT: 1.15s")
}
