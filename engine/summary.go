package engine

import (
	"fmt"
	"io"
	"math"
	"sort"
	"time"
)

// GroupStat aggregates the trials sharing one grouping key (a block index or
// a circle count).
type GroupStat struct {
	Key     int
	Trials  int
	Correct int
	MeanRT  time.Duration
}

// Accuracy is the percentage of correct trials in the group.
func (g GroupStat) Accuracy() float64 {
	if g.Trials == 0 {
		return 0
	}
	return 100 * float64(g.Correct) / float64(g.Trials)
}

// Summary describes a completed session: overall accuracy and mean reaction
// time, plus the same broken down by block and by shown circle count.
type Summary struct {
	Trials  int
	Correct int
	MeanRT  time.Duration
	ByBlock []GroupStat
	ByCount []GroupStat
}

func (s Summary) Accuracy() float64 {
	return GroupStat{Trials: s.Trials, Correct: s.Correct}.Accuracy()
}

// Summarize aggregates the record sequence. It has no side effects; callers
// render the result with WriteText.
func Summarize(records []TrialRecord) Summary {
	s := Summary{Trials: len(records)}

	var total time.Duration
	byBlock := map[int][]TrialRecord{}
	byCount := map[int][]TrialRecord{}
	for _, rec := range records {
		if rec.Correct {
			s.Correct++
		}
		total += rec.ResponseTime
		byBlock[rec.Block] = append(byBlock[rec.Block], rec)
		byCount[rec.CorrectCount] = append(byCount[rec.CorrectCount], rec)
	}
	if s.Trials > 0 {
		s.MeanRT = total / time.Duration(s.Trials)
	}
	s.ByBlock = groupStats(byBlock)
	s.ByCount = groupStats(byCount)
	return s
}

func groupStats(groups map[int][]TrialRecord) []GroupStat {
	keys := make([]int, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Ints(keys)

	stats := make([]GroupStat, 0, len(keys))
	for _, k := range keys {
		g := GroupStat{Key: k, Trials: len(groups[k])}
		var total time.Duration
		for _, rec := range groups[k] {
			if rec.Correct {
				g.Correct++
			}
			total += rec.ResponseTime
		}
		g.MeanRT = total / time.Duration(g.Trials)
		stats = append(stats, g)
	}
	return stats
}

// WriteText renders the summary for the terminal, in the same shape as the
// original experiment's report.
func (s Summary) WriteText(w io.Writer) error {
	var err error
	p := func(format string, args ...any) {
		if err == nil {
			_, err = fmt.Fprintf(w, format, args...)
		}
	}

	p("\nPer-Block Accuracy\n")
	for _, g := range s.ByBlock {
		p("Block %d: %v%%\n", g.Key, round5(g.Accuracy()))
	}

	p("\nPer-Circles Accuracy\n")
	for _, g := range s.ByCount {
		p("%d circles: %v%%\n", g.Key, round5(g.Accuracy()))
	}

	p("\nOverall Accuracy: %v%%\n", round5(s.Accuracy()))
	p("----------\n")

	p("\nPer-Block RT\n")
	for _, g := range s.ByBlock {
		p("Block %d: %vs\n", g.Key, round5(g.MeanRT.Seconds()))
	}

	p("\nPer-Circles RT\n")
	for _, g := range s.ByCount {
		p("%d circles: %vs\n", g.Key, round5(g.MeanRT.Seconds()))
	}

	p("\nOverall RT: %vs\n", round5(s.MeanRT.Seconds()))
	return err
}

func round5(v float64) float64 {
	return math.Round(v*1e5) / 1e5
}
