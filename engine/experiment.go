package engine

import (
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/m-mizutani/goerr/v2"
)

// TrialState enumerates the phases a single trial moves through, in order.
type TrialState int

const (
	StateFixation TrialState = iota
	StateStimulusVisible
	StateAwaitingResponse
	StateScored
)

func (s TrialState) String() string {
	switch s {
	case StateFixation:
		return "fixation"
	case StateStimulusVisible:
		return "stimulus_visible"
	case StateAwaitingResponse:
		return "awaiting_response"
	case StateScored:
		return "scored"
	}
	return fmt.Sprintf("TrialState(%d)", int(s))
}

// TrialRecord is the outcome of one trial. It is fully populated once the
// participant's keypress is captured and never modified afterwards.
type TrialRecord struct {
	Block         int
	Trial         int
	CorrectCount  int
	ResponseCount int
	Correct       bool
	ResponseTime  time.Duration
}

// DecodeDigit maps a pressed digit key to the counted value: 0 means 10,
// 1 through 9 mean themselves.
func DecodeDigit(d int) int {
	if d == 0 {
		return 10
	}
	return d
}

// EncodeCount is the inverse of DecodeDigit: the digit key a participant
// would press to report a count of n.
func EncodeCount(n int) int {
	if n == 10 {
		return 0
	}
	return n
}

// ErrAborted is returned when the participant quits mid-run (ESC or window
// close). Records completed before the abort are still returned.
var ErrAborted = goerr.New("experiment aborted by participant")

// Presenter is the display/input surface the runner drives. The SDL
// implementation lives in the display package; tests use a scripted one.
type Presenter interface {
	// ShowMessage renders a text screen and, if hold > 0, keeps it up for
	// that long.
	ShowMessage(text string, hold time.Duration) error
	// WaitKey blocks until any key is pressed.
	WaitKey() error
	// ShowFixation renders the fixation cross for the given duration.
	ShowFixation(hold time.Duration) error
	// ShowCircles renders the circles and returns after maxHold or as soon
	// as a key is pressed, whichever comes first. The early keypress only
	// ends the display phase; it is not a response.
	ShowCircles(points []Point, maxHold time.Duration) error
	// PromptDigit clears the stimulus, shows the prompt, and blocks until a
	// digit key (0-9) is pressed, ignoring everything else. It reports the
	// digit and the time elapsed from prompt onset to the keypress.
	PromptDigit(text string) (digit int, elapsed time.Duration, err error)
}

// Trigger marks the stimulus window on external recording equipment.
type Trigger interface {
	Mark() error
	Clear() error
}

const promptText = "How many circles did you count?\nEnter a number from 0-9 (0 means 10)."

func instructionsText(blocks, trials int) string {
	return fmt.Sprintf("Subitizing Experiment\n\n"+
		"For each trial, between 1-10 circles will be shown.\n"+
		"When asked, press the number key (0-9; 0 means 10)\n"+
		"representing how many circles you counted.\n\n"+
		"There will be %d blocks of %d trials.\n\n"+
		"Press any key to begin.", blocks, trials)
}

// Runner drives the experiment from instructions screen to final record
// sequence. It owns the record slice; nothing else appends to it.
type Runner struct {
	cfg        *Config
	pres       Presenter
	trig       Trigger
	rng        *rand.Rand
	logger     *slog.Logger
	conditions func(block int) []int
}

type Option func(*Runner)

// WithTrigger raises a trigger line for the duration of each stimulus.
func WithTrigger(t Trigger) Option {
	return func(r *Runner) { r.trig = t }
}

// WithRand replaces the randomness source, for reproducible runs.
func WithRand(rng *rand.Rand) Option {
	return func(r *Runner) { r.rng = rng }
}

func WithLogger(l *slog.Logger) Option {
	return func(r *Runner) { r.logger = l }
}

// WithConditions replaces the per-block circle-count sequence, mainly for
// scripted runs and tests.
func WithConditions(fn func(block int) []int) Option {
	return func(r *Runner) { r.conditions = fn }
}

func NewRunner(cfg *Config, pres Presenter, opts ...Option) *Runner {
	r := &Runner{
		cfg:    cfg,
		pres:   pres,
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
		logger: slog.Default(),
	}
	if cfg.Seed != 0 {
		r.rng = rand.New(rand.NewSource(cfg.Seed))
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.conditions == nil {
		r.conditions = r.blockConditions
	}
	return r
}

// blockConditions picks the circle count for every trial of a block. The
// default draws each count uniformly from [1, MaxCircles]; balanced mode uses
// a shuffled permutation so each count appears exactly once per block.
func (r *Runner) blockConditions(block int) []int {
	counts := make([]int, r.cfg.TrialsPerBlock)
	if r.cfg.Balanced {
		for i := range counts {
			counts[i] = i + 1
		}
		r.rng.Shuffle(len(counts), func(i, j int) {
			counts[i], counts[j] = counts[j], counts[i]
		})
		return counts
	}
	for i := range counts {
		counts[i] = 1 + r.rng.Intn(r.cfg.MaxCircles)
	}
	return counts
}

// Run executes the whole experiment and returns one record per trial, in
// completion order. On participant abort it returns the records completed so
// far together with ErrAborted.
func (r *Runner) Run() ([]TrialRecord, error) {
	if err := r.cfg.Validate(); err != nil {
		return nil, err
	}

	if err := r.pres.ShowMessage(instructionsText(r.cfg.Blocks, r.cfg.TrialsPerBlock), 0); err != nil {
		return nil, err
	}
	if err := r.pres.WaitKey(); err != nil {
		return nil, err
	}

	records := make([]TrialRecord, 0, r.cfg.Blocks*r.cfg.TrialsPerBlock)
	for block := 1; block <= r.cfg.Blocks; block++ {
		r.logger.Info("starting block", "block", block)
		msg := fmt.Sprintf("Starting Block %d", block)
		if err := r.pres.ShowMessage(msg, time.Duration(r.cfg.BlockPauseMS)*time.Millisecond); err != nil {
			return records, err
		}

		counts := r.conditions(block)
		for trial := 1; trial <= r.cfg.TrialsPerBlock; trial++ {
			rec, err := r.runTrial(block, trial, counts[trial-1])
			if err != nil {
				return records, err
			}
			records = append(records, rec)
			r.logger.Debug("trial scored",
				"block", rec.Block,
				"trial", rec.Trial,
				"shown", rec.CorrectCount,
				"response", rec.ResponseCount,
				"correct", rec.Correct,
				"rt", rec.ResponseTime)
		}
	}

	if err := r.pres.ShowMessage("Experiment complete.\nPress any key to exit.", 0); err != nil {
		return records, err
	}
	if err := r.pres.WaitKey(); err != nil {
		return records, err
	}
	return records, nil
}

// runTrial walks one trial through its state sequence:
// fixation -> stimulus visible -> awaiting response -> scored.
func (r *Runner) runTrial(block, trial, count int) (TrialRecord, error) {
	rec := TrialRecord{Block: block, Trial: trial, CorrectCount: count}

	state := StateFixation
	for state != StateScored {
		switch state {
		case StateFixation:
			if err := r.pres.ShowFixation(time.Duration(r.cfg.FixationMS) * time.Millisecond); err != nil {
				return rec, err
			}
			state = StateStimulusVisible

		case StateStimulusVisible:
			field, err := r.cfg.StimulusField()
			if err != nil {
				return rec, err
			}
			points, err := PlaceCircles(r.rng, count, field, r.cfg.CircleRadius)
			if err != nil {
				return rec, err
			}
			if r.trig != nil {
				if err := r.trig.Mark(); err != nil {
					r.logger.Warn("trigger mark failed", "error", err)
				}
			}
			err = r.pres.ShowCircles(points, time.Duration(r.cfg.StimulusMS)*time.Millisecond)
			if r.trig != nil {
				if cerr := r.trig.Clear(); cerr != nil {
					r.logger.Warn("trigger clear failed", "error", cerr)
				}
			}
			if err != nil {
				return rec, err
			}
			state = StateAwaitingResponse

		case StateAwaitingResponse:
			digit, elapsed, err := r.pres.PromptDigit(promptText)
			if err != nil {
				return rec, err
			}
			rec.ResponseCount = DecodeDigit(digit)
			rec.ResponseTime = elapsed
			rec.Correct = rec.ResponseCount == rec.CorrectCount
			state = StateScored
		}
	}
	return rec, nil
}
