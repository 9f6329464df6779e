package engine

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/m-mizutani/goerr/v2"
)

var resultFields = []string{
	"block_index",
	"trial_index",
	"correct_count",
	"response_count",
	"is_correct",
	"response_time_seconds",
}

// ResultsPath builds the per-session results filename under dataDir, e.g.
// data/subject1_29-8-2026_results.csv.
func ResultsPath(dataDir string, subject int, now time.Time) string {
	name := fmt.Sprintf("subject%d_%s_results.csv", subject, now.Format("2-1-2006"))
	return filepath.Join(dataDir, name)
}

// SaveResults writes the records as CSV (header plus one row per trial, in
// the order given), creating the target directory first. A failure here is
// fatal to the program; results would otherwise be lost silently.
func SaveResults(path string, records []TrialRecord) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return goerr.Wrap(err, "failed to create results directory", goerr.V("dir", dir))
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return goerr.Wrap(err, "failed to create results file", goerr.V("path", path))
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(resultFields); err != nil {
		return goerr.Wrap(err, "failed to write results header")
	}
	for _, rec := range records {
		row := []string{
			strconv.Itoa(rec.Block),
			strconv.Itoa(rec.Trial),
			strconv.Itoa(rec.CorrectCount),
			strconv.Itoa(rec.ResponseCount),
			strconv.FormatBool(rec.Correct),
			strconv.FormatFloat(rec.ResponseTime.Seconds(), 'f', -1, 64),
		}
		if err := w.Write(row); err != nil {
			return goerr.Wrap(err, "failed to write result row")
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return goerr.Wrap(err, "failed to flush results file", goerr.V("path", path))
	}
	return nil
}

// LoadResults reads a results file written by SaveResults back into records,
// so an earlier session can be re-summarized.
func LoadResults(path string) ([]TrialRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open results file", goerr.V("path", path))
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read results file", goerr.V("path", path))
	}
	if len(rows) == 0 {
		return nil, goerr.New("results file is empty", goerr.V("path", path))
	}
	if len(rows[0]) != len(resultFields) || rows[0][0] != resultFields[0] {
		return nil, goerr.New("unexpected results header", goerr.V("header", rows[0]))
	}

	records := make([]TrialRecord, 0, len(rows)-1)
	for i, row := range rows[1:] {
		rec, err := parseResultRow(row)
		if err != nil {
			return nil, goerr.Wrap(err, "invalid result row", goerr.V("line", i+2))
		}
		records = append(records, rec)
	}
	return records, nil
}

func parseResultRow(row []string) (TrialRecord, error) {
	var rec TrialRecord
	if len(row) != len(resultFields) {
		return rec, goerr.New("wrong field count", goerr.V("fields", len(row)))
	}

	var err error
	if rec.Block, err = strconv.Atoi(row[0]); err != nil {
		return rec, goerr.Wrap(err, "invalid block index")
	}
	if rec.Trial, err = strconv.Atoi(row[1]); err != nil {
		return rec, goerr.Wrap(err, "invalid trial index")
	}
	if rec.CorrectCount, err = strconv.Atoi(row[2]); err != nil {
		return rec, goerr.Wrap(err, "invalid correct count")
	}
	if rec.ResponseCount, err = strconv.Atoi(row[3]); err != nil {
		return rec, goerr.Wrap(err, "invalid response count")
	}
	if rec.Correct, err = strconv.ParseBool(row[4]); err != nil {
		return rec, goerr.Wrap(err, "invalid is_correct value")
	}
	seconds, err := strconv.ParseFloat(row[5], 64)
	if err != nil {
		return rec, goerr.Wrap(err, "invalid response time")
	}
	rec.ResponseTime = time.Duration(seconds * float64(time.Second))
	return rec, nil
}
