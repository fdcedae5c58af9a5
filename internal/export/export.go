// Package export serializes vocabulary, the mistake notebook, transcripts
// and the review queues as JSON, CSV or an xlsx workbook.
package export

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/example/vivalingo/internal/excel"
	"github.com/example/vivalingo/internal/session"
	"github.com/example/vivalingo/pkg/models"
)

// Format is an export file format
type Format string

const (
	JSON Format = "json"
	CSV  Format = "csv"
	XLSX Format = "xlsx"
)

// ErrSingleDataset is returned when several datasets are written as CSV
var ErrSingleDataset = errors.New("csv export holds exactly one dataset")

// ParseFormat accepts json, csv and xlsx in any case
func ParseFormat(name string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(name))); f {
	case JSON, CSV, XLSX:
		return f, nil
	}
	return "", fmt.Errorf("unknown export format %q", name)
}

// Dataset pairs the JSON value of an export with its tabular view
type Dataset struct {
	Name  string
	Value interface{}
	Table excel.Sheet
}

// FileName is the download name of the dataset in format f
func (d Dataset) FileName(f Format) string {
	return d.Name + "." + string(f)
}

// Vocab exports vocabulary records
func Vocab(items []models.VocabItem) Dataset {
	rows := make([][]interface{}, 0, len(items))
	for _, it := range items {
		rows = append(rows, []interface{}{it.Term, it.Meaning, it.Example, it.Domain, it.Register, it.PartOfSpeech})
	}
	if items == nil {
		items = []models.VocabItem{}
	}
	return Dataset{
		Name:  "vocab",
		Value: items,
		Table: excel.Sheet{
			Name:   "vocab",
			Header: []string{"term", "meaning", "example", "domain", "register", "part_of_speech"},
			Rows:   rows,
		},
	}
}

// Mistakes exports notebook entries
func Mistakes(entries []models.MistakeEntry) Dataset {
	rows := make([][]interface{}, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []interface{}{e.Date, e.Pattern, e.Correction, e.Tag, e.Confidence, e.UserText, e.CorrectedText})
	}
	if entries == nil {
		entries = []models.MistakeEntry{}
	}
	return Dataset{
		Name:  "mistakes",
		Value: entries,
		Table: excel.Sheet{
			Name:   "mistakes",
			Header: []string{"date", "pattern", "correction", "tag", "confidence", "user_text", "corrected_text"},
			Rows:   rows,
		},
	}
}

// Transcripts exports speaking transcripts
func Transcripts(transcripts []models.Transcript) Dataset {
	rows := make([][]interface{}, 0, len(transcripts))
	for _, t := range transcripts {
		rows = append(rows, []interface{}{t.CreatedAt, t.Transcript})
	}
	if transcripts == nil {
		transcripts = []models.Transcript{}
	}
	return Dataset{
		Name:  "transcripts",
		Value: transcripts,
		Table: excel.Sheet{
			Name:   "transcripts",
			Header: []string{"date", "transcript"},
			Rows:   rows,
		},
	}
}

// Tallies exports the mistake focus list
func Tallies(tallies []models.MistakeTally) Dataset {
	rows := make([][]interface{}, 0, len(tallies))
	for _, t := range tallies {
		rows = append(rows, []interface{}{t.Pattern, t.Correction, t.Count})
	}
	if tallies == nil {
		tallies = []models.MistakeTally{}
	}
	return Dataset{
		Name:  "tallies",
		Value: tallies,
		Table: excel.Sheet{
			Name:   "tallies",
			Header: []string{"pattern", "correction", "count"},
			Rows:   rows,
		},
	}
}

// Exposure exports domain visit counts with their coverage share
func Exposure(counts map[string]int) Dataset {
	domains := make([]string, 0, len(counts))
	total := 0
	for d, n := range counts {
		domains = append(domains, d)
		total += n
	}
	sort.Strings(domains)
	if total == 0 {
		total = 1
	}

	rows := make([][]interface{}, 0, len(domains))
	for _, d := range domains {
		rows = append(rows, []interface{}{d, counts[d], float64(counts[d]) / float64(total)})
	}
	if counts == nil {
		counts = map[string]int{}
	}
	return Dataset{
		Name:  "exposure",
		Value: counts,
		Table: excel.Sheet{
			Name:   "exposure",
			Header: []string{"domain", "count", "share"},
			Rows:   rows,
		},
	}
}

// VocabQueue exports the vocabulary review queue with its scheduling state
func VocabQueue(items []session.VocabItem) Dataset {
	rows := make([][]interface{}, 0, len(items))
	for _, it := range items {
		rows = append(rows, []interface{}{it.Key, it.Streak, it.NextDueStep, it.Payload.Meaning, it.Payload.Domain})
	}
	if items == nil {
		items = []session.VocabItem{}
	}
	return Dataset{
		Name:  "vocab_queue",
		Value: items,
		Table: excel.Sheet{
			Name:   "vocab_queue",
			Header: []string{"key", "streak", "next_due_step", "meaning", "domain"},
			Rows:   rows,
		},
	}
}

// GrammarQueue exports the grammar review queue
func GrammarQueue(items []session.GrammarItem) Dataset {
	rows := make([][]interface{}, 0, len(items))
	for _, it := range items {
		rows = append(rows, []interface{}{it.Key, it.Streak, it.NextDueStep, it.Payload.Focus})
	}
	if items == nil {
		items = []session.GrammarItem{}
	}
	return Dataset{
		Name:  "grammar_queue",
		Value: items,
		Table: excel.Sheet{
			Name:   "grammar_queue",
			Header: []string{"key", "streak", "next_due_step", "focus"},
			Rows:   rows,
		},
	}
}

// ErrorQueues exports every per-tag error queue; rows are grouped by tag in
// name order
func ErrorQueues(queues map[string][]session.ErrorItem) Dataset {
	tags := make([]string, 0, len(queues))
	for tag := range queues {
		tags = append(tags, tag)
	}
	sort.Strings(tags)

	var rows [][]interface{}
	for _, tag := range tags {
		for _, it := range queues[tag] {
			rows = append(rows, []interface{}{tag, it.Key, it.Streak, it.NextDueStep, it.Payload.Pattern, it.Payload.Correction})
		}
	}
	if queues == nil {
		queues = map[string][]session.ErrorItem{}
	}
	return Dataset{
		Name:  "error_queues",
		Value: queues,
		Table: excel.Sheet{
			Name:   "error_queues",
			Header: []string{"tag", "key", "streak", "next_due_step", "pattern", "correction"},
			Rows:   rows,
		},
	}
}

// FromSnapshot returns every dataset of a session snapshot.
// Transcripts come from the mission history; missions without one are skipped.
func FromSnapshot(s session.Snapshot) []Dataset {
	var transcripts []models.Transcript
	for _, m := range s.Missions {
		text := strings.TrimSpace(m.Transcript)
		if text == "" {
			continue
		}
		transcripts = append(transcripts, models.Transcript{
			ID:         int64(len(transcripts) + 1),
			Transcript: text,
			CreatedAt:  m.Date,
		})
	}
	return []Dataset{
		Vocab(s.VocabRecords()),
		Mistakes(s.Notebook),
		Transcripts(transcripts),
		Tallies(s.Tallies),
		Exposure(s.Exposure),
		VocabQueue(s.Vocab),
		GrammarQueue(s.Grammar),
		ErrorQueues(s.Errors),
	}
}

// Write encodes the datasets in format f. JSON with several datasets is an
// object keyed by dataset name; CSV takes exactly one dataset.
func Write(w io.Writer, f Format, datasets ...Dataset) error {
	switch f {
	case JSON:
		var v interface{}
		if len(datasets) == 1 {
			v = datasets[0].Value
		} else {
			all := make(map[string]interface{}, len(datasets))
			for _, d := range datasets {
				all[d.Name] = d.Value
			}
			v = all
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("failed to encode json: %w", err)
		}
		return nil
	case CSV:
		if len(datasets) != 1 {
			return ErrSingleDataset
		}
		return writeCSV(w, datasets[0].Table)
	case XLSX:
		sheets := make([]excel.Sheet, 0, len(datasets))
		for _, d := range datasets {
			sheets = append(sheets, d.Table)
		}
		return excel.WriteWorkbook(w, sheets...)
	}
	return fmt.Errorf("unknown export format %q", f)
}

func writeCSV(w io.Writer, sheet excel.Sheet) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(sheet.Header); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, row := range sheet.Rows {
		record := make([]string, len(row))
		for i, v := range row {
			record[i] = fmt.Sprint(v)
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush csv: %w", err)
	}
	return nil
}
