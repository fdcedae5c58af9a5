package excel

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/example/vivalingo/pkg/models"
)

// ErrEmptyTerm is reported for rows without a term
var ErrEmptyTerm = errors.New("term cannot be empty")

// ImportConfig defines the import configuration
type ImportConfig struct {
	FilePath           string // Path to the Excel or CSV file
	SheetName          string // Sheet to import; empty means the first sheet
	TermColumn         string // Column with the Spanish term
	MeaningColumn      string // Column with the meaning
	ExampleColumn      string // Column with the example sentence
	DomainColumn       string // Column with the topic domain
	RegisterColumn     string // Column with the register
	PartOfSpeechColumn string // Column with the part of speech
	StartRow           int    // The row to start importing from (1-based index)
}

// DefaultImportConfig returns the default import configuration
func DefaultImportConfig() ImportConfig {
	return ImportConfig{
		TermColumn:         "A",
		MeaningColumn:      "B",
		ExampleColumn:      "C",
		DomainColumn:       "D",
		RegisterColumn:     "E",
		PartOfSpeechColumn: "F",
		StartRow:           2, // By default, start from the second row (skip header)
	}
}

// ImportResult holds the result of an import operation
type ImportResult struct {
	TotalProcessed int
	Imported       int
	Duplicates     int
	Errors         []string
}

// headerNames maps accepted header labels to the column they describe
var headerNames = map[string]string{
	"term":           "term",
	"término":        "term",
	"meaning":        "meaning",
	"significado":    "meaning",
	"example":        "example",
	"ejemplo":        "example",
	"domain":         "domain",
	"dominio":        "domain",
	"register":       "register",
	"registro":       "register",
	"pos":            "pos",
	"part_of_speech": "pos",
}

// ImportVocabulary reads vocabulary rows from an Excel or CSV file.
// A header row naming the columns overrides the configured letters.
// Within the file the last row for a term wins.
func ImportVocabulary(config ImportConfig) ([]models.VocabItem, *ImportResult, error) {
	rows, err := readRows(config)
	if err != nil {
		return nil, nil, err
	}

	columns := config.columns()
	start := config.StartRow
	if start < 1 {
		start = 1
	}
	if start > 1 && len(rows) >= start-1 {
		if mapped, ok := mapHeader(rows[start-2]); ok {
			columns = mapped
		}
	}

	result := &ImportResult{Errors: make([]string, 0)}
	var (
		items    []models.VocabItem
		position = make(map[string]int)
		section  string
	)

	for i, row := range rows {
		rowNum := i + 1
		// Skip header rows
		if rowNum < start {
			continue
		}
		if isBlank(row) {
			continue
		}

		// A CSV row like "Economía,," names the domain of the rows below it
		if isSectionRow(row) {
			section = strings.Trim(strings.TrimSpace(row[0]), "\"")
			continue
		}

		result.TotalProcessed++

		item, err := columns.item(row)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: %v", rowNum, err))
			continue
		}
		if item.Domain == "" {
			item.Domain = section
		}

		if idx, seen := position[strings.ToLower(item.Term)]; seen {
			items[idx] = item
			result.Duplicates++
			continue
		}
		position[strings.ToLower(item.Term)] = len(items)
		items = append(items, item)
	}

	result.Imported = len(items)
	return items, result, nil
}

func readRows(config ImportConfig) ([][]string, error) {
	// Check the file extension
	if strings.ToLower(filepath.Ext(config.FilePath)) == ".csv" {
		return readCSV(config.FilePath)
	}
	return readWorkbook(config.FilePath, config.SheetName)
}

// readWorkbook returns all rows of a sheet
func readWorkbook(path, sheet string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to get rows: %w", err)
	}
	return rows, nil
}

// readCSV returns all records of a CSV file
func readCSV(path string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1 // Allow variable number of fields
	reader.LazyQuotes = true

	var rows [][]string
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading CSV: %w", err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// columnSet holds zero-based indexes; -1 marks an absent column
type columnSet struct {
	term, meaning, example, domain, register, pos int
}

func (c ImportConfig) columns() columnSet {
	return columnSet{
		term:     columnToIndex(c.TermColumn),
		meaning:  columnToIndex(c.MeaningColumn),
		example:  columnToIndex(c.ExampleColumn),
		domain:   columnToIndex(c.DomainColumn),
		register: columnToIndex(c.RegisterColumn),
		pos:      columnToIndex(c.PartOfSpeechColumn),
	}
}

func (c columnSet) item(row []string) (models.VocabItem, error) {
	item := models.VocabItem{
		Term:         cleanTerm(cell(row, c.term)),
		Meaning:      strings.TrimSpace(cell(row, c.meaning)),
		Example:      strings.TrimSpace(cell(row, c.example)),
		Domain:       strings.TrimSpace(cell(row, c.domain)),
		Register:     strings.TrimSpace(cell(row, c.register)),
		PartOfSpeech: strings.TrimSpace(cell(row, c.pos)),
	}
	if item.Term == "" {
		return item, ErrEmptyTerm
	}
	return item, nil
}

// mapHeader recognizes a header row; it needs at least a term column
func mapHeader(row []string) (columnSet, bool) {
	set := columnSet{-1, -1, -1, -1, -1, -1}
	for i, label := range row {
		switch headerNames[strings.ToLower(strings.TrimSpace(label))] {
		case "term":
			set.term = i
		case "meaning":
			set.meaning = i
		case "example":
			set.example = i
		case "domain":
			set.domain = i
		case "register":
			set.register = i
		case "pos":
			set.pos = i
		}
	}
	return set, set.term >= 0
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

func isBlank(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

func isSectionRow(row []string) bool {
	if strings.TrimSpace(row[0]) == "" {
		return false
	}
	for _, v := range row[1:] {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return len(row) > 1
}

// cleanTerm drops trailing notes in brackets, e.g. "ir (fui, ido)"
func cleanTerm(term string) string {
	if idx := strings.Index(term, "("); idx > 0 {
		return strings.TrimSpace(term[:idx])
	}
	return strings.TrimSpace(term)
}

// Helper function to convert Excel column letter to index
func columnToIndex(column string) int {
	if column == "" {
		return -1
	}
	column = strings.ToUpper(column)
	index := 0
	for i := 0; i < len(column); i++ {
		index = index*26 + int(column[i]-'A'+1)
	}
	return index - 1
}
