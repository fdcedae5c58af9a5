package export

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/example/vivalingo/internal/session"
	"github.com/example/vivalingo/pkg/models"
)

func testSnapshot() session.Snapshot {
	return session.Snapshot{
		ChatID: 1,
		Vocab: []session.VocabItem{
			{Key: "a raíz de", Streak: 2, NextDueStep: 7, Payload: models.VocabPayload{Meaning: "as a result of", Domain: "Economía", PartOfSpeech: "phrase"}},
		},
		Grammar: []session.GrammarItem{
			{Key: "subj-1", Streak: 1, NextDueStep: 3, Payload: models.GrammarPayload{Focus: "Subjuntivo"}},
		},
		Errors: map[string][]session.ErrorItem{
			"prepositions": {{Key: "e1", NextDueStep: 1, Payload: models.ErrorPayload{Pattern: "dependen en", Correction: "dependen de"}}},
		},
		Notebook: []models.MistakeEntry{
			{ID: "e1", Date: "2024-03-01", Pattern: "dependen en", Correction: "dependen de", Tag: "prepositions", Confidence: 0.75},
		},
		Tallies:  []models.MistakeTally{{Pattern: "dependen en", Correction: "dependen de", Count: 1}},
		Exposure: map[string]int{"Economía": 3, "Salud": 1},
		Missions: []models.MissionRecord{
			{Date: "2024-03-01", Response: "r", Transcript: "Hoy hablé de la inflación."},
			{Date: "2024-03-02", Response: "r"},
			{Date: "2024-03-03", Response: "r", Transcript: "   "},
		},
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"json", JSON, false},
		{" CSV ", CSV, false},
		{"xlsx", XLSX, false},
		{"pdf", "", true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, %v", tt.in, got, err)
		}
	}
}

func TestWriteCSVUsesRecordFieldNames(t *testing.T) {
	tests := []struct {
		name    string
		dataset Dataset
		want    string
	}{
		{
			name:    "vocab",
			dataset: Vocab([]models.VocabItem{{Term: "sin embargo", Meaning: "however", PartOfSpeech: "conj"}}),
			want:    "term,meaning,example,domain,register,part_of_speech\nsin embargo,however,,,,conj\n",
		},
		{
			name:    "mistakes",
			dataset: Mistakes(testSnapshot().Notebook),
			want:    "date,pattern,correction,tag,confidence,user_text,corrected_text\n2024-03-01,dependen en,dependen de,prepositions,0.75,,\n",
		},
		{
			name:    "transcripts",
			dataset: Transcripts([]models.Transcript{{ID: 1, Transcript: "Hola", CreatedAt: "2024-03-01"}}),
			want:    "date,transcript\n2024-03-01,Hola\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := Write(&buf, CSV, tt.dataset); err != nil {
				t.Fatalf("Write: %v", err)
			}
			if buf.String() != tt.want {
				t.Errorf("csv =\n%q\nwant\n%q", buf.String(), tt.want)
			}
		})
	}
}

func TestWriteCSVRejectsSeveralDatasets(t *testing.T) {
	err := Write(&bytes.Buffer{}, CSV, FromSnapshot(testSnapshot())...)
	if !errors.Is(err, ErrSingleDataset) {
		t.Errorf("err = %v, want ErrSingleDataset", err)
	}
}

func TestWriteJSONSnapshot(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, JSON, FromSnapshot(testSnapshot())...); err != nil {
		t.Fatalf("Write: %v", err)
	}

	var got struct {
		Vocab       []models.VocabItem    `json:"vocab"`
		Mistakes    []models.MistakeEntry `json:"mistakes"`
		Transcripts []models.Transcript   `json:"transcripts"`
		Exposure    map[string]int        `json:"exposure"`
	}
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if len(got.Vocab) != 1 || got.Vocab[0].Term != "a raíz de" {
		t.Errorf("vocab = %+v", got.Vocab)
	}
	if len(got.Mistakes) != 1 || got.Mistakes[0].ID != "e1" {
		t.Errorf("mistakes = %+v", got.Mistakes)
	}
	if len(got.Transcripts) != 1 || got.Transcripts[0].CreatedAt != "2024-03-01" {
		t.Errorf("transcripts = %+v", got.Transcripts)
	}
	if got.Exposure["Economía"] != 3 {
		t.Errorf("exposure = %v", got.Exposure)
	}
}

func TestWriteJSONCarriesQueueState(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, JSON, FromSnapshot(testSnapshot())...); err != nil {
		t.Fatalf("Write: %v", err)
	}

	var got map[string]json.RawMessage
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	var vocab []map[string]interface{}
	if err := json.Unmarshal(got["vocab_queue"], &vocab); err != nil {
		t.Fatalf("vocab_queue: %v", err)
	}
	if len(vocab) != 1 || vocab[0]["key"] != "a raíz de" || vocab[0]["streak"] != 2.0 || vocab[0]["next_due_step"] != 7.0 {
		t.Errorf("vocab_queue = %v", vocab)
	}
	var grammar []map[string]interface{}
	if err := json.Unmarshal(got["grammar_queue"], &grammar); err != nil {
		t.Fatalf("grammar_queue: %v", err)
	}
	if len(grammar) != 1 || grammar[0]["next_due_step"] != 3.0 {
		t.Errorf("grammar_queue = %v", grammar)
	}
	var errs map[string][]map[string]interface{}
	if err := json.Unmarshal(got["error_queues"], &errs); err != nil {
		t.Fatalf("error_queues: %v", err)
	}
	if q := errs["prepositions"]; len(q) != 1 || q[0]["key"] != "e1" || q[0]["streak"] != 0.0 {
		t.Errorf("error_queues = %v", errs)
	}

	var records struct {
		Vocab []map[string]interface{} `json:"vocab"`
	}
	if err := json.Unmarshal(buf.Bytes(), &records); err != nil {
		t.Fatal(err)
	}
	if records.Vocab[0]["part_of_speech"] != "phrase" {
		t.Errorf("vocab record = %v, want part_of_speech", records.Vocab[0])
	}
}

func TestWriteCSVErrorQueues(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, CSV, ErrorQueues(testSnapshot().Errors)); err != nil {
		t.Fatalf("Write: %v", err)
	}
	want := "tag,key,streak,next_due_step,pattern,correction\nprepositions,e1,0,1,dependen en,dependen de\n"
	if buf.String() != want {
		t.Errorf("csv =\n%q\nwant\n%q", buf.String(), want)
	}
}

func TestWriteJSONEmptyIsArray(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, JSON, Mistakes(nil)); err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(buf.String()) != "[]" {
		t.Errorf("json = %q, want []", buf.String())
	}
}

func TestWriteXLSXSnapshot(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, XLSX, FromSnapshot(testSnapshot())...); err != nil {
		t.Fatalf("Write: %v", err)
	}
	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	want := []string{"vocab", "mistakes", "transcripts", "tallies", "exposure", "vocab_queue", "grammar_queue", "error_queues"}
	got := f.GetSheetList()
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("sheets = %v, want %v", got, want)
	}
	rows, err := f.GetRows("exposure")
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 3 || rows[1][0] != "Economía" || rows[2][2] != "0.25" {
		t.Errorf("exposure rows = %v", rows)
	}
}

func TestDatasetFileName(t *testing.T) {
	if got := Vocab(nil).FileName(CSV); got != "vocab.csv" {
		t.Errorf("FileName = %q", got)
	}
}
