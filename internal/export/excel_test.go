package export

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/spigell/screening/internal/domain"
)

func sampleReports() []domain.InterviewReport {
	started := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	completed := started.Add(12 * time.Minute)
	score := 82.5

	return []domain.InterviewReport{
		{
			Interview: domain.Interview{
				ID:              "iv-1",
				Status:          domain.StatusCompleted,
				StartedAt:       &started,
				CompletedAt:     &completed,
				RecordingURL:    "https://cdn/iv-1.webm",
				DurationSeconds: 720,
				Score:           &score,
			},
			Candidate: domain.Candidate{FirstName: "Ana", LastName: "Ruiz", Email: "ana@x.com"},
			Job:       domain.JobPosting{Title: "Desarrollador Backend Node.js"},
			Questions: []domain.InterviewQuestion{
				{Ordinal: 1, Category: "behavioral", Question: "Cuéntame sobre ti", Answer: "Soy desarrolladora"},
				{Ordinal: 2, Category: "technical", Question: "¿Qué es una API?", Answer: "Una interfaz"},
			},
		},
		{
			Interview: domain.Interview{ID: "iv-2", Status: domain.StatusPending},
			Candidate: domain.Candidate{FirstName: "Luis", LastName: "Gómez", Email: "luis@x.com"},
			Job:       domain.JobPosting{Title: "Gerente de Ventas"},
		},
	}
}

func TestSaveWorkbookAddsExtension(t *testing.T) {
	dir := t.TempDir()

	path, err := SaveWorkbook(filepath.Join(dir, "report"), sampleReports(), time.Now())
	if err != nil {
		t.Fatalf("SaveWorkbook() error = %v", err)
	}
	if want := filepath.Join(dir, "report.xlsx"); path != want {
		t.Fatalf("path = %q, want %q", path, want)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("workbook not written: %v", err)
	}

	kept, err := SaveWorkbook(filepath.Join(dir, "other.XLSX"), nil, time.Now())
	if err != nil {
		t.Fatalf("SaveWorkbook() error = %v", err)
	}
	if filepath.Base(kept) != "other.XLSX" {
		t.Fatalf("existing extension not preserved: %q", kept)
	}
}

func TestWriteWorkbookContent(t *testing.T) {
	var buf bytes.Buffer
	generated := time.Date(2024, 3, 2, 9, 30, 0, 0, time.UTC)
	if err := WriteWorkbook(&buf, sampleReports(), generated); err != nil {
		t.Fatalf("WriteWorkbook() error = %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("OpenReader() error = %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	want := []string{SummarySheet, InterviewsSheet, AnswersSheet}
	if len(sheets) != len(want) {
		t.Fatalf("sheets = %v, want %v", sheets, want)
	}
	for i := range want {
		if sheets[i] != want[i] {
			t.Fatalf("sheets = %v, want %v", sheets, want)
		}
	}

	checks := []struct {
		sheet, cell, want string
	}{
		{SummarySheet, "A1", "Interview Screening Report"},
		{SummarySheet, "B3", "2024-03-02 09:30"},
		{SummarySheet, "B4", "2"},
		{SummarySheet, "B5", "1"},
		{SummarySheet, "B7", "1"},
		{SummarySheet, "B10", "82.5"},
		{SummarySheet, "B13", "12"},
		{InterviewsSheet, "A1", "Candidate"},
		{InterviewsSheet, "A2", "Ana Ruiz"},
		{InterviewsSheet, "D2", "COMPLETED"},
		{InterviewsSheet, "E2", "82.5"},
		{InterviewsSheet, "F2", "12"},
		{InterviewsSheet, "G2", "2024-03-01 10:00"},
		{InterviewsSheet, "I2", "https://cdn/iv-1.webm"},
		{InterviewsSheet, "D3", "PENDING"},
		{InterviewsSheet, "E3", ""},
		{AnswersSheet, "E2", "Cuéntame sobre ti"},
		{AnswersSheet, "F3", "Una interfaz"},
		{AnswersSheet, "A4", ""},
	}
	for _, c := range checks {
		got, err := f.GetCellValue(c.sheet, c.cell)
		if err != nil {
			t.Fatalf("GetCellValue(%s!%s) error = %v", c.sheet, c.cell, err)
		}
		if got != c.want {
			t.Errorf("%s!%s = %q, want %q", c.sheet, c.cell, got, c.want)
		}
	}
}

func TestSummarize(t *testing.T) {
	low, high := 40.0, 90.0
	reports := []domain.InterviewReport{
		{Interview: domain.Interview{Status: domain.StatusCompleted, Score: &high, DurationSeconds: 600}},
		{Interview: domain.Interview{Status: domain.StatusCompleted, Score: &low, DurationSeconds: 1200}},
		{Interview: domain.Interview{Status: domain.StatusInProgress}},
	}

	st := Summarize(reports)
	if st.Total != 3 || st.Scored != 2 {
		t.Fatalf("counts = %d/%d, want 3/2", st.Total, st.Scored)
	}
	if st.Average != 65 || st.Highest != 90 || st.Lowest != 40 {
		t.Fatalf("scores = avg %v high %v low %v", st.Average, st.Highest, st.Lowest)
	}
	if st.AverageMinutes != 15 {
		t.Fatalf("AverageMinutes = %v, want 15", st.AverageMinutes)
	}
	if st.ByStatus[domain.StatusInProgress] != 1 {
		t.Fatalf("ByStatus = %v", st.ByStatus)
	}

	if empty := Summarize(nil); empty.Scored != 0 || empty.Average != 0 {
		t.Fatalf("empty summary = %+v", empty)
	}
}
