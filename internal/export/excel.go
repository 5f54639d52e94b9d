// Package export renders interview reports as an Excel workbook.
package export

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/spigell/screening/internal/domain"
)

const (
	SummarySheet    = "Summary"
	InterviewsSheet = "Interviews"
	AnswersSheet    = "Answers"

	timeLayout = "2006-01-02 15:04"
)

var (
	interviewHeaders = []string{"Candidate", "Email", "Job", "Status", "Score", "Duration (min)", "Started", "Completed", "Recording"}
	answerHeaders    = []string{"Candidate", "Job", "#", "Category", "Question", "Answer"}

	thinBorder = []excelize.Border{
		{Type: "left", Color: "000000", Style: 1},
		{Type: "right", Color: "000000", Style: 1},
		{Type: "top", Color: "000000", Style: 1},
		{Type: "bottom", Color: "000000", Style: 1},
	}
)

// SaveWorkbook writes the workbook for reports to path, adding an .xlsx
// extension when missing. It returns the path actually written.
func SaveWorkbook(path string, reports []domain.InterviewReport, generatedAt time.Time) (string, error) {
	if !strings.HasSuffix(strings.ToLower(path), ".xlsx") {
		path += ".xlsx"
	}
	path = filepath.Clean(path)

	f, err := build(reports, generatedAt)
	if err != nil {
		return "", err
	}
	defer f.Close()

	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("save workbook %s: %w", path, err)
	}
	return path, nil
}

// WriteWorkbook streams the workbook for reports to w.
func WriteWorkbook(w io.Writer, reports []domain.InterviewReport, generatedAt time.Time) error {
	f, err := build(reports, generatedAt)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func build(reports []domain.InterviewReport, generatedAt time.Time) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := f.SetSheetName("Sheet1", SummarySheet); err != nil {
		f.Close()
		return nil, err
	}
	for _, name := range []string{InterviewsSheet, AnswersSheet} {
		if _, err := f.NewSheet(name); err != nil {
			f.Close()
			return nil, fmt.Errorf("create sheet %s: %w", name, err)
		}
	}

	steps := []struct {
		name string
		fn   func(*excelize.File, []domain.InterviewReport) error
	}{
		{SummarySheet, func(f *excelize.File, r []domain.InterviewReport) error { return writeSummary(f, r, generatedAt) }},
		{InterviewsSheet, writeInterviews},
		{AnswersSheet, writeAnswers},
	}
	for _, step := range steps {
		if err := step.fn(f, reports); err != nil {
			f.Close()
			return nil, fmt.Errorf("fill %s sheet: %w", strings.ToLower(step.name), err)
		}
	}

	return f, nil
}

// Stats aggregates the scored interviews of a report set.
type Stats struct {
	Total          int
	ByStatus       map[domain.Status]int
	Scored         int
	Average        float64
	Highest        float64
	Lowest         float64
	AverageMinutes float64
}

func Summarize(reports []domain.InterviewReport) Stats {
	st := Stats{Total: len(reports), ByStatus: map[domain.Status]int{}}

	var sum float64
	var seconds int
	for _, r := range reports {
		st.ByStatus[r.Interview.Status]++
		if r.Interview.Score == nil {
			continue
		}
		score := *r.Interview.Score
		if st.Scored == 0 || score > st.Highest {
			st.Highest = score
		}
		if st.Scored == 0 || score < st.Lowest {
			st.Lowest = score
		}
		st.Scored++
		sum += score
		seconds += r.Interview.DurationSeconds
	}

	if st.Scored > 0 {
		st.Average = sum / float64(st.Scored)
		st.AverageMinutes = float64(seconds) / 60 / float64(st.Scored)
	}
	return st
}

func writeSummary(f *excelize.File, reports []domain.InterviewReport, generatedAt time.Time) error {
	sheet := SummarySheet
	if err := f.SetColWidth(sheet, "A", "A", 28); err != nil {
		return err
	}
	if err := f.SetColWidth(sheet, "B", "B", 24); err != nil {
		return err
	}

	titleStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 14, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
	})
	if err != nil {
		return err
	}
	labelStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}

	st := Summarize(reports)
	rows := [][2]any{
		{"Interview Screening Report", nil},
		{nil, nil},
		{"Generated:", generatedAt.Format(timeLayout)},
		{"Total interviews:", st.Total},
		{"Pending:", st.ByStatus[domain.StatusPending]},
		{"In progress:", st.ByStatus[domain.StatusInProgress]},
		{"Completed:", st.ByStatus[domain.StatusCompleted]},
		{nil, nil},
		{"Scored interviews:", st.Scored},
	}
	if st.Scored > 0 {
		rows = append(rows,
			[2]any{"Average score:", round1(st.Average)},
			[2]any{"Highest score:", round1(st.Highest)},
			[2]any{"Lowest score:", round1(st.Lowest)},
			[2]any{"Average duration (min):", round1(st.AverageMinutes)},
		)
	}

	for i, row := range rows {
		n := i + 1
		if row[0] != nil {
			if err := f.SetCellValue(sheet, cell("A", n), row[0]); err != nil {
				return err
			}
		}
		if row[1] != nil {
			if err := f.SetCellValue(sheet, cell("B", n), row[1]); err != nil {
				return err
			}
			if err := f.SetCellStyle(sheet, cell("A", n), cell("A", n), labelStyle); err != nil {
				return err
			}
		}
	}

	if err := f.SetCellStyle(sheet, "A1", "B1", titleStyle); err != nil {
		return err
	}
	return f.MergeCell(sheet, "A1", "B1")
}

func writeInterviews(f *excelize.File, reports []domain.InterviewReport) error {
	sheet := InterviewsSheet
	widths := map[string]float64{"A": 24, "B": 28, "C": 30, "D": 14, "E": 8, "F": 14, "G": 18, "H": 18, "I": 40}
	for col, width := range widths {
		if err := f.SetColWidth(sheet, col, col, width); err != nil {
			return err
		}
	}
	if err := writeHeader(f, sheet, interviewHeaders); err != nil {
		return err
	}

	bands, err := scoreStyles(f)
	if err != nil {
		return err
	}

	for i, r := range reports {
		n := i + 2
		iv := r.Interview
		values := []any{
			r.Candidate.FullName(),
			r.Candidate.Email,
			r.Job.Title,
			string(iv.Status),
			nil,
			nil,
			formatTime(iv.StartedAt),
			formatTime(iv.CompletedAt),
			iv.RecordingURL,
		}
		if iv.Score != nil {
			values[4] = *iv.Score
		}
		if iv.DurationSeconds > 0 {
			values[5] = round1(float64(iv.DurationSeconds) / 60)
		}
		if err := f.SetSheetRow(sheet, cell("A", n), &values); err != nil {
			return err
		}
		if iv.Score != nil {
			if err := f.SetCellStyle(sheet, cell("E", n), cell("E", n), bands.pick(*iv.Score)); err != nil {
				return err
			}
		}
	}

	return finishTable(f, sheet, len(interviewHeaders), len(reports))
}

func writeAnswers(f *excelize.File, reports []domain.InterviewReport) error {
	sheet := AnswersSheet
	widths := map[string]float64{"A": 24, "B": 30, "C": 5, "D": 14, "E": 60, "F": 80}
	for col, width := range widths {
		if err := f.SetColWidth(sheet, col, col, width); err != nil {
			return err
		}
	}
	if err := writeHeader(f, sheet, answerHeaders); err != nil {
		return err
	}

	wrap, err := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{WrapText: true, Vertical: "top"},
		Border:    thinBorder,
	})
	if err != nil {
		return err
	}

	n := 2
	for _, r := range reports {
		for _, q := range r.Questions {
			values := []any{r.Candidate.FullName(), r.Job.Title, q.Ordinal, q.Category, q.Question, q.Answer}
			if err := f.SetSheetRow(sheet, cell("A", n), &values); err != nil {
				return err
			}
			if err := f.SetCellStyle(sheet, cell("A", n), cell("F", n), wrap); err != nil {
				return err
			}
			n++
		}
	}

	return finishTable(f, sheet, len(answerHeaders), n-2)
}

func writeHeader(f *excelize.File, sheet string, headers []string) error {
	style, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    thinBorder,
	})
	if err != nil {
		return err
	}

	values := make([]any, len(headers))
	for i, h := range headers {
		values[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &values); err != nil {
		return err
	}
	last, err := excelize.ColumnNumberToName(len(headers))
	if err != nil {
		return err
	}
	return f.SetCellStyle(sheet, "A1", last+"1", style)
}

// finishTable freezes the header row and adds an auto filter over the data.
func finishTable(f *excelize.File, sheet string, cols, rows int) error {
	if rows > 0 {
		last, err := excelize.ColumnNumberToName(cols)
		if err != nil {
			return err
		}
		if err := f.AutoFilter(sheet, fmt.Sprintf("A1:%s%d", last, rows+1), nil); err != nil {
			return err
		}
	}
	return f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}

type bandStyles struct {
	strong, fair, weak int
}

func (b bandStyles) pick(score float64) int {
	switch {
	case score >= 80:
		return b.strong
	case score >= 60:
		return b.fair
	default:
		return b.weak
	}
}

func scoreStyles(f *excelize.File) (bandStyles, error) {
	var b bandStyles
	for _, band := range []struct {
		dst   *int
		color string
	}{
		{&b.strong, "C6EFCE"},
		{&b.fair, "FFEB9C"},
		{&b.weak, "FFC7CE"},
	} {
		id, err := f.NewStyle(&excelize.Style{
			Fill:   excelize.Fill{Type: "pattern", Color: []string{band.color}, Pattern: 1},
			Border: thinBorder,
		})
		if err != nil {
			return b, err
		}
		*band.dst = id
	}
	return b, nil
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}

func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(timeLayout)
}

func round1(v float64) float64 {
	return float64(int64(v*10+0.5)) / 10
}
