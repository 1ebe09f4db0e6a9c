package services

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/SAP-F-2025/teacher-portal/internal/models"
	"github.com/SAP-F-2025/teacher-portal/internal/wizard"
)

const (
	skillsSheet   = "Skills"
	studentsSheet = "Students"
)

// ReviewExport is a rendered review step workbook.
type ReviewExport struct {
	Filename string
	Data     []byte
}

// ReviewExportService renders the review step of a session as a spreadsheet.
type ReviewExportService interface {
	ExportReview(ctx context.Context, teacherID, sessionID string) (*ReviewExport, error)
}

type reviewExportService struct {
	wizard WizardService
	logger *ServiceLogger
}

func NewReviewExportService(wizardService WizardService, logger *slog.Logger) ReviewExportService {
	return &reviewExportService{
		wizard: wizardService,
		logger: NewServiceLogger(logger, "review_export"),
	}
}

func (s *reviewExportService) ExportReview(ctx context.Context, teacherID, sessionID string) (export *ReviewExport, err error) {
	done := s.logger.Operation(ctx, "export_review", teacherID, sessionID, "wizard_session")
	defer func() { done(err) }()

	view, err := s.wizard.Get(ctx, teacherID, sessionID)
	if err != nil {
		return nil, err
	}
	summary, err := s.wizard.Summary(ctx, teacherID, sessionID)
	if err != nil {
		return nil, err
	}

	data, err := renderReview(view.Draft, summary)
	if err != nil {
		return nil, err
	}
	return &ReviewExport{Filename: reviewFilename(view.Draft.Title), Data: data}, nil
}

func renderReview(draft models.AssignmentDraft, summary *wizard.Summary) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", skillsSheet); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(studentsSheet); err != nil {
		return nil, err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})
	if err != nil {
		return nil, err
	}

	skillRows := [][]interface{}{
		{"Skill", "Category", "Questions", "Difficulty", "Time limit (min)", "Estimated (min)"},
	}
	for _, skill := range summary.Skills {
		var limit interface{} = ""
		if skill.TimeLimitMinutes != nil {
			limit = *skill.TimeLimitMinutes
		}
		skillRows = append(skillRows, []interface{}{
			skill.Name, skill.Category, skill.QuestionCount, string(skill.Difficulty), limit, skill.EstimatedMinutes,
		})
	}
	skillRows = append(skillRows,
		[]interface{}{},
		[]interface{}{"Title", draft.Title},
		[]interface{}{"Type", string(draft.Type)},
		[]interface{}{"Total questions", summary.TotalQuestions},
		[]interface{}{"Estimated minutes", summary.EstimatedMinutes},
		[]interface{}{"Due date", formatDate(draft.DueDate)},
		[]interface{}{"Attempts allowed", draft.AttemptsAllowed},
	)
	if err := writeRows(f, skillsSheet, skillRows); err != nil {
		return nil, err
	}

	studentRows := [][]interface{}{
		{"Student", "Username", "Differentiated", "Questions", "Attempts", "Due date"},
	}
	for _, student := range summary.Students {
		questions := 0
		for _, cfg := range student.Effective.SkillConfigs {
			questions += cfg.QuestionCount
		}
		studentRows = append(studentRows, []interface{}{
			student.DisplayName(),
			student.Username,
			yesNo(student.Effective.Overridden),
			questions,
			student.Effective.Settings.AttemptsAllowed,
			formatDate(student.Effective.Settings.DueDate),
		})
	}
	if err := writeRows(f, studentsSheet, studentRows); err != nil {
		return nil, err
	}

	for _, sheet := range []string{skillsSheet, studentsSheet} {
		if err := f.SetCellStyle(sheet, "A1", "F1", headerStyle); err != nil {
			return nil, err
		}
		if err := f.SetColWidth(sheet, "A", "F", 18); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	return nil
}

func reviewFilename(title string) string {
	words := strings.FieldsFunc(strings.ToLower(title), func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9')
	})
	if len(words) == 0 {
		return "assignment-review.xlsx"
	}
	return strings.Join(words, "-") + "-review.xlsx"
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02 15:04")
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
