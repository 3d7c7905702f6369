// Package export writes chat transcripts and quiz score sheets to
// .xlsx workbooks.
package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/coursedesk/coursedesk/internal/quiz"
	"github.com/coursedesk/coursedesk/internal/session"
)

const timeLayout = "2006-01-02 15:04:05"

// SessionWorkbook renders one session as a transcript sheet: a header
// block with the unit and its course path, then one row per message.
func SessionWorkbook(sess session.Session) (*excelize.File, error) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	header := [][]any{
		{"Unit", sess.UnitName},
		{"Course", sess.CoursePath},
		{"Updated", sess.UpdatedAt.Format(timeLayout)},
		{},
		{"Time", "Role", "Message", "Saved"},
	}
	for i, row := range header {
		if err := setRow(f, sheet, i+1, row); err != nil {
			return nil, err
		}
	}

	for i, msg := range sess.Messages {
		saved := ""
		if msg.Saved {
			saved = "yes"
		}
		row := []any{msg.CreatedAt.Format(timeLayout), msg.Role, msg.Content, saved}
		if err := setRow(f, sheet, len(header)+i+1, row); err != nil {
			return nil, err
		}
	}

	return f, nil
}

// QuizReport renders a quiz run: one row per answered question, then
// the final score.
func QuizReport(results []quiz.Result) (*excelize.File, error) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	if err := setRow(f, sheet, 1, []any{"Question", "Your answer", "Correct answer", "Result"}); err != nil {
		return nil, err
	}

	score := 0
	for i, res := range results {
		outcome := "wrong"
		if res.Correct {
			outcome = "correct"
			score++
		}
		row := []any{
			res.Question.Question,
			res.Question.Options[res.Answered],
			res.Question.Options[res.Question.CorrectAnswer],
			outcome,
		}
		if err := setRow(f, sheet, i+2, row); err != nil {
			return nil, err
		}
	}

	if err := setRow(f, sheet, len(results)+3, []any{"Score", fmt.Sprintf("%d/%d", score, len(results))}); err != nil {
		return nil, err
	}

	return f, nil
}

func setRow(f *excelize.File, sheet string, row int, values []any) error {
	for col, v := range values {
		cell, err := excelize.CoordinatesToCellName(col+1, row)
		if err != nil {
			return fmt.Errorf("cell name: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			return fmt.Errorf("set cell %s: %w", cell, err)
		}
	}
	return nil
}
