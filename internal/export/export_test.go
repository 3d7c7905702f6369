package export_test

import (
	"testing"
	"time"

	"github.com/coursedesk/coursedesk/internal/api"
	"github.com/coursedesk/coursedesk/internal/export"
	"github.com/coursedesk/coursedesk/internal/quiz"
	"github.com/coursedesk/coursedesk/internal/session"
)

func TestSessionWorkbook(t *testing.T) {
	when := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	sess := session.Session{
		ID:         "s1",
		UnitName:   "Graphs",
		CoursePath: "CS101 > 2024 > Fall",
		UpdatedAt:  when,
		Messages: []session.Message{
			{Role: session.RoleUser, Content: "What is BFS?", CreatedAt: when},
			{Role: session.RoleAssistant, Content: "Level-order traversal.", Saved: true, CreatedAt: when},
		},
	}

	f, err := export.SessionWorkbook(sess)
	if err != nil {
		t.Fatalf("SessionWorkbook() error = %v", err)
	}
	defer f.Close()
	sheet := f.GetSheetName(0)

	for cell, want := range map[string]string{
		"B1": "Graphs",
		"B2": "CS101 > 2024 > Fall",
		"B6": session.RoleUser,
		"C6": "What is BFS?",
		"C7": "Level-order traversal.",
		"D7": "yes",
	} {
		got, err := f.GetCellValue(sheet, cell)
		if err != nil {
			t.Fatalf("GetCellValue(%s) error = %v", cell, err)
		}
		if got != want {
			t.Errorf("%s = %q, want %q", cell, got, want)
		}
	}
}

func TestQuizReport(t *testing.T) {
	results := []quiz.Result{
		{
			Question: api.QuizQuestion{
				Question:      "Capital of France?",
				Options:       map[string]string{"A": "Paris", "B": "London"},
				CorrectAnswer: "A",
			},
			Answered: "A",
			Correct:  true,
		},
		{
			Question: api.QuizQuestion{
				Question:      "2+2?",
				Options:       map[string]string{"A": "3", "B": "4"},
				CorrectAnswer: "B",
			},
			Answered: "A",
			Correct:  false,
		},
	}

	f, err := export.QuizReport(results)
	if err != nil {
		t.Fatalf("QuizReport() error = %v", err)
	}
	defer f.Close()
	sheet := f.GetSheetName(0)

	for cell, want := range map[string]string{
		"A2": "Capital of France?",
		"B2": "Paris",
		"D2": "correct",
		"B3": "3",
		"C3": "4",
		"D3": "wrong",
		"B5": "1/2",
	} {
		got, err := f.GetCellValue(sheet, cell)
		if err != nil {
			t.Fatalf("GetCellValue(%s) error = %v", cell, err)
		}
		if got != want {
			t.Errorf("%s = %q, want %q", cell, got, want)
		}
	}
}
