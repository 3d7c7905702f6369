package api_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/coursedesk/coursedesk/internal/api"
)

func questionsServer(t *testing.T, payload string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/units/5/questions" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(payload))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestUnitQuestions_ObjectOptions(t *testing.T) {
	srv := questionsServer(t, `[
		{"id":1,"unit_id":5,"question":"Capital of France?",
		 "options":{"A":"Paris","B":"London","C":"Berlin","D":"Madrid"},
		 "correct_answer":"A","explanation":"Paris is the capital."}
	]`)

	qs, err := api.New(srv.URL).UnitQuestions(t.Context(), 5)
	if err != nil {
		t.Fatalf("UnitQuestions() error = %v", err)
	}
	if len(qs) != 1 {
		t.Fatalf("got %d questions, want 1", len(qs))
	}
	if qs[0].Options["A"] != "Paris" {
		t.Errorf("Options[A] = %q", qs[0].Options["A"])
	}
	if qs[0].CorrectAnswer != "A" {
		t.Errorf("CorrectAnswer = %q", qs[0].CorrectAnswer)
	}
	if qs[0].Explanation != "Paris is the capital." {
		t.Errorf("Explanation = %q", qs[0].Explanation)
	}
}

func TestUnitQuestions_StringEncodedListOptions(t *testing.T) {
	// The service stores generated options as a JSON string of a list;
	// list entries are keyed A, B, C, ...
	srv := questionsServer(t, `[
		{"id":2,"unit_id":5,"question":"2+2?",
		 "options":"[\"3\",\"4\",\"5\",\"22\"]",
		 "correct_answer":"B","explanation":null}
	]`)

	qs, err := api.New(srv.URL).UnitQuestions(t.Context(), 5)
	if err != nil {
		t.Fatalf("UnitQuestions() error = %v", err)
	}
	if len(qs) != 1 {
		t.Fatalf("got %d questions, want 1", len(qs))
	}
	if got := qs[0].Options["B"]; got != "4" {
		t.Errorf("Options[B] = %q, want 4", got)
	}
	if qs[0].Explanation != "" {
		t.Errorf("Explanation = %q, want empty", qs[0].Explanation)
	}
}

func TestUnitQuestions_DropsMalformed(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{"missing question text", `[{"id":1,"unit_id":5,"options":{"A":"x"},"correct_answer":"A"}]`},
		{"empty correct answer", `[{"id":1,"unit_id":5,"question":"Q?","options":{"A":"x"},"correct_answer":""}]`},
		{"no options", `[{"id":1,"unit_id":5,"question":"Q?","options":"{}","correct_answer":"A"}]`},
		{"answer not an option", `[{"id":1,"unit_id":5,"question":"Q?","options":{"A":"x"},"correct_answer":"B"}]`},
		{"options garbage", `[{"id":1,"unit_id":5,"question":"Q?","options":"not json","correct_answer":"A"}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := questionsServer(t, tt.payload)
			qs, err := api.New(srv.URL).UnitQuestions(t.Context(), 5)
			if err != nil {
				t.Fatalf("UnitQuestions() error = %v", err)
			}
			if len(qs) != 0 {
				t.Errorf("got %d questions, want 0 (malformed dropped)", len(qs))
			}
		})
	}
}

func TestUnitQuestions_KeepsValidAmongMalformed(t *testing.T) {
	srv := questionsServer(t, `[
		{"id":1,"unit_id":5,"question":"","options":{"A":"x"},"correct_answer":"A"},
		{"id":2,"unit_id":5,"question":"Good?","options":{"A":"yes","B":"no"},"correct_answer":"A"}
	]`)

	qs, err := api.New(srv.URL).UnitQuestions(t.Context(), 5)
	if err != nil {
		t.Fatalf("UnitQuestions() error = %v", err)
	}
	if len(qs) != 1 {
		t.Fatalf("got %d questions, want 1", len(qs))
	}
	if qs[0].ID != 2 {
		t.Errorf("kept question ID = %d, want 2", qs[0].ID)
	}
}
