// Package quiz runs a unit's question deck one question at a time:
// pick an answer, check it, move on. The score counts each question
// once, at the moment it is checked.
package quiz

import (
	"errors"
	"fmt"
	"sync"

	"github.com/coursedesk/coursedesk/internal/api"
	"github.com/coursedesk/coursedesk/internal/notify"
)

var (
	// ErrNoQuestions means the unit has no usable questions.
	ErrNoQuestions = errors.New("no questions for this unit")
	// ErrNoSelection means CheckAnswer was called before an answer was picked.
	ErrNoSelection = errors.New("no answer selected")
	// ErrAlreadyChecked means the current question was already checked.
	ErrAlreadyChecked = errors.New("answer already checked")
	// ErrNotChecked means Next was called before checking the answer.
	ErrNotChecked = errors.New("check the answer first")
	// ErrFinished means the run is over.
	ErrFinished = errors.New("quiz is finished")
)

// Run is a single pass through a question deck.
type Run struct {
	notifier notify.Notifier

	mu        sync.Mutex
	questions []api.QuizQuestion
	answers   []string
	index     int
	selected  string
	checked   bool
	score     int
	finished  bool
}

// NewRun starts a run over the given questions.
func NewRun(questions []api.QuizQuestion, notifier notify.Notifier) (*Run, error) {
	if len(questions) == 0 {
		return nil, ErrNoQuestions
	}
	if notifier == nil {
		notifier = notify.Nop{}
	}
	return &Run{
		questions: questions,
		answers:   make([]string, len(questions)),
		notifier:  notifier,
	}, nil
}

// Current returns the question being answered.
func (r *Run) Current() api.QuizQuestion {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.questions[r.index]
}

// Progress returns the 1-based question number and the deck size.
func (r *Run) Progress() (int, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.index + 1, len(r.questions)
}

// Selected returns the picked option key, empty if none yet.
func (r *Run) Selected() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.selected
}

// Checked reports whether the current question has been checked.
func (r *Run) Checked() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.checked
}

// Score returns correct answers so far. After the run finishes the
// score is final.
func (r *Run) Score() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.score
}

// Finished reports whether the deck is exhausted.
func (r *Run) Finished() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.finished
}

// SelectAnswer picks an option for the current question. Re-picking
// is allowed until the answer is checked.
func (r *Run) SelectAnswer(key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.finished {
		return ErrFinished
	}
	if r.checked {
		return ErrAlreadyChecked
	}
	if _, ok := r.questions[r.index].Options[key]; !ok {
		return fmt.Errorf("no option %q", key)
	}
	r.selected = key
	return nil
}

// CheckAnswer grades the current selection and locks it in. The score
// moves at most once per question.
func (r *Run) CheckAnswer() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.finished {
		return ErrFinished
	}
	if r.checked {
		return ErrAlreadyChecked
	}
	if r.selected == "" {
		r.notifier.Notify(notify.Warning, "Select an answer first")
		return ErrNoSelection
	}

	r.checked = true
	r.answers[r.index] = r.selected
	q := r.questions[r.index]
	if r.selected == q.CorrectAnswer {
		r.score++
		r.notifier.Notify(notify.Success, "Correct!")
	} else {
		r.notifier.Notify(notify.Error, fmt.Sprintf("Incorrect. The answer is %s.", q.CorrectAnswer))
	}
	if q.Explanation != "" {
		r.notifier.Notify(notify.Info, q.Explanation)
	}
	return nil
}

// Next advances to the next question, or finishes the run after the
// last one.
func (r *Run) Next() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.finished {
		return ErrFinished
	}
	if !r.checked {
		return ErrNotChecked
	}

	if r.index == len(r.questions)-1 {
		r.finished = true
		r.notifier.Notify(notify.Info, fmt.Sprintf("Quiz complete: %d/%d", r.score, len(r.questions)))
		return nil
	}
	r.index++
	r.selected = ""
	r.checked = false
	return nil
}

// Results summarizes a finished or in-progress run per question.
type Result struct {
	Question api.QuizQuestion
	Answered string
	Correct  bool
}

// Results returns the per-question outcome for every checked question
// so far. Used for the end-of-run report.
func (r *Run) Results() []Result {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []Result
	for i, q := range r.questions {
		if r.answers[i] == "" {
			continue
		}
		out = append(out, Result{
			Question: q,
			Answered: r.answers[i],
			Correct:  r.answers[i] == q.CorrectAnswer,
		})
	}
	return out
}
