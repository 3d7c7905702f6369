package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/xeipuuv/gojsonschema"
)

// QuizQuestion is a validated multiple-choice question for a unit.
type QuizQuestion struct {
	ID            int
	UnitID        int
	Question      string
	Options       map[string]string
	CorrectAnswer string
	Explanation   string
}

// questionSchema gates raw question payloads before any parsing. The
// options field is left open here because it arrives in several shapes
// (object, array, or a JSON-encoded string of either).
const questionSchemaJSON = `{
	"type": "object",
	"required": ["id", "question", "correct_answer"],
	"properties": {
		"id": {"type": "integer"},
		"unit_id": {"type": "integer"},
		"question": {"type": "string", "minLength": 1},
		"correct_answer": {"type": "string", "minLength": 1},
		"explanation": {"type": ["string", "null"]}
	}
}`

var questionSchema = mustSchema(questionSchemaJSON)

func mustSchema(src string) *gojsonschema.Schema {
	s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(src))
	if err != nil {
		panic(fmt.Sprintf("invalid question schema: %v", err))
	}
	return s
}

// rawQuestion is the wire shape of a quiz question. Options is kept
// raw for defensive parsing.
type rawQuestion struct {
	ID            int             `json:"id"`
	UnitID        int             `json:"unit_id"`
	Question      string          `json:"question"`
	Options       json.RawMessage `json:"options"`
	CorrectAnswer string          `json:"correct_answer"`
	Explanation   *string         `json:"explanation"`
}

// UnitQuestions fetches the quiz questions for a unit. Malformed
// questions are logged and dropped rather than surfaced; the remaining
// questions are fully typed and guaranteed answerable.
func (c *Client) UnitQuestions(ctx context.Context, unitID int) ([]QuizQuestion, error) {
	var raws []json.RawMessage
	if err := c.getJSON(ctx, fmt.Sprintf("/units/%d/questions", unitID), &raws); err != nil {
		return nil, fmt.Errorf("list questions of unit %d: %w", unitID, err)
	}

	questions := make([]QuizQuestion, 0, len(raws))
	for _, raw := range raws {
		q, err := parseQuestion(raw)
		if err != nil {
			slog.Warn("dropping malformed quiz question", "unit_id", unitID, "error", err)
			continue
		}
		questions = append(questions, q)
	}
	return questions, nil
}

func parseQuestion(raw json.RawMessage) (QuizQuestion, error) {
	result, err := questionSchema.Validate(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return QuizQuestion{}, fmt.Errorf("validate question: %w", err)
	}
	if !result.Valid() {
		return QuizQuestion{}, fmt.Errorf("question payload rejected: %v", result.Errors())
	}

	var rq rawQuestion
	if err := json.Unmarshal(raw, &rq); err != nil {
		return QuizQuestion{}, fmt.Errorf("unmarshal question: %w", err)
	}

	options, err := parseOptions(rq.Options)
	if err != nil {
		return QuizQuestion{}, fmt.Errorf("question %d: %w", rq.ID, err)
	}
	if len(options) == 0 {
		return QuizQuestion{}, fmt.Errorf("question %d has no options", rq.ID)
	}
	if _, ok := options[rq.CorrectAnswer]; !ok {
		return QuizQuestion{}, fmt.Errorf("question %d: correct answer %q is not an option", rq.ID, rq.CorrectAnswer)
	}

	q := QuizQuestion{
		ID:            rq.ID,
		UnitID:        rq.UnitID,
		Question:      rq.Question,
		Options:       options,
		CorrectAnswer: rq.CorrectAnswer,
	}
	if rq.Explanation != nil {
		q.Explanation = *rq.Explanation
	}
	return q, nil
}

// parseOptions accepts the shapes the service has been seen to emit:
// an object of key -> text, an array of texts (keyed A, B, C, ...), or
// a JSON-encoded string wrapping either.
func parseOptions(raw json.RawMessage) (map[string]string, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}

	// Unwrap a string-encoded payload first.
	var encoded string
	if err := json.Unmarshal(raw, &encoded); err == nil {
		if encoded == "" {
			return nil, nil
		}
		raw = json.RawMessage(encoded)
	}

	var asMap map[string]string
	if err := json.Unmarshal(raw, &asMap); err == nil {
		return asMap, nil
	}

	var asList []string
	if err := json.Unmarshal(raw, &asList); err == nil {
		options := make(map[string]string, len(asList))
		for i, text := range asList {
			if i >= 26 {
				return nil, fmt.Errorf("too many options (%d)", len(asList))
			}
			options[string(rune('A'+i))] = text
		}
		return options, nil
	}

	return nil, fmt.Errorf("unrecognized options shape: %s", string(raw))
}
