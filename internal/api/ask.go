package api

import (
	"context"
	"fmt"
	"net/http"
)

// askRequest is the body of POST /ask.
type askRequest struct {
	UnitID   int    `json:"unit_id"`
	Question string `json:"question"`
}

type askResponse struct {
	Answer string `json:"answer"`
}

// Ask sends a question scoped to a unit to the retrieval backend and
// returns the generated answer.
func (c *Client) Ask(ctx context.Context, unitID int, question string) (string, error) {
	var out askResponse
	err := c.sendJSON(ctx, http.MethodPost, "/ask", askRequest{UnitID: unitID, Question: question}, &out)
	if err != nil {
		return "", fmt.Errorf("ask: %w", err)
	}
	return out.Answer, nil
}
