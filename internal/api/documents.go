package api

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
)

// Document is an uploaded file attached to a unit. CoursePath is the
// server-computed breadcrumb of its unit.
type Document struct {
	ID         int    `json:"id"`
	Filename   string `json:"filename"`
	Filepath   string `json:"filepath"`
	CoursePath string `json:"course_path"`
}

func (c *Client) ListDocuments(ctx context.Context) ([]Document, error) {
	var out []Document
	if err := c.getJSON(ctx, "/documents/", &out); err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	return out, nil
}

// UploadDocument sends a file as multipart form data ("file" plus
// "unit_id") and returns the new document's ID.
func (c *Client) UploadDocument(ctx context.Context, unitID int, filename string, r io.Reader) (int, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	if err := mw.WriteField("unit_id", strconv.Itoa(unitID)); err != nil {
		return 0, fmt.Errorf("write unit_id field: %w", err)
	}
	fw, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return 0, fmt.Errorf("create file field: %w", err)
	}
	if _, err := io.Copy(fw, r); err != nil {
		return 0, fmt.Errorf("copy file contents: %w", err)
	}
	if err := mw.Close(); err != nil {
		return 0, fmt.Errorf("finish multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/documents/", &body)
	if err != nil {
		return 0, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var out struct {
		Message string `json:"message"`
		ID      int    `json:"id"`
	}
	if err := c.do(req, &out); err != nil {
		return 0, fmt.Errorf("upload document: %w", err)
	}
	return out.ID, nil
}

func (c *Client) DeleteDocument(ctx context.Context, id int) error {
	if err := c.deleteJSON(ctx, fmt.Sprintf("/documents/%d", id)); err != nil {
		return fmt.Errorf("delete document %d: %w", id, err)
	}
	return nil
}

// DownloadDocument streams a document's contents into w.
func (c *Client) DownloadDocument(ctx context.Context, id int, w io.Writer) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/documents/download/%d", c.baseURL, id), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("download document %d: %w", id, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download document %d: %w", id, newError(resp))
	}
	if _, err := io.Copy(w, resp.Body); err != nil {
		return fmt.Errorf("write document %d: %w", id, err)
	}
	return nil
}

// ProgressEvent is one frame of the document-processing stream. Err is
// set for a transport failure mid-stream, after which the channel is
// closed.
type ProgressEvent struct {
	Data string
	Err  error
}

// ProcessDocument opens the server-sent event stream for a document
// and forwards each "data:" frame on the returned channel. The channel
// is closed when the stream ends, errors, or ctx is cancelled. The
// caller must drain it.
func (c *Client) ProcessDocument(ctx context.Context, id int) (<-chan ProgressEvent, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/documents/%d/process", c.baseURL, id), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "text/event-stream")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("open process stream: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		return nil, fmt.Errorf("open process stream: %w", newError(resp))
	}

	ch := make(chan ProgressEvent)
	go func() {
		defer close(ch)
		defer resp.Body.Close()

		scanner := bufio.NewScanner(resp.Body)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for scanner.Scan() {
			line := scanner.Text()
			data, ok := strings.CutPrefix(line, "data:")
			if !ok {
				continue // comment or blank separator line
			}
			select {
			case ch <- ProgressEvent{Data: strings.TrimSpace(data)}:
			case <-ctx.Done():
				return
			}
		}
		if err := scanner.Err(); err != nil && ctx.Err() == nil {
			select {
			case ch <- ProgressEvent{Err: fmt.Errorf("process stream: %w", err)}:
			case <-ctx.Done():
			}
		}
	}()

	return ch, nil
}
