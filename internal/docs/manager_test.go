package docs_test

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/coursedesk/coursedesk/internal/api"
	"github.com/coursedesk/coursedesk/internal/docs"
	"github.com/coursedesk/coursedesk/internal/notify"
)

type confirmFunc func(string) bool

func (f confirmFunc) Confirm(p string) bool { return f(p) }

func docServer(t *testing.T) *httptest.Server {
	t.Helper()
	deleted := false

	mux := http.NewServeMux()
	mux.HandleFunc("/documents/", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			if deleted {
				w.Write([]byte(`[]`))
				return
			}
			w.Write([]byte(`[{"id":1,"filename":"notes.pdf","filepath":"x.pdf","course_path":"CS101"}]`))
		case http.MethodPost:
			if err := r.ParseMultipartForm(1 << 20); err != nil {
				t.Errorf("parse multipart: %v", err)
			}
			if r.FormValue("unit_id") != "4" {
				t.Errorf("unit_id = %q", r.FormValue("unit_id"))
			}
			json.NewEncoder(w).Encode(map[string]any{"message": "ok", "id": 2})
		}
	})
	mux.HandleFunc("DELETE /documents/{id}", func(w http.ResponseWriter, r *http.Request) {
		deleted = true
		json.NewEncoder(w).Encode(map[string]string{"message": "deleted"})
	})
	mux.HandleFunc("/documents/{id}/process", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		io.WriteString(w, "data: Processing notes.pdf...\n\n")
		io.WriteString(w, "data: Processing complete!\n\n")
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestUpload(t *testing.T) {
	srv := docServer(t)
	rec := &notify.Recorder{}
	mgr := docs.New(api.New(srv.URL), rec, nil)

	id, err := mgr.Upload(t.Context(), 4, "notes.pdf", strings.NewReader("pdf bytes"))
	if err != nil {
		t.Fatalf("Upload() error = %v", err)
	}
	if id != 2 {
		t.Errorf("id = %d, want 2", id)
	}
	if len(mgr.Documents()) != 1 {
		t.Error("Upload() should refetch the document list")
	}
}

func TestUpload_Validation(t *testing.T) {
	srv := docServer(t)
	rec := &notify.Recorder{}
	mgr := docs.New(api.New(srv.URL), rec, nil)

	if _, err := mgr.Upload(t.Context(), 0, "notes.pdf", strings.NewReader("x")); !errors.Is(err, docs.ErrNoUnit) {
		t.Errorf("no unit error = %v, want ErrNoUnit", err)
	}
	if _, err := mgr.Upload(t.Context(), 4, "  ", strings.NewReader("x")); err == nil {
		t.Error("Upload() without a filename should fail")
	}
	last, ok := rec.Last()
	if !ok || last.Level != notify.Warning {
		t.Errorf("expected warning notification, got %+v", last)
	}
}

func TestProcess_AccumulatesProgress(t *testing.T) {
	srv := docServer(t)
	mgr := docs.New(api.New(srv.URL), nil, nil)

	if err := mgr.Process(t.Context(), 1); err != nil {
		t.Fatalf("Process() error = %v", err)
	}

	log := mgr.Progress(1)
	want := []string{"Processing notes.pdf...", "Processing complete!"}
	if len(log) != len(want) {
		t.Fatalf("log = %v", log)
	}
	for i := range want {
		if log[i] != want[i] {
			t.Errorf("log[%d] = %q, want %q", i, log[i], want[i])
		}
	}
}

func TestDelete_ConfirmGate(t *testing.T) {
	srv := docServer(t)
	mgr := docs.New(api.New(srv.URL), nil, confirmFunc(func(string) bool { return false }))
	if err := mgr.Refresh(t.Context()); err != nil {
		t.Fatal(err)
	}

	if err := mgr.Delete(t.Context(), 1); err != nil {
		t.Fatalf("declined Delete() error = %v", err)
	}
	if len(mgr.Documents()) != 1 {
		t.Fatal("declined confirmation must not delete")
	}

	mgr = docs.New(api.New(srv.URL), nil, confirmFunc(func(string) bool { return true }))
	if err := mgr.Delete(t.Context(), 1); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if len(mgr.Documents()) != 0 {
		t.Error("confirmed delete should refetch an empty list")
	}
}
