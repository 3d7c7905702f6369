package api_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/coursedesk/coursedesk/internal/api"
)

func TestListCourses(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/courses/" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		json.NewEncoder(w).Encode([]api.NamedItem{
			{ID: 1, Name: "CS101"},
			{ID: 2, Name: "MA201"},
		})
	}))
	defer srv.Close()

	client := api.New(srv.URL)
	courses, err := client.ListCourses(t.Context())
	if err != nil {
		t.Fatalf("ListCourses() error = %v", err)
	}
	if len(courses) != 2 {
		t.Fatalf("got %d courses, want 2", len(courses))
	}
	if courses[0].Name != "CS101" {
		t.Errorf("courses[0].Name = %q", courses[0].Name)
	}
}

func TestCreateYear_SendsParentScopedPath(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/courses/7/years/" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		var body struct {
			Name string `json:"name"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode body: %v", err)
		}
		json.NewEncoder(w).Encode(api.NamedItem{ID: 12, Name: body.Name})
	}))
	defer srv.Close()

	client := api.New(srv.URL)
	year, err := client.CreateYear(t.Context(), 7, "2024")
	if err != nil {
		t.Fatalf("CreateYear() error = %v", err)
	}
	if year.ID != 12 || year.Name != "2024" {
		t.Errorf("year = %+v", year)
	}
}

func TestDeleteCourse_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"detail": "Course not found"})
	}))
	defer srv.Close()

	client := api.New(srv.URL)
	err := client.DeleteCourse(t.Context(), 99)
	if err == nil {
		t.Fatal("DeleteCourse() should fail on 404")
	}

	var apiErr *api.Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("error is %T, want *api.Error", err)
	}
	if apiErr.Status != http.StatusNotFound {
		t.Errorf("Status = %d, want 404", apiErr.Status)
	}
	if apiErr.Message != "Course not found" {
		t.Errorf("Message = %q", apiErr.Message)
	}
}

func TestAsk(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/ask" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		var body struct {
			UnitID   int    `json:"unit_id"`
			Question string `json:"question"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode body: %v", err)
		}
		if body.UnitID != 3 || body.Question != "What is X?" {
			t.Errorf("body = %+v", body)
		}
		json.NewEncoder(w).Encode(map[string]string{"answer": "X is Y"})
	}))
	defer srv.Close()

	client := api.New(srv.URL)
	answer, err := client.Ask(t.Context(), 3, "What is X?")
	if err != nil {
		t.Fatalf("Ask() error = %v", err)
	}
	if answer != "X is Y" {
		t.Errorf("answer = %q, want 'X is Y'", answer)
	}
}

func TestTree(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/tree/" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		w.Write([]byte(`[{"id":1,"name":"CS101","years":[{"id":2,"name":"2024","semesters":[{"id":3,"name":"Fall","units":[{"id":4,"name":"Intro"}]}]}]}]`))
	}))
	defer srv.Close()

	client := api.New(srv.URL)
	tree, err := client.Tree(t.Context())
	if err != nil {
		t.Fatalf("Tree() error = %v", err)
	}
	if len(tree) != 1 || len(tree[0].Years) != 1 || len(tree[0].Years[0].Semesters) != 1 {
		t.Fatalf("unexpected tree shape: %+v", tree)
	}
	if tree[0].Years[0].Semesters[0].Units[0].Name != "Intro" {
		t.Errorf("unit name = %q", tree[0].Years[0].Semesters[0].Units[0].Name)
	}
}
