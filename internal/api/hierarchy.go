package api

import (
	"context"
	"fmt"
	"net/http"
)

// NamedItem is a hierarchy node: a course, year, semester or unit. IDs
// are assigned by the service.
type NamedItem struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// namePayload is the create/rename request body shared by all levels.
type namePayload struct {
	Name string `json:"name"`
}

// Courses.

func (c *Client) ListCourses(ctx context.Context) ([]NamedItem, error) {
	var out []NamedItem
	if err := c.getJSON(ctx, "/courses/", &out); err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	return out, nil
}

func (c *Client) GetCourse(ctx context.Context, id int) (NamedItem, error) {
	var out NamedItem
	if err := c.getJSON(ctx, fmt.Sprintf("/courses/%d", id), &out); err != nil {
		return NamedItem{}, fmt.Errorf("get course %d: %w", id, err)
	}
	return out, nil
}

func (c *Client) CreateCourse(ctx context.Context, name string) (NamedItem, error) {
	var out NamedItem
	if err := c.sendJSON(ctx, http.MethodPost, "/courses/", namePayload{Name: name}, &out); err != nil {
		return NamedItem{}, fmt.Errorf("create course: %w", err)
	}
	return out, nil
}

func (c *Client) UpdateCourse(ctx context.Context, id int, name string) (NamedItem, error) {
	var out NamedItem
	if err := c.sendJSON(ctx, http.MethodPut, fmt.Sprintf("/courses/%d", id), namePayload{Name: name}, &out); err != nil {
		return NamedItem{}, fmt.Errorf("update course %d: %w", id, err)
	}
	return out, nil
}

// DeleteCourse removes a course; the service cascades to all
// descendant years, semesters, units and documents.
func (c *Client) DeleteCourse(ctx context.Context, id int) error {
	if err := c.deleteJSON(ctx, fmt.Sprintf("/courses/%d", id)); err != nil {
		return fmt.Errorf("delete course %d: %w", id, err)
	}
	return nil
}

// Years.

func (c *Client) ListYears(ctx context.Context, courseID int) ([]NamedItem, error) {
	var out []NamedItem
	if err := c.getJSON(ctx, fmt.Sprintf("/courses/%d/years/", courseID), &out); err != nil {
		return nil, fmt.Errorf("list years of course %d: %w", courseID, err)
	}
	return out, nil
}

func (c *Client) CreateYear(ctx context.Context, courseID int, name string) (NamedItem, error) {
	var out NamedItem
	if err := c.sendJSON(ctx, http.MethodPost, fmt.Sprintf("/courses/%d/years/", courseID), namePayload{Name: name}, &out); err != nil {
		return NamedItem{}, fmt.Errorf("create year: %w", err)
	}
	return out, nil
}

func (c *Client) UpdateYear(ctx context.Context, id int, name string) (NamedItem, error) {
	var out NamedItem
	if err := c.sendJSON(ctx, http.MethodPut, fmt.Sprintf("/years/%d", id), namePayload{Name: name}, &out); err != nil {
		return NamedItem{}, fmt.Errorf("update year %d: %w", id, err)
	}
	return out, nil
}

func (c *Client) DeleteYear(ctx context.Context, id int) error {
	if err := c.deleteJSON(ctx, fmt.Sprintf("/years/%d", id)); err != nil {
		return fmt.Errorf("delete year %d: %w", id, err)
	}
	return nil
}

// Semesters.

func (c *Client) ListSemesters(ctx context.Context, yearID int) ([]NamedItem, error) {
	var out []NamedItem
	if err := c.getJSON(ctx, fmt.Sprintf("/years/%d/semesters/", yearID), &out); err != nil {
		return nil, fmt.Errorf("list semesters of year %d: %w", yearID, err)
	}
	return out, nil
}

func (c *Client) CreateSemester(ctx context.Context, yearID int, name string) (NamedItem, error) {
	var out NamedItem
	if err := c.sendJSON(ctx, http.MethodPost, fmt.Sprintf("/years/%d/semesters/", yearID), namePayload{Name: name}, &out); err != nil {
		return NamedItem{}, fmt.Errorf("create semester: %w", err)
	}
	return out, nil
}

func (c *Client) UpdateSemester(ctx context.Context, id int, name string) (NamedItem, error) {
	var out NamedItem
	if err := c.sendJSON(ctx, http.MethodPut, fmt.Sprintf("/semesters/%d", id), namePayload{Name: name}, &out); err != nil {
		return NamedItem{}, fmt.Errorf("update semester %d: %w", id, err)
	}
	return out, nil
}

func (c *Client) DeleteSemester(ctx context.Context, id int) error {
	if err := c.deleteJSON(ctx, fmt.Sprintf("/semesters/%d", id)); err != nil {
		return fmt.Errorf("delete semester %d: %w", id, err)
	}
	return nil
}

// Units.

func (c *Client) ListUnits(ctx context.Context, semesterID int) ([]NamedItem, error) {
	var out []NamedItem
	if err := c.getJSON(ctx, fmt.Sprintf("/semesters/%d/units/", semesterID), &out); err != nil {
		return nil, fmt.Errorf("list units of semester %d: %w", semesterID, err)
	}
	return out, nil
}

func (c *Client) CreateUnit(ctx context.Context, semesterID int, name string) (NamedItem, error) {
	var out NamedItem
	if err := c.sendJSON(ctx, http.MethodPost, fmt.Sprintf("/semesters/%d/units/", semesterID), namePayload{Name: name}, &out); err != nil {
		return NamedItem{}, fmt.Errorf("create unit: %w", err)
	}
	return out, nil
}

func (c *Client) UpdateUnit(ctx context.Context, id int, name string) (NamedItem, error) {
	var out NamedItem
	if err := c.sendJSON(ctx, http.MethodPut, fmt.Sprintf("/units/%d", id), namePayload{Name: name}, &out); err != nil {
		return NamedItem{}, fmt.Errorf("update unit %d: %w", id, err)
	}
	return out, nil
}

func (c *Client) DeleteUnit(ctx context.Context, id int) error {
	if err := c.deleteJSON(ctx, fmt.Sprintf("/units/%d", id)); err != nil {
		return fmt.Errorf("delete unit %d: %w", id, err)
	}
	return nil
}

// Tree.

// TreeCourse is a course with its full nested hierarchy, as returned
// by GET /tree/.
type TreeCourse struct {
	ID    int        `json:"id"`
	Name  string     `json:"name"`
	Years []TreeYear `json:"years"`
}

type TreeYear struct {
	ID        int            `json:"id"`
	Name      string         `json:"name"`
	Semesters []TreeSemester `json:"semesters"`
}

type TreeSemester struct {
	ID    int         `json:"id"`
	Name  string      `json:"name"`
	Units []NamedItem `json:"units"`
}

// Tree fetches the whole course hierarchy in one call.
func (c *Client) Tree(ctx context.Context) ([]TreeCourse, error) {
	var out []TreeCourse
	if err := c.getJSON(ctx, "/tree/", &out); err != nil {
		return nil, fmt.Errorf("fetch tree: %w", err)
	}
	return out, nil
}
