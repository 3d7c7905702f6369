package hierarchy

import (
	"fmt"
	"io"

	"github.com/coursedesk/coursedesk/internal/api"
)

// WriteTree renders the full hierarchy as an indented outline, two
// spaces per level.
func WriteTree(w io.Writer, courses []api.TreeCourse) error {
	for _, course := range courses {
		if _, err := fmt.Fprintf(w, "%s\n", course.Name); err != nil {
			return err
		}
		for _, year := range course.Years {
			fmt.Fprintf(w, "  %s\n", year.Name)
			for _, sem := range year.Semesters {
				fmt.Fprintf(w, "    %s\n", sem.Name)
				for _, unit := range sem.Units {
					fmt.Fprintf(w, "      %s\n", unit.Name)
				}
			}
		}
	}
	return nil
}
