package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/coursedesk/coursedesk/internal/hierarchy"
)

func (cli *commandLine) runHierarchy(ctx context.Context, resource string, args []string) error {
	if len(args) < 1 {
		fmt.Fprintf(cli.out, "Usage: %s list|create|rename|delete [flags]\n", resource)
		return errHelp
	}
	verb := args[0]

	fs := flag.NewFlagSet(resource+" "+verb, flag.ContinueOnError)
	fs.SetOutput(cli.out)

	var parent int
	switch resource {
	case "years":
		fs.IntVar(&parent, "course", 0, "parent course ID")
	case "semesters":
		fs.IntVar(&parent, "year", 0, "parent year ID")
	case "units":
		fs.IntVar(&parent, "semester", 0, "parent semester ID")
	}

	var id int
	var name string
	switch verb {
	case "create":
		fs.StringVar(&name, "name", "", "name of the new item")
	case "rename":
		fs.IntVar(&id, "id", 0, "item ID")
		fs.StringVar(&name, "name", "", "new name")
	case "delete":
		fs.IntVar(&id, "id", 0, "item ID")
	case "list":
	default:
		fmt.Fprintf(cli.out, "Usage: %s list|create|rename|delete [flags]\n", resource)
		return errHelp
	}

	if err := fs.Parse(args[1:]); err != nil {
		return err
	}
	if resource != "courses" && parent == 0 {
		fs.Usage()
		return errHelp
	}
	if (verb == "rename" || verb == "delete") && id == 0 {
		fs.Usage()
		return errHelp
	}

	panel := cli.panel(resource, parent)

	switch verb {
	case "list":
		if err := panel.Refresh(ctx); err != nil {
			return err
		}
		items := panel.Items()
		if len(items) == 0 {
			fmt.Fprintf(cli.out, "No %s yet.\n", resource)
			return nil
		}
		for _, item := range items {
			fmt.Fprintf(cli.out, "%4d  %s\n", item.ID, item.Name)
		}
		return nil
	case "create":
		return panel.Create(ctx, name)
	case "rename":
		return panel.Rename(ctx, id, name)
	case "delete":
		if err := panel.Refresh(ctx); err != nil {
			return err
		}
		return panel.Delete(ctx, id)
	}
	return nil
}

func (cli *commandLine) panel(resource string, parent int) *hierarchy.Panel {
	confirm := cli.confirmer()
	switch resource {
	case "years":
		return hierarchy.YearPanel(cli.client, parent, cli.notifier, confirm)
	case "semesters":
		return hierarchy.SemesterPanel(cli.client, parent, cli.notifier, confirm)
	case "units":
		return hierarchy.UnitPanel(cli.client, parent, cli.notifier, confirm)
	default:
		return hierarchy.CoursePanel(cli.client, cli.notifier, confirm)
	}
}
