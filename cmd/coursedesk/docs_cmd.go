package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/coursedesk/coursedesk/internal/docs"
)

func (cli *commandLine) runDocs(ctx context.Context, args []string) error {
	if len(args) < 1 {
		fmt.Fprintln(cli.out, "Usage: docs list|upload|download|delete|process [flags]")
		return errHelp
	}
	verb := args[0]

	fs := flag.NewFlagSet("docs "+verb, flag.ContinueOnError)
	fs.SetOutput(cli.out)

	var (
		unitID int
		id     int
		file   string
		out    string
	)
	switch verb {
	case "upload":
		fs.IntVar(&unitID, "unit", 0, "unit the document belongs to")
		fs.StringVar(&file, "file", "", "path of the file to upload")
	case "download":
		fs.IntVar(&id, "id", 0, "document ID")
		fs.StringVar(&out, "out", "", "path to write the file to")
	case "delete", "process":
		fs.IntVar(&id, "id", 0, "document ID")
	case "list":
	default:
		fmt.Fprintln(cli.out, "Usage: docs list|upload|download|delete|process [flags]")
		return errHelp
	}
	if err := fs.Parse(args[1:]); err != nil {
		return err
	}

	mgr := docs.New(cli.client, cli.notifier, cli.confirmer())

	switch verb {
	case "list":
		if err := mgr.Refresh(ctx); err != nil {
			return err
		}
		documents := mgr.Documents()
		if len(documents) == 0 {
			fmt.Fprintln(cli.out, "No documents yet.")
			return nil
		}
		for _, doc := range documents {
			fmt.Fprintf(cli.out, "%4d  %-40s %s\n", doc.ID, doc.Filename, doc.CoursePath)
		}
		return nil

	case "upload":
		if unitID == 0 || file == "" {
			fs.Usage()
			return errHelp
		}
		f, err := os.Open(file)
		if err != nil {
			return fmt.Errorf("open upload file: %w", err)
		}
		defer f.Close()

		docID, err := mgr.Upload(ctx, unitID, filepath.Base(file), f)
		if err != nil {
			return err
		}
		// Index the document right away so it is searchable.
		return mgr.Process(ctx, docID)

	case "download":
		if id == 0 {
			fs.Usage()
			return errHelp
		}
		if out == "" {
			out = fmt.Sprintf("document-%d", id)
		}
		f, err := os.Create(out)
		if err != nil {
			return fmt.Errorf("create output file: %w", err)
		}
		defer f.Close()
		if err := mgr.Download(ctx, id, f); err != nil {
			return err
		}
		fmt.Fprintf(cli.out, "Saved to %s\n", out)
		return nil

	case "delete":
		if id == 0 {
			fs.Usage()
			return errHelp
		}
		return mgr.Delete(ctx, id)

	case "process":
		if id == 0 {
			fs.Usage()
			return errHelp
		}
		return mgr.Process(ctx, id)
	}
	return nil
}
