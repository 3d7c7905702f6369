package main

import (
	"context"
	"flag"
	"fmt"
	"path/filepath"

	"github.com/coursedesk/coursedesk/internal/export"
)

func (cli *commandLine) runHistory(ctx context.Context, args []string) error {
	if len(args) < 1 {
		fmt.Fprintln(cli.out, "Usage: history list|show|save|delete|export [flags]")
		return errHelp
	}
	verb := args[0]

	fs := flag.NewFlagSet("history "+verb, flag.ContinueOnError)
	fs.SetOutput(cli.out)

	var id, out, msgID string
	var unsave bool
	switch verb {
	case "show", "delete":
		fs.StringVar(&id, "id", "", "session ID")
	case "save":
		fs.StringVar(&id, "id", "", "session ID")
		fs.StringVar(&msgID, "msg", "", "message ID")
		fs.BoolVar(&unsave, "unsave", false, "clear the saved flag instead")
	case "export":
		fs.StringVar(&id, "id", "", "session ID")
		fs.StringVar(&out, "out", "", "path of the workbook to write")
	case "list":
	default:
		fmt.Fprintln(cli.out, "Usage: history list|show|save|delete|export [flags]")
		return errHelp
	}
	if err := fs.Parse(args[1:]); err != nil {
		return err
	}
	if verb != "list" && id == "" {
		fs.Usage()
		return errHelp
	}

	switch verb {
	case "list":
		sessions := cli.store.All()
		if len(sessions) == 0 {
			fmt.Fprintln(cli.out, "No sessions yet.")
			return nil
		}
		current, _ := cli.store.Current()
		for _, sess := range sessions {
			marker := " "
			if sess.ID == current.ID {
				marker = "*"
			}
			fmt.Fprintf(cli.out, "%s %s  %-40s %2d messages  %s\n",
				marker, sess.ID, sessionLabel(sess), len(sess.Messages),
				sess.UpdatedAt.Format("2006-01-02 15:04"))
		}
		return nil

	case "show":
		sess, ok := cli.store.Get(id)
		if !ok {
			return fmt.Errorf("session not found: %s", id)
		}
		fmt.Fprintf(cli.out, "%s\n", sessionLabel(sess))
		for _, msg := range sess.Messages {
			saved := ""
			if msg.Saved {
				saved = " [saved]"
			}
			fmt.Fprintf(cli.out, "%s  %s%s: %s\n", msg.ID, msg.Role, saved, msg.Content)
		}
		return nil

	case "save":
		if msgID == "" {
			fs.Usage()
			return errHelp
		}
		return cli.store.SetSaved(ctx, id, msgID, !unsave)

	case "delete":
		if !cli.confirmer()("Delete this session?") {
			return nil
		}
		return cli.store.Delete(ctx, id)

	case "export":
		sess, ok := cli.store.Get(id)
		if !ok {
			return fmt.Errorf("session not found: %s", id)
		}
		f, err := export.SessionWorkbook(sess)
		if err != nil {
			return err
		}
		defer f.Close()
		if out == "" {
			out = filepath.Join(cli.exportDir, fmt.Sprintf("session-%s.xlsx", sess.ID))
		}
		if err := f.SaveAs(out); err != nil {
			return fmt.Errorf("write transcript: %w", err)
		}
		fmt.Fprintf(cli.out, "Transcript written to %s\n", out)
		return nil
	}
	return nil
}
