package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/coursedesk/coursedesk/internal/api"
	"github.com/coursedesk/coursedesk/internal/hierarchy"
	"github.com/coursedesk/coursedesk/internal/notify"
	"github.com/coursedesk/coursedesk/internal/session"
)

var errHelp = errors.New("help provided")

type commandLine struct {
	client    *api.Client
	store     *session.Store
	notifier  notify.Notifier
	exportDir string
	in        io.Reader
	out       io.Writer
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  courses|years|semesters|units list|create|rename|delete - manage the course hierarchy")
	fmt.Fprintln(cli.out, "  tree                                                    - show the whole hierarchy")
	fmt.Fprintln(cli.out, "  docs list|upload|download|delete|process                - manage uploaded documents")
	fmt.Fprintln(cli.out, "  ask [-unit ID]                                          - ask questions about a unit")
	fmt.Fprintln(cli.out, "  quiz [-unit ID] [-export]                               - take a unit quiz")
	fmt.Fprintln(cli.out, "  history list|show|save|delete|export                    - browse saved chat sessions")
}

func (cli *commandLine) run(ctx context.Context, args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	switch args[1] {
	case "courses", "years", "semesters", "units":
		return cli.runHierarchy(ctx, args[1], args[2:])
	case "tree":
		return cli.runTree(ctx)
	case "docs":
		return cli.runDocs(ctx, args[2:])
	case "ask":
		return cli.runAsk(ctx, args[2:])
	case "quiz":
		return cli.runQuiz(ctx, args[2:])
	case "history":
		return cli.runHistory(ctx, args[2:])
	default:
		cli.printUsage()
		return errHelp
	}
}

// confirmer prompts on the terminal before destructive actions.
func (cli *commandLine) confirmer() hierarchy.ConfirmFunc {
	return func(prompt string) bool {
		fmt.Fprintf(cli.out, "%s [y/N]: ", prompt)
		line, err := bufio.NewReader(cli.in).ReadString('\n')
		if err != nil {
			return false
		}
		answer := strings.ToLower(strings.TrimSpace(line))
		return answer == "y" || answer == "yes"
	}
}

func (cli *commandLine) runTree(ctx context.Context) error {
	tree, err := cli.client.Tree(ctx)
	if err != nil {
		return err
	}
	if len(tree) == 0 {
		fmt.Fprintln(cli.out, "No courses yet.")
		return nil
	}
	return hierarchy.WriteTree(cli.out, tree)
}
