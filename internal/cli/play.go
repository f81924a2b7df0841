package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/aretw0/wayfinder/internal/presentation/tui"
	"github.com/aretw0/wayfinder/pkg/session"
)

// PlayOptions configures an interactive traversal.
type PlayOptions struct {
	In     io.Reader
	Out    io.Writer
	Render tui.Renderer
	// UserName is used when a new session starts. Resumed sessions keep theirs.
	UserName string
	// Fresh discards any persisted session before starting.
	Fresh bool
}

const playHelp = "number = choose, b = back, r = restart, q = quit"

// Play drives tracker from line-based input until the user quits or input ends.
func Play(ctx context.Context, tracker *session.Tracker, opts PlayOptions) error {
	if opts.Render == nil {
		opts.Render = tui.PlainRenderer
	}
	out := opts.Out

	resumed, err := tracker.Load(ctx)
	if err != nil {
		printSystemMessage(out, "Could not read the saved session, starting over (%v).", err)
	}
	if opts.Fresh && resumed {
		if err := tracker.Reset(ctx); err != nil {
			return err
		}
		resumed = false
	}
	if resumed {
		printSystemMessage(out, "Resuming at '%s' node...", tracker.View().CurrentNodeID)
	} else if err := tracker.Start(ctx, opts.UserName); err != nil {
		return err
	}

	scanner := bufio.NewScanner(NewInterruptibleReader(opts.In, ctx.Done()))
	redraw := true
	for {
		view := tracker.View()
		if redraw {
			if err := show(out, opts.Render, view); err != nil {
				return err
			}
		}
		redraw = true

		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			if err := scanner.Err(); err != nil && !isInterrupted(err) {
				return err
			}
			printSystemMessage(out, "Session saved at '%s' node.", view.CurrentNodeID)
			return nil
		}

		input := strings.TrimSpace(scanner.Text())
		switch strings.ToLower(input) {
		case "q", "quit", "exit":
			printSystemMessage(out, "Session saved at '%s' node.", view.CurrentNodeID)
			return nil
		case "b", "back":
			moved, err := tracker.GoBack(ctx)
			if err != nil {
				return err
			}
			if !moved {
				printSystemMessage(out, "Already at the first question.")
				redraw = false
			}
		case "r", "restart", "reset":
			if err := tracker.Reset(ctx); err != nil {
				return err
			}
			if err := tracker.Start(ctx, view.UserName); err != nil {
				return err
			}
		case "", "?", "h", "help":
			printSystemMessage(out, playHelp)
			redraw = false
		default:
			n, convErr := strconv.Atoi(input)
			if convErr != nil || n < 1 || n > len(view.Options) {
				printSystemMessage(out, "Unknown choice %q (%s).", input, playHelp)
				redraw = false
				continue
			}
			if _, err := tracker.SelectOption(ctx, view.Options[n-1].OptionKey); err != nil {
				return err
			}
		}
	}
}

func show(out io.Writer, render tui.Renderer, view session.View) error {
	rendered, err := render(tui.ViewMarkdown(view))
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}
	fmt.Fprintln(out, rendered)
	if view.IsTerminal {
		printSystemMessage(out, "b = back, r = restart, q = quit")
	}
	return nil
}
