package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"chatline/internal/engine"
	"chatline/internal/key"
	"chatline/internal/present"
)

type playOptions struct {
	all    bool
	steps  int
	index  int
	choose string
	reveal time.Duration
}

func playCmd() *cobra.Command {
	opts := playOptions{index: -1}
	cmd := &cobra.Command{
		Use:   "play <sender>",
		Short: "Play a sender's dialogue in the terminal",
		Long: "Play a sender's dialogue. With no action flag an interactive prompt is started;\n" +
			"otherwise the flags run in order: --index, --steps, --all, then --choose answers\n" +
			"the choice the earlier actions offered.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlay(args[0], opts)
		},
	}
	cmd.Flags().BoolVar(&opts.all, "all", false, "Play until the script ends or a choice is offered")
	cmd.Flags().IntVar(&opts.steps, "steps", 0, "Advance this many steps")
	cmd.Flags().IntVar(&opts.index, "index", -1, "Request the script entry at this position")
	cmd.Flags().StringVar(&opts.choose, "choose", "", "Answer the pending choice (y or n)")
	cmd.Flags().DurationVar(&opts.reveal, "reveal", 0, "Pause after each newly revealed line")
	return cmd
}

func runPlay(sender string, opts playOptions) error {
	ctx := context.Background()

	p, err := loadProject()
	if err != nil {
		return err
	}
	script, err := p.script(sender)
	if err != nil {
		return err
	}

	st, err := openStore(ctx, p.cfg.Store.DSN)
	if err != nil {
		return err
	}
	defer st.Close(ctx)

	console := present.NewConsole(os.Stdout, &p.cfg.Tables, script.Sender, opts.reveal)
	eng, err := engine.New(script.Sender, script.Keys, engine.Options{
		Store:     st,
		Presenter: console,
		Logger:    &p.log,
	})
	if err != nil {
		return err
	}
	if err := eng.LoadOnStartup(ctx); err != nil {
		return err
	}

	if !opts.all && opts.steps == 0 && opts.index < 0 && opts.choose == "" {
		return repl(ctx, os.Stdin, os.Stdout, eng, console)
	}
	return playActions(ctx, os.Stdout, eng, console, opts)
}

func playActions(ctx context.Context, out io.Writer, eng *engine.Engine, console *present.Console, opts playOptions) error {
	report := func(o engine.Outcome, err error) error {
		if err != nil {
			return err
		}
		printOutcome(out, o)
		return nil
	}

	if opts.index >= 0 {
		if err := report(eng.ByIndex(ctx, opts.index)); err != nil {
			return err
		}
	}
	for i := 0; i < opts.steps; i++ {
		if err := report(eng.Next(ctx)); err != nil {
			return err
		}
	}
	if opts.all {
		if err := report(eng.PlayAll(ctx)); err != nil {
			return err
		}
	}
	if opts.choose != "" {
		answer, err := parseAnswer(opts.choose)
		if err != nil {
			return err
		}
		if err := answerChoice(ctx, eng, console, answer); err != nil {
			return err
		}
	}
	return nil
}

const replHelp = `commands:
  n        next line
  a        play until a choice or the end
  i <n>    request script entry n
  y / no   answer the pending choice
  r        reset this conversation
  h        show history
  q        quit`

func repl(ctx context.Context, in io.Reader, out io.Writer, eng *engine.Engine, console *present.Console) error {
	fmt.Fprintf(out, "Playing %s (%d/%d). Type ? for help.\n", eng.Sender(), eng.Cursor(), eng.ScriptLen())

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}

		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		var err error
		switch strings.ToLower(fields[0]) {
		case "n", "next":
			var o engine.Outcome
			o, err = eng.Next(ctx)
			printOutcome(out, o)
		case "a", "all":
			var o engine.Outcome
			o, err = eng.PlayAll(ctx)
			printOutcome(out, o)
		case "i", "index":
			if len(fields) < 2 {
				fmt.Fprintln(out, "usage: i <n>")
				continue
			}
			i, convErr := strconv.Atoi(fields[1])
			if convErr != nil {
				fmt.Fprintf(out, "not a number: %s\n", fields[1])
				continue
			}
			var o engine.Outcome
			o, err = eng.ByIndex(ctx, i)
			printOutcome(out, o)
		case "y", "yes":
			err = answerChoice(ctx, eng, console, key.Yes)
		case "no":
			err = answerChoice(ctx, eng, console, key.No)
		case "r", "reset":
			err = eng.Reset(ctx)
		case "h", "history":
			for i, k := range eng.History() {
				fmt.Fprintf(out, "%3d  %s\n", i, k)
			}
		case "q", "quit", "exit":
			return nil
		case "?", "help":
			fmt.Fprintln(out, replHelp)
		default:
			fmt.Fprintf(out, "unknown command %q, type ? for help\n", fields[0])
		}
		if err != nil {
			fmt.Fprintf(out, "error: %v\n", err)
		}
	}
}

// answerChoice selects a prompt through the presenter, then runs the tick
// that requests the chosen line.
func answerChoice(ctx context.Context, eng *engine.Engine, console *present.Console, answer key.Variant) error {
	if err := console.Select(answer); err != nil {
		return err
	}
	return eng.Tick(ctx)
}

func printOutcome(out io.Writer, o engine.Outcome) {
	switch o {
	case engine.Blocked:
		fmt.Fprintln(out, "(waiting for an answer: y or no)")
	case engine.Exhausted:
		fmt.Fprintln(out, "(end of script)")
	case engine.Unresolved:
		fmt.Fprintln(out, "(stalled: no earlier answer decides this line)")
	case engine.Duplicate:
		fmt.Fprintln(out, "(stalled: line already shown)")
	case engine.Unrenderable:
		fmt.Fprintln(out, "(stalled: no message table for this line)")
	case engine.Ignored:
		fmt.Fprintln(out, "(nothing to show)")
	}
}

func parseAnswer(s string) (key.Variant, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "y", "yes":
		return key.Yes, nil
	case "n", "no":
		return key.No, nil
	default:
		return key.None, fmt.Errorf("answer must be y or n, got %q", s)
	}
}
