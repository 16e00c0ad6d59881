package main

import (
	"context"
	"fmt"
	"os"
	"slices"

	"github.com/spf13/cobra"
)

func sendersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "senders",
		Short: "List scripted senders and their stored progress",
		Args:  cobra.NoArgs,
		RunE:  runSenders,
	}
}

func runSenders(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	p, err := loadProject()
	if err != nil {
		return err
	}

	st, err := openStore(ctx, p.cfg.Store.DSN)
	if err != nil {
		return err
	}
	defer st.Close(ctx)

	stored, err := st.ListSenders(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "Senders (%d):\n", len(p.scripts.Scripts))
	for _, s := range p.scripts.Scripts {
		keys, _, err := st.Load(ctx, s.Sender)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "  - %s: %d/%d shown (%s)\n", s.Sender, len(keys), len(s.Keys), s.SourceFile)
	}

	var orphaned []string
	for _, name := range stored {
		if _, ok := p.scripts.Find(name); !ok {
			orphaned = append(orphaned, name)
		}
	}
	if len(orphaned) > 0 {
		slices.Sort(orphaned)
		fmt.Fprintf(os.Stdout, "\nStored without a script (%d):\n", len(orphaned))
		for _, name := range orphaned {
			fmt.Fprintf(os.Stdout, "  - %s\n", name)
		}
	}
	if p.scripts.FilesSkipped > 0 {
		fmt.Fprintf(os.Stdout, "\nFiles skipped: %d\n", p.scripts.FilesSkipped)
	}
	return nil
}
