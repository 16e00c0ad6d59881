package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"chatline/internal/key"
)

func historyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "history <sender>",
		Short: "Print the stored history of a sender",
		Args:  cobra.ExactArgs(1),
		RunE:  runHistory,
	}
}

func runHistory(cmd *cobra.Command, args []string) error {
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

	keys, found, err := st.Load(ctx, args[0])
	if err != nil {
		return err
	}
	if !found {
		fmt.Fprintf(os.Stdout, "No history stored for %s.\n", args[0])
		return nil
	}

	for i, raw := range keys {
		text := ""
		if k, err := key.Parse(raw); err == nil {
			text, _ = p.cfg.Tables.Lookup(key.TableFor(k.Kind), raw)
		}
		fmt.Fprintf(os.Stdout, "%3d  %-12s %s\n", i, raw, text)
	}
	return nil
}
