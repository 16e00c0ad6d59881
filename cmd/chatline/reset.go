package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"chatline/internal/engine"
)

func resetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset <sender>",
		Short: "Forget a sender's progress",
		Args:  cobra.ExactArgs(1),
		RunE:  runReset,
	}
}

func runReset(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	p, err := loadProject()
	if err != nil {
		return err
	}
	script, err := p.script(args[0])
	if err != nil {
		return err
	}

	st, err := openStore(ctx, p.cfg.Store.DSN)
	if err != nil {
		return err
	}
	defer st.Close(ctx)

	eng, err := engine.New(script.Sender, script.Keys, engine.Options{Store: st, Logger: &p.log})
	if err != nil {
		return err
	}
	if err := eng.Reset(ctx); err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "Reset %s.\n", script.Sender)
	return nil
}
