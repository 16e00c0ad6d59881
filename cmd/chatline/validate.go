package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"chatline/internal/validate"
)

func validateCmd() *cobra.Command {
	var skipHistory bool
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check scripts against the message tables and stored history",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(context.Background(), cmd.OutOrStdout(), skipHistory)
		},
	}
	cmd.Flags().BoolVar(&skipHistory, "skip-history", false, "Do not compare stored history with the scripts")
	return cmd
}

func runValidate(ctx context.Context, out io.Writer, skipHistory bool) error {
	p, err := loadProject()
	if err != nil {
		return err
	}

	var history validate.HistoryReader
	if !skipHistory {
		st, err := openStore(ctx, p.cfg.Store.DSN)
		if err != nil {
			return err
		}
		defer st.Close(ctx)
		history = st
	}

	report, err := validate.Run(ctx, p.scripts.Scripts, &p.cfg.Tables, history)
	if err != nil {
		return err
	}

	var errorIssues []validate.Issue
	var warnIssues []validate.Issue
	for _, issue := range report.Issues {
		switch issue.Severity {
		case validate.SeverityError:
			errorIssues = append(errorIssues, issue)
		case validate.SeverityWarn:
			warnIssues = append(warnIssues, issue)
		}
	}

	if len(p.scripts.Errors) > 0 {
		fmt.Fprintf(out, "Script errors (%d):\n", len(p.scripts.Errors))
		for _, item := range p.scripts.Errors {
			fmt.Fprintf(out, "  - %v\n", item)
		}
		fmt.Fprintln(out, "")
	}

	if len(errorIssues) == 0 && len(warnIssues) == 0 {
		fmt.Fprintf(out, "No issues found in %d script(s).\n", len(p.scripts.Scripts))
	}

	if len(errorIssues) > 0 {
		fmt.Fprintf(out, "Errors (%d):\n", len(errorIssues))
		printIssues(out, errorIssues)
	}
	if len(warnIssues) > 0 {
		if len(errorIssues) > 0 {
			fmt.Fprintln(out, "")
		}
		fmt.Fprintf(out, "Warnings (%d):\n", len(warnIssues))
		printIssues(out, warnIssues)
	}

	if len(errorIssues) > 0 || len(p.scripts.Errors) > 0 {
		return fmt.Errorf("validation found errors")
	}
	return nil
}

func printIssues(out io.Writer, issues []validate.Issue) {
	for _, issue := range issues {
		location := fmt.Sprintf("%s[%d]", issue.Sender, issue.Index)
		if issue.Key != "" {
			location = fmt.Sprintf("%s %s", location, issue.Key)
		}
		if issue.FilePath != "" {
			location = fmt.Sprintf("%s (%s)", location, issue.FilePath)
		}
		fmt.Fprintf(out, "  - %s: %s (%s)\n", location, issue.Message, issue.Code)
	}
}
