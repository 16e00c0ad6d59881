package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

const exampleScript = `---
sender: Alice
script:
  - AM_1
  - PC_2
  - AC_3
---
Alice asks whether the player wants to meet up and reacts to the answer.
`

func initCmd() *cobra.Command {
	var projectName string
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Scaffold a new chatline project",
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(projectName) == "" {
				return fmt.Errorf("--name is required")
			}
			return runInit(projectName, ".")
		},
	}
	cmd.Flags().StringVar(&projectName, "name", "", "Project name")
	return cmd
}

func runInit(projectName, dir string) error {
	cfgPath := filepath.Join(dir, "chatline.yaml")
	scriptPath := filepath.Join(dir, "scripts", "alice.md")
	if _, err := os.Stat(cfgPath); err == nil {
		return fmt.Errorf("%s already exists", cfgPath)
	}
	if _, err := os.Stat(scriptPath); err == nil {
		return fmt.Errorf("%s already exists", scriptPath)
	}

	configContents := fmt.Sprintf(`project: %s
version: 1

store:
  dsn: file://./data/messages.json

scripts:
  paths:
    - ./scripts/

log_level: info

tables:
  author:
    AM_1: Hey! Want to grab a coffee later?
    AM_3_Y: Great, see you at ten.
    AM_3_N: No worries, another time.
  player:
    PM_2_Y: Sure, sounds good.
    PM_2_N: Sorry, I'm busy today.
`, projectName)
	if err := os.WriteFile(cfgPath, []byte(configContents), 0o600); err != nil {
		return fmt.Errorf("writing %s: %w", cfgPath, err)
	}
	if err := os.MkdirAll(filepath.Dir(scriptPath), 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Dir(scriptPath), err)
	}
	if err := os.WriteFile(scriptPath, []byte(exampleScript), 0o600); err != nil {
		return fmt.Errorf("writing %s: %w", scriptPath, err)
	}

	return nil
}
