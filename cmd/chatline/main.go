package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:   "chatline",
		Short: "Branching, resumable dialogue playback",
	}
	root.Version = version
	root.SetVersionTemplate("{{.Version}}\n")
	root.PersistentFlags().StringVar(&configPath, "config", "chatline.yaml", "Project config file")
	root.AddCommand(initCmd())
	root.AddCommand(validateCmd())
	root.AddCommand(sendersCmd())
	root.AddCommand(playCmd())
	root.AddCommand(historyCmd())
	root.AddCommand(resetCmd())
	root.AddCommand(serveCmd())
	root.AddCommand(versionCmd())
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
