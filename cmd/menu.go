package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/analyst-cli/internal/console"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Start the interactive menu",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMenu(cmd)
	},
}

func newPrompter() console.Prompter {
	if readline.IsTerminal(int(os.Stdin.Fd())) {
		p, err := console.NewReadline("")
		if err == nil {
			return p
		}
		zap.L().Warn("readline unavailable, using plain input", zap.Error(err))
	}
	return console.NewLinePrompter(os.Stdin, os.Stdout)
}

func runMenu(cmd *cobra.Command) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGTERM)
	defer stop()

	in := newPrompter()
	defer in.Close() //nolint:errcheck
	out := console.NewPrinter(os.Stdout)

	out.Title("Universal Firecrawl + Ollama Integration System")
	out.Println("Automatically detects and works with YOUR setup!")

	if err := console.SetupKey(ctx, cfg, in, out, checkFirecrawlKey); err != nil {
		out.Error("Cannot continue without Firecrawl")
		return err
	}

	out.Info("Setting up model runtime...")
	env, err := initApp(ctx)
	if err != nil {
		out.Error("Could not connect to the model runtime")
		out.Hint("Make sure Ollama is running: ollama serve")
		return err
	}

	app := console.NewApp(cfg, env.Service, env.Refresh, env.Renderer, in, out)
	app.Welcome()
	return app.Run(ctx)
}

func init() {
	rootCmd.AddCommand(menuCmd)
}
