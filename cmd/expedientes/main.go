package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/expedientes/internal/common"
)

// app carries what every subcommand needs once the root pre-run has loaded it.
type app struct {
	cfg    *common.Config
	logger *slog.Logger
	out    io.Writer
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "expedientes",
		Short:         "Detect, normalize and validate judicial case files",
		Long:          "Classify extracted document text as a judicial case file, normalize and compare case numbers, validate extracted records and keep an intake history.",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}
	root.PersistentFlags().String("log-level", "", "Log level (debug, info, warn, error); overrides LOG_LEVEL")
	root.PersistentFlags().Bool("debug", false, "Enable debug mode (sets log level to debug)")

	root.AddCommand(
		classifyCmd(a),
		normalizeCmd(a),
		compareCmd(a),
		validateCmd(a),
		ingestCmd(a),
		watchCmd(a),
		exportCmd(a),
		serveCmd(a),
		dbhealthCmd(a),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command) error {
	a.cfg = common.LoadConfig()
	a.out = cmd.OutOrStdout()

	level := a.cfg.LogLevel
	if s, _ := cmd.Flags().GetString("log-level"); s != "" {
		if err := level.UnmarshalText([]byte(strings.ToUpper(s))); err != nil {
			return fmt.Errorf("invalid --log-level %q: %w", s, err)
		}
	}
	if debug, _ := cmd.Flags().GetBool("debug"); debug {
		level = slog.LevelDebug
	}
	a.cfg.LogLevel = level

	// results go to stdout; logs go to stderr so output stays pipeable
	a.logger = slog.New(slog.NewJSONHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
	slog.SetDefault(a.logger)

	return a.cfg.Validate()
}

func (a *app) printJSON(v any) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

// readInput reads a file argument, or stdin when the argument is "-" or absent.
func readInput(cmd *cobra.Command, args []string) ([]byte, error) {
	if len(args) == 0 || args[0] == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	return os.ReadFile(args[0])
}
