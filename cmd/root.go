package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/mbeynon/datanymizer/internal/config"
	"github.com/mbeynon/datanymizer/internal/dumpfilter"
	"github.com/mbeynon/datanymizer/internal/logger"
	"github.com/mbeynon/datanymizer/internal/pgdumpexec"
	"github.com/mbeynon/datanymizer/internal/progress"
	"github.com/mbeynon/datanymizer/internal/version"
	"github.com/spf13/cobra"
)

var (
	flagFile   string
	flagConfig string
	flagOutput string
	flagDSN    string
	flagDebug  bool
)

// RootCmd is the anonymizer's single entry point: read a dump (from a file,
// stdin, or a live pg_dump invocation), rewrite configured columns, and
// write the result.
var RootCmd = &cobra.Command{
	Use:   "pg-datanymizer",
	Short: "Anonymize a PostgreSQL dump stream",
	Long: fmt.Sprintf(`pg-datanymizer anonymizes a PostgreSQL plain-text dump, rewriting
configured columns with faker-style, template, and JSON-path transformation
rules while leaving the rest of the dump byte-identical.

Version: %s@%s %s %s`, version.App(), version.Commit(), version.Platform(), version.Date()),
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setupLogger()
	},
	RunE: runAnonymize,
}

func init() {
	RootCmd.Flags().StringVar(&flagFile, "file", "", `input dump path ("-" or absent reads stdin)`)
	RootCmd.Flags().StringVar(&flagConfig, "config", "", "YAML rule configuration path (required)")
	RootCmd.Flags().StringVar(&flagOutput, "output", "", "output dump path (absent writes stdout)")
	RootCmd.Flags().StringVar(&flagDSN, "dsn", "", "connection string to pipe through pg_dump instead of --file")
	RootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "enable debug logging")
	_ = RootCmd.MarkFlagRequired("config")
}

func setupLogger() {
	level := slog.LevelInfo
	if flagDebug {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	logger.SetGlobal(slog.New(handler), flagDebug)
}

func runAnonymize(cmd *cobra.Command, args []string) error {
	settings, err := config.Load(flagConfig)
	if err != nil {
		return err
	}
	engine := config.NewEngine(settings)
	if err := engine.Initialize(); err != nil {
		return err
	}

	input, closeInput, err := openInput(cmd.Context())
	if err != nil {
		return err
	}
	defer closeInput()

	output, closeOutput, err := openOutput()
	if err != nil {
		return err
	}
	defer closeOutput()

	reporter := progress.NewConsole(flagDebug)

	filter := dumpfilter.New(engine, settings, reporter)
	logger.Get().Debug("starting dump anonymization", "config", flagConfig, "tables", settings.TableCount())
	return filter.Run(input, output)
}

// openInput resolves --dsn (spawn pg_dump) or --file ("-"/absent = stdin)
// into a single input reader, plus a cleanup function.
func openInput(ctx context.Context) (io.Reader, func(), error) {
	if flagDSN != "" {
		stdout, wait, err := pgdumpexec.Stream(ctx, pgdumpexec.Options{ConnString: flagDSN})
		if err != nil {
			return nil, nil, err
		}
		return stdout, func() { _ = wait() }, nil
	}

	if flagFile == "" || flagFile == "-" {
		return os.Stdin, func() {}, nil
	}
	f, err := os.Open(flagFile)
	if err != nil {
		return nil, nil, fmt.Errorf("opening input file: %w", err)
	}
	return f, func() { _ = f.Close() }, nil
}

// openOutput resolves --output (absent = stdout) into a writer plus
// cleanup function.
func openOutput() (io.Writer, func(), error) {
	if flagOutput == "" {
		return os.Stdout, func() {}, nil
	}
	f, err := os.Create(flagOutput)
	if err != nil {
		return nil, nil, fmt.Errorf("creating output file: %w", err)
	}
	return f, func() { _ = f.Close() }, nil
}

// Execute runs the root command, exiting the process on error.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
