package main

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/mtbf-analyzer/backend/internal/analysis"
	"github.com/mtbf-analyzer/backend/internal/logging"
	"github.com/mtbf-analyzer/backend/internal/models"
	"github.com/mtbf-analyzer/backend/internal/upload"
	"github.com/spf13/cobra"
)

var (
	version   = "dev"
	verbose   bool
	logFormat string
)

// Exit codes for structured error reporting.
const (
	ExitSuccess    = 0
	ExitInternal   = 1
	ExitInvalidArg = 2
	ExitNotFound   = 3
	ExitNoData     = 4
)

func main() {
	logging.Init(false, "text")

	if err := newRootCmd().Execute(); err != nil {
		slog.Error("command failed", slog.String("error", err.Error()))
		os.Exit(classifyError(err))
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "mtbf",
		Short: "Work order reliability analyzer",
		Long: `mtbf reads maintenance work order tables from a saved CMMS page
(HTML), a CSV export or a JSON table dump, optionally gzip compressed.
It works out which columns hold the equipment, date, cost and work type,
and reports MTBF, failure rate, costs and the equipment with the most
work orders.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.Init(verbose, logFormat)
		},
	}

	root.PersistentFlags().BoolVar(&verbose, "verbose", false, "Verbose logging")
	root.PersistentFlags().StringVar(&logFormat, "log-format", "text", "Log format (text, json)")
	root.SilenceUsage = true
	root.SilenceErrors = true

	root.AddCommand(NewAnalyzeCmd())
	root.AddCommand(NewChartCmd())
	root.AddCommand(NewExportCmd())
	root.AddCommand(NewVersionCmd())

	return root
}

func classifyError(err error) int {
	if err == nil {
		return ExitSuccess
	}

	switch {
	case errors.Is(err, analysis.ErrNoWorkOrders):
		return ExitNoData
	case errors.Is(err, fs.ErrNotExist), errors.Is(err, errEquipmentNotFound):
		return ExitNotFound
	case errors.Is(err, models.ErrUnusableMapping), errors.Is(err, models.ErrColumnOutOfRange),
		errors.Is(err, upload.ErrTooLarge):
		return ExitInvalidArg
	}

	msg := strings.ToLower(err.Error())

	if strings.Contains(msg, "required") ||
		strings.Contains(msg, "invalid") ||
		strings.Contains(msg, "must be") ||
		strings.Contains(msg, "expected") ||
		strings.Contains(msg, "unknown") {
		return ExitInvalidArg
	}

	return ExitInternal
}
