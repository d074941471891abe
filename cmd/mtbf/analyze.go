package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/mtbf-analyzer/backend/internal/analysis"
	"github.com/mtbf-analyzer/backend/internal/models"
	"github.com/spf13/cobra"
)

var errEquipmentNotFound = errors.New("equipment not found")

type analyzeOptions struct {
	format       string
	equipment    string
	patternsFile string
	minColumns   int
	table        int
	mapping      string
	top          int
}

// equipmentReport is the filtered view of one equipment.
type equipmentReport struct {
	Equipment string `json:"equipment"`
	models.ReliabilityStats
}

type report struct {
	Summary         models.SummaryStats      `json:"summary"`
	ProcessedTables []models.ProcessedTable  `json:"processedTables,omitempty"`
	TopByCount      []analysis.EquipmentRank `json:"topByCount"`
	TopByCost       []analysis.EquipmentRank `json:"topByCost"`
	Equipment       *equipmentReport         `json:"equipment,omitempty"`
}

// NewAnalyzeCmd creates the analyze command
func NewAnalyzeCmd() *cobra.Command {
	opts := analyzeOptions{}

	cmd := &cobra.Command{
		Use:   "analyze <file.html|file.csv|file.json|->",
		Short: "Analyze work order tables and report reliability metrics",
		Long: `Analyze scans every table in the input, infers the equipment, date,
cost and work type columns, and reports MTBF and failure rate from the
corrective (CM) work orders together with cost totals and rankings.

When no table is recognized, pass --table and --mapping to name the
columns yourself, e.g. --table 1 --mapping equipment=0,date=2,workType=3.`,
		Args: cobra.ExactArgs(1),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if opts.format != "text" && opts.format != "json" {
				return fmt.Errorf("invalid --format value %q (expected text or json)", opts.format)
			}
			if opts.mapping == "" && cmd.Flags().Changed("table") {
				return fmt.Errorf("--mapping is required with --table")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			tables, err := loadTables(args[0], cmd.InOrStdin())
			if err != nil {
				return err
			}
			return runAnalyze(cmd.OutOrStdout(), tables, opts)
		},
	}

	cmd.Flags().StringVar(&opts.format, "format", "text", "Output format (text, json)")
	cmd.Flags().StringVar(&opts.equipment, "equipment", "", "Also report statistics for one equipment id")
	cmd.Flags().StringVar(&opts.patternsFile, "patterns", "", "YAML file with column header keywords")
	cmd.Flags().IntVar(&opts.minColumns, "min-columns", analysis.DefaultMinHeaderColumns, "Skip tables with fewer header columns")
	cmd.Flags().IntVar(&opts.table, "table", 0, "Table index for a manual --mapping")
	cmd.Flags().StringVar(&opts.mapping, "mapping", "", "Manual column mapping, e.g. equipment=0,date=1,cost=2,workType=3")
	cmd.Flags().IntVar(&opts.top, "top", 10, "Number of equipment in the rankings")

	return cmd
}

// runAnalyze analyzes tables and writes the report to w
func runAnalyze(w io.Writer, tables []models.RawTable, opts analyzeOptions) error {
	result, err := analyze(tables, opts)
	if err != nil {
		return err
	}

	rep := report{
		Summary:         result.Summary,
		ProcessedTables: result.ProcessedTables,
		TopByCount:      analysis.TopEquipment(result.EquipmentStats, analysis.RankByCount, opts.top),
		TopByCost:       analysis.TopEquipment(result.EquipmentStats, analysis.RankByCost, opts.top),
	}

	if opts.equipment != "" {
		stats, ok := analysis.FilterStats(analysis.FilterByEquipment(result.WorkOrders, opts.equipment))
		if !ok {
			return fmt.Errorf("%w: %s", errEquipmentNotFound, opts.equipment)
		}
		rep.Equipment = &equipmentReport{Equipment: opts.equipment, ReliabilityStats: stats}
	}

	if opts.format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(rep)
	}
	return writeTextReport(w, rep)
}

func analyze(tables []models.RawTable, opts analyzeOptions) (*models.AnalysisResult, error) {
	if opts.mapping != "" {
		mapping, err := parseMapping(opts.mapping)
		if err != nil {
			return nil, err
		}
		if opts.table < 0 || opts.table >= len(tables) {
			return nil, fmt.Errorf("invalid --table %d: input has %d tables", opts.table, len(tables))
		}
		return analysis.AnalyzeOne(tables[opts.table], mapping)
	}

	aopts, err := analysisOptions(opts.patternsFile, opts.minColumns)
	if err != nil {
		return nil, err
	}
	return analysis.Analyze(tables, aopts)
}

func writeTextReport(w io.Writer, rep report) error {
	s := rep.Summary
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	fmt.Fprintln(tw, "SUMMARY")
	fmt.Fprintf(tw, "Work orders:\t%d\n", s.TotalWorkOrders)
	if s.ProcessedTables > 0 {
		fmt.Fprintf(tw, "Tables processed:\t%d\n", s.ProcessedTables)
	}
	fmt.Fprintf(tw, "Total cost:\t$%.2f\n", s.TotalCost)
	fmt.Fprintf(tw, "Average cost:\t$%.2f\n", s.AverageCost)
	fmt.Fprintf(tw, "CM / PM / PdM:\t%d / %d / %d\n", s.CMCount, s.PMCount, s.PDMCount)
	fmt.Fprintf(tw, "MTBF:\t%s\n", mtbfText(s.MTBF))
	fmt.Fprintf(tw, "Failure rate:\t%.2f per year\n", s.FailureRate)
	if s.IsPMOnly {
		fmt.Fprintln(tw, "Warning:\tonly preventive maintenance found, MTBF needs corrective work orders")
	}

	if eq := rep.Equipment; eq != nil {
		fmt.Fprintf(tw, "\nEQUIPMENT %s\n", eq.Equipment)
		fmt.Fprintf(tw, "Work orders:\t%d\n", eq.TotalWorkOrders)
		fmt.Fprintf(tw, "CM / PM / PdM:\t%d / %d / %d\n", eq.CMCount, eq.PMCount, eq.PDMCount)
		fmt.Fprintf(tw, "MTBF:\t%s\n", mtbfText(eq.MTBF))
		fmt.Fprintf(tw, "Failure rate:\t%.2f per year\n", eq.FailureRate)
		if eq.Note != "" {
			fmt.Fprintf(tw, "Note:\t%s\n", eq.Note)
		}
	}

	fmt.Fprintln(tw, "\nTOP EQUIPMENT BY WORK ORDERS")
	for i, r := range rep.TopByCount {
		fmt.Fprintf(tw, "%d.\t%s\t%d\n", i+1, r.Equipment, r.Count)
	}
	fmt.Fprintln(tw, "\nTOP EQUIPMENT BY COST")
	for i, r := range rep.TopByCost {
		fmt.Fprintf(tw, "%d.\t%s\t$%.2f\n", i+1, r.Equipment, r.TotalCost)
	}

	return tw.Flush()
}

func mtbfText(hours float64) string {
	if hours <= 0 {
		return "n/a"
	}
	return fmt.Sprintf("%s (%.1f hours)", analysis.FormatHours(hours), hours)
}
