package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mtbf-analyzer/backend/internal/analysis"
	"github.com/mtbf-analyzer/backend/internal/chart"
	"github.com/spf13/cobra"
)

// NewChartCmd creates the chart command
func NewChartCmd() *cobra.Command {
	var (
		out          string
		limit        int
		patternsFile string
	)

	cmd := &cobra.Command{
		Use:   "chart <file.html|file.csv|file.json|->",
		Short: "Render a Pareto chart of work orders per equipment",
		Long: `Chart draws the equipment with the most work orders as a bar chart.
The image format follows the --out extension (png, svg, pdf, jpg).`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tables, err := loadTables(args[0], cmd.InOrStdin())
			if err != nil {
				return err
			}
			opts, err := analysisOptions(patternsFile, 0)
			if err != nil {
				return err
			}
			result, err := analysis.Analyze(tables, opts)
			if err != nil {
				return err
			}
			ranks := analysis.TopEquipment(result.EquipmentStats, analysis.RankByCount, limit)
			if err := writeChart(out, ranks); err != nil {
				return err
			}
			cmd.Printf("wrote %s (%d equipment)\n", out, len(ranks))
			return nil
		},
	}

	cmd.Flags().StringVar(&out, "out", "pareto.png", "Output image path")
	cmd.Flags().IntVar(&limit, "limit", 10, "Number of equipment to chart")
	cmd.Flags().StringVar(&patternsFile, "patterns", "", "YAML file with column header keywords")

	return cmd
}

func writeChart(path string, ranks []analysis.EquipmentRank) error {
	format := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	if format == "" {
		return fmt.Errorf("invalid --out %q: expected an image extension", path)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := chart.RenderPareto(f, ranks, format); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	return f.Close()
}
