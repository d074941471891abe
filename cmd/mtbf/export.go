package main

import (
	"github.com/mtbf-analyzer/backend/internal/analysis"
	"github.com/mtbf-analyzer/backend/internal/store"
	"github.com/spf13/cobra"
)

// NewExportCmd creates the export command
func NewExportCmd() *cobra.Command {
	var (
		dbPath       string
		patternsFile string
		minColumns   int
	)

	cmd := &cobra.Command{
		Use:   "export <file.html|file.csv|file.json|->",
		Short: "Write the analyzed work orders to a DuckDB database",
		Long: `Export analyzes the input and writes two tables to a DuckDB file:
work_orders (one row per extracted work order) and equipment_stats
(count, cost, date range and MTBF per equipment). An existing file at
--db is replaced.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tables, err := loadTables(args[0], cmd.InOrStdin())
			if err != nil {
				return err
			}
			opts, err := analysisOptions(patternsFile, minColumns)
			if err != nil {
				return err
			}
			result, err := analysis.Analyze(tables, opts)
			if err != nil {
				return err
			}

			db, err := store.Create(dbPath)
			if err != nil {
				return err
			}
			defer db.Close()

			if err := db.WriteAnalysis(cmd.Context(), result); err != nil {
				return err
			}
			cmd.Printf("wrote %d work orders for %d equipment to %s\n",
				len(result.WorkOrders), len(result.EquipmentStats), db.Path())
			return nil
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "work_orders.duckdb", "DuckDB output path")
	cmd.Flags().StringVar(&patternsFile, "patterns", "", "YAML file with column header keywords")
	cmd.Flags().IntVar(&minColumns, "min-columns", 0, "Minimum header cells for a table to be considered")

	return cmd
}
