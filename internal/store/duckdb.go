// Package store writes analyses to DuckDB files so work orders can be
// queried with SQL outside the analyzer.
package store

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/marcboeker/go-duckdb"
	"github.com/mtbf-analyzer/backend/internal/models"
)

var schema = []string{`
CREATE TABLE work_orders (
	id         INTEGER PRIMARY KEY,
	equipment  VARCHAR NOT NULL,
	order_date TIMESTAMP NOT NULL,
	cost       DOUBLE NOT NULL,
	work_type  VARCHAR,
	class      VARCHAR NOT NULL
)`, `
CREATE TABLE equipment_stats (
	equipment   VARCHAR PRIMARY KEY,
	work_orders INTEGER NOT NULL,
	total_cost  DOUBLE NOT NULL,
	first_date  TIMESTAMP,
	last_date   TIMESTAMP,
	mtbf_hours  DOUBLE NOT NULL
)`}

// EquipmentCost is one row of the per-equipment cost query.
type EquipmentCost struct {
	Equipment  string  `json:"equipment"`
	WorkOrders int     `json:"workOrders"`
	Failures   int     `json:"failures"`
	TotalCost  float64 `json:"totalCost"`
}

// WorkOrderDB is a DuckDB file holding one analysis.
type WorkOrderDB struct {
	db   *sql.DB
	path string
}

// Create makes a fresh database at path, replacing any existing file.
func Create(path string) (*WorkOrderDB, error) {
	for _, p := range []string{path, path + ".wal"} {
		if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("removing old database: %w", err)
		}
	}

	connector, err := duckdb.NewConnector(path, func(execer driver.ExecerContext) error {
		_, err := execer.ExecContext(context.Background(), "PRAGMA enable_progress_bar=false", nil)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create DuckDB connector: %w", err)
	}

	db := sql.OpenDB(connector)
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			os.Remove(path)
			return nil, fmt.Errorf("failed to create tables: %w", err)
		}
	}

	slog.Debug("work order database created", "path", path)
	return &WorkOrderDB{db: db, path: path}, nil
}

// Path returns the database file location.
func (s *WorkOrderDB) Path() string {
	return s.path
}

// WriteAnalysis appends the work orders and equipment stats of a result.
func (s *WorkOrderDB) WriteAnalysis(ctx context.Context, result *models.AnalysisResult) error {
	if result == nil {
		return errors.New("no analysis to write")
	}
	start := time.Now()

	conn, err := s.db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("failed to get connection: %w", err)
	}
	defer conn.Close()

	err = conn.Raw(func(driverConn interface{}) error {
		dConn, ok := driverConn.(*duckdb.Conn)
		if !ok {
			return fmt.Errorf("failed to cast to duckdb.Conn")
		}
		if err := appendWorkOrders(dConn, result.WorkOrders); err != nil {
			return err
		}
		return appendEquipmentStats(dConn, result.EquipmentStats)
	})
	if err != nil {
		return fmt.Errorf("appender error: %w", err)
	}

	slog.Debug("analysis written",
		"path", s.path,
		"work_orders", len(result.WorkOrders),
		"equipment", len(result.EquipmentStats),
		"elapsed", time.Since(start))
	return nil
}

func appendWorkOrders(conn *duckdb.Conn, orders []models.WorkOrder) error {
	appender, err := duckdb.NewAppenderFromConn(conn, "", "work_orders")
	if err != nil {
		return fmt.Errorf("failed to create appender: %w", err)
	}
	defer appender.Close()

	for i, wo := range orders {
		err := appender.AppendRow(
			int32(i),
			wo.Equipment,
			wo.Time(),
			wo.Cost,
			wo.WorkType,
			string(wo.Class()),
		)
		if err != nil {
			return fmt.Errorf("failed to append work order %d: %w", i, err)
		}
	}
	return appender.Flush()
}

func appendEquipmentStats(conn *duckdb.Conn, stats map[string]*models.EquipmentStats) error {
	appender, err := duckdb.NewAppenderFromConn(conn, "", "equipment_stats")
	if err != nil {
		return fmt.Errorf("failed to create appender: %w", err)
	}
	defer appender.Close()

	for name, st := range stats {
		err := appender.AppendRow(
			name,
			int32(st.Count),
			st.TotalCost,
			time.UnixMilli(st.FirstDate).UTC(),
			time.UnixMilli(st.LastDate).UTC(),
			st.MTBF,
		)
		if err != nil {
			return fmt.Errorf("failed to append stats for %s: %w", name, err)
		}
	}
	return appender.Flush()
}

// EquipmentCosts sums work orders per equipment, most expensive first.
func (s *WorkOrderDB) EquipmentCosts(ctx context.Context) ([]EquipmentCost, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT equipment,
		       count(*),
		       count(*) FILTER (WHERE class = 'CM'),
		       sum(cost)
		FROM work_orders
		GROUP BY equipment
		ORDER BY sum(cost) DESC, equipment`)
	if err != nil {
		return nil, fmt.Errorf("querying equipment costs: %w", err)
	}
	defer rows.Close()

	var costs []EquipmentCost
	for rows.Next() {
		var c EquipmentCost
		if err := rows.Scan(&c.Equipment, &c.WorkOrders, &c.Failures, &c.TotalCost); err != nil {
			return nil, err
		}
		costs = append(costs, c)
	}
	return costs, rows.Err()
}

// Close closes the database, leaving the file in place.
func (s *WorkOrderDB) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}
