// Package storage holds the aggregation table: the sorted activity records
// with their running debt, kept in a private in-memory SQLite database for
// the duration of one run.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"cycledebt/internal/core"

	_ "modernc.org/sqlite"
)

const dateLayout = "2006-01-02"

var (
	// ErrUnsorted is returned when records are not ordered by start time.
	ErrUnsorted = errors.New("records not sorted by start")
	// ErrInvalidWindow is returned for a negative summary window.
	ErrInvalidWindow = errors.New("invalid summary window")
)

// Row is one line of the aggregation table.
type Row struct {
	Seq      int
	Start    time.Time
	End      time.Time
	Kind     core.Kind
	Distance float64
	Debt     float64
}

// Table is the aggregation table built from one sorted set of records.
type Table struct {
	db     *sql.DB
	loc    *time.Location
	logger *slog.Logger
	rows   int
}

// Option configures a Table.
type Option func(*Table)

// WithLocation sets the calendar used to turn end instants into dates for
// windowed summaries. Defaults to time.Local.
func WithLocation(loc *time.Location) Option {
	return func(t *Table) {
		if loc != nil {
			t.loc = loc
		}
	}
}

// WithLogger sets the logger used by the table.
func WithLogger(logger *slog.Logger) Option {
	return func(t *Table) {
		if logger != nil {
			t.logger = logger
		}
	}
}

// NewTable builds the table from records, which must be sorted by Start.
// The caller owns the returned Table and must Close it.
func NewTable(ctx context.Context, records []core.Record, opts ...Option) (*Table, error) {
	t := &Table{loc: time.Local, logger: slog.Default()}
	for _, opt := range opts {
		opt(t)
	}

	if !sort.SliceIsSorted(records, func(i, j int) bool {
		return records[i].Start.Before(records[j].Start)
	}) {
		return nil, ErrUnsorted
	}

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// Every connection to ":memory:" is a separate database.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if err := RunMigrations(db); err != nil {
		db.Close()
		return nil, err
	}

	t.db = db
	if err := t.insert(ctx, records); err != nil {
		db.Close()
		return nil, err
	}

	t.logger.Debug("activity table built", "rows", t.rows)
	return t, nil
}

func (t *Table) insert(ctx context.Context, records []core.Record) error {
	debts := core.RunningDebt(records)

	tx, err := t.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin insert: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO activities (seq, started_at, ended_at, end_date, distance, activity, debt)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, r := range records {
		if _, err := stmt.ExecContext(ctx,
			i,
			r.Start.Format(time.RFC3339Nano),
			r.End.Format(time.RFC3339Nano),
			r.End.In(t.loc).Format(dateLayout),
			r.Distance,
			string(r.Kind),
			debts[i],
		); err != nil {
			return fmt.Errorf("insert activity %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit insert: %w", err)
	}
	t.rows = len(records)
	return nil
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return t.rows
}

// Close releases the in-memory database.
func (t *Table) Close() error {
	if t.db != nil {
		return t.db.Close()
	}
	return nil
}

// Rows returns every row in start order.
func (t *Table) Rows(ctx context.Context) ([]Row, error) {
	rows, err := t.db.QueryContext(ctx, `
		SELECT seq, started_at, ended_at, distance, activity, debt
		FROM activities
		ORDER BY seq
	`)
	if err != nil {
		return nil, fmt.Errorf("query activities: %w", err)
	}
	defer rows.Close()

	out := make([]Row, 0, t.rows)
	for rows.Next() {
		var (
			row        Row
			start, end string
			kind       string
		)
		if err := rows.Scan(&row.Seq, &start, &end, &row.Distance, &kind, &row.Debt); err != nil {
			return nil, fmt.Errorf("scan activity: %w", err)
		}
		if row.Start, err = time.Parse(time.RFC3339Nano, start); err != nil {
			return nil, fmt.Errorf("decode start of row %d: %w", row.Seq, err)
		}
		if row.End, err = time.Parse(time.RFC3339Nano, end); err != nil {
			return nil, fmt.Errorf("decode end of row %d: %w", row.Seq, err)
		}
		row.Kind = core.Kind(kind)
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate activities: %w", err)
	}
	return out, nil
}

// Summary sums distance per activity kind over the whole table.
func (t *Table) Summary(ctx context.Context) (core.Summary, error) {
	return t.summarize(ctx, `
		SELECT activity, SUM(distance)
		FROM activities
		GROUP BY activity
	`)
}

// WindowedSummary sums distance per activity kind over the rows that ended
// on a calendar date strictly after the date weeks weeks before now.
// Dates are compared in the table's location, not as instants.
func (t *Table) WindowedSummary(ctx context.Context, weeks int, now time.Time) (core.Summary, error) {
	if weeks < 0 {
		return nil, fmt.Errorf("%w: %d weeks", ErrInvalidWindow, weeks)
	}
	return t.summarize(ctx, `
		SELECT activity, SUM(distance)
		FROM activities
		WHERE end_date > ?
		GROUP BY activity
	`, t.CutoffDate(weeks, now))
}

// CutoffDate is the calendar date weeks weeks before now, as YYYY-MM-DD.
func (t *Table) CutoffDate(weeks int, now time.Time) string {
	return now.In(t.loc).AddDate(0, 0, -7*weeks).Format(dateLayout)
}

func (t *Table) summarize(ctx context.Context, query string, args ...any) (core.Summary, error) {
	rows, err := t.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query summary: %w", err)
	}
	defer rows.Close()

	out := make(core.Summary)
	for rows.Next() {
		var (
			kind  string
			total float64
		)
		if err := rows.Scan(&kind, &total); err != nil {
			return nil, fmt.Errorf("scan summary: %w", err)
		}
		out[core.Kind(kind)] = total
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate summary: %w", err)
	}
	return out, nil
}
