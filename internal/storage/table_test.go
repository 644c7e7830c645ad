package storage

import (
	"context"
	"testing"
	"time"

	"cycledebt/internal/core"
	"github.com/stretchr/testify/require"
)

func at(day, hour int) time.Time {
	return time.Date(2021, time.March, day, hour, 0, 0, 0, time.UTC)
}

// sample is [Driving(100), Cycling(30), Driving(20)] on March 1, 8 and 15.
func sample() []core.Record {
	return []core.Record{
		{Start: at(1, 8), End: at(1, 9), Kind: core.Driving, Distance: 100},
		{Start: at(8, 8), End: at(8, 9), Kind: core.Cycling, Distance: 30},
		{Start: at(15, 8), End: at(15, 9), Kind: core.Driving, Distance: 20},
	}
}

// NewTestTable builds a table in UTC and closes it when the test ends.
func NewTestTable(t *testing.T, records []core.Record) *Table {
	t.Helper()

	table, err := NewTable(context.Background(), records, WithLocation(time.UTC))
	require.NoError(t, err, "failed to build table")

	t.Cleanup(func() {
		table.Close()
	})

	return table
}

func TestMigrations(t *testing.T) {
	table := NewTestTable(t, nil)

	for _, name := range []string{"activities", "schema_migrations"} {
		var count int
		err := table.db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?", name).Scan(&count)
		require.NoError(t, err, "failed to query table %s", name)
		require.Equal(t, 1, count, "table %s not found", name)
	}
}

func TestTable_RowsCarryRunningDebt(t *testing.T) {
	ctx := context.Background()
	table := NewTestTable(t, sample())
	require.Equal(t, 3, table.Len())

	rows, err := table.Rows(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	debts := make([]float64, len(rows))
	for i, r := range rows {
		require.Equal(t, i, r.Seq)
		debts[i] = r.Debt
	}
	require.Equal(t, []float64{100, 70, 90}, debts)
	require.Equal(t, core.Cycling, rows[1].Kind)
	require.Equal(t, 30.0, rows[1].Distance)
	require.True(t, rows[2].Start.Equal(at(15, 8)))
	require.True(t, rows[2].End.Equal(at(15, 9)))
}

func TestTable_RowsKeepOffsets(t *testing.T) {
	zone := time.FixedZone("", -5*3600)
	start := time.Date(2021, 3, 1, 8, 0, 0, 500, zone)
	table := NewTestTable(t, []core.Record{
		{Start: start, End: start.Add(time.Hour), Kind: core.Cycling, Distance: 1},
	})

	rows, err := table.Rows(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.True(t, rows[0].Start.Equal(start))
	_, offset := rows[0].Start.Zone()
	require.Equal(t, -5*3600, offset)
}

func TestTable_Summary(t *testing.T) {
	table := NewTestTable(t, sample())

	summary, err := table.Summary(context.Background())
	require.NoError(t, err)
	require.Equal(t, core.Summary{core.Driving: 120, core.Cycling: 30}, summary)
}

func TestTable_SummaryOmitsAbsentKinds(t *testing.T) {
	table := NewTestTable(t, []core.Record{
		{Start: at(1, 8), End: at(1, 9), Kind: core.Driving, Distance: 42},
	})

	summary, err := table.Summary(context.Background())
	require.NoError(t, err)
	_, present := summary[core.Cycling]
	require.False(t, present)
	require.Equal(t, 0.0, summary.Get(core.Cycling))
}

func TestTable_WindowedSummary(t *testing.T) {
	ctx := context.Background()
	table := NewTestTable(t, sample())

	tests := []struct {
		name  string
		weeks int
		now   time.Time
		want  core.Summary
	}{
		{
			name:  "cutoff after every row",
			weeks: 1,
			now:   time.Date(2021, 4, 1, 12, 0, 0, 0, time.UTC),
			want:  core.Summary{},
		},
		{
			name:  "only the last row",
			weeks: 1,
			now:   time.Date(2021, 3, 20, 12, 0, 0, 0, time.UTC),
			want:  core.Summary{core.Driving: 20},
		},
		{
			name:  "cutoff on the end date excludes the row",
			weeks: 1,
			now:   time.Date(2021, 3, 22, 23, 0, 0, 0, time.UTC),
			want:  core.Summary{},
		},
		{
			name:  "day after the cutoff date keeps the row regardless of time",
			weeks: 1,
			now:   time.Date(2021, 3, 21, 23, 59, 0, 0, time.UTC),
			want:  core.Summary{core.Driving: 20},
		},
		{
			name:  "two weeks",
			weeks: 2,
			now:   time.Date(2021, 3, 20, 12, 0, 0, 0, time.UTC),
			want:  core.Summary{core.Driving: 20, core.Cycling: 30},
		},
		{
			name:  "zero weeks keeps only rows ending after today",
			weeks: 0,
			now:   time.Date(2021, 3, 15, 12, 0, 0, 0, time.UTC),
			want:  core.Summary{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := table.WindowedSummary(ctx, tt.weeks, tt.now)
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestTable_WindowUsesLocalCalendar(t *testing.T) {
	// 23:30 UTC on March 15 is already March 16 in UTC+2.
	east := time.FixedZone("east", 2*3600)
	records := []core.Record{
		{Start: at(15, 22), End: time.Date(2021, 3, 15, 23, 30, 0, 0, time.UTC), Kind: core.Cycling, Distance: 9},
	}
	now := time.Date(2021, 3, 22, 12, 0, 0, 0, time.UTC) // cutoff date March 15

	utc, err := NewTable(context.Background(), records, WithLocation(time.UTC))
	require.NoError(t, err)
	defer utc.Close()
	got, err := utc.WindowedSummary(context.Background(), 1, now)
	require.NoError(t, err)
	require.Empty(t, got)

	local, err := NewTable(context.Background(), records, WithLocation(east))
	require.NoError(t, err)
	defer local.Close()
	got, err = local.WindowedSummary(context.Background(), 1, now)
	require.NoError(t, err)
	require.Equal(t, core.Summary{core.Cycling: 9}, got)
}

func TestTable_InvalidWindow(t *testing.T) {
	table := NewTestTable(t, sample())
	_, err := table.WindowedSummary(context.Background(), -1, time.Now())
	require.ErrorIs(t, err, ErrInvalidWindow)
}

func TestNewTable_RejectsUnsorted(t *testing.T) {
	records := sample()
	records[0], records[2] = records[2], records[0]

	_, err := NewTable(context.Background(), records)
	require.ErrorIs(t, err, ErrUnsorted)
}

func TestNewTable_Empty(t *testing.T) {
	ctx := context.Background()
	table := NewTestTable(t, nil)

	rows, err := table.Rows(ctx)
	require.NoError(t, err)
	require.Empty(t, rows)

	summary, err := table.Summary(ctx)
	require.NoError(t, err)
	require.Empty(t, summary)
}
