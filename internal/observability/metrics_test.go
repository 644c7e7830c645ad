package observability

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"cycledebt/internal/core"
)

func TestMetrics_WriteTextfile(t *testing.T) {
	m := NewMetrics()
	m.Record(Run{
		At:          time.Unix(1718000000, 0),
		Documents:   3,
		Records:     42,
		Total:       core.Summary{core.Driving: 120000, core.Cycling: 50000},
		Window:      core.Summary{core.Cycling: 7500},
		WindowWeeks: 2,
	})

	path := filepath.Join(t.TempDir(), "cycledebt.prom")
	require.NoError(t, m.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(data)

	require.Contains(t, out, "# TYPE cycledebt_debt_kilometers gauge")
	require.Contains(t, out, "cycledebt_debt_kilometers 70\n")
	require.Contains(t, out, `cycledebt_distance_kilometers{activity="driving",window="all"} 120`+"\n")
	require.Contains(t, out, `cycledebt_distance_kilometers{activity="cycling",window="all"} 50`+"\n")
	require.Contains(t, out, `cycledebt_distance_kilometers{activity="driving",window="2w"} 0`+"\n")
	require.Contains(t, out, `cycledebt_distance_kilometers{activity="cycling",window="2w"} 7.5`+"\n")
	require.Contains(t, out, "cycledebt_records 42\n")
	require.Contains(t, out, "cycledebt_documents 3\n")
	require.Contains(t, out, "cycledebt_last_run_timestamp_seconds 1.718e+09\n")
}

func TestMetrics_IndependentRegistries(t *testing.T) {
	a, b := NewMetrics(), NewMetrics()
	a.Record(Run{Records: 1})
	b.Record(Run{Records: 2})

	dir := t.TempDir()
	require.NoError(t, a.WriteTextfile(filepath.Join(dir, "a.prom")))
	require.NoError(t, b.WriteTextfile(filepath.Join(dir, "b.prom")))

	data, err := os.ReadFile(filepath.Join(dir, "b.prom"))
	require.NoError(t, err)
	require.Contains(t, string(data), "cycledebt_records 2\n")
}

func TestMetrics_WriteTextfileError(t *testing.T) {
	err := NewMetrics().WriteTextfile(filepath.Join(t.TempDir(), "missing", "m.prom"))
	require.ErrorContains(t, err, "write metrics textfile")
}

func TestWindowLabel(t *testing.T) {
	require.Equal(t, "0w", WindowLabel(0))
	require.Equal(t, "12w", WindowLabel(12))
}
