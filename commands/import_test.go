package commands

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/attendance-reconciler/ingest"
	"github.com/warp/attendance-reconciler/reconcile"
	"github.com/warp/attendance-reconciler/reconcile/store"
	"github.com/warp/attendance-reconciler/store/sqlite"
)

func TestSkipUnapprovable(t *testing.T) {
	// GIVEN: A batch with a broken row, an unresolved person and a duplicate
	//        pair
	// WHEN: Preparing for headless batch approval
	// THEN: Exactly those rows are skipped with reasons; the survivors pass
	//       ApproveAll

	mem := store.NewMemory()
	mem.AddEmployee("P-1", "emp-1")
	mem.AddEmployee("P-2", "emp-2")
	d := reconcile.NewDate(2025, time.March, 10)

	row := func(person, checkIn, checkOut string, status reconcile.RowStatus) reconcile.IngestedRow {
		return reconcile.IngestedRow{
			PersonID: reconcile.PersonID(person),
			Date:     d, CheckIn: checkIn, CheckOut: checkOut, Status: status,
		}
	}

	session, err := reconcile.Load(context.Background(), reconcile.LoadInput{
		Rows: []reconcile.IngestedRow{
			row("P-1", "08:30", "17:00", reconcile.StatusPresent),
			row("P-1", "09:00", "18:00", reconcile.StatusPresent), // duplicate
			row("P-2", "08:30", "", reconcile.StatusPresent),      // missing check-out
			row("P-9", "", "", reconcile.StatusAbsent),            // unresolved
		},
		Resolver: mem, Calendar: mem, Conflicts: mem, Committer: mem,
	})
	require.NoError(t, err)

	skipped := skipUnapprovable(session)
	require.Len(t, skipped, 3)

	reasons := make(map[reconcile.PersonID]string)
	for _, s := range skipped {
		reasons[s.rec.Row.PersonID] = s.reason
	}
	assert.Contains(t, reasons["P-2"], "check-out")
	assert.Equal(t, "employee not resolved", reasons["P-9"])
	assert.Equal(t, "duplicate person/date row", reasons["P-1"])

	result, err := session.ApproveAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, result.SuccessCount)
	assert.Len(t, mem.Committed(), 1)
	assert.Equal(t, "08:30", mem.Committed()[0].CheckIn, "first duplicate copy kept")
}

func TestExecute_AllRowsSkippedIsCleanRun(t *testing.T) {
	// GIVEN: A workbook whose only row resolves to no employee
	// WHEN: Running the headless import
	// THEN: The row lands in the errors CSV and the run succeeds with zero
	//       commits instead of failing on the auto-closed session

	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	conf := &Config{Store: store}

	batch := &ingest.Batch{
		ID:       "batch-1",
		FileName: "unknowns.xlsx",
		Rows: []reconcile.IngestedRow{
			{
				PersonID: "P-9",
				Name:     "Unknown",
				Date:     reconcile.NewDate(2025, time.March, 10),
				Status:   reconcile.StatusAbsent,
			},
		},
	}

	errPath := filepath.Join(t.TempDir(), "errors.csv")
	require.NoError(t, execute(context.Background(), conf, batch, errPath, false))

	file, err := os.Open(errPath)
	require.NoError(t, err)
	defer file.Close()
	rows, err := csv.NewReader(file).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "employee not resolved", rows[1][6])

	entries, err := store.ListAttendance(context.Background(),
		reconcile.NewDate(2025, time.March, 1), reconcile.NewDate(2025, time.March, 31))
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestWriteSkippedCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "errors.csv")

	rec := &reconcile.EditableRecord{
		Row: reconcile.IngestedRow{
			PersonID: "P-9", Name: "Unknown",
			Date: reconcile.NewDate(2025, time.March, 10),
		},
		Status: reconcile.StatusAbsent,
	}
	require.NoError(t, writeSkippedCSV(path, []skippedRow{
		{rec: rec, reason: "employee not resolved"},
	}))

	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()

	rows, err := csv.NewReader(file).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "person_id", rows[0][0])
	assert.Equal(t, []string{"P-9", "Unknown", "2025-03-10", "", "", "absent", "employee not resolved"}, rows[1])
}

func TestWriteSkippedCSV_NothingSkippedWritesNothing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "errors.csv")
	require.NoError(t, writeSkippedCSV(path, nil))
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}
