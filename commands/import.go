package commands

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/warp/attendance-reconciler/ingest"
	"github.com/warp/attendance-reconciler/reconcile"
)

// newImportCmd builds the headless import: parse the workbook, open a review
// session, skip every row that fails validation or employee resolution (and
// every duplicate copy after the first), dump the skipped rows to a CSV, then
// batch-approve the remainder.
func newImportCmd(conf *Config) *cobra.Command {
	var filePath, errFilePath string
	var dryRun bool

	importCmd := &cobra.Command{
		Use:   "import",
		Short: "Imports an attendance workbook without interactive review",
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := os.Open(filePath)
			if err != nil {
				return fmt.Errorf("failed to open workbook: %w", err)
			}
			defer file.Close()

			batch, err := ingest.ParseWorkbook(file, filePath)
			if err != nil {
				return fmt.Errorf("failed to parse workbook: %w", err)
			}
			logrus.WithFields(logrus.Fields{
				"file": filePath,
				"rows": len(batch.Rows),
			}).Info("workbook parsed")

			return execute(cmd.Context(), conf, batch, errFilePath, dryRun)
		},
	}

	importCmd.PersistentFlags().StringVar(
		&filePath,
		"file",
		"attendance.xlsx",
		"attendance workbook path",
	)
	importCmd.PersistentFlags().StringVar(
		&errFilePath,
		"errors-csv",
		"errors.csv",
		"skipped-row report path",
	)
	importCmd.PersistentFlags().BoolVar(
		&dryRun,
		"dry-run",
		false,
		"validate and report without committing",
	)

	return importCmd
}

func execute(ctx context.Context, conf *Config, batch *ingest.Batch, errFilePath string, dryRun bool) error {
	session, err := reconcile.Load(ctx, reconcile.LoadInput{
		Rows:      batch.Rows,
		Resolver:  conf.Store,
		Calendar:  conf.Store,
		Conflicts: conf.Store,
		Committer: conf.Store,
	})
	if err != nil {
		return fmt.Errorf("failed to open review session: %w", err)
	}

	skipped := skipUnapprovable(session)
	if err := writeSkippedCSV(errFilePath, skipped); err != nil {
		return err
	}
	if len(skipped) > 0 {
		logrus.WithFields(logrus.Fields{
			"skipped": len(skipped),
			"report":  errFilePath,
		}).Warn("rows excluded from batch approval")
	}

	if dryRun {
		sum := session.Summarize()
		logrus.WithFields(logrus.Fields{
			"approvable": sum.Total,
			"skipped":    len(skipped),
		}).Info("dry run, nothing committed")
		session.Cancel()
		return nil
	}

	// Skipping may have emptied (and closed) the working set.
	if session.Closed() {
		logrus.WithField("skipped", len(skipped)).Info("no approvable rows, nothing committed")
		return nil
	}

	result, err := session.ApproveAll(ctx)
	if err != nil {
		return fmt.Errorf("batch approval failed: %w", err)
	}
	for _, e := range result.Errors {
		logrus.WithField("row", string(e.RowID)).Errorf("commit failed: %s", e.Message)
	}
	logrus.WithFields(logrus.Fields{
		"committed": result.SuccessCount,
		"failed":    result.FailedCount,
	}).Info("import finished")

	if result.FailedCount > 0 {
		return fmt.Errorf("%d row(s) failed to commit", result.FailedCount)
	}
	return nil
}

type skippedRow struct {
	rec    *reconcile.EditableRecord
	reason string
}

// skipUnapprovable removes every row a batch approval would refuse or omit:
// rows with validation errors, unresolved employees, and all but the first
// copy of each duplicate (person, date) key.
func skipUnapprovable(session *reconcile.Session) []skippedRow {
	var skipped []skippedRow
	seen := make(map[reconcile.RowKey]bool)

	for _, rec := range session.Records() {
		var reason string
		switch {
		case len(reconcile.Issues(rec)) > 0:
			reason = reconcile.Issues(rec)[0].Message
		case rec.Validation != reconcile.ValidationValid:
			reason = "employee not resolved"
		case seen[rec.Key()]:
			reason = "duplicate person/date row"
		default:
			seen[rec.Key()] = true
			continue
		}
		session.IgnoreRow(rec.RowID)
		skipped = append(skipped, skippedRow{rec: rec, reason: reason})
	}
	return skipped
}

func writeSkippedCSV(path string, skipped []skippedRow) error {
	if len(skipped) == 0 {
		return nil
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("failed to create skipped-row report: %w", err)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	header := []string{"person_id", "name", "date", "check_in", "check_out", "status", "error"}
	if err := w.Write(header); err != nil {
		return fmt.Errorf("failed to write report header: %w", err)
	}

	for _, s := range skipped {
		row := []string{
			string(s.rec.Row.PersonID),
			s.rec.Row.Name,
			s.rec.Row.Date.String(),
			s.rec.CheckIn,
			s.rec.CheckOut,
			string(s.rec.Status),
			s.reason,
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("failed to write report row: %w", err)
		}
	}
	w.Flush()
	return w.Error()
}
