/*
Package sqlite provides the SQLite-backed implementation of the
reconciliation collaborator interfaces.

PURPOSE:
  One Store implements employee resolution, calendar context, leave-conflict
  lookup and the approval committer against a single SQLite database. In
  production the same patterns apply to PostgreSQL - only minor SQL dialect
  differences.

INTERFACES IMPLEMENTED:
  reconcile.EmployeeResolver:     person_id -> employee id for active employees
  reconcile.CalendarProvider:     holiday/poya occurrences intersecting a range
  reconcile.LeaveConflictChecker: active leave grants per (employee, day)
  reconcile.Committer:            attendance upserts + leave-balance effects

KEY TABLES:
  employees:       Employee records with the external person_id
  calendar_events: Holiday/Poya occurrences with [start_date, end_date]
  leave_grants:    Approved leave requests (active/cancelled)
  leave_ledger:    Append-only leave balance deltas (decimal day strings)
  attendance:      One row per (employee_id, date), upserted on commit

LEAVE LEDGER:
  Balance changes are never updates; each deduction appends a negative
  delta row referencing the commit that caused it. Balance is computed by
  summing deltas. Corrections append compensating rows.

COMMIT SEMANTICS:
  Each commit item runs in its own database transaction: attendance upsert,
  ledger append and grant cancellation land together or not at all. Items
  fail independently; the result carries per-item errors and no retry is
  attempted.

WAL MODE:
  SQLite is opened with WAL for better concurrency. A sync.RWMutex guards
  the connection, matching single-writer semantics.

USAGE:
  store, err := sqlite.New("./data/attendance.db")
  ...
  session, err := reconcile.Load(ctx, reconcile.LoadInput{
      Rows: rows, Resolver: store, Calendar: store,
      Conflicts: store, Committer: store,
  })
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/warp/attendance-reconciler/reconcile"
)

// Store implements all collaborator interfaces using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	-- Employees (person_id is the external badge/payroll identifier)
	CREATE TABLE IF NOT EXISTS employees (
		id TEXT PRIMARY KEY,
		person_id TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL,
		department TEXT,
		active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_employees_person
		ON employees(person_id) WHERE active;

	-- Calendar events: holidays and poya days, inclusive date intervals
	CREATE TABLE IF NOT EXISTS calendar_events (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		event_type TEXT NOT NULL CHECK (event_type IN ('holiday', 'poya')),
		start_date TEXT NOT NULL,
		end_date TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_calendar_events_range
		ON calendar_events(start_date, end_date);

	-- Approved leave grants
	CREATE TABLE IF NOT EXISTS leave_grants (
		id TEXT PRIMARY KEY,
		employee_id TEXT NOT NULL,
		leave_type TEXT NOT NULL,
		start_date TEXT NOT NULL,
		end_date TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'active' CHECK (status IN ('active', 'cancelled')),
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_leave_grants_employee
		ON leave_grants(employee_id, start_date, end_date);
	CREATE INDEX IF NOT EXISTS idx_leave_grants_status
		ON leave_grants(status);

	-- Leave balance ledger (append-only; deltas as decimal strings)
	CREATE TABLE IF NOT EXISTS leave_ledger (
		id TEXT PRIMARY KEY,
		employee_id TEXT NOT NULL,
		leave_type TEXT NOT NULL,
		delta_days TEXT NOT NULL,
		reason TEXT,
		reference_id TEXT,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_leave_ledger_employee_type
		ON leave_ledger(employee_id, leave_type);
	CREATE INDEX IF NOT EXISTS idx_leave_ledger_reference
		ON leave_ledger(reference_id) WHERE reference_id IS NOT NULL;

	-- Attendance entries, one per (employee, day)
	CREATE TABLE IF NOT EXISTS attendance (
		employee_id TEXT NOT NULL,
		date TEXT NOT NULL,
		check_in TEXT,
		check_out TEXT,
		status TEXT NOT NULL,
		notes TEXT,
		updated_at TEXT NOT NULL,
		PRIMARY KEY (employee_id, date)
	);

	CREATE INDEX IF NOT EXISTS idx_attendance_date
		ON attendance(date);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// EMPLOYEE RESOLVER (reconcile.EmployeeResolver)
// =============================================================================

// Resolve maps external person identifiers to employee ids for every active
// employee. Unmatched identifiers are absent from the result.
func (s *Store) Resolve(ctx context.Context, personIDs []reconcile.PersonID) (map[reconcile.PersonID]reconcile.EmployeeID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	resolved := make(map[reconcile.PersonID]reconcile.EmployeeID)
	if len(personIDs) == 0 {
		return resolved, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(personIDs)), ",")
	query := fmt.Sprintf(
		"SELECT person_id, id FROM employees WHERE active AND person_id IN (%s)",
		placeholders)

	args := make([]any, len(personIDs))
	for i, id := range personIDs {
		args[i] = string(id)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve employees: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var personID, employeeID string
		if err := rows.Scan(&personID, &employeeID); err != nil {
			return nil, err
		}
		resolved[reconcile.PersonID(personID)] = reconcile.EmployeeID(employeeID)
	}
	return resolved, rows.Err()
}

// =============================================================================
// CALENDAR PROVIDER (reconcile.CalendarProvider)
// =============================================================================

// Occurrences returns every calendar event whose [start_date, end_date]
// interval intersects [from, to].
func (s *Store) Occurrences(ctx context.Context, from, to reconcile.Date) ([]reconcile.CalendarOccurrence, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT title, event_type, start_date, end_date
		FROM calendar_events
		WHERE start_date <= ? AND end_date >= ?
		ORDER BY start_date ASC
	`

	rows, err := s.db.QueryContext(ctx, query, to.String(), from.String())
	if err != nil {
		return nil, fmt.Errorf("failed to query calendar events: %w", err)
	}
	defer rows.Close()

	var occurrences []reconcile.CalendarOccurrence
	for rows.Next() {
		var title, eventType, startStr, endStr string
		if err := rows.Scan(&title, &eventType, &startStr, &endStr); err != nil {
			return nil, err
		}
		start, err := reconcile.ParseDate(startStr)
		if err != nil {
			return nil, err
		}
		end, err := reconcile.ParseDate(endStr)
		if err != nil {
			return nil, err
		}
		occurrences = append(occurrences, reconcile.CalendarOccurrence{
			Title: title,
			Type:  reconcile.EventType(eventType),
			Start: start,
			End:   end,
		})
	}
	return occurrences, rows.Err()
}

// =============================================================================
// LEAVE CONFLICT CHECKER (reconcile.LeaveConflictChecker)
// =============================================================================

// ActiveLeaves returns the leave type of any active grant covering each
// (employee, date) pair.
func (s *Store) ActiveLeaves(ctx context.Context, employeeIDs []reconcile.EmployeeID, dates []reconcile.Date) (map[reconcile.LeaveKey]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[reconcile.LeaveKey]string)
	if len(employeeIDs) == 0 || len(dates) == 0 {
		return out, nil
	}

	from, to, ok := reconcile.DateSpan(dates)
	if !ok {
		return out, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(employeeIDs)), ",")
	query := fmt.Sprintf(`
		SELECT employee_id, leave_type, start_date, end_date
		FROM leave_grants
		WHERE status = 'active'
		  AND employee_id IN (%s)
		  AND start_date <= ? AND end_date >= ?
	`, placeholders)

	args := make([]any, 0, len(employeeIDs)+2)
	for _, id := range employeeIDs {
		args = append(args, string(id))
	}
	args = append(args, to.String(), from.String())

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query leave grants: %w", err)
	}
	defer rows.Close()

	type grant struct {
		employee   reconcile.EmployeeID
		leaveType  string
		start, end reconcile.Date
	}
	var grants []grant
	for rows.Next() {
		var employeeID, leaveType, startStr, endStr string
		if err := rows.Scan(&employeeID, &leaveType, &startStr, &endStr); err != nil {
			return nil, err
		}
		start, err := reconcile.ParseDate(startStr)
		if err != nil {
			return nil, err
		}
		end, err := reconcile.ParseDate(endStr)
		if err != nil {
			return nil, err
		}
		grants = append(grants, grant{
			employee:  reconcile.EmployeeID(employeeID),
			leaveType: leaveType,
			start:     start,
			end:       end,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, g := range grants {
		for _, date := range dates {
			if date.Before(g.start) || date.After(g.end) {
				continue
			}
			out[reconcile.LeaveKey{EmployeeID: g.employee, Date: date.String()}] = g.leaveType
		}
	}
	return out, nil
}

// =============================================================================
// APPROVAL COMMITTER (reconcile.Committer)
// =============================================================================

// Commit persists approved rows. Each item runs in its own database
// transaction; items fail independently and failures are reported per item.
func (s *Store) Commit(ctx context.Context, items []reconcile.CommitItem) (reconcile.CommitResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var result reconcile.CommitResult
	for _, item := range items {
		if err := s.commitItem(ctx, item); err != nil {
			result.FailedCount++
			result.Errors = append(result.Errors, reconcile.ItemError{
				RowID:   item.RowID,
				Message: err.Error(),
			})
			continue
		}
		result.SuccessCount++
	}
	return result, nil
}

func (s *Store) commitItem(ctx context.Context, item reconcile.CommitItem) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC().Format(time.RFC3339)

	upsert := `
		INSERT INTO attendance (employee_id, date, check_in, check_out, status, notes, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(employee_id, date) DO UPDATE SET
			check_in = excluded.check_in,
			check_out = excluded.check_out,
			status = excluded.status,
			notes = excluded.notes,
			updated_at = excluded.updated_at
	`
	if _, err := tx.ExecContext(ctx, upsert,
		string(item.EmployeeID),
		item.Date.String(),
		nullString(item.CheckIn),
		nullString(item.CheckOut),
		string(item.Status),
		nullString(item.Notes),
		now,
	); err != nil {
		return fmt.Errorf("attendance upsert: %w", err)
	}

	if d := item.Deduction; d != nil {
		if d.Days.IsPositive() {
			ledger := `
				INSERT INTO leave_ledger (id, employee_id, leave_type, delta_days, reason, reference_id, created_at)
				VALUES (?, ?, ?, ?, ?, ?, ?)
			`
			if _, err := tx.ExecContext(ctx, ledger,
				uuid.NewString(),
				string(d.EmployeeID),
				d.LeaveType,
				d.Days.Neg().String(),
				"attendance reconciliation: clocked in while on leave",
				string(item.RowID),
				now,
			); err != nil {
				return fmt.Errorf("leave ledger append: %w", err)
			}
		}

		if d.CancelLeave {
			cancel := `
				UPDATE leave_grants
				SET status = 'cancelled'
				WHERE employee_id = ? AND leave_type = ? AND status = 'active'
				  AND start_date <= ? AND end_date >= ?
			`
			if _, err := tx.ExecContext(ctx, cancel,
				string(d.EmployeeID),
				d.LeaveType,
				item.Date.String(),
				item.Date.String(),
			); err != nil {
				return fmt.Errorf("leave grant cancellation: %w", err)
			}
		}
	}

	return tx.Commit()
}

// =============================================================================
// EMPLOYEE ADMIN
// =============================================================================

// Employee is an employee record.
type Employee struct {
	ID         string
	PersonID   string
	Name       string
	Department string
	Active     bool
	CreatedAt  time.Time
}

// SaveEmployee inserts or updates an employee.
func (s *Store) SaveEmployee(ctx context.Context, emp Employee) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO employees (id, person_id, name, department, active, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			person_id = excluded.person_id,
			name = excluded.name,
			department = excluded.department,
			active = excluded.active
	`

	_, err := s.db.ExecContext(ctx, query,
		emp.ID, emp.PersonID, emp.Name, emp.Department, emp.Active,
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil && isUniqueConstraintError(err) {
		return fmt.Errorf("person id %s already registered: %w", emp.PersonID, err)
	}
	return err
}

// ListEmployees returns all employees.
func (s *Store) ListEmployees(ctx context.Context) ([]Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, person_id, name, department, active, created_at FROM employees ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var employees []Employee
	for rows.Next() {
		var emp Employee
		var department sql.NullString
		var createdAt string
		if err := rows.Scan(&emp.ID, &emp.PersonID, &emp.Name, &department, &emp.Active, &createdAt); err != nil {
			return nil, err
		}
		emp.Department = department.String
		emp.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		employees = append(employees, emp)
	}
	return employees, rows.Err()
}

// =============================================================================
// CALENDAR ADMIN
// =============================================================================

// CalendarEvent is a stored holiday/poya occurrence.
type CalendarEvent struct {
	ID        string
	Title     string
	EventType string
	StartDate reconcile.Date
	EndDate   reconcile.Date
}

// SaveCalendarEvent inserts or updates a calendar event.
func (s *Store) SaveCalendarEvent(ctx context.Context, ev CalendarEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO calendar_events (id, title, event_type, start_date, end_date, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			event_type = excluded.event_type,
			start_date = excluded.start_date,
			end_date = excluded.end_date
	`

	_, err := s.db.ExecContext(ctx, query,
		ev.ID, ev.Title, ev.EventType, ev.StartDate.String(), ev.EndDate.String(),
		time.Now().UTC().Format(time.RFC3339),
	)
	return err
}

// ListCalendarEvents returns all calendar events ordered by start date.
func (s *Store) ListCalendarEvents(ctx context.Context) ([]CalendarEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, title, event_type, start_date, end_date FROM calendar_events ORDER BY start_date")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []CalendarEvent
	for rows.Next() {
		var ev CalendarEvent
		var startStr, endStr string
		if err := rows.Scan(&ev.ID, &ev.Title, &ev.EventType, &startStr, &endStr); err != nil {
			return nil, err
		}
		ev.StartDate, _ = reconcile.ParseDate(startStr)
		ev.EndDate, _ = reconcile.ParseDate(endStr)
		events = append(events, ev)
	}
	return events, rows.Err()
}

// =============================================================================
// LEAVE ADMIN
// =============================================================================

// LeaveGrant is a stored approved leave request.
type LeaveGrant struct {
	ID         string
	EmployeeID string
	LeaveType  string
	StartDate  reconcile.Date
	EndDate    reconcile.Date
	Status     string
}

// SaveLeaveGrant inserts or updates a leave grant.
func (s *Store) SaveLeaveGrant(ctx context.Context, g LeaveGrant) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if g.Status == "" {
		g.Status = "active"
	}

	query := `
		INSERT INTO leave_grants (id, employee_id, leave_type, start_date, end_date, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			leave_type = excluded.leave_type,
			start_date = excluded.start_date,
			end_date = excluded.end_date,
			status = excluded.status
	`

	_, err := s.db.ExecContext(ctx, query,
		g.ID, g.EmployeeID, g.LeaveType, g.StartDate.String(), g.EndDate.String(), g.Status,
		time.Now().UTC().Format(time.RFC3339),
	)
	return err
}

// GetLeaveGrant retrieves a grant by id. Returns nil when absent.
func (s *Store) GetLeaveGrant(ctx context.Context, id string) (*LeaveGrant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var g LeaveGrant
	var startStr, endStr string
	err := s.db.QueryRowContext(ctx,
		"SELECT id, employee_id, leave_type, start_date, end_date, status FROM leave_grants WHERE id = ?",
		id,
	).Scan(&g.ID, &g.EmployeeID, &g.LeaveType, &startStr, &endStr, &g.Status)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	g.StartDate, _ = reconcile.ParseDate(startStr)
	g.EndDate, _ = reconcile.ParseDate(endStr)
	return &g, nil
}

// AppendLeaveLedger appends a balance delta (positive for entitlement
// grants, negative for deductions). The ledger is append-only.
func (s *Store) AppendLeaveLedger(ctx context.Context, employeeID, leaveType string, deltaDays decimal.Decimal, reason, referenceID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO leave_ledger (id, employee_id, leave_type, delta_days, reason, reference_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	_, err := s.db.ExecContext(ctx, query,
		uuid.NewString(), employeeID, leaveType, deltaDays.String(),
		nullString(reason), nullString(referenceID),
		time.Now().UTC().Format(time.RFC3339),
	)
	return err
}

// LeaveBalance computes the employee's balance for a leave type by summing
// ledger deltas.
func (s *Store) LeaveBalance(ctx context.Context, employeeID, leaveType string) (decimal.Decimal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT delta_days FROM leave_ledger WHERE employee_id = ? AND leave_type = ?",
		employeeID, leaveType)
	if err != nil {
		return decimal.Zero, err
	}
	defer rows.Close()

	balance := decimal.Zero
	for rows.Next() {
		var deltaStr string
		if err := rows.Scan(&deltaStr); err != nil {
			return decimal.Zero, err
		}
		delta, err := decimal.NewFromString(deltaStr)
		if err != nil {
			return decimal.Zero, fmt.Errorf("corrupt ledger delta %q: %w", deltaStr, err)
		}
		balance = balance.Add(delta)
	}
	return balance, rows.Err()
}

// =============================================================================
// ATTENDANCE QUERIES
// =============================================================================

// AttendanceEntry is a persisted attendance row.
type AttendanceEntry struct {
	EmployeeID string
	Date       reconcile.Date
	CheckIn    string
	CheckOut   string
	Status     string
	Notes      string
	UpdatedAt  time.Time
}

// GetAttendance retrieves the entry for (employee, date). Returns nil when
// absent.
func (s *Store) GetAttendance(ctx context.Context, employeeID string, date reconcile.Date) (*AttendanceEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var entry AttendanceEntry
	var checkIn, checkOut, notes sql.NullString
	var dateStr, updatedAt string

	err := s.db.QueryRowContext(ctx,
		`SELECT employee_id, date, check_in, check_out, status, notes, updated_at
		 FROM attendance WHERE employee_id = ? AND date = ?`,
		employeeID, date.String(),
	).Scan(&entry.EmployeeID, &dateStr, &checkIn, &checkOut, &entry.Status, &notes, &updatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	entry.Date, _ = reconcile.ParseDate(dateStr)
	entry.CheckIn = checkIn.String
	entry.CheckOut = checkOut.String
	entry.Notes = notes.String
	entry.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return &entry, nil
}

// ListAttendance returns entries in [from, to] ordered by date.
func (s *Store) ListAttendance(ctx context.Context, from, to reconcile.Date) ([]AttendanceEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT employee_id, date, check_in, check_out, status, notes, updated_at
		 FROM attendance WHERE date >= ? AND date <= ?
		 ORDER BY date ASC, employee_id ASC`,
		from.String(), to.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []AttendanceEntry
	for rows.Next() {
		var entry AttendanceEntry
		var checkIn, checkOut, notes sql.NullString
		var dateStr, updatedAt string
		if err := rows.Scan(&entry.EmployeeID, &dateStr, &checkIn, &checkOut, &entry.Status, &notes, &updatedAt); err != nil {
			return nil, err
		}
		entry.Date, _ = reconcile.ParseDate(dateStr)
		entry.CheckIn = checkIn.String
		entry.CheckOut = checkOut.String
		entry.Notes = notes.String
		entry.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// =============================================================================
// UTILITIES
// =============================================================================

// Reset clears all data (for testing/demo).
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tables := []string{"attendance", "leave_ledger", "leave_grants", "calendar_events", "employees"}
	for _, table := range tables {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return err
		}
	}
	return nil
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func isUniqueConstraintError(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
