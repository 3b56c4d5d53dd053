// Package store provides in-memory implementations of the reconciliation
// collaborator interfaces, for tests and local development.
package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/warp/attendance-reconciler/reconcile"
)

// =============================================================================
// MEMORY - In-memory resolver, calendar, conflict checker and committer
// =============================================================================

// Memory implements reconcile.EmployeeResolver, reconcile.CalendarProvider,
// reconcile.LeaveConflictChecker and reconcile.Committer against maps.
type Memory struct {
	mu          sync.RWMutex
	employees   map[reconcile.PersonID]reconcile.EmployeeID
	occurrences []reconcile.CalendarOccurrence
	leaves      map[reconcile.LeaveKey]string

	committed []reconcile.CommitItem

	// failures injects per-row commit failures, keyed by (person, date).
	failures map[reconcile.RowKey]string
}

func NewMemory() *Memory {
	return &Memory{
		employees: make(map[reconcile.PersonID]reconcile.EmployeeID),
		leaves:    make(map[reconcile.LeaveKey]string),
		failures:  make(map[reconcile.RowKey]string),
	}
}

// AddEmployee registers an active employee.
func (m *Memory) AddEmployee(personID reconcile.PersonID, employeeID reconcile.EmployeeID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.employees[personID] = employeeID
}

// AddOccurrence registers a holiday or Poya occurrence.
func (m *Memory) AddOccurrence(occ reconcile.CalendarOccurrence) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.occurrences = append(m.occurrences, occ)
}

// AddLeave registers an active leave grant day.
func (m *Memory) AddLeave(employeeID reconcile.EmployeeID, date reconcile.Date, leaveType string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.leaves[reconcile.LeaveKey{EmployeeID: employeeID, Date: date.String()}] = leaveType
}

// FailCommit makes every commit of (person, date) fail with the message.
func (m *Memory) FailCommit(key reconcile.RowKey, message string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failures[key] = message
}

// Committed returns everything successfully committed so far.
func (m *Memory) Committed() []reconcile.CommitItem {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]reconcile.CommitItem, len(m.committed))
	copy(out, m.committed)
	return out
}

// =============================================================================
// INTERFACE IMPLEMENTATIONS
// =============================================================================

func (m *Memory) Resolve(_ context.Context, personIDs []reconcile.PersonID) (map[reconcile.PersonID]reconcile.EmployeeID, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	resolved := make(map[reconcile.PersonID]reconcile.EmployeeID)
	for _, id := range personIDs {
		if emp, ok := m.employees[id]; ok {
			resolved[id] = emp
		}
	}
	return resolved, nil
}

func (m *Memory) Occurrences(_ context.Context, from, to reconcile.Date) ([]reconcile.CalendarOccurrence, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []reconcile.CalendarOccurrence
	for _, occ := range m.occurrences {
		if occ.End.Before(from) || occ.Start.After(to) {
			continue
		}
		out = append(out, occ)
	}
	return out, nil
}

func (m *Memory) ActiveLeaves(_ context.Context, employeeIDs []reconcile.EmployeeID, dates []reconcile.Date) (map[reconcile.LeaveKey]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make(map[reconcile.LeaveKey]string)
	for _, emp := range employeeIDs {
		for _, date := range dates {
			key := reconcile.LeaveKey{EmployeeID: emp, Date: date.String()}
			if leaveType, ok := m.leaves[key]; ok {
				out[key] = leaveType
			}
		}
	}
	return out, nil
}

func (m *Memory) Commit(_ context.Context, items []reconcile.CommitItem) (reconcile.CommitResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var result reconcile.CommitResult
	for _, item := range items {
		key := reconcile.RowKey{PersonID: item.PersonID, Date: item.Date}
		if msg, ok := m.failures[key]; ok {
			result.FailedCount++
			result.Errors = append(result.Errors, reconcile.ItemError{RowID: item.RowID, Message: msg})
			continue
		}
		m.committed = append(m.committed, item)
		result.SuccessCount++
	}
	return result, nil
}

// String helps test failure output.
func (m *Memory) String() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return fmt.Sprintf("memory store: %d employees, %d occurrences, %d leaves, %d committed",
		len(m.employees), len(m.occurrences), len(m.leaves), len(m.committed))
}
