package domain

import (
	"time"

	"github.com/google/uuid"
)

// ReconcileIssue describes one stored value that disagrees with the value
// derived from related records.
type ReconcileIssue struct {
	Entity   string    `json:"entity"`
	ID       uuid.UUID `json:"id"`
	Field    string    `json:"field"`
	Stored   string    `json:"stored"`
	Expected string    `json:"expected"`
	Repaired bool      `json:"repaired"`
}

type ReconcileReport struct {
	DryRun             bool             `json:"dry_run"`
	AssignmentsChecked int              `json:"assignments_checked"`
	BikesChecked       int              `json:"bikes_checked"`
	RidersChecked      int              `json:"riders_checked"`
	Issues             []ReconcileIssue `json:"issues"`
	Repaired           int              `json:"repaired"`
	RanAt              time.Time        `json:"ran_at"`
}

func (r *ReconcileReport) add(issue ReconcileIssue) {
	r.Issues = append(r.Issues, issue)
	if issue.Repaired {
		r.Repaired++
	}
}

// Record appends an issue, counting it as repaired unless this is a dry run.
// Conflicts that need a human are recorded with repairable false.
func (r *ReconcileReport) Record(entity string, id uuid.UUID, field, stored, expected string, repairable bool) {
	r.add(ReconcileIssue{
		Entity:   entity,
		ID:       id,
		Field:    field,
		Stored:   stored,
		Expected: expected,
		Repaired: repairable && !r.DryRun,
	})
}
