package employee

import "time"

// Employee is a read-only view of the HR directory. The reconciliation
// engine never mutates employees.
type Employee struct {
	ID         string
	LastName   string
	FirstName  string
	MiddleName *string
	SiteID     *string
	IsActive   bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// FullName renders "Last, First M." the way HR reports show it.
func (e Employee) FullName() string {
	name := e.LastName + ", " + e.FirstName
	if e.MiddleName != nil && *e.MiddleName != "" {
		name += " " + (*e.MiddleName)[:1] + "."
	}
	return name
}
