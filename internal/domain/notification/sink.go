package notification

import (
	"context"
	"time"
)

type Kind string

const (
	KindLeaveConflict = Kind("leave_conflict")
	KindCrossSiteScan = Kind("cross_site_scan")
)

// Notification is a fire-and-forget message to HR. Delivery failure is
// logged, never raised into the reconciliation transaction.
type Notification struct {
	EmployeeID string
	ShiftDate  time.Time
	Kind       Kind
	Message    string
}

// Sink delivers notifications to HR staff.
type Sink interface {
	Notify(ctx context.Context, n Notification) error
}
