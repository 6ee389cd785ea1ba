package notification

import (
	"context"
	"log/slog"

	"github.com/peopleops-hr/bioattend-backend-go/internal/domain/notification"
)

// LogSink delivers HR notifications to the structured log. It is the
// default sink; a mail or chat integration can replace it behind the
// same interface.
type LogSink struct {
	logger *slog.Logger
}

func NewLogSink(logger *slog.Logger) *LogSink {
	return &LogSink{logger: logger}
}

func (s *LogSink) Notify(ctx context.Context, n notification.Notification) error {
	s.logger.Info("hr notification",
		slog.String("kind", string(n.Kind)),
		slog.String("employee_id", n.EmployeeID),
		slog.String("shift_date", n.ShiftDate.Format("2006-01-02")),
		slog.String("message", n.Message))
	return nil
}
