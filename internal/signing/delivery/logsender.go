package delivery

import (
	"context"
	"fmt"
	"log/slog"
)

// LogSender writes codes to the log instead of dispatching them. Dev and
// test use only: it deliberately logs the code in clear, which is never
// acceptable in production. The code goes into the message text rather than
// an attribute because the logging setup redacts code/destination attributes.
type LogSender struct {
	Logger *slog.Logger
}

func (s *LogSender) Send(ctx context.Context, msg Message) error {
	s.Logger.Info(
		fmt.Sprintf("one-time code %s for %s (dev mode, not delivered)", msg.Code, msg.Destination),
		"subject_id", msg.SubjectID,
		"channel", msg.Channel,
	)
	return nil
}
