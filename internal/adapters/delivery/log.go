package delivery

import (
	"context"

	"github.com/atvirokodosprendimai/loginwatch/internal/logging"
)

// Log writes messages to the process log instead of a messaging API. Used for
// dry runs.
type Log struct{}

func NewLog() *Log {
	return &Log{}
}

func (l *Log) Send(_ context.Context, message string) error {
	logging.Info().Str("delivery", "log").Str("text", message).Msg("notification")
	return nil
}
