package obs

import (
	"context"
	"log"
	"time"
)

type ctxKey string

// SessionIDKey tags log lines with the workflow session that issued
// the operation.
const SessionIDKey ctxKey = "session_id"

// WithSessionID attaches a workflow session id to the context for
// timing log correlation.
func WithSessionID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, SessionIDKey, id)
}

// Time logs an operation's duration (and error, if any) when the
// returned func runs. Intended for defer at the top of gateway and
// cache operations:
//
//	defer obs.Time(ctx, "gateway.CreateVisit")(&err)
func Time(ctx context.Context, name string) func(errp *error) {
	start := time.Now()

	sessionID, _ := ctx.Value(SessionIDKey).(string)

	return func(errp *error) {
		dur := time.Since(start)

		if errp != nil && *errp != nil {
			log.Printf("session=%s op=%s dur=%dms err=%v", sessionID, name, dur.Milliseconds(), *errp)
			return
		}
		log.Printf("session=%s op=%s dur=%dms", sessionID, name, dur.Milliseconds())
	}
}
