package ctxutil

import "context"

type traceKey struct{}

// TraceData correlates one inbound request across logs and spans.
type TraceData struct {
	TraceID   string
	RequestID string
}

func WithTraceData(ctx context.Context, td TraceData) context.Context {
	return context.WithValue(ctx, traceKey{}, td)
}

func GetTraceData(ctx context.Context) (TraceData, bool) {
	if ctx == nil {
		return TraceData{}, false
	}
	td, ok := ctx.Value(traceKey{}).(TraceData)
	return td, ok
}

// LogFields returns the correlation key/values carried by ctx (trace,
// request and caller) in logger argument form. Empty when none are set.
func LogFields(ctx context.Context) []any {
	var out []any
	if td, ok := GetTraceData(ctx); ok {
		if td.TraceID != "" {
			out = append(out, "trace_id", td.TraceID)
		}
		if td.RequestID != "" {
			out = append(out, "request_id", td.RequestID)
		}
	}
	if a, ok := GetActor(ctx); ok {
		out = append(out, "actor_id", a.ID.String(), "actor_role", string(a.Role))
	}
	return out
}
