package log

import (
	"context"
	"log/slog"

	"github.com/cockroachdb/errors"
)

// ErrFmtHandler is a slog handler that pulls the stacktrace captured by
// cockroachdb/errors out of an error attribute and emits it as its own field.
type ErrFmtHandler struct {
	next slog.Handler
}

// WrapByErrFmtHandler wraps an existing slog handler so that records
// carrying an ErrAttrKey attribute also get a stacktrace attribute.
func WrapByErrFmtHandler(next slog.Handler) slog.Handler {
	return &ErrFmtHandler{next: next}
}

func (eh *ErrFmtHandler) Enabled(ctx context.Context, l slog.Level) bool {
	return eh.next.Enabled(ctx, l)
}

func (eh *ErrFmtHandler) Handle(ctx context.Context, r slog.Record) error {
	var stacktrace string
	r.Attrs(func(attr slog.Attr) bool {
		if attr.Key != ErrAttrKey {
			return true
		}
		if err, ok := attr.Value.Any().(error); ok {
			stacktrace = extractStacktrace(err)
		}
		return false
	})
	if stacktrace != "" {
		r.AddAttrs(slog.String(StacktraceAttrKey, stacktrace))
	}
	return eh.next.Handle(ctx, r)
}

func (eh *ErrFmtHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &ErrFmtHandler{next: eh.next.WithAttrs(attrs)}
}

func (eh *ErrFmtHandler) WithGroup(g string) slog.Handler {
	return &ErrFmtHandler{next: eh.next.WithGroup(g)}
}

// extractStacktrace returns the first captured stacktrace in the error
// chain. Pipeline errors are usually wrapped a few times on the way up, so
// the outermost layer alone often carries no stack of its own.
func extractStacktrace(err error) string {
	for _, layer := range errors.GetAllSafeDetails(err) {
		if len(layer.SafeDetails) > 0 && layer.SafeDetails[0] != "" {
			return layer.SafeDetails[0]
		}
	}
	return ""
}
