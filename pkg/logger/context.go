package logger

import (
	"context"
	"log/slog"
)

type submissionKey struct{}

// ContextWithSubmissionID stores a submission attempt id for extraction by
// loggers built with New.
func ContextWithSubmissionID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, submissionKey{}, id)
}

// SubmissionIDFromContext returns the id stored by ContextWithSubmissionID.
func SubmissionIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(submissionKey{}).(string)
	return id, ok && id != ""
}

func submissionExtractor(ctx context.Context) (slog.Attr, bool) {
	id, ok := SubmissionIDFromContext(ctx)
	if !ok {
		return slog.Attr{}, false
	}
	return SubmissionID(id), true
}
