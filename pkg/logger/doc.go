// Package logger builds slog loggers for vform components and provides the
// attribute constructors they share.
//
// New returns a *slog.Logger configured by Option functions: output format,
// level, static attributes and ContextExtractor callbacks. The handler is
// wrapped in a ContextHandler, which runs the extractors on every record.
// The submission id stored with ContextWithSubmissionID is always extracted,
// so log lines emitted while a submission is in flight carry it.
//
//	log := logger.New(logger.WithEnvironment("development", "vform"))
//	ctx := logger.ContextWithSubmissionID(ctx, id)
//	log.InfoContext(ctx, "submitting form",
//	    logger.Method("POST"),
//	    logger.URL("/signup"),
//	)
//
// Attribute helpers such as Error and SubmissionID return an empty slog.Attr
// for zero input, which slog drops, so callers need no nil checks.
package logger
