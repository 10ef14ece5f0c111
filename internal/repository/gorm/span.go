package gorm

import (
	"context"

	"github.com/getsentry/sentry-go"
)

// StartRepositorySpan creates a span for a repository operation. Safe to call
// when Sentry is disabled; the span helpers all tolerate nil.
func StartRepositorySpan(ctx context.Context, repository, operation string, params map[string]interface{}) *sentry.Span {
	if sentry.GetHubFromContext(ctx) == nil {
		return nil
	}

	span := sentry.StartSpan(ctx, "db.repository")
	span.Description = "repository." + repository + "." + operation
	span.SetData("repository", repository)
	span.SetData("operation", operation)
	for k, v := range params {
		span.SetData(k, v)
	}
	return span
}

// FinishSpan safely finishes a span, handling nil spans
func FinishSpan(span *sentry.Span) {
	if span != nil {
		span.Finish()
	}
}

// SetSpanError marks a span as failed and adds error information
func SetSpanError(span *sentry.Span, err error) {
	if span == nil || err == nil {
		return
	}
	span.Status = sentry.SpanStatusInternalError
	span.SetData("error", err.Error())
}

// SetSpanSuccess marks a span as successful
func SetSpanSuccess(span *sentry.Span) {
	if span != nil {
		span.Status = sentry.SpanStatusOK
	}
}
