package obs

import (
	"context"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("github.com/arpankumarde/neevtrace")

// Time starts a span named op and returns a closure that ends it, logging the
// duration and, when *errp is set, the error.
//
//	defer obs.Time(ctx, "agent.Run")(&err)
func Time(ctx context.Context, op string) func(errp *error) {
	ctx, span := tracer.Start(ctx, op)
	return timeSpan(ctx, op, span)
}

// Start is Time for callers that need the span context downstream.
func Start(ctx context.Context, op string) (context.Context, func(errp *error)) {
	ctx, span := tracer.Start(ctx, op)
	return ctx, timeSpan(ctx, op, span)
}

func timeSpan(ctx context.Context, op string, span trace.Span) func(errp *error) {
	start := time.Now()
	reqID := middleware.GetReqID(ctx)

	return func(errp *error) {
		defer span.End()
		dur := time.Since(start)

		if errp != nil && *errp != nil {
			span.RecordError(*errp)
			span.SetStatus(codes.Error, (*errp).Error())
			log.Warn().Str("req_id", reqID).Str("op", op).Dur("dur", dur).Err(*errp).Msg("op failed")
			return
		}
		log.Debug().Str("req_id", reqID).Str("op", op).Dur("dur", dur).Msg("op done")
	}
}
