// Package observability provides OpenTelemetry tracing and metrics
// integration for pipeline evaluation.
//
// Tracing:
//
//	tp, err := observability.InitTracer(ctx, &cfg)
//	defer tp.Shutdown(ctx)
//
//	ctx, span := observability.StartSpan(ctx, observability.SpanEvaluate)
//	defer span.End()
//
// Metrics:
//
//	mp, err := observability.InitMeter(ctx, &mcfg)
//	defer mp.Shutdown(ctx)
//
//	m := observability.RunMetrics()
//	m.RecordRunEnd(ctx, "count", "ok", elements, splits, duration)
package observability
