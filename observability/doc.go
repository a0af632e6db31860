// Package observability provides OpenTelemetry tracing and metrics for
// the policy engine.
//
// Tracing:
//
//	tp, err := observability.InitTracer(ctx, observability.DefaultTracerConfig("my-service"))
//	defer tp.Shutdown(ctx)
//
// Metrics:
//
//	mp, err := observability.InitMeter(ctx, &cfg)
//	defer mp.Shutdown(ctx)
//
//	metrics, err := observability.NewDecisionMetrics(observability.Meter("my-service"))
//	engine := rbac.New(graph, rbac.WithMetrics(metrics))
package observability
