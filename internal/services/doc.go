// Package services holds the application layer between the command line
// tools, the HTTP handlers and the pure ledger packages.
//
// LedgerService wraps generation, persistence, loading, summarizing and the
// lite and sales derivations with OpenTelemetry spans, metrics and
// structured logging. HealthService answers liveness, readiness and version
// probes and lists the datasets present in the data directory.
//
// Services take their dependencies through constructors and accept a
// context.Context on every operation so traces and cancellation flow from
// the caller:
//
//	svc := services.NewLedgerService(cfg.Generator, metrics, logger)
//	table, err := svc.Generate(ctx, 42, 50000)
//	if err != nil {
//	    return err
//	}
//	result, err := svc.Persist(ctx, table, paths)
package services
