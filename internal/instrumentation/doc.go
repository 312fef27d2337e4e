// Package instrumentation provides OpenTelemetry metrics and tracing
// for mailsift.
//
// A Provider owns the meter and tracer providers and their exporters
// (prometheus, OTLP, or stdout for development). The Metrics recorder
// exposes typed record methods for the two pipeline phases and the HTTP
// surface; all methods are safe to call on a disabled provider's
// recorder, which makes instrumentation optional at every call site.
package instrumentation
