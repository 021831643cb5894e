// Package tracing wires OpenTelemetry export for the spans started by the
// consumer and guest packages.
package tracing
