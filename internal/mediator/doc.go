// Package mediator turns typed generation and classification requests into
// backend calls and typed responses. It is structured into small files by
// concern:
//
//   - mediator.go: core Mediator type, Config, constructor, Close.
//   - admission.go: single inference slot acquisition with bounded wait.
//   - generate.go: the generateText operation.
//   - classify.go: the classifyText operation and its sampling overrides.
//   - validate.go: request validation applied before any backend call.
//   - errors.go: the ModelError wire error type and helpers.
//   - status.go: counters and the Status/Ready reporting surface.
//   - metrics.go: Prometheus instrumentation of the two operations.
//
// The Mediator owns the only long-lived state in the service, the loaded
// backend. The backend is assumed not to be thread-safe, so every call into
// it goes through the single in-flight slot; the Mediator itself is safe for
// concurrent use by multiple connection handlers.
package mediator
