// Package orchestrator wires the box store → field registry → transformer →
// renderer pipeline, providing dependency injection friendly helpers for
// consumers that prefer a single entry point.
package orchestrator
