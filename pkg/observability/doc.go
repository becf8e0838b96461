/*
Package observability exposes Prometheus metrics for compile calls.

A *Metrics is registered once per process and handed to the compiler with
integrator.WithMetrics. A nil *Metrics records nothing.
*/
package observability
