// Package metrics exposes vaultstamp's Prometheus metrics: edit events by
// outcome, stamps written, write failures and the number of files inside
// their quiet window. The set lives on its own registry and is served via
// Handler on the status server's /metrics endpoint.
package metrics
