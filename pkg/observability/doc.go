/*
Package observability turns session lifecycle events into logs and metrics.

Hooks built here plug into session.WithHooks; Combine fans a single event out
to several hook sets so the CLI can log and count at the same time.
*/
package observability
