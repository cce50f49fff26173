/*
Package observability provides Prometheus instrumentation for the
diagnostic engine.

It adapts engine lifecycle hooks into counters (sessions, node entries,
retries, escalations, voice noise drops) and exposes them on a /metrics
handler backed by a private registry.
*/
package observability
