// Package audit records access decisions as uuid-stamped events.
//
// A Recorder is wired into an rbac instance with rbac.WithAudit; every
// resolved decision is then logged and retained in a bounded in-memory
// trail for inspection.
package audit
