// Package orchestrator holds the application context of one editing session.
// It owns the form engine, the resume model, persistence, auto-save and
// export, and drives them the way the builder page does: every form change
// refreshes the resume and schedules a save of the working copy.
package orchestrator
