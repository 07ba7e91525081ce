// Package engine orchestrates practice sessions: it owns the session
// lifecycle, asks the scheduler for the next card, scores submitted
// utterances, applies rewards, and produces progress summaries. It is the
// only writer of session state; all dependencies are injected as core
// interfaces with working in-process defaults.
package engine
