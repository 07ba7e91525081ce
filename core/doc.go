// Package core provides the foundational domain types and interfaces used by
// kidlingo. It defines the core abstractions for:
//
//   - Sessions (per-learner stateful practice containers)
//   - Activities (immutable teaching cards rendered for an age band)
//   - Review cards (spaced-repetition scheduling state per session/card)
//   - Feedback (the scored outcome of one spoken attempt)
//   - Pluggable stores for sessions, review state and parent notes
//   - Collaborator seams: curriculum catalog, reference lexicon, utterance
//     evaluator, feedback writer and similarity search
//
// The package intentionally keeps implementation concerns (persistence,
// scheduling policy, transport) out of scope, exposing small interfaces so
// backends can be swapped at wiring time.
package core
