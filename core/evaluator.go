package core

import "context"

// Evaluation is the scored result of comparing an utterance to a target.
type Evaluation struct {
	Outcome Outcome
	Score   int
}

// Evaluator scores an utterance against a target phrase and rubric. An error
// return means the evaluator could not process the input at all; callers
// degrade to a fail outcome with generic feedback rather than surfacing it.
type Evaluator interface {
	Evaluate(utterance, targetPhrase, rubric string) (Evaluation, error)
}

// FeedbackWriter turns an already-decided outcome into child-facing feedback
// text plus an optional Chinese scaffold line. Implementations may call out
// (e.g. to a language model) and should honor ctx cancellation.
type FeedbackWriter interface {
	Write(ctx context.Context, outcome Outcome, targetPhrase string) (text, scaffoldCN string, err error)
}
