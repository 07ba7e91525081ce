// Package coach turns an already-scored outcome into the short, warm
// feedback line a child hears next. The default writer uses fixed phrase
// templates; an alternative writer generates the line through the Anthropic
// Messages API under the same constraints. Writers never influence scoring.
package coach

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/kidlingo/kidlingo/core"
)

var praiseTemplates = []string{
	"Awesome! %q!",
	"Great job saying %q!",
	"High five! You said %q.",
}

// TemplateWriter is the default core.FeedbackWriter: fixed encouraging
// phrases with a Chinese scaffold line on anything short of a pass.
type TemplateWriter struct{}

// NewTemplateWriter returns the template feedback writer.
func NewTemplateWriter() *TemplateWriter { return &TemplateWriter{} }

var _ core.FeedbackWriter = (*TemplateWriter)(nil)

// Write renders feedback for the outcome. Never fails.
func (w *TemplateWriter) Write(_ context.Context, outcome core.Outcome, targetPhrase string) (string, string, error) {
	switch outcome {
	case core.OutcomeFail:
		return fmt.Sprintf("Let's try again. Say: %q.", targetPhrase),
			"我们一起慢慢说：" + targetPhrase, nil
	case core.OutcomePartial:
		return fmt.Sprintf("Good try! One more time: %q.", targetPhrase),
			"再练一次：" + targetPhrase, nil
	default:
		return fmt.Sprintf(praiseTemplates[rand.Intn(len(praiseTemplates))], targetPhrase), "", nil
	}
}
