package coach

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/kidlingo/kidlingo/core"
)

// systemPrompt bounds the generated line: short, simple, A0-A1 vocabulary,
// encourage, at most one correction.
const systemPrompt = "You are a warm English-speaking kids' tutor for Chinese learners aged 3-10. " +
	"Output ONE short, simple English line for the child. " +
	"Keep a CEFR A0-A1 vocabulary. Encourage, never shame. Give at most one correction."

// AnthropicOptions configure the Anthropic feedback writer.
type AnthropicOptions struct {
	Model     anthropic.Model
	MaxTokens int64
	APIKey    string
}

// AnthropicWriter generates the feedback line through the Anthropic Messages
// API. The scaffold line and any API failure fall back to the template
// writer, so a child always receives feedback.
type AnthropicWriter struct {
	client   *anthropic.Client
	opts     AnthropicOptions
	fallback *TemplateWriter
}

var _ core.FeedbackWriter = (*AnthropicWriter)(nil)

// NewAnthropicWriter creates a writer using the official client.
func NewAnthropicWriter(optFns ...func(o *AnthropicOptions)) *AnthropicWriter {
	opts := applyAnthropicOptions(optFns)

	var clientOpts []option.RequestOption
	if opts.APIKey != "" {
		clientOpts = append(clientOpts, option.WithAPIKey(opts.APIKey))
	}
	client := anthropic.NewClient(clientOpts...)
	return &AnthropicWriter{client: &client, opts: opts, fallback: NewTemplateWriter()}
}

// NewAnthropicWriterFromClient creates a writer from an existing client.
func NewAnthropicWriterFromClient(client *anthropic.Client, optFns ...func(o *AnthropicOptions)) *AnthropicWriter {
	return &AnthropicWriter{client: client, opts: applyAnthropicOptions(optFns), fallback: NewTemplateWriter()}
}

func applyAnthropicOptions(optFns []func(o *AnthropicOptions)) AnthropicOptions {
	opts := AnthropicOptions{
		Model:     anthropic.ModelClaude3_5Haiku20241022,
		MaxTokens: 64,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return opts
}

// Write asks the model for one feedback line. The Chinese scaffold always
// comes from the template writer so the UI contract stays stable.
func (w *AnthropicWriter) Write(ctx context.Context, outcome core.Outcome, targetPhrase string) (string, string, error) {
	fallbackText, scaffold, _ := w.fallback.Write(ctx, outcome, targetPhrase)

	resp, err := w.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     w.opts.Model,
		MaxTokens: w.opts.MaxTokens,
		System:    []anthropic.TextBlockParam{{Text: systemPrompt}},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(userPrompt(outcome, targetPhrase))),
		},
	})
	if err != nil {
		return fallbackText, scaffold, nil
	}

	var sb strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			sb.WriteString(block.AsText().Text)
		}
	}
	text := strings.TrimSpace(sb.String())
	if text == "" {
		return fallbackText, scaffold, nil
	}
	return text, scaffold, nil
}

func userPrompt(outcome core.Outcome, targetPhrase string) string {
	switch outcome {
	case core.OutcomeFail:
		return fmt.Sprintf("The child could not say %q yet. Encourage them to try again.", targetPhrase)
	case core.OutcomePartial:
		return fmt.Sprintf("The child almost said %q. Encourage one more try.", targetPhrase)
	default:
		return fmt.Sprintf("The child just said %q correctly. Celebrate briefly.", targetPhrase)
	}
}
