package coach

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kidlingo/kidlingo/core"
)

func TestTemplateWriterOutcomes(t *testing.T) {
	ctx := context.Background()
	w := NewTemplateWriter()

	text, scaffold, err := w.Write(ctx, core.OutcomeFail, "Hello!")
	require.NoError(t, err)
	assert.Contains(t, text, "try again")
	assert.Contains(t, scaffold, "Hello!")

	text, scaffold, err = w.Write(ctx, core.OutcomePartial, "Hello!")
	require.NoError(t, err)
	assert.Contains(t, text, "Good try")
	assert.Contains(t, scaffold, "Hello!")

	text, scaffold, err = w.Write(ctx, core.OutcomePass, "Hello!")
	require.NoError(t, err)
	assert.NotEmpty(t, text)
	assert.Empty(t, scaffold)
}
