package kidlingo

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFacadeSessionRoundtrip(t *testing.T) {
	ctx := context.Background()
	k := New()

	res, err := k.StartSession(ctx, "kid-1", "3-6", "greetings", "zh-CN")
	require.NoError(t, err)
	require.NotNil(t, res.NextActivity)

	fb, err := k.SubmitUtterance(ctx, res.SessionID, res.NextActivity.TargetPhrase)
	require.NoError(t, err)
	assert.Equal(t, 10, fb.XPAwarded)

	summary, err := k.Progress(ctx, res.SessionID)
	require.NoError(t, err)
	assert.Equal(t, 10, summary.XPTotal)

	require.NotNil(t, k.Handler())
	require.NotNil(t, k.Engine())
}
