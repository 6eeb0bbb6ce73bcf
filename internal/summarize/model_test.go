package summarize

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewModel_Backends(t *testing.T) {
	m, err := NewModel(context.Background(), ModelOptions{})
	require.NoError(t, err)
	assert.Equal(t, "huggingface:"+DefaultModel, m.Name())

	m, err = NewModel(context.Background(), ModelOptions{Backend: "OpenAI", Model: "gpt-x", APIKey: "k"})
	require.NoError(t, err)
	assert.Equal(t, "openai:gpt-x", m.Name())

	_, err = NewModel(context.Background(), ModelOptions{Backend: "t5-local"})
	assert.ErrorContains(t, err, "unknown summarizer backend")
}

func TestNewModel_WrapsRateLimiter(t *testing.T) {
	m, err := NewModel(context.Background(), ModelOptions{RequestsPerSecond: 2})
	require.NoError(t, err)
	_, ok := m.(*rateLimited)
	assert.True(t, ok)
	assert.Equal(t, "huggingface:"+DefaultModel, m.Name())
}

func TestRateLimited_HonoursContext(t *testing.T) {
	inner := &fakeModel{fn: numbered}
	m, err := NewModel(context.Background(), ModelOptions{RequestsPerSecond: 0.001})
	require.NoError(t, err)
	rl := m.(*rateLimited)
	rl.Model = inner

	_, err = rl.Summarize(context.Background(), "first")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err = rl.Summarize(ctx, "second")
	assert.Error(t, err)
	assert.Len(t, inner.inputs, 1)
}

func TestBackoff_Bounds(t *testing.T) {
	for attempt := range 8 {
		d := Backoff(attempt)
		base := min(time.Duration(1<<uint(attempt))*time.Second, 30*time.Second)
		assert.GreaterOrEqual(t, d, base)
		assert.Less(t, d, base+base/2+1)
	}
}
