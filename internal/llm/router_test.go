package llm

import (
	"context"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeProvider counts calls so tests can assert which engines were touched.
type fakeProvider struct {
	name         string
	available    bool
	output       string
	err          error
	availCalls   int
	extractCalls int
}

func (f *fakeProvider) Name() string { return f.name }

func (f *fakeProvider) Available(context.Context) bool {
	f.availCalls++
	return f.available
}

func (f *fakeProvider) Extract(context.Context, string) (string, error) {
	f.extractCalls++
	return f.output, f.err
}

func TestRouterUsesPrimaryWhenHealthy(t *testing.T) {
	primary := &fakeProvider{name: "ollama", available: true, output: `{"a":1}`}
	fallback := &fakeProvider{name: "local", available: true, output: "unused"}
	r := NewRouter(primary, fallback)

	text, engine, err := r.Route(context.Background(), "prompt")
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, text)
	assert.Equal(t, "ollama", engine)
	assert.Equal(t, "ollama", r.LastUsed())

	// The fallback must not even be probed while the primary serves.
	assert.Zero(t, fallback.availCalls)
	assert.Zero(t, fallback.extractCalls)
}

func TestRouterFallsBackWhenPrimaryUnavailable(t *testing.T) {
	primary := &fakeProvider{name: "ollama", available: false}
	fallback := &fakeProvider{name: "local", available: true, output: `{"b":2}`}
	r := NewRouter(primary, fallback)

	text, engine, err := r.Route(context.Background(), "prompt")
	require.NoError(t, err)
	assert.Equal(t, `{"b":2}`, text)
	assert.Equal(t, "local", engine)
	assert.Zero(t, primary.extractCalls)
	assert.Equal(t, 1, fallback.extractCalls)
}

func TestRouterFallsBackOnPrimaryMidCallFailure(t *testing.T) {
	primary := &fakeProvider{name: "ollama", available: true, err: eris.New("connection reset")}
	fallback := &fakeProvider{name: "local", available: true, output: `{"c":3}`}
	r := NewRouter(primary, fallback)

	text, engine, err := r.Route(context.Background(), "prompt")
	require.NoError(t, err)
	assert.Equal(t, `{"c":3}`, text)
	assert.Equal(t, "local", engine)
	assert.Equal(t, 1, primary.extractCalls)
	assert.Equal(t, 1, fallback.extractCalls)
}

func TestRouterPrimaryNotDemotedAfterFailure(t *testing.T) {
	primary := &fakeProvider{name: "ollama", available: true, err: eris.New("flaky")}
	fallback := &fakeProvider{name: "local", available: true, output: `{}`}
	r := NewRouter(primary, fallback)

	_, _, err := r.Route(context.Background(), "p1")
	require.NoError(t, err)

	// Primary recovers; the next route must go back to it.
	primary.err = nil
	primary.output = `{"ok":true}`
	_, engine, err := r.Route(context.Background(), "p2")
	require.NoError(t, err)
	assert.Equal(t, "ollama", engine)
	assert.Equal(t, 2, primary.extractCalls)
}

func TestRouterBothFail(t *testing.T) {
	primary := &fakeProvider{name: "ollama", available: false}
	fallback := &fakeProvider{name: "local", available: true, err: eris.New("load failed")}
	r := NewRouter(primary, fallback)

	_, _, err := r.Route(context.Background(), "prompt")
	assert.True(t, eris.Is(err, ErrNoProvider))
	assert.Empty(t, r.LastUsed())
}

func TestRouterNoProvidersConfigured(t *testing.T) {
	r := NewRouter(nil, nil)
	_, _, err := r.Route(context.Background(), "prompt")
	assert.True(t, eris.Is(err, ErrNoProvider))
}

func TestRouterHealth(t *testing.T) {
	primary := &fakeProvider{name: "ollama", available: true}
	fallback := &fakeProvider{name: "local", available: false}
	r := NewRouter(primary, fallback)

	health := r.Health(context.Background())
	require.Len(t, health, 2)
	assert.Equal(t, "ollama", health[0].Name)
	assert.True(t, health[0].Available)
	assert.Equal(t, "local", health[1].Name)
	assert.False(t, health[1].Available)
	assert.False(t, health[1].Loaded)
}
