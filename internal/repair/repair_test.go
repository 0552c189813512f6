package repair

import (
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStrictJSON(t *testing.T) {
	obj, repaired, err := Parse(`{"industry": "Tech"}`)
	require.NoError(t, err)
	assert.False(t, repaired)
	assert.Equal(t, "Tech", obj["industry"])
}

func TestParseRecoversFromPreamble(t *testing.T) {
	raw := `Here is the result: {"industry": "Tech"} Thanks!`
	obj, repaired, err := Parse(raw)
	require.NoError(t, err)
	assert.True(t, repaired)
	assert.Equal(t, "Tech", obj["industry"])
}

func TestParseRecoversFromMarkdownFence(t *testing.T) {
	raw := "```json\n{\"industry\": \"Tech\",}\n```"
	obj, repaired, err := Parse(raw)
	require.NoError(t, err)
	assert.True(t, repaired)
	assert.Equal(t, "Tech", obj["industry"])
}

func TestParseRecoversTrailingComma(t *testing.T) {
	obj, repaired, err := Parse(`{"a": "x", "b": ["y", "z",],}`)
	require.NoError(t, err)
	assert.True(t, repaired)
	assert.Equal(t, "x", obj["a"])
}

func TestParseRecoversSingleQuotes(t *testing.T) {
	obj, repaired, err := Parse(`{'industry': 'Tech'}`)
	require.NoError(t, err)
	assert.True(t, repaired)
	assert.Equal(t, "Tech", obj["industry"])
}

func TestParseRejectsNonJSON(t *testing.T) {
	_, _, err := Parse("not json at all")
	assert.True(t, eris.Is(err, ErrInvalidJSON))
}

func TestParseRejectsEmpty(t *testing.T) {
	_, _, err := Parse("   ")
	assert.True(t, eris.Is(err, ErrInvalidJSON))
}

func TestParseRejectsUnclosedObject(t *testing.T) {
	_, _, err := Parse(`{"industry": "Tech"`)
	assert.True(t, eris.Is(err, ErrInvalidJSON))
}

func TestUnwrapEnvelope(t *testing.T) {
	obj := map[string]any{
		"status":  "ok",
		"profile": map[string]any{"industry": "Tech"},
	}
	assert.Equal(t, "Tech", Unwrap(obj)["industry"])
}

func TestUnwrapBareProfileKey(t *testing.T) {
	obj := map[string]any{
		"profile": map[string]any{"industry": "Tech"},
	}
	assert.Equal(t, "Tech", Unwrap(obj)["industry"])
}

func TestUnwrapPassthrough(t *testing.T) {
	obj := map[string]any{"industry": "Tech", "sub_industry": "SaaS"}
	assert.Equal(t, obj, Unwrap(obj))
}

func TestUnwrapProfileFieldNotEnvelope(t *testing.T) {
	// A profile that legitimately has a "profile" string field is not an
	// envelope.
	obj := map[string]any{"profile": "public", "industry": "Tech"}
	assert.Equal(t, obj, Unwrap(obj))
}

func TestIsTruncated(t *testing.T) {
	assert.True(t, IsTruncated(`{"industry": "Tech", "sub`))
	assert.False(t, IsTruncated(`{"industry": "Tech"}`))
	assert.False(t, IsTruncated(`no braces here`))
	assert.False(t, IsTruncated(`{"note": "brace } in string"}`))
}
