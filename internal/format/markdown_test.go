package format

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMarkdownBold(t *testing.T) {
	res := ParseMarkdown("⏰ **Promise check**\n\ndrink water")
	assert.Equal(t, "⏰ Promise check\n\ndrink water", res.Text)
	require.Len(t, res.Entities, 1)
	assert.Equal(t, "bold", res.Entities[0].Type)
	assert.Equal(t, 2, res.Entities[0].Offset)
	assert.Equal(t, 13, res.Entities[0].Length)
}

func TestParseMarkdownCode(t *testing.T) {
	res := ParseMarkdown("use `/pact` to start")
	assert.Equal(t, "use /pact to start", res.Text)
	require.Len(t, res.Entities, 1)
	assert.Equal(t, "code", res.Entities[0].Type)
}

func TestParseMarkdownPlain(t *testing.T) {
	res := ParseMarkdown("no markup here")
	assert.Equal(t, "no markup here", res.Text)
	assert.Empty(t, res.Entities)
}

func TestParseMarkdownEntitiesSorted(t *testing.T) {
	res := ParseMarkdown("`b` then **a** then `c`")
	require.Len(t, res.Entities, 3)
	assert.LessOrEqual(t, res.Entities[0].Offset, res.Entities[1].Offset)
	assert.LessOrEqual(t, res.Entities[1].Offset, res.Entities[2].Offset)
}

func TestUTF16Len(t *testing.T) {
	assert.Equal(t, 5, UTF16Len("hello"))
	assert.Equal(t, 1, UTF16Len("⏰"))
	assert.Equal(t, 2, UTF16Len("🔥")) // non-BMP, surrogate pair
}
