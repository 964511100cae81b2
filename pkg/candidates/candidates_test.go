package candidates_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/henkan/pkg/candidates"
)

func TestEncode(t *testing.T) {
	t.Run("structured", func(t *testing.T) {
		blob, err := candidates.Encode([]candidates.Raw{
			{Text: "東京", Coverage: 5},
			{Text: "<とうきょう>"},
		})
		require.NoError(t, err)
		assert.Equal(t, `[{"text":"東京","correspondingCount":5},{"text":"<とうきょう>"}]`, string(blob))
	})

	t.Run("nil list", func(t *testing.T) {
		blob, err := candidates.Encode(nil)
		require.NoError(t, err)
		assert.Equal(t, "[]", string(blob))
	})

	t.Run("legacy", func(t *testing.T) {
		blob, err := candidates.EncodeStrings([]string{"東京", `a"b`})
		require.NoError(t, err)
		assert.Equal(t, `["東京","a\"b"]`, string(blob))
	})
}

func TestEncodeParseAgree(t *testing.T) {
	list := []candidates.Raw{
		{Text: "東京", Coverage: 5},
		{Text: "line\nbreak", Coverage: 1},
		{Text: `quote " and \ slash`},
		{Text: "&<>"},
	}
	blob, err := candidates.Encode(list)
	require.NoError(t, err)
	assert.Equal(t, list, candidates.Parse(blob))
}

func TestDecode(t *testing.T) {
	ctx := context.Background()

	t.Run("structured", func(t *testing.T) {
		got := candidates.Decode(ctx, candidates.FormatStructured, []byte(`[{"text": "a", "correspondingCount": 1}]`))
		assert.Equal(t, []candidates.Raw{{Text: "a", Coverage: 1}}, got)
	})

	t.Run("legacy yields unspecified coverage", func(t *testing.T) {
		got := candidates.Decode(ctx, candidates.FormatLegacy, []byte(`["a", "b"]`))
		assert.Equal(t, []candidates.Raw{{Text: "a"}, {Text: "b"}}, got)
	})

	t.Run("formats are not mixed", func(t *testing.T) {
		assert.Empty(t, candidates.Decode(ctx, candidates.FormatLegacy, []byte(`[{"text": "a"}]`)))
		assert.Empty(t, candidates.Decode(ctx, candidates.FormatStructured, []byte(`["a"]`)))
	})
}

func TestFormat(t *testing.T) {
	assert.Equal(t, candidates.FormatLegacy, candidates.ParseFormat("Legacy"))
	assert.Equal(t, candidates.FormatStructured, candidates.ParseFormat("structured"))
	assert.Equal(t, candidates.FormatStructured, candidates.ParseFormat("unknown"))
	assert.Equal(t, "legacy", candidates.FormatLegacy.String())
	assert.Equal(t, "format(9)", candidates.Format(9).String())
}
