package lexicon

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHiragana(t *testing.T) {
	tests := map[string]string{
		"トウキョウ": "とうきょう",
		"コーヒー":  "こーひー",
		"ヴ":     "ゔ",
		"東京":    "東京",
		"abc":   "abc",
	}
	for in, want := range tests {
		assert.Equal(t, want, Hiragana(in), in)
	}
}

func TestBuild(t *testing.T) {
	dict, err := Build(context.Background(), strings.NewReader("東京に行く。\n東京は大きい。\n"))
	require.NoError(t, err)

	assert.Equal(t, []string{"東京"}, dict.Readings["とうきょう"])
	assert.Contains(t, dict.Readings, "いく")
	assert.NotContains(t, dict.Readings, "に", "kana-only morphemes convert to themselves")
	assert.NotContains(t, dict.Readings, "。")
}

func TestEntriesOrderedByFrequency(t *testing.T) {
	l, err := New()
	require.NoError(t, err)

	l.Add("東京")
	l.Add("東京")
	entries := l.Entries("とうきょう")
	require.Len(t, entries, 1)
	assert.Equal(t, 2, entries[0].Count)

	assert.Empty(t, l.Dictionary(3).Readings)
	assert.Len(t, l.Dictionary(2).Readings, 1)
}

func TestAddReaderStopsOnCancel(t *testing.T) {
	l, err := New()
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, l.AddReader(ctx, strings.NewReader("東京\n")), context.Canceled)
}
