// Package lexicon builds memory-engine dictionaries from Japanese text.
//
// Text is segmented into morphemes with kagome and the IPA dictionary. Each
// morpheme whose written form differs from its reading becomes a candidate
// for the reading in hiragana:
//
//	dict, err := lexicon.Build(ctx, strings.NewReader("東京に行く"))
//	// dict.Readings["とうきょう"] == []string{"東京"}
//	// dict.Readings["いく"] == []string{"行く"}
package lexicon

import (
	"bufio"
	"context"
	"io"
	"sort"
	"strings"
	"sync"

	"github.com/ikawaha/kagome-dict/ipa"
	"github.com/ikawaha/kagome/v2/tokenizer"

	"github.com/agentstation/henkan/pkg/engine/memory"
	"github.com/agentstation/henkan/pkg/errors"
	"github.com/agentstation/henkan/pkg/logging"
)

// The IPA dictionary is large, so the tokenizer is built on first use.
var ipaTokenizer = sync.OnceValues(func() (*tokenizer.Tokenizer, error) {
	return tokenizer.New(ipa.Dict(), tokenizer.OmitBosEos())
})

// Entry is one surface form seen for a reading.
type Entry struct {
	Reading string
	Surface string
	Count   int
	first   int
}

// Lexicon accumulates entries over any number of texts.
type Lexicon struct {
	tok     *tokenizer.Tokenizer
	entries map[string]map[string]*Entry
	seen    int
}

// New returns an empty lexicon backed by the IPA dictionary.
func New() (*Lexicon, error) {
	tok, err := ipaTokenizer()
	if err != nil {
		return nil, errors.NewResourceError("load", "tokenizer", "ipa", err)
	}
	return &Lexicon{tok: tok, entries: map[string]map[string]*Entry{}}, nil
}

// Add tokenizes text and records every convertible morpheme.
func (l *Lexicon) Add(text string) {
	for _, token := range l.tok.Tokenize(text) {
		reading, ok := readingOf(token)
		if !ok {
			continue
		}
		bySurface := l.entries[reading]
		if bySurface == nil {
			bySurface = map[string]*Entry{}
			l.entries[reading] = bySurface
		}
		entry := bySurface[token.Surface]
		if entry == nil {
			entry = &Entry{Reading: reading, Surface: token.Surface, first: l.seen}
			bySurface[token.Surface] = entry
		}
		entry.Count++
		l.seen++
	}
}

// AddReader adds r line by line, stopping early when ctx is done.
func (l *Lexicon) AddReader(ctx context.Context, r io.Reader) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	lines := 0
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		l.Add(scanner.Text())
		lines++
	}
	if err := scanner.Err(); err != nil {
		return errors.WrapIO("read", "", err)
	}
	logging.FromContext(ctx).Debug().Int("lines", lines).Int("readings", len(l.entries)).Msg("Text added to lexicon")
	return nil
}

// Entries returns the surfaces recorded for reading, most frequent first
// and then in the order they were first seen.
func (l *Lexicon) Entries(reading string) []Entry {
	out := make([]Entry, 0, len(l.entries[reading]))
	for _, e := range l.entries[reading] {
		out = append(out, *e)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].first < out[j].first
	})
	return out
}

// Dictionary converts the lexicon into a memory-engine dictionary, keeping
// surfaces seen at least minCount times.
func (l *Lexicon) Dictionary(minCount int) *memory.Dictionary {
	dict := &memory.Dictionary{Readings: map[string][]string{}}
	for reading := range l.entries {
		var texts []string
		for _, e := range l.Entries(reading) {
			if e.Count >= minCount {
				texts = append(texts, e.Surface)
			}
		}
		if len(texts) > 0 {
			dict.Readings[reading] = texts
		}
	}
	return dict
}

// Build reads all of r into a fresh lexicon and returns its dictionary.
func Build(ctx context.Context, r io.Reader) (*memory.Dictionary, error) {
	l, err := New()
	if err != nil {
		return nil, err
	}
	if err := l.AddReader(ctx, r); err != nil {
		return nil, err
	}
	return l.Dictionary(1), nil
}

// readingOf returns the hiragana reading of token when converting the
// reading would produce something other than itself.
func readingOf(token tokenizer.Token) (string, bool) {
	if pos := token.POS(); len(pos) > 0 && pos[0] == "記号" {
		return "", false
	}
	katakana, ok := token.Reading()
	if !ok || katakana == "" || katakana == "*" {
		return "", false
	}
	reading := Hiragana(katakana)
	if reading == token.Surface || strings.TrimSpace(token.Surface) == "" {
		return "", false
	}
	return reading, true
}

// Hiragana maps katakana to hiragana and leaves everything else alone,
// including the prolonged sound mark.
func Hiragana(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= 'ァ' && r <= 'ヶ' {
			return r - 0x60
		}
		return r
	}, s)
}
