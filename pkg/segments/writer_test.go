package segments_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/henkan/pkg/candidates"
	"github.com/agentstation/henkan/pkg/errors"
	"github.com/agentstation/henkan/pkg/reconciler"
	"github.com/agentstation/henkan/pkg/segments"
)

func reconcile(t *testing.T, key string, raw []candidates.Raw, mode reconciler.Mode) *reconciler.Result {
	t.Helper()
	result, err := reconciler.Reconcile(context.Background(), key, raw, mode)
	require.NoError(t, err)
	return result
}

func TestFill(t *testing.T) {
	seg := segments.NewSegment("とうきょう")
	seg.Add(segments.Candidate{Value: "stale"})
	seg.MetaCandidates = append(seg.MetaCandidates, segments.Candidate{Value: "meta"})

	segments.Fill(seg, "とうきょう", []reconciler.Candidate{
		{Text: "東京", Coverage: 5},
		{Text: "とうきょう", Coverage: 5},
		{Text: "トウキョウ", Coverage: 5},
	})

	require.Equal(t, 3, seg.Len())
	assert.Empty(t, seg.MetaCandidates)
	assert.Equal(t, []string{"東京", "とうきょう", "トウキョウ"}, seg.Values())

	for rank, c := range seg.Candidates {
		assert.Equal(t, "とうきょう", c.Key)
		assert.Equal(t, c.Key, c.ContentKey)
		assert.Equal(t, c.Value, c.ContentValue)
		assert.Equal(t, int32(rank*100), c.Cost)
		assert.Equal(t, c.Cost, c.WCost)
		assert.Zero(t, c.StructureCost)
		assert.Equal(t, 5, c.ConsumedKeySize)
		assert.Zero(t, c.LID)
		assert.Zero(t, c.RID)
	}
}

func TestCommitFullSegment(t *testing.T) {
	segs := segments.New("きょう", "は")
	result := reconcile(t, "は", []candidates.Raw{{Text: "葉"}, {Text: "歯"}}, reconciler.ModeFullSegment)

	require.NoError(t, segments.Commit(segs, 1, result))

	second, err := segs.ConversionSegment(1)
	require.NoError(t, err)
	assert.Equal(t, []string{"葉", "歯"}, second.Values())

	first, err := segs.ConversionSegment(0)
	require.NoError(t, err)
	assert.Equal(t, 0, first.Len())

	t.Run("index out of range", func(t *testing.T) {
		err := segments.Commit(segs, 2, result)
		assert.True(t, errors.IsInvalidState(err))
		err = segments.Commit(segs, -1, result)
		assert.True(t, errors.IsInvalidState(err))
	})
}

func TestCommitSingleKey(t *testing.T) {
	segs := segments.New("きょう", "は")
	segs.AddHistory("わたし", "私")
	result := reconcile(t, "きょうは", []candidates.Raw{{Text: "今日は"}, {Text: "京", Coverage: 2}}, reconciler.ModeSingleKey)

	require.NoError(t, segments.Commit(segs, 7, result))

	require.Equal(t, 1, segs.ConversionSize())
	seg := segs.Conversion()[0]
	assert.Equal(t, "きょうは", seg.Key)
	assert.Equal(t, segments.Free, seg.Type)
	assert.Equal(t, []string{"今日は", "京うは"}, seg.Values())

	require.Equal(t, 1, segs.HistorySize())
	assert.Equal(t, "私", segs.History()[0].Candidates[0].Value)
}

func TestCommitResizedSegment(t *testing.T) {
	t.Run("only the first segment is rewritten", func(t *testing.T) {
		segs := segments.New("とうきょう", "と")
		first, _ := segs.ConversionSegment(0)
		first.Add(segments.Candidate{Value: "old", Cost: 900})
		second, _ := segs.ConversionSegment(1)
		second.Add(segments.Candidate{Key: "と", Value: "都", Cost: 0})
		second.Add(segments.Candidate{Key: "と", Value: "と", Cost: 100})

		raw := []candidates.Raw{
			{Text: "東", Coverage: 2},
			{Text: "東京", Coverage: 5},
			{Text: "東京都", Coverage: 6},
		}
		result := reconcile(t, "とうきょう", raw, reconciler.ModeResizedSegment)
		require.NoError(t, segments.Commit(segs, 0, result))

		require.Equal(t, 1, first.Len())
		assert.Equal(t, "東京", first.Candidates[0].Value)
		assert.Equal(t, int32(0), first.Candidates[0].Cost)

		assert.Equal(t, []string{"都", "と"}, second.Values())
		assert.Equal(t, int32(100), second.Candidates[1].Cost)
	})

	t.Run("no segments is invalid state without mutation", func(t *testing.T) {
		segs := segments.New()
		segs.AddHistory("きのう", "昨日")
		result := reconcile(t, "かな", nil, reconciler.ModeResizedSegment)

		err := segments.Commit(segs, 0, result)
		assert.True(t, errors.IsInvalidState(err))
		assert.Equal(t, 0, segs.ConversionSize())
		assert.Equal(t, 1, segs.HistorySize())
	})
}

func TestCommitInvalidArguments(t *testing.T) {
	result := reconcile(t, "か", nil, reconciler.ModeFullSegment)
	assert.True(t, errors.IsValidationError(segments.Commit(nil, 0, result)))
	assert.True(t, errors.IsValidationError(segments.Commit(segments.New("か"), 0, nil)))

	bad := *result
	bad.Mode = reconciler.Mode(7)
	assert.True(t, errors.IsValidationError(segments.Commit(segments.New("か"), 0, &bad)))
}
