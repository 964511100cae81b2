package segments

import (
	"fmt"

	"github.com/agentstation/henkan/pkg/chars"
	"github.com/agentstation/henkan/pkg/constants"
	"github.com/agentstation/henkan/pkg/errors"
	"github.com/agentstation/henkan/pkg/reconciler"
)

// Fill replaces the candidates of seg with list, ranked in order.
// The candidate at rank r costs r*constants.CostStep.
func Fill(seg *Segment, key string, list []reconciler.Candidate) {
	seg.Clear()

	length := chars.Count(key)
	var cost int32
	for _, c := range list {
		seg.Add(Candidate{
			Key:             key,
			Value:           c.Text,
			ContentKey:      key,
			ContentValue:    c.Text,
			Cost:            cost,
			WCost:           cost,
			ConsumedKeySize: length,
		})
		cost += constants.CostStep
	}
}

// Commit writes result into segs according to result.Mode.
//
//   - ModeFullSegment fills conversion segment index.
//   - ModeSingleKey replaces all conversion segments with one free segment
//     keyed by the reading. index is ignored.
//   - ModeResizedSegment fills conversion segment 0 and leaves the others
//     untouched. index is ignored.
//
// Commit does not mutate segs when it fails.
func Commit(segs *Segments, index int, result *reconciler.Result) error {
	if segs == nil {
		return errors.NewValidationError("segments", nil, "cannot be nil")
	}
	if result == nil {
		return errors.NewValidationError("result", nil, "cannot be nil")
	}

	switch result.Mode {
	case reconciler.ModeFullSegment:
		seg, err := segs.ConversionSegment(index)
		if err != nil {
			return errors.NewStateError("full segment",
				fmt.Sprintf("no conversion segment %d of %d", index, segs.ConversionSize()))
		}
		Fill(seg, result.Key, result.Candidates)

	case reconciler.ModeSingleKey:
		segs.ClearConversion()
		Fill(segs.AddSegment(result.Key), result.Key, result.Candidates)

	case reconciler.ModeResizedSegment:
		if segs.ConversionSize() == 0 {
			return errors.NewStateError("resized segment", "no conversion segments")
		}
		Fill(segs.conversion[0], result.Key, result.Candidates)

	default:
		return errors.NewValidationError("mode", result.Mode.String(), "unknown mode")
	}
	return nil
}
