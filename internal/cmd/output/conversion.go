package output

import (
	"strconv"

	"github.com/agentstation/henkan/pkg/candidates"
	"github.com/agentstation/henkan/pkg/reconciler"
	"github.com/agentstation/henkan/pkg/segments"
)

// SegmentsTable lists every candidate of every conversion segment.
func SegmentsTable(segs []*segments.Segment) Data {
	data := Data{
		Headers:         []string{"Segment", "Key", "Rank", "Value", "Cost", "Consumed"},
		ColumnAlignment: []Align{AlignRight, AlignLeft, AlignRight, AlignLeft, AlignRight, AlignRight},
	}
	for i, seg := range segs {
		if seg.Len() == 0 {
			data.Rows = append(data.Rows, []string{strconv.Itoa(i), seg.Key, "-", "-", "-", "-"})
			continue
		}
		for rank, c := range seg.Candidates {
			data.Rows = append(data.Rows, []string{
				strconv.Itoa(i),
				c.Key,
				strconv.Itoa(rank),
				c.Value,
				strconv.Itoa(int(c.Cost)),
				strconv.Itoa(c.ConsumedKeySize),
			})
		}
	}
	return data
}

// RawTable lists decoded engine candidates. Zero coverage is shown as "-".
func RawTable(list []candidates.Raw) Data {
	data := Data{
		Headers:         []string{"#", "Text", "Coverage"},
		ColumnAlignment: []Align{AlignRight, AlignLeft, AlignRight},
	}
	for i, rc := range list {
		coverage := "-"
		if rc.Coverage > 0 {
			coverage = strconv.Itoa(rc.Coverage)
		}
		data.Rows = append(data.Rows, []string{strconv.Itoa(i), rc.Text, coverage})
	}
	return data
}

// ResultTable lists the reconciled candidates of result with the decision
// for each input candidate when decisions were tracked.
func ResultTable(result *reconciler.Result) Data {
	if len(result.Decisions) == 0 {
		data := Data{
			Headers:         []string{"Rank", "Text"},
			ColumnAlignment: []Align{AlignRight, AlignLeft},
		}
		for i, c := range result.Candidates {
			data.Rows = append(data.Rows, []string{strconv.Itoa(i), c.Text})
		}
		return data
	}

	data := Data{
		Headers:         []string{"#", "Text", "Coverage", "Action", "Output"},
		ColumnAlignment: []Align{AlignRight, AlignLeft, AlignRight, AlignLeft, AlignLeft},
	}
	for _, d := range result.Decisions {
		data.Rows = append(data.Rows, []string{
			strconv.Itoa(d.Index),
			d.Text,
			strconv.Itoa(d.Coverage),
			d.Action.String(),
			d.Output,
		})
	}
	return data
}
