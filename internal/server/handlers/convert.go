package handlers

import (
	"context"
	"net/http"

	"github.com/agentstation/henkan"
	"github.com/agentstation/henkan/internal/server/response"
	"github.com/agentstation/henkan/pkg/candidates"
	"github.com/agentstation/henkan/pkg/chars"
	"github.com/agentstation/henkan/pkg/constants"
	"github.com/agentstation/henkan/pkg/engine/remote"
	"github.com/agentstation/henkan/pkg/errors"
	"github.com/agentstation/henkan/pkg/logging"
	"github.com/agentstation/henkan/pkg/reconciler"
	"github.com/agentstation/henkan/pkg/segments"
)

// HistoryEntry is an already committed segment sent as context.
type HistoryEntry struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// ConvertRequest is the body of POST /api/v1/convert.
//
// Mode full_segment converts every entry of Segments (or Reading alone).
// Mode single_key converts Reading as one segment replacing Segments.
// Mode resized_segment refills the first entry of Segments for Reading.
type ConvertRequest struct {
	Reading  string         `json:"reading"`
	Segments []string       `json:"segments,omitempty"`
	History  []HistoryEntry `json:"history,omitempty"`
	Mode     string         `json:"mode,omitempty"`
}

// ConvertResponse holds the segments after conversion.
type ConvertResponse struct {
	Mode     reconciler.Mode     `json:"mode"`
	History  []*segments.Segment `json:"history"`
	Segments []*segments.Segment `json:"segments"`
	Top      []string            `json:"top"`
}

// ParseRequest is the body of POST /api/v1/parse.
type ParseRequest struct {
	Blob    string `json:"blob"`
	Format  string `json:"format,omitempty"`
	Reading string `json:"reading,omitempty"`
	Mode    string `json:"mode,omitempty"`
}

// ParseResponse holds the decoded candidates and, when a reading was given,
// their reconciliation.
type ParseResponse struct {
	Format     string             `json:"format"`
	Candidates []candidates.Raw   `json:"candidates"`
	Result     *reconciler.Result `json:"result,omitempty"`
}

// HandleConvert handles POST /api/v1/convert.
func (h *Handlers) HandleConvert(w http.ResponseWriter, r *http.Request) {
	var req ConvertRequest
	if err := decodeJSON(r, &req); err != nil {
		response.ErrorFromType(w, err)
		return
	}

	conv, err := h.app.Converter()
	if err != nil {
		response.ServiceUnavailable(w, "Converter not available")
		return
	}

	resp, err := Convert(r.Context(), conv, req)
	if err != nil {
		logging.FromContext(r.Context()).Debug().Err(err).Msg("Conversion failed")
		response.ErrorFromType(w, err)
		return
	}
	response.OK(w, resp)
}

func (req ConvertRequest) validate() error {
	if chars.Count(req.Reading) > constants.MaxReadingLength {
		return errors.NewValidationError("reading", req.Reading, "too long")
	}
	if len(req.Segments) > constants.MaxSegments {
		return errors.NewValidationError("segments", len(req.Segments), "too many segments")
	}
	for _, key := range req.Segments {
		if chars.Count(key) > constants.MaxReadingLength {
			return errors.NewValidationError("segments", key, "segment too long")
		}
	}
	return nil
}

// Convert runs req against conv.
func Convert(ctx context.Context, conv henkan.Converter, req ConvertRequest) (*ConvertResponse, error) {
	mode := reconciler.ModeFullSegment
	if req.Mode != "" {
		var err error
		if mode, err = reconciler.ParseMode(req.Mode); err != nil {
			return nil, err
		}
	}

	if err := req.validate(); err != nil {
		return nil, err
	}

	keys := req.Segments
	if len(keys) == 0 && req.Reading != "" {
		keys = []string{req.Reading}
	}
	segs := segments.New(keys...)
	for _, entry := range req.History {
		segs.AddHistory(entry.Key, entry.Value)
	}

	if err := henkan.Run(ctx, conv, mode, req.Reading, segs); err != nil {
		return nil, err
	}

	return &ConvertResponse{
		Mode:     mode,
		History:  segs.History(),
		Segments: segs.Conversion(),
		Top:      segs.TopValues(),
	}, nil
}

// HandleParse handles POST /api/v1/parse. It decodes a blob without
// consulting the engine.
func (h *Handlers) HandleParse(w http.ResponseWriter, r *http.Request) {
	var req ParseRequest
	if err := decodeJSON(r, &req); err != nil {
		response.ErrorFromType(w, err)
		return
	}

	format := candidates.ParseFormat(req.Format)
	resp := ParseResponse{
		Format:     format.String(),
		Candidates: candidates.Decode(r.Context(), format, []byte(req.Blob)),
	}

	if req.Reading != "" {
		mode := reconciler.ModeFullSegment
		if req.Mode != "" {
			var err error
			if mode, err = reconciler.ParseMode(req.Mode); err != nil {
				response.ErrorFromType(w, err)
				return
			}
		}
		result, err := reconciler.Reconcile(r.Context(), req.Reading, resp.Candidates, mode)
		if err != nil {
			response.ErrorFromType(w, err)
			return
		}
		resp.Result = result
	}

	response.OK(w, resp)
}

// HandleEngineCandidates handles POST /api/v1/engine/candidates. It exposes
// the server's engine to remote engine clients and returns the blob verbatim.
func (h *Handlers) HandleEngineCandidates(w http.ResponseWriter, r *http.Request) {
	var req remote.CandidatesRequest
	if err := decodeJSON(r, &req); err != nil {
		response.ErrorFromType(w, err)
		return
	}
	if req.Text == "" {
		response.ErrorFromType(w, errors.NewValidationError("text", req.Text, "cannot be empty"))
		return
	}

	conv, err := h.app.Converter()
	if err != nil {
		response.ServiceUnavailable(w, "Converter not available")
		return
	}

	blob, err := conv.Candidates(r.Context(), req.Text)
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}

	response.OK(w, remote.CandidatesResponse{Text: req.Text, Blob: string(blob)})
}
