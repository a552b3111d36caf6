package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/Harshitk-cp/plotweave/internal/domain"
	"github.com/Harshitk-cp/plotweave/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// bodyOverhead is the allowance for JSON framing around submitted text.
const bodyOverhead = 64 << 10

type AnalysisHandler struct {
	svc *service.AnalysisService
}

func NewAnalysisHandler(svc *service.AnalysisService) *AnalysisHandler {
	return &AnalysisHandler{svc: svc}
}

// optionsRequest uses pointers so omitted fields keep their defaults.
type optionsRequest struct {
	ExtractCharacters    *bool    `json:"extract_characters,omitempty"`
	ExtractLocations     *bool    `json:"extract_locations,omitempty"`
	ExtractObjects       *bool    `json:"extract_objects,omitempty"`
	ExtractEvents        *bool    `json:"extract_events,omitempty"`
	ExtractRelationships *bool    `json:"extract_relationships,omitempty"`
	ExtractPlotlines     *bool    `json:"extract_plotlines,omitempty"`
	ConfidenceThreshold  *float64 `json:"confidence_threshold,omitempty"`
	Seed                 *uint64  `json:"seed,omitempty"`
}

func (o *optionsRequest) apply(opts domain.AnalysisOptions) domain.AnalysisOptions {
	if o == nil {
		return opts
	}
	setBool(&opts.ExtractCharacters, o.ExtractCharacters)
	setBool(&opts.ExtractLocations, o.ExtractLocations)
	setBool(&opts.ExtractObjects, o.ExtractObjects)
	setBool(&opts.ExtractEvents, o.ExtractEvents)
	setBool(&opts.ExtractRelationships, o.ExtractRelationships)
	setBool(&opts.ExtractPlotlines, o.ExtractPlotlines)
	if o.ConfidenceThreshold != nil {
		opts.ConfidenceThreshold = *o.ConfidenceThreshold
	}
	if o.Seed != nil {
		opts.Seed = *o.Seed
	}
	return opts
}

func setBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}

type analyzeRequest struct {
	Text    string          `json:"text"`
	Options *optionsRequest `json:"options,omitempty"`
	Preview bool            `json:"preview"`
}

type analyzeResponse struct {
	*domain.AnalysisResult
	Save *domain.SaveSummary `json:"save,omitempty"`
}

type batchStoryRequest struct {
	StoryID string          `json:"story_id"`
	Text    string          `json:"text"`
	Options *optionsRequest `json:"options,omitempty"`
	Preview bool            `json:"preview"`
}

type batchRequest struct {
	Stories []batchStoryRequest `json:"stories"`
}

type batchResponse struct {
	Results []service.BatchResult `json:"results"`
}

func (h *AnalysisHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	storyID, err := uuid.Parse(chi.URLParam(r, "storyID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid story id")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.svc.MaxTextBytes()+bodyOverhead)
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDecodeError(w, err)
		return
	}

	result, summary, err := h.svc.Analyze(r.Context(), &domain.AnalysisRequest{
		StoryID: storyID,
		Text:    req.Text,
		Options: req.Options.apply(h.svc.DefaultOptions()),
		Preview: req.Preview,
	})
	if err != nil {
		writeServiceError(w, err, "failed to analyze story")
		return
	}

	status := http.StatusOK
	if result.Persisted {
		status = http.StatusCreated
	}
	writeJSON(w, status, analyzeResponse{AnalysisResult: result, Save: summary})
}

func (h *AnalysisHandler) AnalyzeBatch(w http.ResponseWriter, r *http.Request) {
	limit := (h.svc.MaxTextBytes() + bodyOverhead) * service.MaxBatchSize
	r.Body = http.MaxBytesReader(w, r.Body, limit)
	var req batchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDecodeError(w, err)
		return
	}

	reqs := make([]domain.AnalysisRequest, len(req.Stories))
	for i, s := range req.Stories {
		storyID, err := uuid.Parse(s.StoryID)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid story_id at index "+strconv.Itoa(i))
			return
		}
		reqs[i] = domain.AnalysisRequest{
			StoryID: storyID,
			Text:    s.Text,
			Options: s.Options.apply(h.svc.DefaultOptions()),
			Preview: s.Preview,
		}
	}

	results, err := h.svc.AnalyzeBatch(r.Context(), reqs)
	if err != nil {
		writeServiceError(w, err, "failed to analyze batch")
		return
	}
	writeJSON(w, http.StatusOK, batchResponse{Results: results})
}

func (h *AnalysisHandler) Characters(w http.ResponseWriter, r *http.Request) {
	storyID, err := uuid.Parse(chi.URLParam(r, "storyID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid story id")
		return
	}

	characters, err := h.svc.ListCharacters(r.Context(), storyID)
	if err != nil {
		writeServiceError(w, err, "failed to list characters")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"characters": characters})
}

func (h *AnalysisHandler) Events(w http.ResponseWriter, r *http.Request) {
	storyID, err := uuid.Parse(chi.URLParam(r, "storyID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid story id")
		return
	}

	events, err := h.svc.ListEvents(r.Context(), storyID)
	if err != nil {
		writeServiceError(w, err, "failed to list events")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"events": events})
}

func (h *AnalysisHandler) Delete(w http.ResponseWriter, r *http.Request) {
	storyID, err := uuid.Parse(chi.URLParam(r, "storyID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid story id")
		return
	}

	if err := h.svc.DeleteStory(r.Context(), storyID); err != nil {
		writeServiceError(w, err, "failed to delete story")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeDecodeError(w http.ResponseWriter, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
		return
	}
	writeError(w, http.StatusBadRequest, "invalid request body")
}

func writeServiceError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, service.ErrTextEmpty),
		errors.Is(err, service.ErrStoryIDMissing),
		errors.Is(err, service.ErrInvalidThreshold),
		errors.Is(err, service.ErrBatchEmpty),
		errors.Is(err, service.ErrBatchTooLarge):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrTextTooLarge):
		writeError(w, http.StatusRequestEntityTooLarge, err.Error())
	case errors.Is(err, service.ErrStoryNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrAnalysisConflict):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrStorageUnavailable):
		writeError(w, http.StatusServiceUnavailable, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, fallback)
	}
}
