package domain

import (
	"time"

	"github.com/google/uuid"
)

// DefaultConfidenceThreshold drops fused entities scoring below it.
const DefaultConfidenceThreshold = 0.6

// AnalysisOptions toggles pipeline stages. The zero value disables
// everything; use DefaultAnalysisOptions for the documented defaults.
type AnalysisOptions struct {
	ExtractCharacters    bool    `json:"extract_characters" yaml:"extract_characters"`
	ExtractLocations     bool    `json:"extract_locations" yaml:"extract_locations"`
	ExtractObjects       bool    `json:"extract_objects" yaml:"extract_objects"`
	ExtractEvents        bool    `json:"extract_events" yaml:"extract_events"`
	ExtractRelationships bool    `json:"extract_relationships" yaml:"extract_relationships"`
	ExtractPlotlines     bool    `json:"extract_plotlines" yaml:"extract_plotlines"`
	ConfidenceThreshold  float64 `json:"confidence_threshold" yaml:"confidence_threshold"`
	// Seed drives the random choice of thematic cluster names.
	Seed uint64 `json:"seed,omitempty" yaml:"seed,omitempty"`
}

func DefaultAnalysisOptions() AnalysisOptions {
	return AnalysisOptions{
		ExtractCharacters:    true,
		ExtractLocations:     true,
		ExtractObjects:       true,
		ExtractEvents:        true,
		ExtractRelationships: true,
		ExtractPlotlines:     true,
		ConfidenceThreshold:  DefaultConfidenceThreshold,
	}
}

type AnalysisRequest struct {
	StoryID uuid.UUID       `json:"story_id"`
	Text    string          `json:"text"`
	Options AnalysisOptions `json:"options"`
	// Preview runs the pipeline without touching storage.
	Preview bool `json:"preview"`
}

type AnalysisStats struct {
	Segments        int           `json:"segments"`
	FusedCharacters int           `json:"fused_characters"`
	FusedLocations  int           `json:"fused_locations"`
	FusedObjects    int           `json:"fused_objects"`
	Duration        time.Duration `json:"duration_ns"`
}

// AnalysisResult is the immutable snapshot produced by one run. Every slice
// is non-nil so it serializes as an empty array.
type AnalysisResult struct {
	StoryID       uuid.UUID      `json:"story_id"`
	Characters    []Character    `json:"characters"`
	Locations     []Location     `json:"locations"`
	Objects       []Object       `json:"objects"`
	Events        []Event        `json:"events"`
	Relationships []Relationship `json:"relationships"`
	Dependencies  []Dependency   `json:"dependencies"`
	Conflicts     []Conflict     `json:"conflicts"`
	Plotlines     []Plotline     `json:"plotlines"`
	Stats         AnalysisStats  `json:"stats"`
	Persisted     bool           `json:"persisted"`
}

func NewAnalysisResult(storyID uuid.UUID) *AnalysisResult {
	return &AnalysisResult{
		StoryID:       storyID,
		Characters:    []Character{},
		Locations:     []Location{},
		Objects:       []Object{},
		Events:        []Event{},
		Relationships: []Relationship{},
		Dependencies:  []Dependency{},
		Conflicts:     []Conflict{},
		Plotlines:     []Plotline{},
	}
}
