package domain

import (
	"context"

	"github.com/google/uuid"
)

// SaveSummary reports how a persisted snapshot merged with prior state.
type SaveSummary struct {
	CharactersInserted int `json:"characters_inserted"`
	CharactersMerged   int `json:"characters_merged"`
	LocationsInserted  int `json:"locations_inserted"`
	LocationsMerged    int `json:"locations_merged"`
	ObjectsInserted    int `json:"objects_inserted"`
	ObjectsMerged      int `json:"objects_merged"`
	EventsInserted     int `json:"events_inserted"`
	// SequenceOffset is added to every event sequence number so a new run
	// lands after the events already stored for the story.
	SequenceOffset int `json:"sequence_offset"`
	// RemappedIDs maps run-local IDs to the stored IDs of entities that
	// merged into earlier rows.
	RemappedIDs map[uuid.UUID]uuid.UUID `json:"remapped_ids,omitempty"`
}

// AnalysisStore persists analysis snapshots. Deduplication against entities
// stored by earlier runs happens here, keyed by story and name.
type AnalysisStore interface {
	SaveAnalysis(ctx context.Context, result *AnalysisResult) (*SaveSummary, error)
	ListCharacters(ctx context.Context, storyID uuid.UUID) ([]Character, error)
	ListEvents(ctx context.Context, storyID uuid.UUID) ([]Event, error)
	DeleteStory(ctx context.Context, storyID uuid.UUID) error
}
