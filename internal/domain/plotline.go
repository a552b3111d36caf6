package domain

import "github.com/google/uuid"

type PlotlineKind string

const (
	PlotlineCharacter PlotlineKind = "character"
	PlotlineThematic  PlotlineKind = "thematic"
	PlotlineMain      PlotlineKind = "main"
)

// Plotline is an ordered cluster of events forming one narrative thread.
type Plotline struct {
	ID                uuid.UUID    `json:"id"`
	Title             string       `json:"title"`
	Kind              PlotlineKind `json:"kind"`
	EventIDs          []uuid.UUID  `json:"event_ids"`
	CharacterIDs      []uuid.UUID  `json:"character_ids"`
	StartingEventID   uuid.UUID    `json:"starting_event_id"`
	ClimaxEventID     uuid.UUID    `json:"climax_event_id"`
	ResolutionEventID uuid.UUID    `json:"resolution_event_id"`
	Confidence        float64      `json:"confidence"`
}
