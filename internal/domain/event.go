package domain

import (
	"time"

	"github.com/google/uuid"
)

// SequenceGap is the spacing between consecutive event sequence numbers.
// Gaps leave room for manual insertion later.
const SequenceGap = 10

type TimeReference string

const (
	TimeAbsolute TimeReference = "absolute"
	TimeRelative TimeReference = "relative"
)

type ExperienceType string

const (
	ExperienceSpeaker ExperienceType = "speaker"
	ExperienceActor   ExperienceType = "actor"
	ExperiencePresent ExperienceType = "present"
)

type InvolvedCharacter struct {
	CharacterID    uuid.UUID      `json:"character_id"`
	Importance     int            `json:"importance"`
	ExperienceType ExperienceType `json:"experience_type"`
}

// Event is a discrete narrative occurrence. SequenceNumber is a position,
// not a timestamp.
type Event struct {
	ID                 uuid.UUID           `json:"id"`
	Title              string              `json:"title"`
	Description        string              `json:"description"`
	SequenceNumber     int                 `json:"sequence_number"`
	ChronologicalTime  string              `json:"chronological_time,omitempty"`
	ResolvedTime       *time.Time          `json:"resolved_time,omitempty"`
	RelativeTimeOffset string              `json:"relative_time_offset,omitempty"`
	TimeReference      TimeReference       `json:"time_reference"`
	InvolvedCharacters []InvolvedCharacter `json:"involved_characters"`
	LocationIDs        []uuid.UUID         `json:"location_ids"`
	SegmentIndex       int                 `json:"segment_index"`
}

// Involvement returns the involvement record for a character, if any.
func (e *Event) Involvement(characterID uuid.UUID) (InvolvedCharacter, bool) {
	for _, ic := range e.InvolvedCharacters {
		if ic.CharacterID == characterID {
			return ic, true
		}
	}
	return InvolvedCharacter{}, false
}

type DependencyKind string

const (
	DependencyChronological DependencyKind = "chronological"
	DependencyCausal        DependencyKind = "causal"
	DependencyThematic      DependencyKind = "thematic"
)

func ValidDependencyKind(k string) bool {
	switch DependencyKind(k) {
	case DependencyChronological, DependencyCausal, DependencyThematic:
		return true
	}
	return false
}

// Dependency is a directed, typed edge between two events. Several edges of
// different kinds may join the same pair.
type Dependency struct {
	ID                 uuid.UUID      `json:"id"`
	PredecessorEventID uuid.UUID      `json:"predecessor_event_id"`
	SuccessorEventID   uuid.UUID      `json:"successor_event_id"`
	Kind               DependencyKind `json:"kind"`
	Strength           int            `json:"strength"`
}

type ConflictKind string

const (
	ConflictSequence ConflictKind = "sequence"
	ConflictCircular ConflictKind = "circular"
)

type Conflict struct {
	Kind         ConflictKind `json:"kind"`
	EventIDs     []uuid.UUID  `json:"event_ids"`
	DependencyID *uuid.UUID   `json:"dependency_id,omitempty"`
	Description  string       `json:"description"`
}
