package domain

import (
	"github.com/google/uuid"
)

// EntityKind identifies what a candidate or fused entity represents.
type EntityKind string

const (
	KindCharacter EntityKind = "character"
	KindLocation  EntityKind = "location"
	KindObject    EntityKind = "object"
)

func ValidEntityKind(k string) bool {
	switch EntityKind(k) {
	case KindCharacter, KindLocation, KindObject:
		return true
	}
	return false
}

type CharacterRole string

const (
	RoleProtagonist CharacterRole = "protagonist"
	RoleAntagonist  CharacterRole = "antagonist"
	RoleSupporting  CharacterRole = "supporting"
	RoleBackground  CharacterRole = "background"
	RoleUnknown     CharacterRole = "unknown"
)

func ValidCharacterRole(r string) bool {
	switch CharacterRole(r) {
	case RoleProtagonist, RoleAntagonist, RoleSupporting, RoleBackground, RoleUnknown:
		return true
	}
	return false
}

// MaxConfidence caps every fused confidence regardless of corroboration.
const MaxConfidence = 0.95

// Attributes holds the optional descriptive fields a technique may fill.
// An empty string means the attribute is absent.
type Attributes struct {
	Title       string `json:"title,omitempty"`
	Appearance  string `json:"appearance,omitempty"`
	Personality string `json:"personality,omitempty"`
	Description string `json:"description,omitempty"`
	Type        string `json:"type,omitempty"`
	Owner       string `json:"owner,omitempty"`
	Place       string `json:"place,omitempty"`
}

// Merge returns a copy of a where each field of incoming replaces the
// existing value only when it is strictly longer.
func (a Attributes) Merge(incoming Attributes) Attributes {
	out := a
	out.Title = longer(a.Title, incoming.Title)
	out.Appearance = longer(a.Appearance, incoming.Appearance)
	out.Personality = longer(a.Personality, incoming.Personality)
	out.Description = longer(a.Description, incoming.Description)
	out.Type = longer(a.Type, incoming.Type)
	out.Owner = longer(a.Owner, incoming.Owner)
	out.Place = longer(a.Place, incoming.Place)
	return out
}

func longer(current, incoming string) string {
	if len(incoming) > len(current) {
		return incoming
	}
	return current
}

// CandidateEntity is a single technique's detection. Candidates are never
// reported directly; they always pass through fusion.
type CandidateEntity struct {
	Name       string     `json:"name"`
	Kind       EntityKind `json:"kind"`
	Confidence float64    `json:"confidence"`
	Frequency  int        `json:"frequency"`
	Attributes Attributes `json:"attributes"`
	Source     string     `json:"source"`
}

// FusedEntity is the deduplicated record for every candidate sharing a name.
type FusedEntity struct {
	Name       string     `json:"name"`
	Kind       EntityKind `json:"kind"`
	Confidence float64    `json:"confidence"`
	Frequency  int        `json:"frequency"`
	Attributes Attributes `json:"attributes"`
	Sources    []string   `json:"sources"`
}

type Character struct {
	ID          uuid.UUID     `json:"id"`
	Name        string        `json:"name"`
	Role        CharacterRole `json:"role"`
	Confidence  float64       `json:"confidence"`
	Frequency   int           `json:"frequency"`
	Title       string        `json:"title,omitempty"`
	Appearance  string        `json:"appearance,omitempty"`
	Personality string        `json:"personality,omitempty"`
	Description string        `json:"description,omitempty"`
	Sources     []string      `json:"sources"`
}

type Location struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Type        string    `json:"type"`
	Description string    `json:"description,omitempty"`
	Confidence  float64   `json:"confidence"`
	Frequency   int       `json:"frequency"`
	Sources     []string  `json:"sources"`
}

type Object struct {
	ID                uuid.UUID  `json:"id"`
	Name              string     `json:"name"`
	Type              string     `json:"type"`
	Description       string     `json:"description,omitempty"`
	Confidence        float64    `json:"confidence"`
	Frequency         int        `json:"frequency"`
	CurrentOwnerID    *uuid.UUID `json:"current_owner_id,omitempty"`
	CurrentLocationID *uuid.UUID `json:"current_location_id,omitempty"`
	Sources           []string   `json:"sources"`
}
