package domain

import "github.com/google/uuid"

type RelationshipKind string

const (
	RelationshipCharacterCharacter RelationshipKind = "character_character"
	RelationshipCharacterObject    RelationshipKind = "character_object"
	RelationshipObjectLocation     RelationshipKind = "object_location"
)

// Character-character relationship categories.
const (
	RelFamily       = "family"
	RelFriend       = "friend"
	RelEnemy        = "enemy"
	RelRomantic     = "romantic"
	RelProfessional = "professional"
	RelAcquaintance = "acquaintance"
)

// Character-object relationship categories.
const (
	RelOwned      = "owned"
	RelCreated    = "created"
	RelDesires    = "desires"
	RelUses       = "uses"
	RelAssociated = "associated"
)

// Object-location relationship categories.
const (
	RelStored  = "stored"
	RelOrigin  = "origin"
	RelHidden  = "hidden"
	RelLocated = "located"
)

// RelationshipIntensity is the fixed weight of each character-character category.
var RelationshipIntensity = map[string]int{
	RelFamily:       8,
	RelFriend:       6,
	RelEnemy:        7,
	RelRomantic:     9,
	RelProfessional: 5,
	RelAcquaintance: 3,
}

// Relationship links two entities. Character pairs are undirected, object
// relationships are directed from SubjectID to ObjectID.
type Relationship struct {
	ID               uuid.UUID        `json:"id"`
	SubjectID        uuid.UUID        `json:"subject_id"`
	ObjectID         uuid.UUID        `json:"object_id"`
	Kind             RelationshipKind `json:"kind"`
	RelationshipType string           `json:"relationship_type"`
	Description      string           `json:"description"`
	Intensity        int              `json:"intensity"`
	InteractionCount int              `json:"interaction_count"`
	Directed         bool             `json:"directed"`
}
