package analysis

import (
	"testing"

	"github.com/Harshitk-cp/plotweave/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocationTechniques(t *testing.T) {
	text := "They camped in Ravenwood. Later they returned to Ravenwood."

	prep := extractPrepositionalPlaces(text)
	require.Len(t, prep, 1)
	assert.Equal(t, "Ravenwood", prep[0].Name)
	assert.InDelta(t, 0.6, prep[0].Confidence, 1e-9)
	assert.Equal(t, domain.KindLocation, prep[0].Kind)

	move := extractMovementPlaces(text)
	require.Len(t, move, 1)
	assert.Equal(t, "Ravenwood", move[0].Name)
	assert.InDelta(t, 0.7, move[0].Confidence, 1e-9)
}

func TestExtractKeywordPlaces(t *testing.T) {
	got := extractKeywordPlaces("They crossed the Silver River. The Silver River was cold.")

	require.Len(t, got, 1)
	assert.Equal(t, "Silver River", got[0].Name)
	assert.Equal(t, "water", got[0].Attributes.Type)
	assert.Equal(t, 2, got[0].Frequency)
}

func TestExtractPrepositionalPlaces_IgnoresPossessives(t *testing.T) {
	got := extractPrepositionalPlaces("She stood at Alice's side. She waited at Alice's door.")
	assert.Empty(t, got)
}

func TestPlaceType(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"Castle Lake", "water"},
		{"Lake Castle", "building"},
		{"Mount Ember", "terrain"},
		{"Ravenwood", "place"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, placeType(tt.name))
		})
	}
}

func TestExtractPossessedObjects(t *testing.T) {
	got := extractPossessedObjects("Mara held the silver sword. Later the sword shattered.")

	require.Len(t, got, 1)
	assert.Equal(t, "sword", got[0].Name)
	assert.Equal(t, "Mara", got[0].Attributes.Owner)
	assert.Equal(t, "weapon", got[0].Attributes.Type)
	assert.Equal(t, domain.KindObject, got[0].Kind)
}

func TestExtractPlacedObjects(t *testing.T) {
	got := extractPlacedObjects("She hid the letter in Ashford. The letter was never found.")

	require.Len(t, got, 1)
	assert.Equal(t, "letter", got[0].Name)
	assert.Equal(t, "Ashford", got[0].Attributes.Place)
	assert.Equal(t, "document", got[0].Attributes.Type)
}

func TestExtractSignificantObjects(t *testing.T) {
	got := extractSignificantObjects("She found the cursed ring. The ring burned.")

	require.Len(t, got, 1)
	assert.Equal(t, "ring", got[0].Name)
	assert.Equal(t, "cursed ring", got[0].Attributes.Description)
	assert.InDelta(t, 0.65, got[0].Confidence, 1e-9)
}

func TestObjectTechniques_SkipStopNouns(t *testing.T) {
	got := extractPossessedObjects("He held his breath. He held his breath again.")
	assert.Empty(t, got)
}

func TestObjectType(t *testing.T) {
	assert.Equal(t, "weapon", objectType("sword"))
	assert.Equal(t, "key", objectType("key"))
	assert.Equal(t, "item", objectType("spoon"))
}

func TestLocationTechniques_AccentedNames(t *testing.T) {
	text := "They camped in Québec. Later they returned to Québec."

	prep := extractPrepositionalPlaces(text)
	require.Len(t, prep, 1)
	assert.Equal(t, "Québec", prep[0].Name)
	assert.Equal(t, 2, prep[0].Frequency)

	move := extractMovementPlaces(text)
	require.Len(t, move, 1)
	assert.Equal(t, "Québec", move[0].Name)
}
