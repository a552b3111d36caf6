package analysis

import (
	"strings"
	"testing"

	"github.com/Harshitk-cp/plotweave/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fused(name string, freq int) domain.FusedEntity {
	return domain.FusedEntity{Name: name, Kind: domain.KindCharacter, Confidence: 0.8, Frequency: freq}
}

func TestAssignRoles(t *testing.T) {
	text := "Alice fought Bob at the gate."
	ranked := AssignRoles(text, []domain.FusedEntity{
		fused("Erin", 2),
		fused("Carl", 12),
		fused("Alice", 20),
		fused("Dana", 5),
		fused("Bob", 15),
	})

	require.Len(t, ranked, 5)
	roles := make(map[string]domain.CharacterRole)
	for _, r := range ranked {
		roles[r.Entity.Name] = r.Role
	}

	assert.Equal(t, "Alice", ranked[0].Entity.Name)
	assert.Equal(t, domain.RoleProtagonist, roles["Alice"])
	assert.Equal(t, domain.RoleAntagonist, roles["Bob"])
	assert.Equal(t, domain.RoleSupporting, roles["Carl"])
	assert.Equal(t, domain.RoleSupporting, roles["Dana"])
	assert.Equal(t, domain.RoleBackground, roles["Erin"])
}

func TestAssignRoles_TiesByName(t *testing.T) {
	ranked := AssignRoles("", []domain.FusedEntity{fused("Bob", 2), fused("Alice", 2)})

	require.Len(t, ranked, 2)
	assert.Equal(t, "Alice", ranked[0].Entity.Name)
	assert.Equal(t, domain.RoleProtagonist, ranked[0].Role)
	assert.Equal(t, domain.RoleBackground, ranked[1].Role)
}

func TestAssignRoles_Empty(t *testing.T) {
	assert.Empty(t, AssignRoles("text", nil))
}

func TestHasOpposition(t *testing.T) {
	tests := []struct {
		name string
		text string
		want bool
	}{
		{"keyword between", "Alice fought Bob.", true},
		{"reverse order", "Bob betrayed Alice.", true},
		{"no keyword", "Alice greeted Bob.", false},
		{"too far apart", "Alice fought " + strings.Repeat("on and ", 30) + "Bob.", false},
		{"keyword outside the gap", "Alice met Bob and then fought.", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HasOpposition(tt.text, "Alice", "Bob", oppositionWindow))
		})
	}
}
