package domain

import (
	"testing"

	"github.com/google/uuid"
)

func TestAttributesMerge(t *testing.T) {
	base := Attributes{Title: "Mr.", Description: "a tall man"}
	incoming := Attributes{Title: "Dr", Description: "a tall man with a limp", Type: "weapon"}

	got := base.Merge(incoming)

	if got.Title != "Mr." {
		t.Errorf("expected equal-or-shorter title to keep %q, got %q", "Mr.", got.Title)
	}
	if got.Description != "a tall man with a limp" {
		t.Errorf("expected longer description to win, got %q", got.Description)
	}
	if got.Type != "weapon" {
		t.Errorf("expected absent type to be filled, got %q", got.Type)
	}
	if base.Description != "a tall man" {
		t.Error("merge must not modify the receiver")
	}
}

func TestValidEntityKind(t *testing.T) {
	tests := []struct {
		kind string
		want bool
	}{
		{"character", true},
		{"location", true},
		{"object", true},
		{"Character", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := ValidEntityKind(tt.kind); got != tt.want {
			t.Errorf("ValidEntityKind(%q) = %v, want %v", tt.kind, got, tt.want)
		}
	}
}

func TestValidCharacterRole(t *testing.T) {
	for _, r := range []string{"protagonist", "antagonist", "supporting", "background", "unknown"} {
		if !ValidCharacterRole(r) {
			t.Errorf("expected %q to be valid", r)
		}
	}
	if ValidCharacterRole("villain") {
		t.Error("expected villain to be invalid")
	}
}

func TestNewAnalysisResult_EmptyArrays(t *testing.T) {
	r := NewAnalysisResult(uuid.New())

	if r.Characters == nil || r.Locations == nil || r.Objects == nil || r.Events == nil ||
		r.Relationships == nil || r.Dependencies == nil || r.Conflicts == nil || r.Plotlines == nil {
		t.Fatal("expected every collection to be non-nil")
	}
}

func TestEventInvolvement(t *testing.T) {
	id := uuid.New()
	e := Event{InvolvedCharacters: []InvolvedCharacter{{CharacterID: id, Importance: 6, ExperienceType: ExperienceActor}}}

	ic, ok := e.Involvement(id)
	if !ok || ic.Importance != 6 {
		t.Fatalf("expected involvement with importance 6, got %+v %v", ic, ok)
	}
	if _, ok := e.Involvement(uuid.New()); ok {
		t.Error("expected no involvement for unknown character")
	}
}
