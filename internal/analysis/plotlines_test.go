package analysis

import (
	"strings"
	"testing"

	"github.com/Harshitk-cp/plotweave/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var dragonEvents = []string{
	"The dragon burned the northern village at midnight",
	"Another village burned while the dragon circled",
	"Smoke rose where the dragon had burned every village",
}

func plotlinesOfKind(ps []domain.Plotline, kind domain.PlotlineKind) []domain.Plotline {
	var out []domain.Plotline
	for _, p := range ps {
		if p.Kind == kind {
			out = append(out, p)
		}
	}
	return out
}

func involve(e domain.Event, c domain.Character, importance int) domain.Event {
	e.InvolvedCharacters = append(e.InvolvedCharacters, domain.InvolvedCharacter{
		CharacterID:    c.ID,
		Importance:     importance,
		ExperienceType: domain.ExperienceActor,
	})
	return e
}

func TestCluster_ThematicThreshold(t *testing.T) {
	c := NewPlotlineClusterer(nil, 7)

	two := []domain.Event{
		testEvent(10, "a", dragonEvents[0]),
		testEvent(20, "b", dragonEvents[1]),
	}
	assert.Empty(t, plotlinesOfKind(c.Cluster(two, nil), domain.PlotlineThematic))

	three := append(two, testEvent(30, "c", dragonEvents[2]))
	thematic := plotlinesOfKind(c.Cluster(three, nil), domain.PlotlineThematic)

	require.Len(t, thematic, 1)
	p := thematic[0]
	assert.True(t, strings.HasPrefix(p.Title, "Theme: "))
	assert.Contains(t, rareWords(dragonEvents[0]), strings.TrimPrefix(p.Title, "Theme: "))
	assert.Equal(t, []uuid.UUID{three[0].ID, three[1].ID, three[2].ID}, p.EventIDs)
	assert.Equal(t, three[0].ID, p.StartingEventID)
	assert.Equal(t, three[1].ID, p.ClimaxEventID)
	assert.Equal(t, three[2].ID, p.ResolutionEventID)
	assert.InDelta(t, 0.55, p.Confidence, 1e-9)
}

func TestCluster_ThematicNameReproducible(t *testing.T) {
	events := []domain.Event{
		testEvent(10, "a", dragonEvents[0]),
		testEvent(20, "b", dragonEvents[1]),
		testEvent(30, "c", dragonEvents[2]),
	}

	first := NewPlotlineClusterer(nil, 42).Cluster(events, nil)
	second := NewPlotlineClusterer(nil, 42).Cluster(events, nil)

	require.Len(t, first, 1)
	require.Len(t, second, 1)
	assert.Equal(t, first[0].Title, second[0].Title)
}

func TestCluster_CharacterArc(t *testing.T) {
	hero := testCharacter("Alice", domain.RoleProtagonist)
	extra := testCharacter("Bob", domain.RoleSupporting)

	events := []domain.Event{
		involve(testEvent(10, "a", "one"), hero, 6),
		involve(involve(testEvent(20, "b", "two"), hero, 6), extra, 4),
		involve(testEvent(30, "c", "six"), hero, 6),
		involve(testEvent(40, "d", "ten"), extra, 6),
		involve(testEvent(50, "e", "red"), extra, 6),
	}

	plotlines := NewPlotlineClusterer(nil, 1).Cluster(events, []domain.Character{hero, extra})

	arcs := plotlinesOfKind(plotlines, domain.PlotlineCharacter)
	require.Len(t, arcs, 1)
	arc := arcs[0]
	assert.Equal(t, "Alice's Arc", arc.Title)
	assert.Equal(t, []uuid.UUID{events[0].ID, events[1].ID, events[2].ID}, arc.EventIDs)
	assert.Equal(t, events[1].ID, arc.ClimaxEventID)
	assert.Equal(t, []uuid.UUID{hero.ID, extra.ID}, arc.CharacterIDs)
	assert.InDelta(t, 0.65, arc.Confidence, 1e-9)

	assert.Empty(t, plotlinesOfKind(plotlines, domain.PlotlineMain))
}

func TestCluster_MainPlot(t *testing.T) {
	hero := testCharacter("Alice", domain.RoleProtagonist)

	events := []domain.Event{
		involve(testEvent(10, "a", "one"), hero, 8),
		involve(testEvent(20, "b", "two"), hero, 4),
		involve(testEvent(30, "c", "six"), hero, 7),
		testEvent(40, "d", "ten"),
		involve(testEvent(50, "e", "red"), hero, 9),
	}

	plotlines := NewPlotlineClusterer(nil, 1).Cluster(events, []domain.Character{hero})

	require.Len(t, plotlines, 2)
	assert.Equal(t, domain.PlotlineCharacter, plotlines[0].Kind)

	main := plotlines[1]
	assert.Equal(t, domain.PlotlineMain, main.Kind)
	assert.Len(t, main.EventIDs, 5)
	assert.Equal(t, events[0].ID, main.StartingEventID)
	assert.Equal(t, events[4].ID, main.ClimaxEventID)
	assert.Equal(t, events[4].ID, main.ResolutionEventID)
	assert.InDelta(t, 0.8, main.Confidence, 1e-9)
}

func TestCluster_MainPlotRequirements(t *testing.T) {
	hero := testCharacter("Alice", domain.RoleProtagonist)
	sidekick := testCharacter("Bob", domain.RoleSupporting)

	build := func(n int, importance []int) []domain.Event {
		events := make([]domain.Event, n)
		words := []string{"one", "two", "six", "ten", "red", "fig"}
		for i := range events {
			events[i] = testEvent((i+1)*10, "t", words[i])
			if i < len(importance) {
				events[i] = involve(events[i], hero, importance[i])
			}
		}
		return events
	}

	tests := []struct {
		name       string
		events     []domain.Event
		characters []domain.Character
	}{
		{"too few events", build(4, []int{9, 9, 9, 9}), []domain.Character{hero}},
		{"no protagonist", build(5, []int{9, 9, 9}), []domain.Character{sidekick}},
		{"too few key events", build(6, []int{9, 9, 3, 3}), []domain.Character{hero}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plotlines := NewPlotlineClusterer(nil, 1).Cluster(tt.events, tt.characters)
			assert.Empty(t, plotlinesOfKind(plotlines, domain.PlotlineMain))
		})
	}
}

func TestCluster_NoEvents(t *testing.T) {
	plotlines := NewPlotlineClusterer(nil, 0).Cluster(nil, nil)
	assert.NotNil(t, plotlines)
	assert.Empty(t, plotlines)
}
