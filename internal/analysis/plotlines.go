package analysis

import (
	"math"
	"math/rand/v2"
	"sort"

	"github.com/Harshitk-cp/plotweave/internal/domain"
	"github.com/google/uuid"
)

const (
	minPlotlineEvents  = 3
	minMainPlotEvents  = 5
	keyEventImportance = 7
	// clusterThreshold is exclusive.
	clusterThreshold   = 0.15
	mainClimaxPosition = 0.8
	mainPlotConfidence = 0.8
	miscClusterKey     = "misc"
	// seedMixer decorrelates the two PCG words derived from one seed.
	seedMixer = 0x9e3779b97f4a7c15
)

// PlotlineClusterer groups events into character, thematic and main
// storylines.
type PlotlineClusterer struct {
	newID func() uuid.UUID
	seed  uint64
}

func NewPlotlineClusterer(newID func() uuid.UUID, seed uint64) *PlotlineClusterer {
	if newID == nil {
		newID = uuid.New
	}
	return &PlotlineClusterer{newID: newID, seed: seed}
}

// Cluster returns character plotlines, then thematic ones, then the main
// plot when there is one.
func (p *PlotlineClusterer) Cluster(events []domain.Event, characters []domain.Character) []domain.Plotline {
	plotlines := make([]domain.Plotline, 0)
	if len(events) == 0 {
		return plotlines
	}

	sorted := make([]domain.Event, len(events))
	copy(sorted, events)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].SequenceNumber < sorted[j].SequenceNumber
	})

	plotlines = append(plotlines, p.characterPlotlines(sorted, characters)...)
	plotlines = append(plotlines, p.thematicPlotlines(sorted)...)
	if main, ok := p.mainPlotline(sorted, characters); ok {
		plotlines = append(plotlines, main)
	}
	return plotlines
}

func (p *PlotlineClusterer) characterPlotlines(events []domain.Event, characters []domain.Character) []domain.Plotline {
	var out []domain.Plotline
	for _, c := range characters {
		if c.Role != domain.RoleProtagonist && c.Role != domain.RoleAntagonist {
			continue
		}
		var arc []domain.Event
		for i := range events {
			if _, ok := events[i].Involvement(c.ID); ok {
				arc = append(arc, events[i])
			}
		}
		if len(arc) < minPlotlineEvents {
			continue
		}
		confidence := clampFloat(0.5+0.05*float64(len(arc)), 0, domain.MaxConfidence)
		out = append(out, p.plotline(c.Name+"'s Arc", domain.PlotlineCharacter, arc, len(arc)/2, confidence))
	}
	return out
}

type cluster struct {
	key    string
	words  map[string]struct{}
	events []domain.Event
}

// thematicPlotlines assigns each event greedily to the first cluster whose
// representative, the cluster's first event, overlaps it enough. A new
// cluster is named after one rare word drawn at random from its first event.
func (p *PlotlineClusterer) thematicPlotlines(events []domain.Event) []domain.Plotline {
	rng := rand.New(rand.NewPCG(p.seed, p.seed^seedMixer))

	var clusters []*cluster
	for _, e := range events {
		words := rareWords(e.Description)
		var home *cluster
		for _, c := range clusters {
			if overlapRatio(words, c.words) > clusterThreshold {
				home = c
				break
			}
		}
		if home == nil {
			home = &cluster{key: clusterKey(rng, words), words: words}
			clusters = append(clusters, home)
		}
		home.events = append(home.events, e)
	}

	var out []domain.Plotline
	for _, c := range clusters {
		if len(c.events) < minPlotlineEvents {
			continue
		}
		confidence := clampFloat(0.4+0.05*float64(len(c.events)), 0, 0.9)
		out = append(out, p.plotline("Theme: "+c.key, domain.PlotlineThematic, c.events, len(c.events)/2, confidence))
	}
	return out
}

func clusterKey(rng *rand.Rand, words map[string]struct{}) string {
	candidates := sortedWords(words)
	if len(candidates) == 0 {
		return miscClusterKey
	}
	return candidates[rng.IntN(len(candidates))]
}

func (p *PlotlineClusterer) mainPlotline(events []domain.Event, characters []domain.Character) (domain.Plotline, bool) {
	if len(events) < minMainPlotEvents {
		return domain.Plotline{}, false
	}
	var protagonist *domain.Character
	for i := range characters {
		if characters[i].Role == domain.RoleProtagonist {
			protagonist = &characters[i]
			break
		}
	}
	if protagonist == nil {
		return domain.Plotline{}, false
	}

	key := 0
	for i := range events {
		if ic, ok := events[i].Involvement(protagonist.ID); ok && ic.Importance >= keyEventImportance {
			key++
		}
	}
	if key < minPlotlineEvents {
		return domain.Plotline{}, false
	}

	climax := clampInt(int(math.Floor(mainClimaxPosition*float64(len(events)))), 0, len(events)-1)
	return p.plotline("Main Plot", domain.PlotlineMain, events, climax, mainPlotConfidence), true
}

// plotline builds a plotline over events already in sequence order.
func (p *PlotlineClusterer) plotline(title string, kind domain.PlotlineKind, events []domain.Event, climax int, confidence float64) domain.Plotline {
	ids := make([]uuid.UUID, len(events))
	seen := make(map[uuid.UUID]bool)
	characters := make([]uuid.UUID, 0)
	for i, e := range events {
		ids[i] = e.ID
		for _, ic := range e.InvolvedCharacters {
			if !seen[ic.CharacterID] {
				seen[ic.CharacterID] = true
				characters = append(characters, ic.CharacterID)
			}
		}
	}
	return domain.Plotline{
		ID:                p.newID(),
		Title:             title,
		Kind:              kind,
		EventIDs:          ids,
		CharacterIDs:      characters,
		StartingEventID:   ids[0],
		ClimaxEventID:     ids[climax],
		ResolutionEventID: ids[len(ids)-1],
		Confidence:        confidence,
	}
}
