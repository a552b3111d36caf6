package analysis

import (
	"context"
	"time"

	"github.com/Harshitk-cp/plotweave/internal/domain"
	"github.com/google/uuid"
)

// Pipeline runs every stage over one story's text. A Pipeline holds no
// per-run state, so one value may serve concurrent runs.
type Pipeline struct {
	// NewID generates identifiers for every emitted record.
	NewID func() uuid.UUID

	CharacterTechniques []Technique
	LocationTechniques  []Technique
	ObjectTechniques    []Technique
}

func NewPipeline() *Pipeline {
	return &Pipeline{
		NewID:               uuid.New,
		CharacterTechniques: CharacterTechniques(),
		LocationTechniques:  LocationTechniques(),
		ObjectTechniques:    ObjectTechniques(),
	}
}

// Run analyzes text and returns a complete snapshot. Entities below the
// confidence threshold are dropped before relationships, events and
// plotlines are derived, so every reference in the result resolves to a
// reported entity. The context is checked between stages.
func (p *Pipeline) Run(ctx context.Context, storyID uuid.UUID, text string, opts domain.AnalysisOptions) (*domain.AnalysisResult, error) {
	started := time.Now()
	newID := p.NewID
	if newID == nil {
		newID = uuid.New
	}

	result := domain.NewAnalysisResult(storyID)
	normalized := Normalize(text)
	segments := SegmentText(text)
	result.Stats.Segments = len(segments)

	if opts.ExtractCharacters {
		fused, err := p.fuse(ctx, normalized, domain.KindCharacter, p.CharacterTechniques)
		if err != nil {
			return nil, err
		}
		result.Stats.FusedCharacters = len(fused)
		result.Characters = buildCharacters(normalized, fused, opts.ConfidenceThreshold, newID)
	}

	if opts.ExtractLocations {
		fused, err := p.fuse(ctx, normalized, domain.KindLocation, p.LocationTechniques)
		if err != nil {
			return nil, err
		}
		result.Stats.FusedLocations = len(fused)
		result.Locations = buildLocations(fused, result.Characters, opts.ConfidenceThreshold, newID)
	}

	if opts.ExtractObjects {
		fused, err := p.fuse(ctx, normalized, domain.KindObject, p.ObjectTechniques)
		if err != nil {
			return nil, err
		}
		result.Stats.FusedObjects = len(fused)
		result.Objects = buildObjects(fused, result.Characters, result.Locations, opts.ConfidenceThreshold, newID)
	}

	if opts.ExtractRelationships {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		result.Relationships = NewRelationshipDetector(newID).Detect(normalized, result.Characters, result.Objects, result.Locations)
	}

	if opts.ExtractEvents {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		result.Events = NewEventExtractor(newID).Extract(segments, result.Characters, result.Locations)

		if err := ctx.Err(); err != nil {
			return nil, err
		}
		result.Dependencies = NewDependencyBuilder(newID).Build(result.Events)
		result.Conflicts = DetectConflicts(result.Events, result.Dependencies)
	}

	if opts.ExtractPlotlines {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		result.Plotlines = NewPlotlineClusterer(newID, opts.Seed).Cluster(result.Events, result.Characters)
	}

	result.Stats.Duration = time.Since(started)
	return result, nil
}

func (p *Pipeline) fuse(ctx context.Context, text string, kind domain.EntityKind, techniques []Technique) ([]domain.FusedEntity, error) {
	results, err := RunTechniques(ctx, text, techniques)
	if err != nil {
		return nil, err
	}
	return Fuse(kind, results), nil
}

// buildCharacters assigns roles over every fused character, then drops the
// ones under the threshold. Output follows role rank.
func buildCharacters(text string, fused []domain.FusedEntity, threshold float64, newID func() uuid.UUID) []domain.Character {
	characters := make([]domain.Character, 0)
	for _, rc := range AssignRoles(text, fused) {
		e := rc.Entity
		if e.Confidence < threshold {
			continue
		}
		characters = append(characters, domain.Character{
			ID:          newID(),
			Name:        e.Name,
			Role:        rc.Role,
			Confidence:  e.Confidence,
			Frequency:   e.Frequency,
			Title:       e.Attributes.Title,
			Appearance:  e.Attributes.Appearance,
			Personality: e.Attributes.Personality,
			Description: e.Attributes.Description,
			Sources:     e.Sources,
		})
	}
	return characters
}

// buildLocations drops names already reported as characters.
func buildLocations(fused []domain.FusedEntity, characters []domain.Character, threshold float64, newID func() uuid.UUID) []domain.Location {
	taken := make(map[string]bool, len(characters))
	for _, c := range characters {
		taken[c.Name] = true
	}

	locations := make([]domain.Location, 0)
	for _, e := range fused {
		if e.Confidence < threshold || taken[e.Name] {
			continue
		}
		locType := e.Attributes.Type
		if locType == "" {
			locType = placeType(e.Name)
		}
		locations = append(locations, domain.Location{
			ID:          newID(),
			Name:        e.Name,
			Type:        locType,
			Description: e.Attributes.Description,
			Confidence:  e.Confidence,
			Frequency:   e.Frequency,
			Sources:     e.Sources,
		})
	}
	return locations
}

// buildObjects resolves owner and place attributes against the reported
// characters and locations.
func buildObjects(fused []domain.FusedEntity, characters []domain.Character, locations []domain.Location, threshold float64, newID func() uuid.UUID) []domain.Object {
	charIDs := make(map[string]uuid.UUID, len(characters))
	for _, c := range characters {
		charIDs[c.Name] = c.ID
	}
	locIDs := make(map[string]uuid.UUID, len(locations))
	for _, l := range locations {
		locIDs[l.Name] = l.ID
	}

	objects := make([]domain.Object, 0)
	for _, e := range fused {
		if e.Confidence < threshold {
			continue
		}
		objType := e.Attributes.Type
		if objType == "" {
			objType = objectType(e.Name)
		}
		obj := domain.Object{
			ID:          newID(),
			Name:        e.Name,
			Type:        objType,
			Description: e.Attributes.Description,
			Confidence:  e.Confidence,
			Frequency:   e.Frequency,
			Sources:     e.Sources,
		}
		if id, ok := charIDs[e.Attributes.Owner]; ok {
			obj.CurrentOwnerID = &id
		}
		if id, ok := locIDs[e.Attributes.Place]; ok {
			obj.CurrentLocationID = &id
		}
		objects = append(objects, obj)
	}
	return objects
}
