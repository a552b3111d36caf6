package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Harshitk-cp/plotweave/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type AnalysisStore struct {
	db *pgxpool.Pool
}

func NewAnalysisStore(db *pgxpool.Pool) *AnalysisStore {
	return &AnalysisStore{db: db}
}

// keepLonger builds SET clauses that keep the longer of the stored and
// incoming text for each column.
func keepLonger(table string, columns ...string) string {
	clauses := make([]string, len(columns))
	for i, c := range columns {
		clauses[i] = fmt.Sprintf(
			"%[2]s = CASE WHEN length(EXCLUDED.%[2]s) > length(%[1]s.%[2]s) THEN EXCLUDED.%[2]s ELSE %[1]s.%[2]s END",
			table, c)
	}
	return strings.Join(clauses, ",\n\t\t     ")
}

var (
	upsertCharacterSQL = `INSERT INTO characters (id, story_id, name, role, confidence, frequency, title, appearance, personality, description, sources)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		 ON CONFLICT (story_id, name) DO UPDATE
		 SET role = EXCLUDED.role,
		     confidence = GREATEST(characters.confidence, EXCLUDED.confidence),
		     frequency = GREATEST(characters.frequency, EXCLUDED.frequency),
		     ` + keepLonger("characters", "title", "appearance", "personality", "description") + `,
		     sources = ARRAY(SELECT DISTINCT unnest(characters.sources || EXCLUDED.sources) ORDER BY 1),
		     updated_at = NOW()
		 RETURNING id, (xmax = 0)`

	upsertLocationSQL = `INSERT INTO locations (id, story_id, name, type, description, confidence, frequency, sources)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 ON CONFLICT (story_id, name) DO UPDATE
		 SET confidence = GREATEST(locations.confidence, EXCLUDED.confidence),
		     frequency = GREATEST(locations.frequency, EXCLUDED.frequency),
		     ` + keepLonger("locations", "type", "description") + `,
		     sources = ARRAY(SELECT DISTINCT unnest(locations.sources || EXCLUDED.sources) ORDER BY 1),
		     updated_at = NOW()
		 RETURNING id, (xmax = 0)`

	upsertObjectSQL = `INSERT INTO objects (id, story_id, name, type, description, confidence, frequency, current_owner_id, current_location_id, sources)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 ON CONFLICT (story_id, name) DO UPDATE
		 SET confidence = GREATEST(objects.confidence, EXCLUDED.confidence),
		     frequency = GREATEST(objects.frequency, EXCLUDED.frequency),
		     ` + keepLonger("objects", "type", "description") + `,
		     current_owner_id = COALESCE(EXCLUDED.current_owner_id, objects.current_owner_id),
		     current_location_id = COALESCE(EXCLUDED.current_location_id, objects.current_location_id),
		     sources = ARRAY(SELECT DISTINCT unnest(objects.sources || EXCLUDED.sources) ORDER BY 1),
		     updated_at = NOW()
		 RETURNING id, (xmax = 0)`
)

// idMap tracks run-local IDs that resolved to rows stored by earlier runs.
type idMap map[uuid.UUID]uuid.UUID

func (m idMap) resolve(id uuid.UUID) uuid.UUID {
	if stored, ok := m[id]; ok {
		return stored
	}
	return id
}

func (m idMap) resolvePtr(id *uuid.UUID) *uuid.UUID {
	if id == nil {
		return nil
	}
	stored := m.resolve(*id)
	return &stored
}

func (m idMap) resolveAll(ids []uuid.UUID) []uuid.UUID {
	out := make([]uuid.UUID, len(ids))
	for i, id := range ids {
		out[i] = m.resolve(id)
	}
	return out
}

// SaveAnalysis writes a snapshot in one transaction. Entities merge into
// rows with the same story and name; every reference in the snapshot is
// rewritten to the stored IDs before dependent rows are inserted.
func (s *AnalysisStore) SaveAnalysis(ctx context.Context, result *domain.AnalysisResult) (*domain.SaveSummary, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	summary := &domain.SaveSummary{}
	ids := idMap{}
	storyID := result.StoryID

	for _, c := range result.Characters {
		stored, inserted, err := upsert(ctx, tx, upsertCharacterSQL,
			c.ID, storyID, c.Name, c.Role, c.Confidence, c.Frequency,
			c.Title, c.Appearance, c.Personality, c.Description, c.Sources)
		if err != nil {
			return nil, fmt.Errorf("save character %q: %w", c.Name, err)
		}
		countUpsert(ids, c.ID, stored, inserted, &summary.CharactersInserted, &summary.CharactersMerged)
	}

	for _, l := range result.Locations {
		stored, inserted, err := upsert(ctx, tx, upsertLocationSQL,
			l.ID, storyID, l.Name, l.Type, l.Description, l.Confidence, l.Frequency, l.Sources)
		if err != nil {
			return nil, fmt.Errorf("save location %q: %w", l.Name, err)
		}
		countUpsert(ids, l.ID, stored, inserted, &summary.LocationsInserted, &summary.LocationsMerged)
	}

	for _, o := range result.Objects {
		stored, inserted, err := upsert(ctx, tx, upsertObjectSQL,
			o.ID, storyID, o.Name, o.Type, o.Description, o.Confidence, o.Frequency,
			ids.resolvePtr(o.CurrentOwnerID), ids.resolvePtr(o.CurrentLocationID), o.Sources)
		if err != nil {
			return nil, fmt.Errorf("save object %q: %w", o.Name, err)
		}
		countUpsert(ids, o.ID, stored, inserted, &summary.ObjectsInserted, &summary.ObjectsMerged)
	}

	for _, r := range result.Relationships {
		_, err := tx.Exec(ctx,
			`INSERT INTO relationships (id, story_id, subject_id, object_id, kind, relationship_type, description, intensity, interaction_count, directed)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
			r.ID, storyID, ids.resolve(r.SubjectID), ids.resolve(r.ObjectID), r.Kind,
			r.RelationshipType, r.Description, r.Intensity, r.InteractionCount, r.Directed,
		)
		if err != nil {
			return nil, fmt.Errorf("save relationship: %w", err)
		}
	}

	if err := tx.QueryRow(ctx,
		`SELECT COALESCE(MAX(sequence_number), 0) FROM events WHERE story_id = $1`,
		storyID,
	).Scan(&summary.SequenceOffset); err != nil {
		return nil, err
	}

	for _, e := range result.Events {
		if err := insertEvent(ctx, tx, storyID, e, summary.SequenceOffset, ids); err != nil {
			return nil, err
		}
		summary.EventsInserted++
	}

	for _, d := range result.Dependencies {
		_, err := tx.Exec(ctx,
			`INSERT INTO dependencies (id, story_id, predecessor_event_id, successor_event_id, kind, strength)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			d.ID, storyID, d.PredecessorEventID, d.SuccessorEventID, d.Kind, d.Strength,
		)
		if err != nil {
			return nil, fmt.Errorf("save dependency: %w", err)
		}
	}

	for _, p := range result.Plotlines {
		_, err := tx.Exec(ctx,
			`INSERT INTO plotlines (id, story_id, title, kind, event_ids, character_ids, starting_event_id, climax_event_id, resolution_event_id, confidence)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
			p.ID, storyID, p.Title, p.Kind, p.EventIDs, ids.resolveAll(p.CharacterIDs),
			p.StartingEventID, p.ClimaxEventID, p.ResolutionEventID, p.Confidence,
		)
		if err != nil {
			return nil, fmt.Errorf("save plotline %q: %w", p.Title, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	if len(ids) > 0 {
		summary.RemappedIDs = ids
	}
	return summary, nil
}

func upsert(ctx context.Context, tx pgx.Tx, sql string, args ...any) (uuid.UUID, bool, error) {
	var id uuid.UUID
	var inserted bool
	if err := tx.QueryRow(ctx, sql, args...).Scan(&id, &inserted); err != nil {
		return uuid.Nil, false, err
	}
	return id, inserted, nil
}

func countUpsert(ids idMap, local, stored uuid.UUID, inserted bool, insertedCount, mergedCount *int) {
	if inserted {
		*insertedCount++
	} else {
		*mergedCount++
	}
	if stored != local {
		ids[local] = stored
	}
}

func insertEvent(ctx context.Context, tx pgx.Tx, storyID uuid.UUID, e domain.Event, offset int, ids idMap) error {
	_, err := tx.Exec(ctx,
		`INSERT INTO events (id, story_id, title, description, sequence_number, chronological_time, resolved_time, relative_time_offset, time_reference, location_ids, segment_index)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		e.ID, storyID, e.Title, e.Description, e.SequenceNumber+offset, e.ChronologicalTime,
		e.ResolvedTime, e.RelativeTimeOffset, e.TimeReference, ids.resolveAll(e.LocationIDs), e.SegmentIndex,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrConflict
		}
		return fmt.Errorf("save event %d: %w", e.SequenceNumber, err)
	}

	for _, ic := range e.InvolvedCharacters {
		_, err := tx.Exec(ctx,
			`INSERT INTO event_characters (event_id, character_id, importance, experience_type)
			 VALUES ($1, $2, $3, $4)
			 ON CONFLICT (event_id, character_id) DO UPDATE
			 SET importance = GREATEST(event_characters.importance, EXCLUDED.importance)`,
			e.ID, ids.resolve(ic.CharacterID), ic.Importance, ic.ExperienceType,
		)
		if err != nil {
			return fmt.Errorf("save event involvement: %w", err)
		}
	}
	return nil
}

func (s *AnalysisStore) ListCharacters(ctx context.Context, storyID uuid.UUID) ([]domain.Character, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, name, role, confidence, frequency, title, appearance, personality, description, sources
		 FROM characters WHERE story_id = $1
		 ORDER BY frequency DESC, name`,
		storyID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	characters := []domain.Character{}
	for rows.Next() {
		var c domain.Character
		if err := rows.Scan(&c.ID, &c.Name, &c.Role, &c.Confidence, &c.Frequency,
			&c.Title, &c.Appearance, &c.Personality, &c.Description, &c.Sources); err != nil {
			return nil, err
		}
		characters = append(characters, c)
	}
	return characters, rows.Err()
}

func (s *AnalysisStore) ListEvents(ctx context.Context, storyID uuid.UUID) ([]domain.Event, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, title, description, sequence_number, chronological_time, resolved_time,
		        relative_time_offset, time_reference, location_ids, segment_index
		 FROM events WHERE story_id = $1
		 ORDER BY sequence_number`,
		storyID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := []domain.Event{}
	index := make(map[uuid.UUID]int)
	for rows.Next() {
		var e domain.Event
		if err := rows.Scan(&e.ID, &e.Title, &e.Description, &e.SequenceNumber, &e.ChronologicalTime,
			&e.ResolvedTime, &e.RelativeTimeOffset, &e.TimeReference, &e.LocationIDs, &e.SegmentIndex); err != nil {
			return nil, err
		}
		e.InvolvedCharacters = []domain.InvolvedCharacter{}
		index[e.ID] = len(events)
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(events) == 0 {
		return events, nil
	}

	eventIDs := make([]uuid.UUID, len(events))
	for i, e := range events {
		eventIDs[i] = e.ID
	}

	involved, err := s.db.Query(ctx,
		`SELECT event_id, character_id, importance, experience_type
		 FROM event_characters WHERE event_id = ANY($1)
		 ORDER BY importance DESC, character_id`,
		eventIDs,
	)
	if err != nil {
		return nil, err
	}
	defer involved.Close()

	for involved.Next() {
		var eventID uuid.UUID
		var ic domain.InvolvedCharacter
		if err := involved.Scan(&eventID, &ic.CharacterID, &ic.Importance, &ic.ExperienceType); err != nil {
			return nil, err
		}
		if i, ok := index[eventID]; ok {
			events[i].InvolvedCharacters = append(events[i].InvolvedCharacters, ic)
		}
	}
	return events, involved.Err()
}

// DeleteStory removes every analysis row stored for a story.
func (s *AnalysisStore) DeleteStory(ctx context.Context, storyID uuid.UUID) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	// Children first: objects reference characters and locations, and
	// event_characters and dependencies cascade from events.
	tables := []string{"plotlines", "dependencies", "relationships", "events", "objects", "locations", "characters"}

	var deleted int64
	for _, table := range tables {
		tag, err := tx.Exec(ctx, `DELETE FROM `+table+` WHERE story_id = $1`, storyID)
		if err != nil {
			return fmt.Errorf("delete %s: %w", table, err)
		}
		deleted += tag.RowsAffected()
	}
	if deleted == 0 {
		return ErrNotFound
	}
	return tx.Commit(ctx)
}
