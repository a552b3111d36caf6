package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Harshitk-cp/plotweave/internal/analysis"
	"github.com/Harshitk-cp/plotweave/internal/domain"
	"github.com/Harshitk-cp/plotweave/internal/store"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	defaultConcurrency  = 4
	defaultMaxTextBytes = 1 << 20

	// MaxBatchSize caps the number of stories in one batch.
	MaxBatchSize = 32
)

var (
	ErrTextEmpty          = errors.New("text is required")
	ErrTextTooLarge       = errors.New("text exceeds the maximum size")
	ErrStoryIDMissing     = errors.New("story_id is required")
	ErrInvalidThreshold   = errors.New("confidence_threshold must be between 0 and 1")
	ErrBatchEmpty         = errors.New("batch contains no stories")
	ErrBatchTooLarge      = errors.New("batch contains too many stories")
	ErrStoryNotFound      = errors.New("story not found")
	ErrAnalysisConflict   = errors.New("another analysis of this story was saved concurrently")
	ErrStorageUnavailable = errors.New("storage is not configured; only previews are available")
)

// AnalysisService validates requests, runs the pipeline, and hands
// persisting runs to the store. A nil store limits it to previews.
type AnalysisService struct {
	store            domain.AnalysisStore
	pipeline         *analysis.Pipeline
	logger           *zap.Logger
	defaultThreshold float64
	concurrency      int
	maxTextBytes     int64
}

func NewAnalysisService(s domain.AnalysisStore, pipeline *analysis.Pipeline, logger *zap.Logger) *AnalysisService {
	if pipeline == nil {
		pipeline = analysis.NewPipeline()
	}
	return &AnalysisService{
		store:            s,
		pipeline:         pipeline,
		logger:           logger,
		defaultThreshold: domain.DefaultConfidenceThreshold,
		concurrency:      defaultConcurrency,
		maxTextBytes:     defaultMaxTextBytes,
	}
}

// SetLimits overrides the batch concurrency and maximum text size.
// Non-positive values keep the current setting.
func (s *AnalysisService) SetLimits(concurrency int, maxTextBytes int64) {
	if concurrency > 0 {
		s.concurrency = concurrency
	}
	if maxTextBytes > 0 {
		s.maxTextBytes = maxTextBytes
	}
}

// SetDefaultThreshold changes the threshold DefaultOptions reports.
func (s *AnalysisService) SetDefaultThreshold(threshold float64) error {
	if !validThreshold(threshold) {
		return ErrInvalidThreshold
	}
	s.defaultThreshold = threshold
	return nil
}

// DefaultOptions returns every stage enabled with the configured threshold.
func (s *AnalysisService) DefaultOptions() domain.AnalysisOptions {
	opts := domain.DefaultAnalysisOptions()
	opts.ConfidenceThreshold = s.defaultThreshold
	return opts
}

func (s *AnalysisService) MaxTextBytes() int64 {
	return s.maxTextBytes
}

// CanPersist reports whether a store is configured.
func (s *AnalysisService) CanPersist() bool {
	return s.store != nil
}

// validThreshold rejects values outside [0, 1], NaN included.
func validThreshold(t float64) bool {
	return t >= 0 && t <= 1
}

func (s *AnalysisService) validate(req *domain.AnalysisRequest) error {
	if req.StoryID == uuid.Nil {
		return ErrStoryIDMissing
	}
	if strings.TrimSpace(req.Text) == "" {
		return ErrTextEmpty
	}
	if int64(len(req.Text)) > s.maxTextBytes {
		return ErrTextTooLarge
	}
	if !validThreshold(req.Options.ConfidenceThreshold) {
		return ErrInvalidThreshold
	}
	if !req.Preview && s.store == nil {
		return ErrStorageUnavailable
	}
	return nil
}

// Analyze runs one story. Previews never touch storage; otherwise the
// snapshot is saved and the returned summary describes the merge.
func (s *AnalysisService) Analyze(ctx context.Context, req *domain.AnalysisRequest) (*domain.AnalysisResult, *domain.SaveSummary, error) {
	if err := s.validate(req); err != nil {
		return nil, nil, err
	}
	return s.run(ctx, req)
}

func (s *AnalysisService) run(ctx context.Context, req *domain.AnalysisRequest) (*domain.AnalysisResult, *domain.SaveSummary, error) {
	start := time.Now()
	result, err := s.pipeline.Run(ctx, req.StoryID, req.Text, req.Options)
	if err != nil {
		return nil, nil, fmt.Errorf("analyze story %s: %w", req.StoryID, err)
	}

	s.logger.Info("story analyzed",
		zap.String("story_id", req.StoryID.String()),
		zap.Bool("preview", req.Preview),
		zap.Int("segments", result.Stats.Segments),
		zap.Int("characters", len(result.Characters)),
		zap.Int("locations", len(result.Locations)),
		zap.Int("objects", len(result.Objects)),
		zap.Int("events", len(result.Events)),
		zap.Int("conflicts", len(result.Conflicts)),
		zap.Duration("duration", time.Since(start)),
	)
	if len(result.Conflicts) > 0 {
		s.logger.Warn("dependency conflicts detected",
			zap.String("story_id", req.StoryID.String()),
			zap.Int("count", len(result.Conflicts)))
	}

	if req.Preview {
		return result, nil, nil
	}

	summary, err := s.store.SaveAnalysis(ctx, result)
	if err != nil {
		if errors.Is(err, store.ErrConflict) {
			return nil, nil, ErrAnalysisConflict
		}
		return nil, nil, fmt.Errorf("save analysis for story %s: %w", req.StoryID, err)
	}
	result.Persisted = true

	s.logger.Info("analysis saved",
		zap.String("story_id", req.StoryID.String()),
		zap.Int("characters_inserted", summary.CharactersInserted),
		zap.Int("characters_merged", summary.CharactersMerged),
		zap.Int("events_inserted", summary.EventsInserted),
		zap.Int("sequence_offset", summary.SequenceOffset),
	)
	return result, summary, nil
}

// BatchResult pairs one story's snapshot with its save summary.
type BatchResult struct {
	Result  *domain.AnalysisResult `json:"result"`
	Summary *domain.SaveSummary    `json:"summary,omitempty"`
}

// AnalyzeBatch validates every request up front, then analyzes them with
// bounded parallelism. The first failure cancels the remaining runs.
// Results keep the request order.
func (s *AnalysisService) AnalyzeBatch(ctx context.Context, reqs []domain.AnalysisRequest) ([]BatchResult, error) {
	if len(reqs) == 0 {
		return nil, ErrBatchEmpty
	}
	if len(reqs) > MaxBatchSize {
		return nil, ErrBatchTooLarge
	}
	for i := range reqs {
		if err := s.validate(&reqs[i]); err != nil {
			return nil, fmt.Errorf("story %d: %w", i, err)
		}
	}

	results := make([]BatchResult, len(reqs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)

	for i := range reqs {
		g.Go(func() error {
			result, summary, err := s.run(gctx, &reqs[i])
			if err != nil {
				return err
			}
			results[i] = BatchResult{Result: result, Summary: summary}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		s.logger.Error("batch analysis failed", zap.Int("stories", len(reqs)), zap.Error(err))
		return nil, err
	}
	return results, nil
}

func (s *AnalysisService) ListCharacters(ctx context.Context, storyID uuid.UUID) ([]domain.Character, error) {
	if storyID == uuid.Nil {
		return nil, ErrStoryIDMissing
	}
	if s.store == nil {
		return nil, ErrStorageUnavailable
	}
	return s.store.ListCharacters(ctx, storyID)
}

func (s *AnalysisService) ListEvents(ctx context.Context, storyID uuid.UUID) ([]domain.Event, error) {
	if storyID == uuid.Nil {
		return nil, ErrStoryIDMissing
	}
	if s.store == nil {
		return nil, ErrStorageUnavailable
	}
	return s.store.ListEvents(ctx, storyID)
}

// DeleteStory discards everything stored for a story.
func (s *AnalysisService) DeleteStory(ctx context.Context, storyID uuid.UUID) error {
	if storyID == uuid.Nil {
		return ErrStoryIDMissing
	}
	if s.store == nil {
		return ErrStorageUnavailable
	}
	if err := s.store.DeleteStory(ctx, storyID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrStoryNotFound
		}
		return err
	}
	s.logger.Info("story deleted", zap.String("story_id", storyID.String()))
	return nil
}
