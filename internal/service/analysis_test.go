package service

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/Harshitk-cp/plotweave/internal/domain"
	"github.com/Harshitk-cp/plotweave/internal/store"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockAnalysisStore mocks the AnalysisStore interface.
type MockAnalysisStore struct {
	mock.Mock
}

func (m *MockAnalysisStore) SaveAnalysis(ctx context.Context, result *domain.AnalysisResult) (*domain.SaveSummary, error) {
	args := m.Called(ctx, result)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SaveSummary), args.Error(1)
}

func (m *MockAnalysisStore) ListCharacters(ctx context.Context, storyID uuid.UUID) ([]domain.Character, error) {
	args := m.Called(ctx, storyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Character), args.Error(1)
}

func (m *MockAnalysisStore) ListEvents(ctx context.Context, storyID uuid.UUID) ([]domain.Event, error) {
	args := m.Called(ctx, storyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Event), args.Error(1)
}

func (m *MockAnalysisStore) DeleteStory(ctx context.Context, storyID uuid.UUID) error {
	args := m.Called(ctx, storyID)
	return args.Error(0)
}

const story = "Alice said hello to Bob. Bob smiled and walked away. Alice was angry."

func newRequest(preview bool) *domain.AnalysisRequest {
	return &domain.AnalysisRequest{
		StoryID: uuid.New(),
		Text:    story,
		Options: domain.DefaultAnalysisOptions(),
		Preview: preview,
	}
}

func TestAnalysisService_PreviewSkipsStore(t *testing.T) {
	st := new(MockAnalysisStore)
	svc := NewAnalysisService(st, nil, zap.NewNop())

	result, summary, err := svc.Analyze(context.Background(), newRequest(true))
	require.NoError(t, err)

	assert.Nil(t, summary)
	assert.False(t, result.Persisted)
	assert.Len(t, result.Characters, 2)
	st.AssertNotCalled(t, "SaveAnalysis", mock.Anything, mock.Anything)
}

func TestAnalysisService_PersistsSnapshot(t *testing.T) {
	st := new(MockAnalysisStore)
	req := newRequest(false)
	st.On("SaveAnalysis", mock.Anything, mock.MatchedBy(func(r *domain.AnalysisResult) bool {
		return r.StoryID == req.StoryID
	})).Return(&domain.SaveSummary{CharactersInserted: 2, EventsInserted: 1}, nil)

	svc := NewAnalysisService(st, nil, zap.NewNop())
	result, summary, err := svc.Analyze(context.Background(), req)
	require.NoError(t, err)

	assert.True(t, result.Persisted)
	assert.Equal(t, 2, summary.CharactersInserted)
	st.AssertExpectations(t)
}

func TestAnalysisService_Validation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(r *domain.AnalysisRequest)
		wantErr error
	}{
		{"missing story id", func(r *domain.AnalysisRequest) { r.StoryID = uuid.Nil }, ErrStoryIDMissing},
		{"empty text", func(r *domain.AnalysisRequest) { r.Text = "" }, ErrTextEmpty},
		{"whitespace text", func(r *domain.AnalysisRequest) { r.Text = " \n\t " }, ErrTextEmpty},
		{"text too large", func(r *domain.AnalysisRequest) { r.Text = strings.Repeat("a", 65) }, ErrTextTooLarge},
		{"negative threshold", func(r *domain.AnalysisRequest) { r.Options.ConfidenceThreshold = -0.1 }, ErrInvalidThreshold},
		{"threshold above one", func(r *domain.AnalysisRequest) { r.Options.ConfidenceThreshold = 1.5 }, ErrInvalidThreshold},
		{"NaN threshold", func(r *domain.AnalysisRequest) { r.Options.ConfidenceThreshold = math.NaN() }, ErrInvalidThreshold},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewAnalysisService(new(MockAnalysisStore), nil, zap.NewNop())
			svc.SetLimits(0, 64)

			req := newRequest(true)
			req.Text = "short text"
			tt.mutate(req)

			_, _, err := svc.Analyze(context.Background(), req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestAnalysisService_NoStore(t *testing.T) {
	svc := NewAnalysisService(nil, nil, zap.NewNop())
	assert.False(t, svc.CanPersist())

	_, _, err := svc.Analyze(context.Background(), newRequest(false))
	assert.ErrorIs(t, err, ErrStorageUnavailable)

	result, _, err := svc.Analyze(context.Background(), newRequest(true))
	require.NoError(t, err)
	assert.NotEmpty(t, result.Characters)

	_, err = svc.ListCharacters(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrStorageUnavailable)
}

func TestAnalysisService_SaveFailure(t *testing.T) {
	tests := []struct {
		name     string
		storeErr error
		wantErr  error
	}{
		{"conflict", store.ErrConflict, ErrAnalysisConflict},
		{"other", errors.New("connection reset"), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := new(MockAnalysisStore)
			st.On("SaveAnalysis", mock.Anything, mock.Anything).Return(nil, tt.storeErr)
			svc := NewAnalysisService(st, nil, zap.NewNop())

			result, _, err := svc.Analyze(context.Background(), newRequest(false))
			require.Error(t, err)
			assert.Nil(t, result)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.ErrorIs(t, err, tt.storeErr)
			}
		})
	}
}

func TestAnalysisService_CancelledContext(t *testing.T) {
	svc := NewAnalysisService(new(MockAnalysisStore), nil, zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := svc.Analyze(ctx, newRequest(true))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestAnalysisService_DefaultOptions(t *testing.T) {
	svc := NewAnalysisService(nil, nil, zap.NewNop())
	assert.Equal(t, domain.DefaultConfidenceThreshold, svc.DefaultOptions().ConfidenceThreshold)

	require.NoError(t, svc.SetDefaultThreshold(0.8))
	opts := svc.DefaultOptions()
	assert.Equal(t, 0.8, opts.ConfidenceThreshold)
	assert.True(t, opts.ExtractCharacters)
	assert.True(t, opts.ExtractPlotlines)

	assert.ErrorIs(t, svc.SetDefaultThreshold(2), ErrInvalidThreshold)
	assert.ErrorIs(t, svc.SetDefaultThreshold(math.NaN()), ErrInvalidThreshold)
	assert.Equal(t, 0.8, svc.DefaultOptions().ConfidenceThreshold)
}

func TestAnalysisService_AnalyzeBatch(t *testing.T) {
	st := new(MockAnalysisStore)
	st.On("SaveAnalysis", mock.Anything, mock.Anything).Return(&domain.SaveSummary{}, nil)
	svc := NewAnalysisService(st, nil, zap.NewNop())
	svc.SetLimits(2, 0)

	reqs := make([]domain.AnalysisRequest, 5)
	for i := range reqs {
		reqs[i] = *newRequest(i%2 == 0)
	}

	results, err := svc.AnalyzeBatch(context.Background(), reqs)
	require.NoError(t, err)
	require.Len(t, results, len(reqs))

	for i, r := range results {
		assert.Equal(t, reqs[i].StoryID, r.Result.StoryID)
		assert.Equal(t, !reqs[i].Preview, r.Result.Persisted)
		assert.Equal(t, reqs[i].Preview, r.Summary == nil)
	}
	st.AssertNumberOfCalls(t, "SaveAnalysis", 2)
}

func TestAnalysisService_AnalyzeBatchValidation(t *testing.T) {
	st := new(MockAnalysisStore)
	svc := NewAnalysisService(st, nil, zap.NewNop())

	_, err := svc.AnalyzeBatch(context.Background(), nil)
	assert.ErrorIs(t, err, ErrBatchEmpty)

	_, err = svc.AnalyzeBatch(context.Background(), make([]domain.AnalysisRequest, MaxBatchSize+1))
	assert.ErrorIs(t, err, ErrBatchTooLarge)

	bad := *newRequest(false)
	bad.Text = ""
	_, err = svc.AnalyzeBatch(context.Background(), []domain.AnalysisRequest{*newRequest(false), bad})
	assert.ErrorIs(t, err, ErrTextEmpty)
	st.AssertNotCalled(t, "SaveAnalysis", mock.Anything, mock.Anything)
}

func TestAnalysisService_AnalyzeBatchFailure(t *testing.T) {
	st := new(MockAnalysisStore)
	st.On("SaveAnalysis", mock.Anything, mock.Anything).Return(nil, errors.New("disk full"))
	svc := NewAnalysisService(st, nil, zap.NewNop())

	results, err := svc.AnalyzeBatch(context.Background(), []domain.AnalysisRequest{*newRequest(false), *newRequest(false)})
	assert.Error(t, err)
	assert.Nil(t, results)
}

func TestAnalysisService_ListCharacters(t *testing.T) {
	st := new(MockAnalysisStore)
	storyID := uuid.New()
	stored := []domain.Character{{ID: uuid.New(), Name: "Alice", Role: domain.RoleProtagonist}}
	st.On("ListCharacters", mock.Anything, storyID).Return(stored, nil)

	svc := NewAnalysisService(st, nil, zap.NewNop())
	characters, err := svc.ListCharacters(context.Background(), storyID)
	require.NoError(t, err)
	assert.Equal(t, stored, characters)

	_, err = svc.ListCharacters(context.Background(), uuid.Nil)
	assert.ErrorIs(t, err, ErrStoryIDMissing)
}

func TestAnalysisService_ListEvents(t *testing.T) {
	st := new(MockAnalysisStore)
	storyID := uuid.New()
	stored := []domain.Event{{ID: uuid.New(), Title: "Arrival", SequenceNumber: 10}}
	st.On("ListEvents", mock.Anything, storyID).Return(stored, nil)

	svc := NewAnalysisService(st, nil, zap.NewNop())
	events, err := svc.ListEvents(context.Background(), storyID)
	require.NoError(t, err)
	assert.Equal(t, stored, events)
}

func TestAnalysisService_DeleteStory(t *testing.T) {
	st := new(MockAnalysisStore)
	known, unknown := uuid.New(), uuid.New()
	st.On("DeleteStory", mock.Anything, known).Return(nil)
	st.On("DeleteStory", mock.Anything, unknown).Return(store.ErrNotFound)

	svc := NewAnalysisService(st, nil, zap.NewNop())
	assert.NoError(t, svc.DeleteStory(context.Background(), known))
	assert.ErrorIs(t, svc.DeleteStory(context.Background(), unknown), ErrStoryNotFound)
}
