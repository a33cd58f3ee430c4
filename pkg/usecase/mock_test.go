package usecase_test

import (
	"context"
	"errors"

	"github.com/m-mizutani/gollem"

	"github.com/anamnesis-lab/anamnesis/pkg/domain/interfaces"
	"github.com/anamnesis-lab/anamnesis/pkg/domain/model"
	"github.com/anamnesis-lab/anamnesis/pkg/domain/types"
)

// mockLLMSession is a mock gollem Session for testing
type mockLLMSession struct {
	generateContentFn func(ctx context.Context, input ...gollem.Input) (*gollem.Response, error)
}

func (s *mockLLMSession) GenerateContent(ctx context.Context, input ...gollem.Input) (*gollem.Response, error) {
	if s.generateContentFn != nil {
		return s.generateContentFn(ctx, input...)
	}
	return &gollem.Response{
		Texts: []string{"What other symptoms have you noticed?"},
	}, nil
}

func (s *mockLLMSession) GenerateStream(ctx context.Context, input ...gollem.Input) (<-chan *gollem.Response, error) {
	return nil, nil
}

func (s *mockLLMSession) Generate(ctx context.Context, input []gollem.Input, opts ...gollem.GenerateOption) (*gollem.Response, error) {
	return s.GenerateContent(ctx, input...)
}

func (s *mockLLMSession) Stream(ctx context.Context, input []gollem.Input, opts ...gollem.GenerateOption) (<-chan *gollem.Response, error) {
	return s.GenerateStream(ctx, input...)
}

func (s *mockLLMSession) History() (*gollem.History, error) {
	return nil, nil
}

func (s *mockLLMSession) AppendHistory(*gollem.History) error {
	return nil
}

func (s *mockLLMSession) CountToken(ctx context.Context, input ...gollem.Input) (int, error) {
	return 0, nil
}

// mockLLMClient is a mock gollem LLMClient for testing
type mockLLMClient struct {
	newSessionFn func(ctx context.Context, options ...gollem.SessionOption) (gollem.Session, error)
}

func (c *mockLLMClient) NewSession(ctx context.Context, options ...gollem.SessionOption) (gollem.Session, error) {
	if c.newSessionFn != nil {
		return c.newSessionFn(ctx, options...)
	}
	return &mockLLMSession{}, nil
}

func (c *mockLLMClient) GenerateEmbedding(ctx context.Context, dimension int, input []string) ([][]float64, error) {
	return nil, nil
}

// replyWith builds a client whose sessions always answer with the given texts
func replyWith(texts ...string) *mockLLMClient {
	return &mockLLMClient{
		newSessionFn: func(ctx context.Context, options ...gollem.SessionOption) (gollem.Session, error) {
			return &mockLLMSession{
				generateContentFn: func(ctx context.Context, input ...gollem.Input) (*gollem.Response, error) {
					return &gollem.Response{Texts: texts}, nil
				},
			}, nil
		},
	}
}

var errStorageDown = errors.New("storage unavailable")

// failingRepository simulates a storage backend that is down
type failingRepository struct{}

func (r *failingRepository) History() interfaces.HistoryRepository { return &failingHistory{} }
func (r *failingRepository) Profile() interfaces.ProfileRepository { return &failingProfile{} }
func (r *failingRepository) Close() error                          { return nil }

type failingHistory struct{}

func (h *failingHistory) Create(ctx context.Context, entry *model.HistoryEntry) (*model.HistoryEntry, error) {
	return nil, errStorageDown
}

func (h *failingHistory) Get(ctx context.Context, id types.EntryID) (*model.HistoryEntry, error) {
	return nil, errStorageDown
}

func (h *failingHistory) Update(ctx context.Context, entry *model.HistoryEntry) (*model.HistoryEntry, error) {
	return nil, errStorageDown
}

func (h *failingHistory) Delete(ctx context.Context, id types.EntryID) error {
	return errStorageDown
}

func (h *failingHistory) ListRecent(ctx context.Context, userID types.UserID, limit int) ([]*model.HistoryEntry, error) {
	return nil, errStorageDown
}

type failingProfile struct{}

func (p *failingProfile) Put(ctx context.Context, profile *model.UserProfile) (*model.UserProfile, error) {
	return nil, errStorageDown
}

func (p *failingProfile) Get(ctx context.Context, userID types.UserID) (*model.UserProfile, error) {
	return nil, errStorageDown
}

// failWith builds a client whose generation calls always fail with err
func failWith(err error) *mockLLMClient {
	return &mockLLMClient{
		newSessionFn: func(ctx context.Context, options ...gollem.SessionOption) (gollem.Session, error) {
			return &mockLLMSession{
				generateContentFn: func(ctx context.Context, input ...gollem.Input) (*gollem.Response, error) {
					return nil, err
				},
			}, nil
		},
	}
}
