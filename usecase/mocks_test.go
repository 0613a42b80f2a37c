package usecase_test

import (
	"context"
	"sync"

	"github.com/stretchr/testify/mock"
	"golang.org/x/oauth2"

	"video-digest/domain/model"
	"video-digest/domain/repository"
)

type MockSource struct {
	mock.Mock
	name string
}

func NewMockSource(name string) *MockSource {
	return &MockSource{name: name}
}

func (m *MockSource) Name() string { return m.name }

func (m *MockSource) Fetch(ctx context.Context, req model.TranscriptRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

type MockMetadataProvider struct {
	mock.Mock
	name string
}

func (m *MockMetadataProvider) Name() string { return m.name }

func (m *MockMetadataProvider) Metadata(ctx context.Context, videoID string) (*model.VideoMetadata, error) {
	args := m.Called(ctx, videoID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.VideoMetadata), args.Error(1)
}

type MockResolver struct {
	mock.Mock
}

func (m *MockResolver) Resolve(ctx context.Context, videoID string) (*model.VideoMetadata, error) {
	args := m.Called(ctx, videoID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.VideoMetadata), args.Error(1)
}

type MockUsage struct {
	mock.Mock
}

func (m *MockUsage) AppendUsage(ctx context.Context, entry model.UsageLog, freeMinutes int) error {
	args := m.Called(ctx, entry, freeMinutes)
	return args.Error(0)
}

func (m *MockUsage) HasUsage(ctx context.Context, userID uint, videoID string) (bool, error) {
	args := m.Called(ctx, userID, videoID)
	return args.Bool(0), args.Error(1)
}

func (m *MockUsage) ListUsage(ctx context.Context, userID uint, limit int) ([]model.UsageLog, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.UsageLog), args.Error(1)
}

type MockSummarizer struct {
	mock.Mock
}

func (m *MockSummarizer) Summarize(ctx context.Context, transcript string, opts model.SummaryOptions) (string, error) {
	args := m.Called(ctx, transcript, opts)
	return args.String(0), args.Error(1)
}

func (m *MockSummarizer) Model() string { return "test-model" }

type MockLibrary struct {
	mock.Mock
}

func (m *MockLibrary) List(ctx context.Context, q model.LibraryQuery) ([]model.LibraryEntry, int64, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]model.LibraryEntry), args.Get(1).(int64), args.Error(2)
}

func (m *MockLibrary) Save(ctx context.Context, userID uint, videoID string) (*model.LibraryEntry, error) {
	args := m.Called(ctx, userID, videoID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.LibraryEntry), args.Error(1)
}

func (m *MockLibrary) Delete(ctx context.Context, userID uint, videoID string) error {
	args := m.Called(ctx, userID, videoID)
	return args.Error(0)
}

type MockUsers struct {
	mock.Mock
}

func (m *MockUsers) EnsureUser(ctx context.Context, externalID, email string) (*model.User, error) {
	args := m.Called(ctx, externalID, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUsers) GetByID(ctx context.Context, id uint) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUsers) GetByExternalID(ctx context.Context, externalID string) (*model.User, error) {
	args := m.Called(ctx, externalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUsers) SetSubscriptionStatus(ctx context.Context, customerID, externalID, status string) error {
	args := m.Called(ctx, customerID, externalID, status)
	return args.Error(0)
}

type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) CreateCheckout(ctx context.Context, req repository.CheckoutRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

func (m *MockGateway) ParseWebhook(payload []byte, signature string) (*repository.WebhookEvent, error) {
	args := m.Called(payload, signature)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.WebhookEvent), args.Error(1)
}

type MockOAuthClient struct {
	mock.Mock
}

func (m *MockOAuthClient) HasOAuth() bool { return true }

func (m *MockOAuthClient) AuthCodeURL(state string) string {
	return "https://accounts.example.com/auth?state=" + state
}

func (m *MockOAuthClient) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*oauth2.Token), args.Error(1)
}

type MockTokens struct {
	mock.Mock
}

func (m *MockTokens) UpsertToken(ctx context.Context, token *model.OAuthToken) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *MockTokens) GetToken(ctx context.Context, userID uint, provider string) (*model.OAuthToken, error) {
	args := m.Called(ctx, userID, provider)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.OAuthToken), args.Error(1)
}

// memoryVideos behaves like the SQL upsert: one row per id, non-nil fields win.
type memoryVideos struct {
	mu      sync.Mutex
	rows    map[string]model.Video
	upserts int
}

func newMemoryVideos() *memoryVideos {
	return &memoryVideos{rows: map[string]model.Video{}}
}

func (m *memoryVideos) GetVideo(_ context.Context, videoID string) (*model.Video, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.rows[videoID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &v, nil
}

func (m *memoryVideos) GetCachedSummary(ctx context.Context, videoID string) (*model.SummaryRecord, error) {
	v, err := m.GetVideo(ctx, videoID)
	if err != nil {
		return nil, nil
	}
	rec, ok := v.CachedSummary()
	if !ok {
		return nil, nil
	}
	return rec, nil
}

func (m *memoryVideos) UpsertVideo(_ context.Context, videoID string, f model.VideoFields) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.upserts++
	v := m.rows[videoID]
	v.VideoID = videoID
	if f.Title != nil {
		v.Title = *f.Title
	}
	if f.ChannelName != nil {
		v.ChannelName = *f.ChannelName
	}
	if f.DurationSeconds != nil {
		v.DurationSeconds = *f.DurationSeconds
	}
	if f.MetadataSource != nil {
		v.MetadataSource = *f.MetadataSource
	}
	if f.Transcript != nil {
		t := *f.Transcript
		v.Transcript = &t
	}
	if f.TranscriptSource != nil {
		v.TranscriptSource = *f.TranscriptSource
	}
	if f.Summary != nil {
		encoded, err := f.Summary.Encode()
		if err != nil {
			return err
		}
		v.Summary = &encoded
	}
	m.rows[videoID] = v
	return nil
}
