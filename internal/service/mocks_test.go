package service

import (
	"context"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"clarifyall/internal/model"
	"clarifyall/internal/repository"
)

// MockToolRepository is a mock implementation of ToolRepository.
type MockToolRepository struct {
	mock.Mock
}

func (m *MockToolRepository) List(ctx context.Context, criteria repository.ListCriteria) ([]model.Tool, int64, error) {
	args := m.Called(ctx, criteria)
	var tools []model.Tool
	if args.Get(0) != nil {
		tools = args.Get(0).([]model.Tool)
	}
	return tools, args.Get(1).(int64), args.Error(2)
}

func (m *MockToolRepository) FindByID(ctx context.Context, id uint) (*model.Tool, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Tool), args.Error(1)
}

func (m *MockToolRepository) Create(ctx context.Context, tool *model.Tool, categoryIDs []uint) error {
	args := m.Called(ctx, tool, categoryIDs)
	return args.Error(0)
}

func (m *MockToolRepository) Update(ctx context.Context, tool *model.Tool, categoryIDs []uint) error {
	args := m.Called(ctx, tool, categoryIDs)
	return args.Error(0)
}

func (m *MockToolRepository) UpdateStatus(ctx context.Context, id uint, status model.ToolStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockToolRepository) UpdateLogo(ctx context.Context, id uint, logoURL string) error {
	args := m.Called(ctx, id, logoURL)
	return args.Error(0)
}

func (m *MockToolRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockToolRepository) IncrementViewCount(ctx context.Context, id uint) (uint, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(uint), args.Error(1)
}

func (m *MockToolRepository) IncrementSaveCount(ctx context.Context, id uint) (uint, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(uint), args.Error(1)
}

func (m *MockToolRepository) FindSimilar(ctx context.Context, toolID uint, categoryIDs []uint, limit int) ([]model.Tool, error) {
	args := m.Called(ctx, toolID, categoryIDs, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Tool), args.Error(1)
}

func (m *MockToolRepository) FindPopular(ctx context.Context, limit int) ([]model.Tool, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Tool), args.Error(1)
}

func (m *MockToolRepository) FindRecent(ctx context.Context, limit int) ([]model.Tool, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Tool), args.Error(1)
}

func (m *MockToolRepository) FindBySubmitter(ctx context.Context, email string, page, size int) ([]model.Tool, int64, error) {
	args := m.Called(ctx, email, page, size)
	var tools []model.Tool
	if args.Get(0) != nil {
		tools = args.Get(0).([]model.Tool)
	}
	return tools, args.Get(1).(int64), args.Error(2)
}

// MockCategoryRepository is a mock implementation of CategoryRepository.
type MockCategoryRepository struct {
	mock.Mock
}

func (m *MockCategoryRepository) FindAll(ctx context.Context) ([]model.Category, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Category), args.Error(1)
}

func (m *MockCategoryRepository) FindByID(ctx context.Context, id uint) (*model.Category, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Category), args.Error(1)
}

func (m *MockCategoryRepository) FindBySlug(ctx context.Context, slug string) (*model.Category, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Category), args.Error(1)
}

func (m *MockCategoryRepository) CountByIDs(ctx context.Context, ids []uint) (int64, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCategoryRepository) Create(ctx context.Context, category *model.Category) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

func (m *MockCategoryRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// MockUserRepository is a mock implementation of UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uint) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) Update(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) SetResetToken(ctx context.Context, email, token string, expiry time.Time) error {
	args := m.Called(ctx, email, token, expiry)
	return args.Error(0)
}

func (m *MockUserRepository) FindByValidResetToken(ctx context.Context, token string) (*model.User, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockSavedToolRepository is a mock implementation of SavedToolRepository.
type MockSavedToolRepository struct {
	mock.Mock
}

func (m *MockSavedToolRepository) Save(ctx context.Context, userID, toolID uint) (bool, error) {
	args := m.Called(ctx, userID, toolID)
	return args.Bool(0), args.Error(1)
}

func (m *MockSavedToolRepository) Unsave(ctx context.Context, userID, toolID uint) (bool, error) {
	args := m.Called(ctx, userID, toolID)
	return args.Bool(0), args.Error(1)
}

func (m *MockSavedToolRepository) HasSaved(ctx context.Context, userID, toolID uint) (bool, error) {
	args := m.Called(ctx, userID, toolID)
	return args.Bool(0), args.Error(1)
}

func (m *MockSavedToolRepository) ListByUser(ctx context.Context, userID uint, page, size int) ([]model.SavedTool, int64, error) {
	args := m.Called(ctx, userID, page, size)
	var saved []model.SavedTool
	if args.Get(0) != nil {
		saved = args.Get(0).([]model.SavedTool)
	}
	return saved, args.Get(1).(int64), args.Error(2)
}

// MockTokenStore is a mock implementation of TokenStoreInterface.
type MockTokenStore struct {
	mock.Mock
}

func (m *MockTokenStore) StoreRefreshToken(ctx context.Context, tokenID string, userID uint, email, role string, ttl time.Duration) error {
	args := m.Called(ctx, tokenID, userID, email, role, ttl)
	return args.Error(0)
}

func (m *MockTokenStore) GetRefreshToken(ctx context.Context, tokenID string) (uint, string, string, error) {
	args := m.Called(ctx, tokenID)
	return args.Get(0).(uint), args.String(1), args.String(2), args.Error(3)
}

func (m *MockTokenStore) DeleteRefreshToken(ctx context.Context, tokenID string) error {
	args := m.Called(ctx, tokenID)
	return args.Error(0)
}

// MockBlobStore is a mock implementation of storage.BlobStore.
type MockBlobStore struct {
	mock.Mock
}

func (m *MockBlobStore) Write(kind, originalName string, data []byte) (string, error) {
	args := m.Called(kind, originalName, data)
	return args.String(0), args.Error(1)
}

func (m *MockBlobStore) Delete(ref string) error {
	args := m.Called(ref)
	return args.Error(0)
}

// recordingNotifier records which notifications fired.
type recordingNotifier struct {
	mu                 sync.Mutex
	welcomes           []string
	submissionReceipts []string
	approvals          []string
	passwordResets     []string
}

func (n *recordingNotifier) Welcome(ctx context.Context, email, name string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.welcomes = append(n.welcomes, email)
}

func (n *recordingNotifier) SubmissionReceived(ctx context.Context, email, toolName string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.submissionReceipts = append(n.submissionReceipts, email)
}

func (n *recordingNotifier) ToolApproved(ctx context.Context, email, toolName string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.approvals = append(n.approvals, email)
}

func (n *recordingNotifier) PasswordReset(ctx context.Context, email, name, token string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.passwordResets = append(n.passwordResets, email)
}
