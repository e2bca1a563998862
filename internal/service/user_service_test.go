package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	apperrors "clarifyall/internal/errors"
	"clarifyall/internal/model"
	"clarifyall/internal/repository"
)

func newTestUserService(userRepo *MockUserRepository, toolRepo *MockToolRepository, savedRepo *MockSavedToolRepository, blobs *MockBlobStore) UserService {
	return NewUserService(userRepo, toolRepo, savedRepo, blobs, 5*1024*1024)
}

func TestUserService_SaveTool(t *testing.T) {
	tests := []struct {
		name            string
		setupMocks      func(*MockToolRepository, *MockSavedToolRepository)
		expectedCreated bool
		expectedError   error
	}{
		{
			name: "first save bumps the counter",
			setupMocks: func(toolRepo *MockToolRepository, savedRepo *MockSavedToolRepository) {
				toolRepo.On("FindByID", mock.Anything, uint(3)).Return(&model.Tool{ID: 3}, nil)
				savedRepo.On("Save", mock.Anything, uint(1), uint(3)).Return(true, nil)
				toolRepo.On("IncrementSaveCount", mock.Anything, uint(3)).Return(uint(1), nil)
			},
			expectedCreated: true,
		},
		{
			name: "saving twice is a no-op and leaves the counter alone",
			setupMocks: func(toolRepo *MockToolRepository, savedRepo *MockSavedToolRepository) {
				toolRepo.On("FindByID", mock.Anything, uint(3)).Return(&model.Tool{ID: 3}, nil)
				savedRepo.On("Save", mock.Anything, uint(1), uint(3)).Return(false, nil)
			},
			expectedCreated: false,
		},
		{
			name: "saving a missing tool fails",
			setupMocks: func(toolRepo *MockToolRepository, savedRepo *MockSavedToolRepository) {
				toolRepo.On("FindByID", mock.Anything, uint(3)).Return(nil, gorm.ErrRecordNotFound)
			},
			expectedError: apperrors.ErrToolNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			toolRepo := new(MockToolRepository)
			savedRepo := new(MockSavedToolRepository)
			tt.setupMocks(toolRepo, savedRepo)

			svc := newTestUserService(new(MockUserRepository), toolRepo, savedRepo, new(MockBlobStore))
			created, err := svc.SaveTool(context.Background(), 1, 3)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expectedCreated, created)
			}
			if !tt.expectedCreated {
				toolRepo.AssertNotCalled(t, "IncrementSaveCount", mock.Anything, mock.Anything)
			}
			toolRepo.AssertExpectations(t)
			savedRepo.AssertExpectations(t)
		})
	}
}

func TestUserService_UnsaveTool(t *testing.T) {
	savedRepo := new(MockSavedToolRepository)
	savedRepo.On("Unsave", mock.Anything, uint(1), uint(3)).Return(true, nil).Once()
	savedRepo.On("Unsave", mock.Anything, uint(1), uint(3)).Return(false, nil).Once()

	svc := newTestUserService(new(MockUserRepository), new(MockToolRepository), savedRepo, new(MockBlobStore))

	removed, err := svc.UnsaveTool(context.Background(), 1, 3)
	assert.NoError(t, err)
	assert.True(t, removed)

	removed, err = svc.UnsaveTool(context.Background(), 1, 3)
	assert.NoError(t, err)
	assert.False(t, removed)
}

func TestUserService_SavedTools(t *testing.T) {
	savedRepo := new(MockSavedToolRepository)
	savedRepo.On("ListByUser", mock.Anything, uint(1), 0, 0).Return(nil, int64(0), nil)

	svc := newTestUserService(new(MockUserRepository), new(MockToolRepository), savedRepo, new(MockBlobStore))
	page, err := svc.SavedTools(context.Background(), 1, 0, 0)

	assert.NoError(t, err)
	assert.NotNil(t, page.Content)
	assert.Empty(t, page.Content)
	assert.Equal(t, repository.DefaultPageSize, page.PageSize)
	assert.Equal(t, 0, page.TotalPages)
}

func TestUserService_UpdateProfile(t *testing.T) {
	t.Run("no fields is a validation error", func(t *testing.T) {
		svc := newTestUserService(new(MockUserRepository), new(MockToolRepository), new(MockSavedToolRepository), new(MockBlobStore))
		_, err := svc.UpdateProfile(context.Background(), 1, ProfileUpdate{})

		var verr *apperrors.ValidationError
		assert.ErrorAs(t, err, &verr)
	})

	t.Run("updates only the supplied fields", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		userRepo.On("FindByID", mock.Anything, uint(1)).Return(&model.User{ID: 1, Name: "Old Name"}, nil)
		userRepo.On("Update", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)

		name := "New Name"
		svc := newTestUserService(userRepo, new(MockToolRepository), new(MockSavedToolRepository), new(MockBlobStore))
		user, err := svc.UpdateProfile(context.Background(), 1, ProfileUpdate{Name: &name})

		assert.NoError(t, err)
		assert.Equal(t, "New Name", user.Name)
		assert.Nil(t, user.Bio)
		userRepo.AssertExpectations(t)
	})
}

func TestUserService_DeleteAccount(t *testing.T) {
	hash, _ := bcrypt.GenerateFromPassword([]byte("hunter22"), bcrypt.MinCost)
	hashStr := string(hash)

	tests := []struct {
		name          string
		user          *model.User
		password      string
		expectDeleted bool
		expectedError error
	}{
		{
			name:          "local account with correct password",
			user:          &model.User{ID: 1, PasswordHash: &hashStr},
			password:      "hunter22",
			expectDeleted: true,
		},
		{
			name:          "local account with wrong password",
			user:          &model.User{ID: 1, PasswordHash: &hashStr},
			password:      "not-it",
			expectedError: apperrors.ErrWrongPassword,
		},
		{
			name:          "external account deletes without a password",
			user:          &model.User{ID: 1, Provider: "google"},
			password:      "",
			expectDeleted: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			userRepo := new(MockUserRepository)
			userRepo.On("FindByID", mock.Anything, uint(1)).Return(tt.user, nil)
			if tt.expectDeleted {
				userRepo.On("Delete", mock.Anything, uint(1)).Return(nil)
			}

			svc := newTestUserService(userRepo, new(MockToolRepository), new(MockSavedToolRepository), new(MockBlobStore))
			err := svc.DeleteAccount(context.Background(), 1, tt.password)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
			} else {
				assert.NoError(t, err)
			}
			userRepo.AssertExpectations(t)
		})
	}
}
