package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"clarifyall/internal/auth"
	apperrors "clarifyall/internal/errors"
	"clarifyall/internal/model"
)

func TestAuthService_Register(t *testing.T) {
	tests := []struct {
		name          string
		email         string
		password      string
		userName      string
		setupMock     func(*MockUserRepository)
		expectedError error
		wantViolation bool
	}{
		{
			name:     "successful registration",
			email:    "new@example.com",
			password: "password123",
			userName: "New User",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "new@example.com").Return(nil, gorm.ErrRecordNotFound)
				m.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)
			},
		},
		{
			name:     "email already registered",
			email:    "existing@example.com",
			password: "password123",
			userName: "Existing User",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "existing@example.com").Return(&model.User{Email: "existing@example.com"}, nil)
			},
			expectedError: apperrors.ErrEmailTaken,
		},
		{
			name:          "password too short",
			email:         "new@example.com",
			password:      "short",
			userName:      "New User",
			setupMock:     func(m *MockUserRepository) {},
			wantViolation: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			tt.setupMock(mockRepo)

			notifier := &recordingNotifier{}
			svc := NewAuthService(mockRepo, auth.NewJWTService("test-secret"), new(MockTokenStore), notifier)

			user, err := svc.Register(context.Background(), tt.email, tt.password, tt.userName)

			switch {
			case tt.wantViolation:
				var verr *apperrors.ValidationError
				assert.ErrorAs(t, err, &verr)
				assert.Nil(t, user)
			case tt.expectedError != nil:
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, user)
				assert.Empty(t, notifier.welcomes)
			default:
				assert.NoError(t, err)
				assert.NotNil(t, user)
				assert.Equal(t, tt.email, user.Email)
				assert.Equal(t, model.RoleUser, user.Role)
				assert.True(t, user.HasPassword())
				assert.Equal(t, []string{tt.email}, notifier.welcomes)
			}

			mockRepo.AssertExpectations(t)
		})
	}
}

func TestAuthService_Login(t *testing.T) {
	hash, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	hashStr := string(hash)

	tests := []struct {
		name          string
		email         string
		password      string
		setupMock     func(*MockUserRepository, *MockTokenStore)
		expectedError error
	}{
		{
			name:     "successful login stores the refresh token",
			email:    "user@example.com",
			password: "password123",
			setupMock: func(mRepo *MockUserRepository, mStore *MockTokenStore) {
				mRepo.On("FindByEmail", mock.Anything, "user@example.com").Return(&model.User{
					ID:           1,
					Email:        "user@example.com",
					Role:         model.RoleUser,
					PasswordHash: &hashStr,
				}, nil)
				mStore.On("StoreRefreshToken", mock.Anything, mock.Anything, uint(1), "user@example.com", model.RoleUser, auth.RefreshTokenExpiry).Return(nil)
			},
		},
		{
			name:     "unknown email",
			email:    "nobody@example.com",
			password: "password123",
			setupMock: func(mRepo *MockUserRepository, mStore *MockTokenStore) {
				mRepo.On("FindByEmail", mock.Anything, "nobody@example.com").Return(nil, gorm.ErrRecordNotFound)
			},
			expectedError: apperrors.ErrInvalidCredentials,
		},
		{
			name:     "wrong password",
			email:    "user@example.com",
			password: "not-it",
			setupMock: func(mRepo *MockUserRepository, mStore *MockTokenStore) {
				mRepo.On("FindByEmail", mock.Anything, "user@example.com").Return(&model.User{
					ID:           1,
					Email:        "user@example.com",
					PasswordHash: &hashStr,
				}, nil)
			},
			expectedError: apperrors.ErrInvalidCredentials,
		},
		{
			name:     "external provider account",
			email:    "oauth@example.com",
			password: "password123",
			setupMock: func(mRepo *MockUserRepository, mStore *MockTokenStore) {
				mRepo.On("FindByEmail", mock.Anything, "oauth@example.com").Return(&model.User{
					ID:       2,
					Email:    "oauth@example.com",
					Provider: "google",
				}, nil)
			},
			expectedError: apperrors.ErrExternalAuthAccount,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			mockStore := new(MockTokenStore)
			tt.setupMock(mockRepo, mockStore)

			svc := NewAuthService(mockRepo, auth.NewJWTService("test-secret"), mockStore, &recordingNotifier{})
			accessToken, refreshToken, user, err := svc.Login(context.Background(), tt.email, tt.password)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Empty(t, accessToken)
				assert.Empty(t, refreshToken)
				assert.Nil(t, user)
			} else {
				assert.NoError(t, err)
				assert.NotEmpty(t, accessToken)
				assert.NotEmpty(t, refreshToken)
				assert.Equal(t, tt.email, user.Email)
			}

			mockRepo.AssertExpectations(t)
			mockStore.AssertExpectations(t)
		})
	}
}

func TestAuthService_RefreshToken(t *testing.T) {
	jwtService := auth.NewJWTService("test-secret")

	t.Run("valid refresh token yields a new access token", func(t *testing.T) {
		tokenID, refreshToken, err := jwtService.GenerateRefreshToken(1, "user@example.com", model.RoleUser)
		assert.NoError(t, err)

		mockStore := new(MockTokenStore)
		mockStore.On("GetRefreshToken", mock.Anything, tokenID).Return(uint(1), "user@example.com", model.RoleUser, nil)

		svc := NewAuthService(new(MockUserRepository), jwtService, mockStore, &recordingNotifier{})
		accessToken, err := svc.RefreshToken(context.Background(), refreshToken)

		assert.NoError(t, err)
		assert.NotEmpty(t, accessToken)

		claims, err := jwtService.ValidateToken(accessToken)
		assert.NoError(t, err)
		assert.Equal(t, uint(1), claims.UserID)
		assert.Equal(t, model.RoleUser, claims.Role)
	})

	t.Run("garbage token is rejected", func(t *testing.T) {
		svc := NewAuthService(new(MockUserRepository), jwtService, new(MockTokenStore), &recordingNotifier{})
		_, err := svc.RefreshToken(context.Background(), "not-a-token")
		assert.ErrorIs(t, err, apperrors.ErrInvalidRefreshToken)
	})
}

func TestAuthService_ForgotPassword(t *testing.T) {
	t.Run("unknown email succeeds without sending", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockRepo.On("FindByEmail", mock.Anything, "nobody@example.com").Return(nil, gorm.ErrRecordNotFound)

		notifier := &recordingNotifier{}
		svc := NewAuthService(mockRepo, auth.NewJWTService("test-secret"), new(MockTokenStore), notifier)

		assert.NoError(t, svc.ForgotPassword(context.Background(), "nobody@example.com"))
		assert.Empty(t, notifier.passwordResets)
		mockRepo.AssertNotCalled(t, "SetResetToken", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("known local account gets a token and an email", func(t *testing.T) {
		hash, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
		hashStr := string(hash)

		mockRepo := new(MockUserRepository)
		mockRepo.On("FindByEmail", mock.Anything, "user@example.com").Return(&model.User{
			Email:        "user@example.com",
			Name:         "User",
			PasswordHash: &hashStr,
		}, nil)
		mockRepo.On("SetResetToken", mock.Anything, "user@example.com", mock.Anything, mock.Anything).Return(nil)

		notifier := &recordingNotifier{}
		svc := NewAuthService(mockRepo, auth.NewJWTService("test-secret"), new(MockTokenStore), notifier)

		assert.NoError(t, svc.ForgotPassword(context.Background(), "user@example.com"))
		assert.Equal(t, []string{"user@example.com"}, notifier.passwordResets)
		mockRepo.AssertExpectations(t)
	})

	t.Run("external account is silently skipped", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockRepo.On("FindByEmail", mock.Anything, "oauth@example.com").Return(&model.User{
			Email:    "oauth@example.com",
			Provider: "google",
		}, nil)

		notifier := &recordingNotifier{}
		svc := NewAuthService(mockRepo, auth.NewJWTService("test-secret"), new(MockTokenStore), notifier)

		assert.NoError(t, svc.ForgotPassword(context.Background(), "oauth@example.com"))
		assert.Empty(t, notifier.passwordResets)
	})
}

func TestAuthService_ResetPassword(t *testing.T) {
	t.Run("valid token sets the new password and clears the token", func(t *testing.T) {
		token := "reset-token"
		old := "old-hash"
		user := &model.User{ID: 1, Email: "user@example.com", PasswordHash: &old, ResetToken: &token}

		mockRepo := new(MockUserRepository)
		mockRepo.On("FindByValidResetToken", mock.Anything, token).Return(user, nil)
		mockRepo.On("Update", mock.Anything, mock.AnythingOfType("*model.User")).
			Run(func(args mock.Arguments) {
				updated := args.Get(1).(*model.User)
				assert.Nil(t, updated.ResetToken)
				assert.Nil(t, updated.ResetTokenExpiry)
				assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(*updated.PasswordHash), []byte("newpassword")))
			}).Return(nil)

		svc := NewAuthService(mockRepo, auth.NewJWTService("test-secret"), new(MockTokenStore), &recordingNotifier{})
		assert.NoError(t, svc.ResetPassword(context.Background(), token, "newpassword"))
		mockRepo.AssertExpectations(t)
	})

	t.Run("expired or unknown token is rejected", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockRepo.On("FindByValidResetToken", mock.Anything, "stale").Return(nil, gorm.ErrRecordNotFound)

		svc := NewAuthService(mockRepo, auth.NewJWTService("test-secret"), new(MockTokenStore), &recordingNotifier{})
		err := svc.ResetPassword(context.Background(), "stale", "newpassword")
		assert.ErrorIs(t, err, apperrors.ErrInvalidResetToken)
	})
}
