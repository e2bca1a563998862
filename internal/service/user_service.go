package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	apperrors "clarifyall/internal/errors"
	"clarifyall/internal/model"
	"clarifyall/internal/repository"
	"clarifyall/internal/storage"
)

// ProfileUpdate carries the editable profile fields; nil means unchanged.
type ProfileUpdate struct {
	Name *string `json:"name"`
	Bio  *string `json:"bio"`
}

// SavedToolsPage is the pagination envelope for a user's bookmarks.
type SavedToolsPage struct {
	Content       []model.SavedTool `json:"content"`
	TotalElements int64             `json:"totalElements"`
	TotalPages    int               `json:"totalPages"`
	CurrentPage   int               `json:"currentPage"`
	PageSize      int               `json:"pageSize"`
}

// UserService handles profile, bookmark, and account operations for an
// authenticated user. Authorization (who may call what) is the router's
// concern.
type UserService interface {
	GetUser(ctx context.Context, id uint) (*model.User, error)
	UpdateProfile(ctx context.Context, id uint, update ProfileUpdate) (*model.User, error)
	UpdateAvatar(ctx context.Context, id uint, upload *LogoUpload) (*model.User, error)
	SaveTool(ctx context.Context, userID, toolID uint) (created bool, err error)
	UnsaveTool(ctx context.Context, userID, toolID uint) (removed bool, err error)
	HasSavedTool(ctx context.Context, userID, toolID uint) (bool, error)
	SavedTools(ctx context.Context, userID uint, page, size int) (*SavedToolsPage, error)
	SubmittedTools(ctx context.Context, userID uint, page, size int) (*ToolPage, error)
	DeleteAccount(ctx context.Context, id uint, password string) error
}

type userService struct {
	userRepo      repository.UserRepository
	toolRepo      repository.ToolRepository
	savedRepo     repository.SavedToolRepository
	blobs         storage.BlobStore
	maxUploadSize int64
}

// NewUserService creates a new user service.
func NewUserService(
	userRepo repository.UserRepository,
	toolRepo repository.ToolRepository,
	savedRepo repository.SavedToolRepository,
	blobs storage.BlobStore,
	maxUploadSize int64,
) UserService {
	return &userService{
		userRepo:      userRepo,
		toolRepo:      toolRepo,
		savedRepo:     savedRepo,
		blobs:         blobs,
		maxUploadSize: maxUploadSize,
	}
}

func (s *userService) GetUser(ctx context.Context, id uint) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// UpdateProfile applies the supplied fields and returns the updated user.
func (s *userService) UpdateProfile(ctx context.Context, id uint, update ProfileUpdate) (*model.User, error) {
	if update.Name == nil && update.Bio == nil {
		return nil, apperrors.NewValidationError([]string{"No fields to update"})
	}

	user, err := s.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}

	if update.Name != nil {
		if *update.Name == "" {
			return nil, apperrors.NewValidationError([]string{"Name must not be empty"})
		}
		user.Name = *update.Name
	}
	if update.Bio != nil {
		user.Bio = update.Bio
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return user, nil
}

// UpdateAvatar stores the uploaded image, points the profile at it, and
// best-effort deletes the previous file.
func (s *userService) UpdateAvatar(ctx context.Context, id uint, upload *LogoUpload) (*model.User, error) {
	if upload == nil || len(upload.Data) == 0 {
		return nil, apperrors.NewValidationError([]string{"No file uploaded"})
	}
	if !allowedLogoTypes[upload.ContentType] {
		return nil, apperrors.NewValidationError([]string{"Only image files are allowed (jpeg, jpg, png, gif)"})
	}
	if int64(len(upload.Data)) > s.maxUploadSize {
		return nil, apperrors.NewValidationError([]string{fmt.Sprintf("Avatar must be %d bytes or less", s.maxUploadSize)})
	}

	user, err := s.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}

	ref, err := s.blobs.Write("avatars", upload.Filename, upload.Data)
	if err != nil {
		return nil, fmt.Errorf("store avatar: %w", err)
	}

	old := user.Avatar
	user.Avatar = &ref
	if err := s.userRepo.Update(ctx, user); err != nil {
		if delErr := s.blobs.Delete(ref); delErr != nil {
			log.Printf("user: cleanup orphaned avatar %s: %v", ref, delErr)
		}
		return nil, fmt.Errorf("update avatar: %w", err)
	}

	if old != nil && *old != "" {
		if err := s.blobs.Delete(*old); err != nil {
			log.Printf("user: delete old avatar %s: %v", *old, err)
		}
	}
	return user, nil
}

// SaveTool bookmarks the tool. Saving an already-saved tool reports
// created=false rather than an error; a successful first save also bumps
// the tool's save counter.
func (s *userService) SaveTool(ctx context.Context, userID, toolID uint) (bool, error) {
	if _, err := s.toolRepo.FindByID(ctx, toolID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, apperrors.ErrToolNotFound
		}
		return false, err
	}

	created, err := s.savedRepo.Save(ctx, userID, toolID)
	if err != nil {
		return false, fmt.Errorf("save tool: %w", err)
	}
	if created {
		if _, err := s.toolRepo.IncrementSaveCount(ctx, toolID); err != nil {
			log.Printf("user: bump save count for tool %d: %v", toolID, err)
		}
	}
	return created, nil
}

// UnsaveTool removes the bookmark and reports whether one existed.
func (s *userService) UnsaveTool(ctx context.Context, userID, toolID uint) (bool, error) {
	return s.savedRepo.Unsave(ctx, userID, toolID)
}

func (s *userService) HasSavedTool(ctx context.Context, userID, toolID uint) (bool, error) {
	return s.savedRepo.HasSaved(ctx, userID, toolID)
}

// SavedTools pages through the user's bookmarks, most recent first.
func (s *userService) SavedTools(ctx context.Context, userID uint, page, size int) (*SavedToolsPage, error) {
	saved, total, err := s.savedRepo.ListByUser(ctx, userID, page, size)
	if err != nil {
		return nil, fmt.Errorf("list saved tools: %w", err)
	}
	if size <= 0 {
		size = repository.DefaultPageSize
	}
	if page < 0 {
		page = 0
	}
	if saved == nil {
		saved = []model.SavedTool{}
	}
	return &SavedToolsPage{
		Content:       saved,
		TotalElements: total,
		TotalPages:    int((total + int64(size) - 1) / int64(size)),
		CurrentPage:   page,
		PageSize:      size,
	}, nil
}

// SubmittedTools pages through the tools the user submitted, matched by the
// account's email.
func (s *userService) SubmittedTools(ctx context.Context, userID uint, page, size int) (*ToolPage, error) {
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	tools, total, err := s.toolRepo.FindBySubmitter(ctx, user.Email, page, size)
	if err != nil {
		return nil, fmt.Errorf("list submitted tools: %w", err)
	}
	if size <= 0 {
		size = repository.DefaultPageSize
	}
	if page < 0 {
		page = 0
	}
	if tools == nil {
		tools = []model.Tool{}
	}
	return &ToolPage{
		Content:       tools,
		TotalElements: total,
		TotalPages:    int((total + int64(size) - 1) / int64(size)),
		CurrentPage:   page,
		PageSize:      size,
	}, nil
}

// DeleteAccount removes the account. Accounts with a local password must
// confirm it; externally-authenticated accounts delete without one.
func (s *userService) DeleteAccount(ctx context.Context, id uint, password string) error {
	user, err := s.GetUser(ctx, id)
	if err != nil {
		return err
	}

	if user.HasPassword() {
		if password == "" {
			return apperrors.NewValidationError([]string{"Password is required to delete this account"})
		}
		if err := bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(password)); err != nil {
			return apperrors.ErrWrongPassword
		}
	}

	if err := s.userRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrUserNotFound
		}
		return fmt.Errorf("delete account: %w", err)
	}
	return nil
}
