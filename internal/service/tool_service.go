package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"gorm.io/gorm"

	"clarifyall/internal/cache"
	apperrors "clarifyall/internal/errors"
	"clarifyall/internal/model"
	"clarifyall/internal/notify"
	"clarifyall/internal/repository"
	"clarifyall/internal/storage"
)

const (
	toolCacheTTL    = 5 * time.Minute
	popularCacheTTL = 2 * time.Minute
	popularCacheKey = "tools:popular"

	// SimilarToolLimit caps the similarity lookup result.
	SimilarToolLimit = 4

	maxNameLength      = 100
	maxShortDescLength = 150
	maxFullDescLength  = 2000
	maxCategories      = 3
)

var allowedLogoTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
}

// ToolPage is the pagination envelope for tool listings.
type ToolPage struct {
	Content       []model.Tool `json:"content"`
	TotalElements int64        `json:"totalElements"`
	TotalPages    int          `json:"totalPages"`
	CurrentPage   int          `json:"currentPage"`
	PageSize      int          `json:"pageSize"`
}

// ToolDraft carries the submitted or edited descriptive fields of a tool.
// Any status present in a submission payload is ignored; new tools always
// enter moderation as PENDING_APPROVAL.
type ToolDraft struct {
	Name             string             `json:"name"`
	WebsiteURL       string             `json:"websiteUrl"`
	ShortDescription string             `json:"shortDescription"`
	FullDescription  *string            `json:"fullDescription"`
	PricingModel     model.PricingModel `json:"pricingModel"`
	SubmitterEmail   string             `json:"submitterEmail"`
	CategoryIDs      []uint             `json:"categoryIds"`
	Screenshots      model.StringList   `json:"screenshots"`
	VideoURL         *string            `json:"videoUrl"`
	SocialLinks      model.StringMap    `json:"socialLinks"`
	Features         model.StringList   `json:"features"`
	PricingDetails   model.StringMap    `json:"pricingDetails"`
	Platforms        model.StringList   `json:"platforms"`
	FeatureTags      model.StringList   `json:"featureTags"`
}

// LogoUpload is an uploaded image buffer.
type LogoUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Data        []byte
}

// ToolService handles the listing, moderation, and engagement operations.
type ToolService interface {
	List(ctx context.Context, criteria repository.ListCriteria) (*ToolPage, error)
	GetTool(ctx context.Context, id uint) (*model.Tool, error)
	Submit(ctx context.Context, draft ToolDraft, logo *LogoUpload) (*model.Tool, error)
	Approve(ctx context.Context, id uint) (*model.Tool, error)
	Reject(ctx context.Context, id uint) (*model.Tool, error)
	Update(ctx context.Context, id uint, draft ToolDraft) (*model.Tool, error)
	Delete(ctx context.Context, id uint) error
	ReplaceLogo(ctx context.Context, id uint, logo *LogoUpload) (string, error)
	RecordView(ctx context.Context, id uint) (uint, error)
	Similar(ctx context.Context, id uint) ([]model.Tool, error)
	Popular(ctx context.Context, limit int) ([]model.Tool, error)
	Recent(ctx context.Context, limit int) ([]model.Tool, error)
}

type toolService struct {
	toolRepo      repository.ToolRepository
	categoryRepo  repository.CategoryRepository
	blobs         storage.BlobStore
	cache         *cache.Client
	notifier      notify.Notifier
	maxUploadSize int64
}

// NewToolService creates a new tool service.
func NewToolService(
	toolRepo repository.ToolRepository,
	categoryRepo repository.CategoryRepository,
	blobs storage.BlobStore,
	cacheClient *cache.Client,
	notifier notify.Notifier,
	maxUploadSize int64,
) ToolService {
	return &toolService{
		toolRepo:      toolRepo,
		categoryRepo:  categoryRepo,
		blobs:         blobs,
		cache:         cacheClient,
		notifier:      notifier,
		maxUploadSize: maxUploadSize,
	}
}

func (s *toolService) cacheKey(id uint) string {
	return fmt.Sprintf("tool:%d", id)
}

// List returns one page of matching tools with pagination metadata. The
// total always reflects the same qualifying set the page is drawn from.
func (s *toolService) List(ctx context.Context, criteria repository.ListCriteria) (*ToolPage, error) {
	tools, total, err := s.toolRepo.List(ctx, criteria)
	if err != nil {
		return nil, fmt.Errorf("list tools: %w", err)
	}

	n := criteria.Normalized()
	totalPages := int((total + int64(n.Size) - 1) / int64(n.Size))
	if tools == nil {
		tools = []model.Tool{}
	}

	return &ToolPage{
		Content:       tools,
		TotalElements: total,
		TotalPages:    totalPages,
		CurrentPage:   n.Page,
		PageSize:      n.Size,
	}, nil
}

// GetTool retrieves a tool by ID with caching.
func (s *toolService) GetTool(ctx context.Context, id uint) (*model.Tool, error) {
	if data, _ := s.cache.Get(ctx, s.cacheKey(id)); data != nil {
		var cached model.Tool
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
	}

	tool, err := s.toolRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrToolNotFound
		}
		return nil, err
	}

	if payload, err := json.Marshal(tool); err == nil {
		_ = s.cache.Set(ctx, s.cacheKey(id), payload, toolCacheTTL)
	}
	return tool, nil
}

// Submit validates the draft exhaustively, persists the logo, and creates
// the tool in PENDING_APPROVAL with its category links.
func (s *toolService) Submit(ctx context.Context, draft ToolDraft, logo *LogoUpload) (*model.Tool, error) {
	violations := s.validateDraft(ctx, draft, true)
	violations = append(violations, s.validateLogo(logo, true)...)
	if len(violations) > 0 {
		return nil, apperrors.NewValidationError(violations)
	}

	logoURL, err := s.blobs.Write("logos", logo.Filename, logo.Data)
	if err != nil {
		return nil, fmt.Errorf("store logo: %w", err)
	}

	tool := draftToTool(draft)
	tool.LogoURL = logoURL
	tool.Status = model.StatusPendingApproval

	if err := s.toolRepo.Create(ctx, tool, uniqueIDs(draft.CategoryIDs)); err != nil {
		if delErr := s.blobs.Delete(logoURL); delErr != nil {
			log.Printf("tool: cleanup orphaned logo %s: %v", logoURL, delErr)
		}
		return nil, fmt.Errorf("create tool: %w", err)
	}

	created, err := s.toolRepo.FindByID(ctx, tool.ID)
	if err != nil {
		return nil, fmt.Errorf("reload created tool: %w", err)
	}

	s.notifier.SubmissionReceived(ctx, created.SubmitterEmail, created.Name)
	return created, nil
}

// Approve moves the tool to APPROVED. Approving an already-approved tool is
// a no-op success; the submitter is notified only when the tool leaves the
// pending state.
func (s *toolService) Approve(ctx context.Context, id uint) (*model.Tool, error) {
	return s.transition(ctx, id, model.StatusApproved)
}

// Reject moves the tool to REJECTED. Like Approve, repeating the transition
// succeeds without effect.
func (s *toolService) Reject(ctx context.Context, id uint) (*model.Tool, error) {
	return s.transition(ctx, id, model.StatusRejected)
}

func (s *toolService) transition(ctx context.Context, id uint, status model.ToolStatus) (*model.Tool, error) {
	before, err := s.toolRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrToolNotFound
		}
		return nil, err
	}

	if err := s.toolRepo.UpdateStatus(ctx, id, status); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrToolNotFound
		}
		return nil, fmt.Errorf("update status: %w", err)
	}
	_ = s.cache.Delete(ctx, s.cacheKey(id))

	tool, err := s.toolRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if status == model.StatusApproved && before.Status == model.StatusPendingApproval {
		s.notifier.ToolApproved(ctx, tool.SubmitterEmail, tool.Name)
	}
	return tool, nil
}

// Update overwrites the tool's descriptive fields. A supplied category list
// replaces the whole link set atomically; an absent list leaves the
// existing links untouched.
func (s *toolService) Update(ctx context.Context, id uint, draft ToolDraft) (*model.Tool, error) {
	if violations := s.validateDraft(ctx, draft, false); len(violations) > 0 {
		return nil, apperrors.NewValidationError(violations)
	}

	tool := draftToTool(draft)
	tool.ID = id
	if err := s.toolRepo.Update(ctx, tool, uniqueIDs(draft.CategoryIDs)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrToolNotFound
		}
		return nil, fmt.Errorf("update tool: %w", err)
	}
	_ = s.cache.Delete(ctx, s.cacheKey(id))

	return s.toolRepo.FindByID(ctx, id)
}

// Delete removes the tool and its category links transactionally, then
// best-effort removes the logo file.
func (s *toolService) Delete(ctx context.Context, id uint) error {
	tool, err := s.toolRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrToolNotFound
		}
		return err
	}

	if err := s.toolRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrToolNotFound
		}
		return fmt.Errorf("delete tool: %w", err)
	}
	_ = s.cache.Delete(ctx, s.cacheKey(id))

	if tool.LogoURL != "" {
		if err := s.blobs.Delete(tool.LogoURL); err != nil {
			log.Printf("tool: delete logo %s: %v", tool.LogoURL, err)
		}
	}
	return nil
}

// ReplaceLogo stores the new image, points the tool at it, then best-effort
// deletes the previous file.
func (s *toolService) ReplaceLogo(ctx context.Context, id uint, logo *LogoUpload) (string, error) {
	if violations := s.validateLogo(logo, true); len(violations) > 0 {
		return "", apperrors.NewValidationError(violations)
	}

	tool, err := s.toolRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", apperrors.ErrToolNotFound
		}
		return "", err
	}

	logoURL, err := s.blobs.Write("logos", logo.Filename, logo.Data)
	if err != nil {
		return "", fmt.Errorf("store logo: %w", err)
	}

	if err := s.toolRepo.UpdateLogo(ctx, id, logoURL); err != nil {
		if delErr := s.blobs.Delete(logoURL); delErr != nil {
			log.Printf("tool: cleanup orphaned logo %s: %v", logoURL, delErr)
		}
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", apperrors.ErrToolNotFound
		}
		return "", fmt.Errorf("update logo: %w", err)
	}
	_ = s.cache.Delete(ctx, s.cacheKey(id))

	if tool.LogoURL != "" {
		if err := s.blobs.Delete(tool.LogoURL); err != nil {
			log.Printf("tool: delete old logo %s: %v", tool.LogoURL, err)
		}
	}
	return logoURL, nil
}

// RecordView bumps the view counter atomically and returns the new count.
func (s *toolService) RecordView(ctx context.Context, id uint) (uint, error) {
	count, err := s.toolRepo.IncrementViewCount(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, apperrors.ErrToolNotFound
		}
		return 0, err
	}
	_ = s.cache.Delete(ctx, s.cacheKey(id))
	return count, nil
}

// Similar returns up to SimilarToolLimit approved tools sharing at least
// one category with the given tool, most viewed first. The tool itself is
// never part of its own result.
func (s *toolService) Similar(ctx context.Context, id uint) ([]model.Tool, error) {
	tool, err := s.GetTool(ctx, id)
	if err != nil {
		return nil, err
	}

	categoryIDs := tool.CategoryIDs()
	if len(categoryIDs) == 0 {
		return []model.Tool{}, nil
	}
	return s.toolRepo.FindSimilar(ctx, id, categoryIDs, SimilarToolLimit)
}

// Popular lists the most viewed approved tools with short-lived caching.
func (s *toolService) Popular(ctx context.Context, limit int) ([]model.Tool, error) {
	if data, _ := s.cache.Get(ctx, popularCacheKey); data != nil {
		var cached []model.Tool
		if err := json.Unmarshal(data, &cached); err == nil && len(cached) >= limit {
			return cached[:limit], nil
		}
	}

	tools, err := s.toolRepo.FindPopular(ctx, limit)
	if err != nil {
		return nil, err
	}
	if payload, err := json.Marshal(tools); err == nil {
		_ = s.cache.Set(ctx, popularCacheKey, payload, popularCacheTTL)
	}
	return tools, nil
}

// Recent lists the newest approved tools.
func (s *toolService) Recent(ctx context.Context, limit int) ([]model.Tool, error) {
	return s.toolRepo.FindRecent(ctx, limit)
}

// validateDraft collects every violated constraint before any mutation.
// isSubmission distinguishes a public submission from an admin edit: an
// edit keeps the original submitter untouched and may omit the category
// list entirely to leave the link set alone.
func (s *toolService) validateDraft(ctx context.Context, draft ToolDraft, isSubmission bool) []string {
	var violations []string

	name := strings.TrimSpace(draft.Name)
	if name == "" {
		violations = append(violations, "Tool name is required")
	} else if len(name) > maxNameLength {
		violations = append(violations, fmt.Sprintf("Tool name must be %d characters or less", maxNameLength))
	}

	url := strings.TrimSpace(draft.WebsiteURL)
	if url == "" {
		violations = append(violations, "Website URL is required")
	} else if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		violations = append(violations, "URL must start with http:// or https://")
	}

	if isSubmission || draft.CategoryIDs != nil {
		ids := uniqueIDs(draft.CategoryIDs)
		if len(ids) == 0 {
			violations = append(violations, "At least one category is required")
		} else if len(ids) > maxCategories {
			violations = append(violations, fmt.Sprintf("Maximum %d categories allowed", maxCategories))
		} else {
			count, err := s.categoryRepo.CountByIDs(ctx, ids)
			if err != nil {
				log.Printf("tool: verify categories: %v", err)
				violations = append(violations, "Could not verify categories")
			} else if count != int64(len(ids)) {
				violations = append(violations, "One or more categories do not exist")
			}
		}
	}

	if draft.PricingModel == "" {
		violations = append(violations, "Pricing model is required")
	} else if !model.ValidPricingModel(draft.PricingModel) {
		violations = append(violations, "Invalid pricing model")
	}

	short := strings.TrimSpace(draft.ShortDescription)
	if short == "" {
		violations = append(violations, "Short description is required")
	} else if len(short) > maxShortDescLength {
		violations = append(violations, fmt.Sprintf("Short description must be %d characters or less", maxShortDescLength))
	}

	if draft.FullDescription != nil && len(*draft.FullDescription) > maxFullDescLength {
		violations = append(violations, fmt.Sprintf("Full description must be %d characters or less", maxFullDescLength))
	}

	if isSubmission {
		email := strings.TrimSpace(draft.SubmitterEmail)
		if email == "" {
			violations = append(violations, "Email is required")
		} else if !strings.Contains(email, "@") {
			violations = append(violations, "Invalid email format")
		}
	}

	return violations
}

// validateLogo checks presence, content type, and size of the upload.
func (s *toolService) validateLogo(logo *LogoUpload, required bool) []string {
	if logo == nil || len(logo.Data) == 0 {
		if required {
			return []string{"Logo file is required"}
		}
		return nil
	}

	var violations []string
	if !allowedLogoTypes[logo.ContentType] {
		violations = append(violations, "Only image files are allowed (jpeg, jpg, png, gif)")
	}
	if int64(len(logo.Data)) > s.maxUploadSize {
		violations = append(violations, fmt.Sprintf("Logo must be %d bytes or less", s.maxUploadSize))
	}
	return violations
}

func draftToTool(draft ToolDraft) *model.Tool {
	return &model.Tool{
		Name:             strings.TrimSpace(draft.Name),
		WebsiteURL:       strings.TrimSpace(draft.WebsiteURL),
		ShortDescription: strings.TrimSpace(draft.ShortDescription),
		FullDescription:  draft.FullDescription,
		PricingModel:     draft.PricingModel,
		SubmitterEmail:   strings.TrimSpace(draft.SubmitterEmail),
		Screenshots:      draft.Screenshots,
		VideoURL:         draft.VideoURL,
		SocialLinks:      draft.SocialLinks,
		Features:         draft.Features,
		PricingDetails:   draft.PricingDetails,
		Platforms:        draft.Platforms,
		FeatureTags:      draft.FeatureTags,
	}
}

// uniqueIDs drops repeated ids, keeping first-seen order. A nil input
// stays nil so an absent category list is distinguishable from an empty
// one.
func uniqueIDs(ids []uint) []uint {
	seen := make(map[uint]bool, len(ids))
	out := ids[:0:0]
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
