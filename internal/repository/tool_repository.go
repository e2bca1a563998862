package repository

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"gorm.io/gorm"

	"clarifyall/internal/model"
)

// ToolRepository defines tool persistence operations.
type ToolRepository interface {
	List(ctx context.Context, criteria ListCriteria) ([]model.Tool, int64, error)
	FindByID(ctx context.Context, id uint) (*model.Tool, error)
	Create(ctx context.Context, tool *model.Tool, categoryIDs []uint) error
	Update(ctx context.Context, tool *model.Tool, categoryIDs []uint) error
	UpdateStatus(ctx context.Context, id uint, status model.ToolStatus) error
	UpdateLogo(ctx context.Context, id uint, logoURL string) error
	Delete(ctx context.Context, id uint) error
	IncrementViewCount(ctx context.Context, id uint) (uint, error)
	IncrementSaveCount(ctx context.Context, id uint) (uint, error)
	FindSimilar(ctx context.Context, toolID uint, categoryIDs []uint, limit int) ([]model.Tool, error)
	FindPopular(ctx context.Context, limit int) ([]model.Tool, error)
	FindRecent(ctx context.Context, limit int) ([]model.Tool, error)
	FindBySubmitter(ctx context.Context, email string, page, size int) ([]model.Tool, int64, error)
}

type toolRepository struct {
	db *gorm.DB
}

// NewToolRepository creates a new tool repository.
func NewToolRepository(db *gorm.DB) ToolRepository {
	return &toolRepository{db: db}
}

// List returns one page of tools matching the criteria plus the total
// number of matching tools. Both queries are rendered from the same
// predicate set; see ListCriteria.
func (r *toolRepository) List(ctx context.Context, criteria ListCriteria) ([]model.Tool, int64, error) {
	pageSQL, pageArgs, err := criteria.pageQuery()
	if err != nil {
		return nil, 0, fmt.Errorf("build page query: %w", err)
	}
	var tools []model.Tool
	if err := r.db.WithContext(ctx).Raw(pageSQL, pageArgs...).Scan(&tools).Error; err != nil {
		return nil, 0, err
	}

	countSQL, countArgs, err := criteria.countQuery()
	if err != nil {
		return nil, 0, fmt.Errorf("build count query: %w", err)
	}
	var total int64
	if err := r.db.WithContext(ctx).Raw(countSQL, countArgs...).Scan(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := r.attachCategories(ctx, tools); err != nil {
		return nil, 0, err
	}
	return tools, total, nil
}

// FindByID finds a tool by ID with its categories attached.
func (r *toolRepository) FindByID(ctx context.Context, id uint) (*model.Tool, error) {
	var tool model.Tool
	err := r.db.WithContext(ctx).
		Preload("Categories", func(db *gorm.DB) *gorm.DB { return db.Order("categories.id") }).
		Where("id = ?", id).
		First(&tool).Error
	if err != nil {
		return nil, err
	}
	return &tool, nil
}

// Create inserts the tool row and its category links in one transaction.
func (r *toolRepository) Create(ctx context.Context, tool *model.Tool, categoryIDs []uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Categories").Create(tool).Error; err != nil {
			return err
		}
		return insertCategoryLinks(tx, tool.ID, categoryIDs)
	})
}

// Update overwrites the tool's mutable descriptive fields. When categoryIDs
// is non-nil the whole link set is replaced; delete and reinsert run in one
// transaction so a partial failure cannot leave the tool without categories.
func (r *toolRepository) Update(ctx context.Context, tool *model.Tool, categoryIDs []uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.Tool{}).Where("id = ?", tool.ID).Updates(map[string]interface{}{
			"name":              tool.Name,
			"website_url":       tool.WebsiteURL,
			"short_description": tool.ShortDescription,
			"full_description":  tool.FullDescription,
			"pricing_model":     tool.PricingModel,
			"video_url":         tool.VideoURL,
			"screenshots":       tool.Screenshots,
			"social_links":      tool.SocialLinks,
			"features":          tool.Features,
			"pricing_details":   tool.PricingDetails,
			"platforms":         tool.Platforms,
			"feature_tags":      tool.FeatureTags,
		})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			var exists int64
			if err := tx.Model(&model.Tool{}).Where("id = ?", tool.ID).Count(&exists).Error; err != nil {
				return err
			}
			if exists == 0 {
				return gorm.ErrRecordNotFound
			}
		}
		if categoryIDs == nil {
			return nil
		}
		if err := tx.Exec("DELETE FROM tool_categories WHERE tool_id = ?", tool.ID).Error; err != nil {
			return err
		}
		return insertCategoryLinks(tx, tool.ID, categoryIDs)
	})
}

// UpdateStatus sets the moderation status. Re-applying the current status
// is a no-op success; there are no forbidden transitions.
func (r *toolRepository) UpdateStatus(ctx context.Context, id uint, status model.ToolStatus) error {
	res := r.db.WithContext(ctx).Model(&model.Tool{}).
		Where("id = ?", id).
		Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	return rowExists(r.db.WithContext(ctx), id, res.RowsAffected)
}

// UpdateLogo sets the tool's logo reference.
func (r *toolRepository) UpdateLogo(ctx context.Context, id uint, logoURL string) error {
	res := r.db.WithContext(ctx).Model(&model.Tool{}).
		Where("id = ?", id).
		Update("logo_url", logoURL)
	if res.Error != nil {
		return res.Error
	}
	return rowExists(r.db.WithContext(ctx), id, res.RowsAffected)
}

// Delete removes the tool's category links and its saved-tool rows, then
// the row itself, in one transaction.
func (r *toolRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM tool_categories WHERE tool_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Where("tool_id = ?", id).Delete(&model.SavedTool{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&model.Tool{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// IncrementViewCount bumps the view counter relative to the stored value
// and returns the new count.
func (r *toolRepository) IncrementViewCount(ctx context.Context, id uint) (uint, error) {
	return r.incrementCounter(ctx, id, "view_count")
}

// IncrementSaveCount bumps the save counter relative to the stored value
// and returns the new count.
func (r *toolRepository) IncrementSaveCount(ctx context.Context, id uint) (uint, error) {
	return r.incrementCounter(ctx, id, "save_count")
}

// incrementCounter runs an atomic count = count + 1 against the stored
// value. Counter bumps deliberately bypass updated_at.
func (r *toolRepository) incrementCounter(ctx context.Context, id uint, column string) (uint, error) {
	res := r.db.WithContext(ctx).Model(&model.Tool{}).
		Where("id = ?", id).
		UpdateColumn(column, gorm.Expr(column+" + 1"))
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected == 0 {
		return 0, gorm.ErrRecordNotFound
	}

	var count uint
	err := r.db.WithContext(ctx).Model(&model.Tool{}).
		Select(column).
		Where("id = ?", id).
		Scan(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

// FindSimilar returns up to limit other approved tools sharing at least one
// of the given categories, most viewed first.
func (r *toolRepository) FindSimilar(ctx context.Context, toolID uint, categoryIDs []uint, limit int) ([]model.Tool, error) {
	if len(categoryIDs) == 0 {
		return []model.Tool{}, nil
	}

	query, args, err := sq.Select("t.*").
		From("tools t").
		Join("tool_categories tc ON tc.tool_id = t.id").
		Where(sq.And{
			sq.Eq{"t.status": model.StatusApproved},
			sq.NotEq{"t.id": toolID},
			sq.Eq{"tc.category_id": categoryIDs},
		}).
		GroupBy("t.id").
		OrderBy("t.view_count DESC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build similar query: %w", err)
	}

	var tools []model.Tool
	if err := r.db.WithContext(ctx).Raw(query, args...).Scan(&tools).Error; err != nil {
		return nil, err
	}
	if err := r.attachCategories(ctx, tools); err != nil {
		return nil, err
	}
	return tools, nil
}

// FindPopular lists the most viewed approved tools.
func (r *toolRepository) FindPopular(ctx context.Context, limit int) ([]model.Tool, error) {
	return r.findApprovedOrdered(ctx, "view_count DESC", limit)
}

// FindRecent lists the newest approved tools.
func (r *toolRepository) FindRecent(ctx context.Context, limit int) ([]model.Tool, error) {
	return r.findApprovedOrdered(ctx, "created_at DESC", limit)
}

func (r *toolRepository) findApprovedOrdered(ctx context.Context, order string, limit int) ([]model.Tool, error) {
	var tools []model.Tool
	err := r.db.WithContext(ctx).
		Preload("Categories", func(db *gorm.DB) *gorm.DB { return db.Order("categories.id") }).
		Where("status = ?", model.StatusApproved).
		Order(order).
		Limit(limit).
		Find(&tools).Error
	if err != nil {
		return nil, err
	}
	return tools, nil
}

// FindBySubmitter pages through the tools a submitter email has entered,
// regardless of status, newest first.
func (r *toolRepository) FindBySubmitter(ctx context.Context, email string, page, size int) ([]model.Tool, int64, error) {
	if size <= 0 {
		size = DefaultPageSize
	}
	if page < 0 {
		page = 0
	}

	var total int64
	if err := r.db.WithContext(ctx).Model(&model.Tool{}).
		Where("submitter_email = ?", email).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var tools []model.Tool
	err := r.db.WithContext(ctx).
		Preload("Categories", func(db *gorm.DB) *gorm.DB { return db.Order("categories.id") }).
		Where("submitter_email = ?", email).
		Order("created_at DESC").
		Limit(size).
		Offset(page * size).
		Find(&tools).Error
	if err != nil {
		return nil, 0, err
	}
	return tools, total, nil
}

// attachCategories loads the linked categories for raw-queried tools in one
// round trip and attaches them in category-id order. A tool with no links
// gets an empty (non-nil) list.
func (r *toolRepository) attachCategories(ctx context.Context, tools []model.Tool) error {
	for i := range tools {
		tools[i].Categories = []model.Category{}
	}
	if len(tools) == 0 {
		return nil
	}

	ids := make([]uint, 0, len(tools))
	index := make(map[uint]int, len(tools))
	for i, t := range tools {
		ids = append(ids, t.ID)
		index[t.ID] = i
	}

	query, args, err := sq.Select("tc.tool_id", "c.id", "c.name", "c.slug", "c.description").
		From("tool_categories tc").
		Join("categories c ON c.id = tc.category_id").
		Where(sq.Eq{"tc.tool_id": ids}).
		OrderBy("tc.tool_id", "c.id").
		ToSql()
	if err != nil {
		return fmt.Errorf("build category aggregation query: %w", err)
	}

	rows, err := r.db.WithContext(ctx).Raw(query, args...).Rows()
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var toolID uint
		var c model.Category
		if err := rows.Scan(&toolID, &c.ID, &c.Name, &c.Slug, &c.Description); err != nil {
			return err
		}
		if i, ok := index[toolID]; ok {
			tools[i].Categories = append(tools[i].Categories, c)
		}
	}
	return rows.Err()
}

// insertCategoryLinks writes the join rows for a tool.
func insertCategoryLinks(tx *gorm.DB, toolID uint, categoryIDs []uint) error {
	for _, categoryID := range categoryIDs {
		if err := tx.Exec(
			"INSERT INTO tool_categories (tool_id, category_id) VALUES (?, ?)",
			toolID, categoryID,
		).Error; err != nil {
			return err
		}
	}
	return nil
}

// rowExists converts a zero-rows-affected update into not-found when the id
// is genuinely absent (an unchanged value also reports zero rows).
func rowExists(db *gorm.DB, id uint, rowsAffected int64) error {
	if rowsAffected > 0 {
		return nil
	}
	var count int64
	if err := db.Model(&model.Tool{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
