package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// PricingModel classifies how a tool is monetized.
type PricingModel string

const (
	PricingFree      PricingModel = "FREE"
	PricingFreemium  PricingModel = "FREEMIUM"
	PricingFreeTrial PricingModel = "FREE_TRIAL"
	PricingPaid      PricingModel = "PAID"
)

// ValidPricingModel reports whether p is one of the enumerated values.
func ValidPricingModel(p PricingModel) bool {
	switch p {
	case PricingFree, PricingFreemium, PricingFreeTrial, PricingPaid:
		return true
	}
	return false
}

// ToolStatus is the moderation state of a tool.
type ToolStatus string

const (
	StatusPendingApproval ToolStatus = "PENDING_APPROVAL"
	StatusApproved        ToolStatus = "APPROVED"
	StatusRejected        ToolStatus = "REJECTED"
)

// ValidToolStatus reports whether s is one of the enumerated values.
func ValidToolStatus(s ToolStatus) bool {
	switch s {
	case StatusPendingApproval, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// Tool is a directory listing entry.
type Tool struct {
	ID               uint            `json:"id" gorm:"primaryKey"`
	Name             string          `json:"name" gorm:"size:100;not null;index"`
	WebsiteURL       string          `json:"websiteUrl" gorm:"size:512;not null"`
	ShortDescription string          `json:"shortDescription" gorm:"size:150;not null"`
	FullDescription  *string         `json:"fullDescription,omitempty" gorm:"type:text"`
	LogoURL          string          `json:"logoUrl" gorm:"size:512"`
	PricingModel     PricingModel    `json:"pricingModel" gorm:"type:varchar(20);not null;index"`
	Status           ToolStatus      `json:"status" gorm:"type:varchar(20);not null;default:'PENDING_APPROVAL';index"`
	SubmitterEmail   string          `json:"submitterEmail" gorm:"size:255;not null;index"`
	ViewCount        uint            `json:"viewCount" gorm:"not null;default:0"`
	SaveCount        uint            `json:"saveCount" gorm:"not null;default:0"`
	Rating           decimal.Decimal `json:"rating" gorm:"type:decimal(3,2);not null;default:0"`
	ReviewCount      uint            `json:"reviewCount" gorm:"not null;default:0"`
	Screenshots      StringList      `json:"screenshots,omitempty" gorm:"type:json"`
	VideoURL         *string         `json:"videoUrl,omitempty" gorm:"size:512"`
	SocialLinks      StringMap       `json:"socialLinks,omitempty" gorm:"type:json"`
	Features         StringList      `json:"features,omitempty" gorm:"type:json"`
	PricingDetails   StringMap       `json:"pricingDetails,omitempty" gorm:"type:json"`
	Platforms        StringList      `json:"platforms,omitempty" gorm:"type:json"`
	FeatureTags      StringList      `json:"featureTags,omitempty" gorm:"type:json"`
	CreatedAt        time.Time       `json:"createdAt"`
	UpdatedAt        time.Time       `json:"updatedAt"`

	// Relations
	Categories []Category `json:"categories" gorm:"many2many:tool_categories;"`
}

// CategoryIDs returns the ids of the tool's linked categories.
func (t *Tool) CategoryIDs() []uint {
	ids := make([]uint, 0, len(t.Categories))
	for _, c := range t.Categories {
		ids = append(ids, c.ID)
	}
	return ids
}
