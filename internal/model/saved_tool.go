package model

import "time"

// SavedTool is a user's bookmark of a tool. The composite primary key
// enforces the unique (user, tool) pair; a duplicate insert surfaces as a
// duplicate-key error and is reported as "already saved" upstream.
type SavedTool struct {
	UserID  uint      `json:"userId" gorm:"primaryKey;autoIncrement:false"`
	ToolID  uint      `json:"toolId" gorm:"primaryKey;autoIncrement:false"`
	SavedAt time.Time `json:"savedAt" gorm:"autoCreateTime"`

	// Relations
	Tool Tool `json:"-" gorm:"foreignKey:ToolID"`
}
