package model

// Category is a browsable classification for tools. Categories are seeded
// at initialization and read-mostly afterward.
type Category struct {
	ID          uint    `json:"id" gorm:"primaryKey"`
	Name        string  `json:"name" gorm:"uniqueIndex;size:100;not null"`
	Slug        string  `json:"slug" gorm:"uniqueIndex;size:100;not null"`
	Description *string `json:"description,omitempty" gorm:"size:255"`
}
