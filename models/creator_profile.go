package models

import (
	"time"

	"gorm.io/gorm"
)

// CreatorProfile is a local snapshot of creator identity needed to decorate
// leaderboard pages. Owned solely by the gamification service; populated via
// the profile sync worker from the platform profile service.
type CreatorProfile struct {
	ID          string  `gorm:"primaryKey;type:uuid" json:"id"`
	UserID      string  `gorm:"uniqueIndex;not null" json:"user_id"` // profile service UUID
	Username    string  `gorm:"index;not null" json:"username"`
	DisplayName *string `json:"display_name,omitempty"`
	AvatarURL   *string `json:"avatar_url,omitempty"`
	Niche       *string `json:"niche,omitempty"` // e.g., gaming, education, lifestyle

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	// Soft delete keeps departed creators out of fresh pages but in history
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
