package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Organization is the hosting identity of a user; it owns competitions
type Organization struct {
	ID          string    `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      string    `gorm:"type:uuid;uniqueIndex;not null;column:user_id" json:"userId"`
	Name        string    `gorm:"type:varchar(200);not null" json:"name"`
	Website     string    `gorm:"type:text" json:"website"`
	Logo        string    `gorm:"type:text" json:"logo"`
	Description string    `gorm:"type:text" json:"description"`
	Industry    string    `gorm:"type:varchar(100)" json:"industry"`
	IsVerified  bool      `gorm:"not null;default:false" json:"isVerified"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
	User        *User     `gorm:"foreignKey:UserID" json:"-"`
}

func (o *Organization) BeforeCreate(tx *gorm.DB) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	return nil
}
