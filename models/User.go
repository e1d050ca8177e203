package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// User is a platform account. The password hash is never serialized.
type User struct {
	ID          string                      `gorm:"type:uuid;primaryKey" json:"id"`
	Email       string                      `gorm:"type:varchar(320);uniqueIndex;not null" json:"email"`
	Username    string                      `gorm:"type:varchar(50);uniqueIndex;not null" json:"username"`
	Password    string                      `gorm:"type:varchar(255)" json:"-"`
	FullName    string                      `gorm:"type:varchar(100);column:full_name" json:"fullName"`
	Avatar      string                      `gorm:"type:text" json:"avatar"`
	Bio         string                      `gorm:"type:text" json:"bio"`
	Skills      datatypes.JSONSlice[string] `json:"skills"`
	GithubURL   string                      `gorm:"type:text;column:github_url" json:"githubUrl"`
	LinkedinURL string                      `gorm:"type:text;column:linkedin_url" json:"linkedinUrl"`
	Role        Role                        `gorm:"type:varchar(20);not null;default:user" json:"role"`
	IsVerified  bool                        `gorm:"not null;default:false" json:"isVerified"`
	Points      int                         `gorm:"not null;default:0" json:"points"`
	CreatedAt   time.Time                   `json:"createdAt"`
	UpdatedAt   time.Time                   `json:"updatedAt"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.Role == "" {
		u.Role = RoleUser
	}
	if u.Skills == nil {
		u.Skills = datatypes.JSONSlice[string]{}
	}
	return nil
}
