package models

import (
	"time"
)

// DefaultProfileImage is the sentinel image every new user starts with. It is
// shipped with the application and never deleted.
const DefaultProfileImage = "default.jpg"

// Job categories accepted by the job form.
const (
	CategoryIT         = "IT"
	CategoryDesign     = "Design"
	CategoryMarketing  = "Marketing"
	CategorySales      = "Sales"
	CategoryManagement = "Management"
	CategoryFinance    = "Finance"
	CategoryOther      = "Other"
)

// Categories lists the categories in display order.
var Categories = []string{
	CategoryIT,
	CategoryDesign,
	CategoryMarketing,
	CategorySales,
	CategoryManagement,
	CategoryFinance,
	CategoryOther,
}

type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Unique indexes are the authoritative duplicate check; the services
	// only pre-check to produce friendlier messages.
	Username     string `gorm:"size:64;uniqueIndex;not null" json:"username"`
	Email        string `gorm:"size:120;uniqueIndex;not null" json:"-"`
	PasswordHash string `gorm:"size:256;not null" json:"-"`
	ProfileImage string `gorm:"size:200;default:'default.jpg'" json:"profile_image"`

	Jobs []Job `gorm:"constraint:OnDelete:CASCADE" json:"jobs,omitempty"`
}

// HasCustomImage reports whether the user uploaded their own profile image.
func (u *User) HasCustomImage() bool {
	return u.ProfileImage != "" && u.ProfileImage != DefaultProfileImage
}

type Job struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Foreign Key
	UserID uint `gorm:"not null;index" json:"user_id"`
	// Association: needs Preload("User") to be filled
	User *User `gorm:"constraint:OnDelete:CASCADE" json:"author,omitempty"`

	Title            string `gorm:"size:200;not null" json:"title"`
	ShortDescription string `gorm:"size:300;not null" json:"short_description"`
	FullDescription  string `gorm:"type:text;not null" json:"full_description"`
	Company          string `gorm:"size:100;not null" json:"company"`
	Salary           string `gorm:"size:100" json:"salary,omitempty"`
	Location         string `gorm:"size:100;not null" json:"location"`
	Category         string `gorm:"size:50;not null" json:"category"`
}

// OwnedBy is the single authorization rule for jobs: only the owner may
// change or delete them.
func (j *Job) OwnedBy(u *User) bool {
	return u != nil && j.UserID == u.ID
}
