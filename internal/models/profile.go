package models

import (
	"time"

	"gorm.io/datatypes"
)

type Profile struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	UserID uint `gorm:"uniqueIndex;not null" json:"user_id"`

	Name     string                     `json:"name"`
	Headline string                     `json:"headline"`
	Location string                     `json:"location"`
	Phone    string                     `json:"phone"`
	About    string                     `gorm:"type:text" json:"about"`
	Skills   datatypes.JSONSlice[string] `json:"skills"`

	ResumePath       string     `json:"resume_path"`
	ResumeName       string     `json:"resume_name"`
	ResumeUploadedAt *time.Time `json:"resume_uploaded_at"`
	AvatarPath       string     `json:"avatar_path"`

	Experiences []Experience `gorm:"constraint:OnDelete:CASCADE" json:"experiences"`
	Educations  []Education  `gorm:"constraint:OnDelete:CASCADE" json:"educations"`
}

type Experience struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	ProfileID uint     `gorm:"index;not null" json:"profile_id"`
	Profile   *Profile `json:"-"`

	Title       string     `gorm:"not null" json:"title"`
	Company     string     `gorm:"not null" json:"company"`
	Location    string     `json:"location"`
	StartDate   time.Time  `gorm:"not null" json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
	Current     bool       `gorm:"not null;default:false" json:"current"`
	Description string     `gorm:"type:text" json:"description"`
}

type Education struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	ProfileID uint     `gorm:"index;not null" json:"profile_id"`
	Profile   *Profile `json:"-"`

	Institution  string `gorm:"not null" json:"institution"`
	Degree       string `gorm:"not null" json:"degree"`
	FieldOfStudy string `gorm:"not null" json:"field_of_study"`
	StartYear    int    `gorm:"not null" json:"start_year"`
	EndYear      *int   `json:"end_year"`
	Grade        string `json:"grade"`
}
