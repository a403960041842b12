package entities

import (
	"time"

	"gorm.io/gorm"
)

type Student struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	FullName      string         `gorm:"index;size:256" json:"full_name"`
	Email         string         `gorm:"index;size:255" json:"email,omitempty"`
	CourseLevel   string         `gorm:"size:64" json:"course_level,omitempty"`
	Program       string         `gorm:"index;size:128" json:"program,omitempty"`
	Year          string         `gorm:"size:32" json:"year,omitempty"`
	Division      string         `gorm:"size:16" json:"division,omitempty"`
	RollNumber    string         `gorm:"size:32" json:"roll_number,omitempty"`
	StudentNumber string         `gorm:"index;size:64" json:"student_number,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}
