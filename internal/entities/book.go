package entities

import (
	"time"

	"gorm.io/gorm"
)

type Book struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	Title           string         `gorm:"index;size:512" json:"title"`
	Author          string         `gorm:"index;size:256" json:"author"`
	ISBN            string         `gorm:"index;size:20" json:"isbn,omitempty"`
	Publisher       string         `gorm:"size:256" json:"publisher,omitempty"`
	Category        string         `gorm:"index;size:128" json:"category,omitempty"`
	PublicationYear int            `json:"publication_year,omitempty"`
	TotalCopies     int            `gorm:"default:1" json:"total_copies"`
	AvailableCopies int            `gorm:"default:1" json:"available_copies"`
	ShelfLocation   string         `gorm:"size:64" json:"shelf_location,omitempty"`
	Description     string         `gorm:"type:text" json:"description,omitempty"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}
