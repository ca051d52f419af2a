package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Class struct {
	BaseModel
	Name        string `gorm:"size:255;not null" json:"name"`
	Description string `json:"description"`
	TeacherID   string `gorm:"size:36;index;not null" json:"teacher_id"`

	Students []ClassStudent `gorm:"foreignKey:ClassID;constraint:OnDelete:CASCADE" json:"students"`
}

type ClassStudent struct {
	ID           string    `gorm:"primarykey;size:36" json:"id"`
	ClassID      string    `gorm:"size:36;index;not null" json:"class_id"`
	StudentEmail string    `gorm:"size:255;not null" json:"student_email"`
	JoinedAt     time.Time `gorm:"autoCreateTime" json:"joined_at"`
}

func (s *ClassStudent) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	return nil
}
