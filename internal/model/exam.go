package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Exam struct {
	BaseModel
	PublicID    string `gorm:"uniqueIndex;size:36" json:"public_id"`
	Title       string `gorm:"size:255;not null" json:"title"`
	Description string `json:"description"`
	CreatorID   string `gorm:"size:36;index;not null" json:"creator_id"`

	// Cấu hình đề thi
	Mode             string `gorm:"size:20;default:'test'" json:"mode"` // 'practice' hoặc 'test'
	ShuffleQuestions bool   `gorm:"default:false" json:"shuffle_questions"`
	ShuffleAnswers   bool   `gorm:"default:false" json:"shuffle_answers"`
	TimeLimit        *int   `json:"time_limit"` // phút
	IsPublic         bool   `gorm:"default:false" json:"is_public"`

	// Câu hỏi lưu dạng JSONB
	Questions datatypes.JSON `gorm:"not null" json:"questions"`

	TotalAttempts int `gorm:"default:0" json:"total_attempts"`

	Results []ExamResult `gorm:"foreignKey:ExamID;constraint:OnDelete:CASCADE" json:"-"`
}

func (e *Exam) BeforeCreate(tx *gorm.DB) error {
	if err := e.BaseModel.BeforeCreate(tx); err != nil {
		return err
	}
	if e.PublicID == "" {
		e.PublicID = uuid.New().String()
	}
	return nil
}

type ExamResult struct {
	ID         string  `gorm:"primarykey;size:36" json:"id"`
	ExamID     string  `gorm:"size:36;index;not null" json:"exam_id"`
	UserID     *string `gorm:"size:36" json:"user_id"`
	GuestEmail string  `gorm:"size:255" json:"guest_email"`
	GuestName  string  `gorm:"size:255" json:"guest_name"`

	Score          float64 `gorm:"not null" json:"score"` // thang 0-10
	CorrectCount   int     `gorm:"not null" json:"correct_count"`
	TotalQuestions int     `gorm:"not null" json:"total_questions"`
	TimeTaken      *int    `json:"time_taken"` // giây

	Answers datatypes.JSON `json:"answers"`

	CompletedAt time.Time `gorm:"autoCreateTime" json:"completed_at"`
}

func (r *ExamResult) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	return nil
}

type ExamClassAssignment struct {
	ID         string    `gorm:"primarykey;size:36" json:"id"`
	ExamID     string    `gorm:"size:36;index;not null" json:"exam_id"`
	ClassID    string    `gorm:"size:36;index;not null" json:"class_id"`
	AssignedAt time.Time `gorm:"autoCreateTime" json:"assigned_at"`
}

func (a *ExamClassAssignment) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	return nil
}
