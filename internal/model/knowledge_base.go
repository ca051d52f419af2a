package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Topic is one subject-level folder in the knowledge base.
// Storage layout: {category_slug}/{slug}/ (category optional on old rows).
type Topic struct {
	BaseModel
	Name         string `gorm:"size:255;not null" json:"name"`                // "Kinh Tế Vi Mô"
	Slug         string `gorm:"uniqueIndex;size:255;not null" json:"slug"`    // "kinh-te-vi-mo"
	Category     string `gorm:"size:255" json:"category"`                     // "Kinh Tế"
	CategorySlug string `gorm:"size:255;index" json:"category_slug"`          // "kinh-te"
	Description  string `json:"description"`

	Resources []Resource `gorm:"foreignKey:TopicID;constraint:OnDelete:CASCADE" json:"resources,omitempty"`
}

// StoragePrefix returns the object-store folder for this topic.
func (t *Topic) StoragePrefix() string {
	if t.CategorySlug != "" {
		return t.CategorySlug + "/" + t.Slug
	}
	return t.Slug
}

// Resource is one uploaded file, addressed by a unique object-store key.
type Resource struct {
	ID      string `gorm:"primarykey;size:36" json:"id"`
	TopicID string `gorm:"size:36;index;not null" json:"topic_id"`

	FileName string `gorm:"size:255;not null" json:"file_name"`            // tên gốc
	S3Key    string `gorm:"uniqueIndex;size:512;not null" json:"s3_key"`   // kinh-te/kinh-te-vi-mo/de-thi.pdf
	S3URL    string `gorm:"size:1024;not null" json:"s3_url"`

	ContentType string `gorm:"size:100" json:"content_type"`
	FileSize    int64  `json:"file_size"`

	UploadedBy string    `gorm:"size:36" json:"uploaded_by"`
	CreatedAt  time.Time `json:"created_at"`
}

func (r *Resource) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	return nil
}
