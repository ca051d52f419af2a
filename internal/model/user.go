package model

type User struct {
	BaseModel
	Email        string `gorm:"uniqueIndex;size:255;not null" json:"email"`
	PasswordHash string `gorm:"size:255;not null" json:"-"`
	FullName     string `gorm:"size:255" json:"full_name"`

	// Vai trò hệ thống: 'admin' hoặc 'user'
	Role     string `gorm:"size:20;default:'user'" json:"role"`
	IsActive bool   `gorm:"default:true" json:"is_active"`
}
