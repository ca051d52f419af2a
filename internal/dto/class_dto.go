package dto

import "time"

type ClassReq struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

type AddStudentReq struct {
	Email string `json:"email" binding:"required,email"`
}

type ClassResp struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	TeacherID    string    `json:"teacher_id"`
	StudentCount int       `json:"student_count"`
	CreatedAt    time.Time `json:"created_at"`
}
