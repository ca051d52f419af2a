package dto

import (
	"encoding/json"
	"time"

	"smartquiz/internal/parser"
)

type ExamReq struct {
	Title            string            `json:"title" binding:"required"`
	Description      string            `json:"description"`
	Mode             string            `json:"mode"`
	ShuffleQuestions bool              `json:"shuffle_questions"`
	ShuffleAnswers   bool              `json:"shuffle_answers"`
	TimeLimit        *int              `json:"time_limit"`
	IsPublic         bool              `json:"is_public"`
	Questions        []parser.Question `json:"questions" binding:"required"`
}

type ExamResp struct {
	ID               string          `json:"id"`
	PublicID         string          `json:"public_id"`
	Title            string          `json:"title"`
	Description      string          `json:"description"`
	Mode             string          `json:"mode"`
	ShuffleQuestions bool            `json:"shuffle_questions"`
	ShuffleAnswers   bool            `json:"shuffle_answers"`
	TimeLimit        *int            `json:"time_limit"`
	IsPublic         bool            `json:"is_public"`
	Questions        json.RawMessage `json:"questions"`
	TotalAttempts    int             `json:"total_attempts"`
	CreatedAt        time.Time       `json:"created_at"`
}

type ExamListResp struct {
	ID            string    `json:"id"`
	PublicID      string    `json:"public_id"`
	Title         string    `json:"title"`
	QuestionCount int       `json:"question_count"`
	TotalAttempts int       `json:"total_attempts"`
	CreatedAt     time.Time `json:"created_at"`
}

type ParseResp struct {
	Questions []parser.Question `json:"questions"`
	Count     int               `json:"count"`
}
