package dto

import "time"

type TopicReq struct {
	Name        string `json:"name" binding:"required"`
	Category    string `json:"category"`
	Description string `json:"description"`
}

type TopicResp struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Slug         string    `json:"slug"`
	Category     string    `json:"category"`
	CategorySlug string    `json:"category_slug"`
	Description  string    `json:"description"`
	FileCount    int64     `json:"file_count"`
	CreatedAt    time.Time `json:"created_at"`
}

type ResourceResp struct {
	ID          string    `json:"id"`
	TopicID     string    `json:"topic_id"`
	TopicName   string    `json:"topic_name"`
	FileName    string    `json:"file_name"`
	S3Key       string    `json:"s3_key"`
	S3URL       string    `json:"s3_url"`
	ContentType string    `json:"content_type"`
	FileSize    int64     `json:"file_size"`
	CreatedAt   time.Time `json:"created_at"`
}

type KBStats struct {
	TotalTopics    int64 `json:"total_topics"`
	TotalResources int64 `json:"total_resources"`
	TotalSizeBytes int64 `json:"total_size_bytes"`
}
