package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"smartquiz/internal/ai"
	"smartquiz/internal/model"
	"smartquiz/internal/slugify"
	"smartquiz/internal/storage"
)

// topicMatchThreshold is the minimum normalized similarity for merging a
// subject name onto an existing topic. Deliberately precision over recall:
// a few duplicate topics beat unrelated subjects collapsed together.
const topicMatchThreshold = 0.90

// SmartUploadService runs the upload pipeline:
//
//	extract excerpt -> classify -> resolve topic -> build key -> store + record
//
// AI may be nil (classification then runs on keyword rules only).
type SmartUploadService struct {
	DB    *gorm.DB
	Store storage.ObjectStore
	AI    ai.Generator
}

func NewSmartUploadService(db *gorm.DB, store storage.ObjectStore, gen ai.Generator) *SmartUploadService {
	return &SmartUploadService{DB: db, Store: store, AI: gen}
}

// UploadResult describes one completed upload.
type UploadResult struct {
	Classification Classification `json:"classification"`
	Topic          *model.Topic   `json:"topic"`
	Resource       *model.Resource `json:"resource"`
	S3Key          string         `json:"s3_key"`
	S3URL          string         `json:"s3_url"`
}

// SmartUpload classifies the document and stores it under the resolved topic.
func (s *SmartUploadService) SmartUpload(ctx context.Context, content []byte, filename, contentType, uploadedBy string) (*UploadResult, error) {
	// 1. Phân loại tài liệu (AI hoặc keyword fallback)
	classification := s.analyzeDocument(ctx, content, filename)

	// 2. Tìm hoặc tạo topic (chống trùng lặp bằng fuzzy match)
	topic, err := s.findOrCreateTopic(classification.Subject, classification.Category)
	if err != nil {
		return nil, err
	}

	// 3-5. Build key, upload, ghi record
	resource, err := s.store(ctx, topic, content, filename, contentType, uploadedBy)
	if err != nil {
		return nil, err
	}

	return &UploadResult{
		Classification: classification,
		Topic:          topic,
		Resource:       resource,
		S3Key:          resource.S3Key,
		S3URL:          resource.S3URL,
	}, nil
}

// ManualUpload bypasses the classifier: the caller names the topic directly.
// Topic resolution and storage behave exactly like the smart path.
func (s *SmartUploadService) ManualUpload(ctx context.Context, content []byte, filename, topicName, categoryName, contentType, uploadedBy string) (*UploadResult, error) {
	if strings.TrimSpace(topicName) == "" {
		return nil, errors.New("topic_name là bắt buộc, không thể upload file vào thư mục gốc")
	}
	if categoryName == "" {
		categoryName = DefaultCategory
	}

	topic, err := s.findOrCreateTopic(topicName, categoryName)
	if err != nil {
		return nil, err
	}

	resource, err := s.store(ctx, topic, content, filename, contentType, uploadedBy)
	if err != nil {
		return nil, err
	}

	return &UploadResult{
		Classification: Classification{Category: topic.Category, Subject: topic.Name},
		Topic:          topic,
		Resource:       resource,
		S3Key:          resource.S3Key,
		S3URL:          resource.S3URL,
	}, nil
}

// Letter case is not an edit: "kinh tế vi mô" and "Kinh Tế Vi Mô" must score 1.0.
var levenshtein = newLevenshtein()

func newLevenshtein() *metrics.Levenshtein {
	m := metrics.NewLevenshtein()
	m.CaseSensitive = false
	return m
}

// findOrCreateTopic resolves a subject name onto the taxonomy, first hit wins:
//
//  1. exact slug lookup
//  2. case-insensitive fuzzy name match, normalized Levenshtein ratio
//     >= topicMatchThreshold;
//     candidates are scanned oldest first and only a strictly better score
//     replaces the best, so the oldest topic wins ties
//  3. create a new topic
//
// Existing topics missing a category get it backfilled in place (slug never
// changes). Creation races on a brand-new slug surface as a unique-constraint
// error; resolution is then retried once, which finds the competitor's row.
func (s *SmartUploadService) findOrCreateTopic(subjectName, categoryName string) (*model.Topic, error) {
	subjectName = strings.TrimSpace(subjectName)
	subjectSlug := slugify.Slugify(subjectName)
	if subjectSlug == "" {
		return nil, errors.New("tên topic không hợp lệ")
	}
	categorySlug := slugify.Slugify(categoryName)

	// 1. Exact slug match
	var existing model.Topic
	err := s.DB.Where("slug = ?", subjectSlug).First(&existing).Error
	if err == nil {
		return s.backfillCategory(&existing, categoryName, categorySlug)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	// 2. Fuzzy match against all topic names
	var all []model.Topic
	if err := s.DB.Order("created_at asc, id asc").Find(&all).Error; err != nil {
		return nil, err
	}

	var best *model.Topic
	bestScore := 0.0
	for i := range all {
		score := strutil.Similarity(subjectName, all[i].Name, levenshtein)
		if score >= topicMatchThreshold && score > bestScore {
			best = &all[i]
			bestScore = score
		}
	}
	if best != nil {
		logrus.WithFields(logrus.Fields{
			"subject": subjectName,
			"matched": best.Name,
			"score":   bestScore,
		}).Info("fuzzy matched topic")
		return s.backfillCategory(best, categoryName, categorySlug)
	}

	// 3. Create new topic
	topic := &model.Topic{
		Name:         subjectName,
		Slug:         subjectSlug,
		Category:     categoryName,
		CategorySlug: categorySlug,
		Description:  fmt.Sprintf("Môn học: %s - Danh mục: %s", subjectName, categoryName),
	}
	if err := s.DB.Create(topic).Error; err != nil {
		// Một upload khác vừa tạo slug này; đọc lại thay vì báo lỗi.
		var competitor model.Topic
		if lookupErr := s.DB.Where("slug = ?", subjectSlug).First(&competitor).Error; lookupErr == nil {
			return s.backfillCategory(&competitor, categoryName, categorySlug)
		}
		return nil, fmt.Errorf("tạo topic thất bại: %w", err)
	}

	logrus.WithFields(logrus.Fields{"name": topic.Name, "slug": topic.Slug}).Info("created new topic")
	return topic, nil
}

// backfillCategory fills in a missing category. First non-empty category wins;
// an already-set category_slug is never overwritten.
func (s *SmartUploadService) backfillCategory(topic *model.Topic, categoryName, categorySlug string) (*model.Topic, error) {
	if topic.CategorySlug != "" || categorySlug == "" {
		return topic, nil
	}
	topic.Category = categoryName
	topic.CategorySlug = categorySlug
	if err := s.DB.Model(topic).Updates(map[string]interface{}{
		"category":      categoryName,
		"category_slug": categorySlug,
	}).Error; err != nil {
		return nil, err
	}
	return topic, nil
}

// store builds the storage key, uploads the bytes and writes the Resource row.
// Keys always start with the topic prefix; files are never stored at the
// bucket root.
func (s *SmartUploadService) store(ctx context.Context, topic *model.Topic, content []byte, filename, contentType, uploadedBy string) (*model.Resource, error) {
	prefix := topic.StoragePrefix()
	if prefix == "" {
		return nil, errors.New("topic không có slug hợp lệ, không thể upload vào thư mục gốc")
	}
	key := prefix + "/" + slugify.SanitizeFilename(filename)

	// Key đã tồn tại -> thêm hậu tố timestamp trước phần mở rộng
	var count int64
	if err := s.DB.Model(&model.Resource{}).Where("s3_key = ?", key).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		key = appendTimestamp(key, time.Now().Unix())
		logrus.WithField("s3_key", key).Info("duplicate key, using timestamp suffix")
	}

	if contentType == "" {
		contentType = "application/octet-stream"
	}

	// Upload trước, ghi DB sau. Nếu ghi DB lỗi thì xoá object vừa upload
	// (compensating delete) để store không tích blob mồ côi.
	url, err := s.Store.Put(ctx, key, content, contentType)
	if err != nil {
		return nil, fmt.Errorf("upload thất bại: %w", err)
	}

	resource := &model.Resource{
		TopicID:     topic.ID,
		FileName:    filename,
		S3Key:       key,
		S3URL:       url,
		ContentType: contentType,
		FileSize:    int64(len(content)),
		UploadedBy:  uploadedBy,
	}
	if err := s.DB.Create(resource).Error; err != nil {
		if delErr := s.Store.Delete(ctx, key); delErr != nil {
			logrus.WithError(delErr).WithField("s3_key", key).Error("orphaned object: compensating delete failed")
		}
		return nil, fmt.Errorf("lưu metadata file thất bại: %w", err)
	}

	return resource, nil
}

// appendTimestamp inserts "-<unix>" before the file extension (or at the end
// when there is none).
func appendTimestamp(key string, unix int64) string {
	if idx := strings.LastIndex(key, "."); idx >= 0 && idx > strings.LastIndex(key, "/") {
		return fmt.Sprintf("%s-%d%s", key[:idx], unix, key[idx:])
	}
	return fmt.Sprintf("%s-%d", key, unix)
}
