package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"smartquiz/internal/dto"
	"smartquiz/internal/model"
	"smartquiz/internal/slugify"
	"smartquiz/internal/storage"
)

// KBService serves the knowledge-base admin surface: topics, resources and
// direct object-store views.
type KBService struct {
	db    *gorm.DB
	store storage.ObjectStore
}

func NewKBService(db *gorm.DB, store storage.ObjectStore) *KBService {
	return &KBService{db: db, store: store}
}

func (s *KBService) ListTopics() ([]dto.TopicResp, error) {
	var topics []model.Topic
	if err := s.db.Order("created_at desc").Find(&topics).Error; err != nil {
		return nil, err
	}

	resp := make([]dto.TopicResp, 0, len(topics))
	for _, t := range topics {
		var count int64
		s.db.Model(&model.Resource{}).Where("topic_id = ?", t.ID).Count(&count)
		resp = append(resp, topicResp(&t, count))
	}
	return resp, nil
}

func (s *KBService) CreateTopic(req dto.TopicReq) (*dto.TopicResp, error) {
	topic := &model.Topic{
		Name:         strings.TrimSpace(req.Name),
		Slug:         slugify.Slugify(req.Name),
		Category:     req.Category,
		CategorySlug: slugify.Slugify(req.Category),
		Description:  req.Description,
	}
	if topic.Slug == "" {
		return nil, errors.New("tên topic không hợp lệ")
	}
	if err := s.db.Create(topic).Error; err != nil {
		return nil, errors.New("topic đã tồn tại hoặc không tạo được")
	}
	resp := topicResp(topic, 0)
	return &resp, nil
}

func (s *KBService) TopicDetail(slug string) (*model.Topic, error) {
	var topic model.Topic
	if err := s.db.Preload("Resources").First(&topic, "slug = ?", slug).Error; err != nil {
		return nil, errors.New("không tìm thấy topic")
	}
	return &topic, nil
}

// DeleteTopic removes the topic, its resources and their stored objects.
func (s *KBService) DeleteTopic(ctx context.Context, topicID string) error {
	var topic model.Topic
	if err := s.db.First(&topic, "id = ?", topicID).Error; err != nil {
		return errors.New("không tìm thấy topic")
	}

	var resources []model.Resource
	if err := s.db.Where("topic_id = ?", topicID).Find(&resources).Error; err != nil {
		return err
	}
	for _, r := range resources {
		if err := s.store.Delete(ctx, r.S3Key); err != nil {
			logrus.WithError(err).WithField("s3_key", r.S3Key).Warn("failed to delete stored object")
		}
	}

	if err := s.db.Where("topic_id = ?", topicID).Delete(&model.Resource{}).Error; err != nil {
		return err
	}
	return s.db.Delete(&topic).Error
}

func (s *KBService) ListResources(topicID string) ([]dto.ResourceResp, error) {
	query := s.db.Model(&model.Resource{}).Order("created_at desc")
	if topicID != "" {
		query = query.Where("topic_id = ?", topicID)
	}

	var resources []model.Resource
	if err := query.Find(&resources).Error; err != nil {
		return nil, err
	}

	topicNames := map[string]string{}
	resp := make([]dto.ResourceResp, 0, len(resources))
	for _, r := range resources {
		name, ok := topicNames[r.TopicID]
		if !ok {
			var topic model.Topic
			if err := s.db.Select("name").First(&topic, "id = ?", r.TopicID).Error; err == nil {
				name = topic.Name
			}
			topicNames[r.TopicID] = name
		}
		resp = append(resp, dto.ResourceResp{
			ID:          r.ID,
			TopicID:     r.TopicID,
			TopicName:   name,
			FileName:    r.FileName,
			S3Key:       r.S3Key,
			S3URL:       r.S3URL,
			ContentType: r.ContentType,
			FileSize:    r.FileSize,
			CreatedAt:   r.CreatedAt,
		})
	}
	return resp, nil
}

func (s *KBService) DeleteResource(ctx context.Context, resourceID string) error {
	var resource model.Resource
	if err := s.db.First(&resource, "id = ?", resourceID).Error; err != nil {
		return errors.New("không tìm thấy file")
	}

	if err := s.store.Delete(ctx, resource.S3Key); err != nil {
		return fmt.Errorf("xoá file trên storage thất bại: %w", err)
	}
	return s.db.Delete(&resource).Error
}

// ListFolders groups live store keys by their top-level prefix — useful for
// spotting orphaned objects that have no Resource row.
func (s *KBService) ListFolders(ctx context.Context) (map[string][]storage.ObjectInfo, error) {
	objects, err := s.store.List(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("liệt kê storage thất bại: %w", err)
	}

	folders := map[string][]storage.ObjectInfo{}
	for _, obj := range objects {
		prefix := obj.Key
		if idx := strings.Index(obj.Key, "/"); idx >= 0 {
			prefix = obj.Key[:idx]
		}
		folders[prefix] = append(folders[prefix], obj)
	}
	for _, objs := range folders {
		sort.Slice(objs, func(i, j int) bool { return objs[i].Key < objs[j].Key })
	}
	return folders, nil
}

func (s *KBService) PresignResource(ctx context.Context, resourceID string, expiry time.Duration) (string, error) {
	var resource model.Resource
	if err := s.db.First(&resource, "id = ?", resourceID).Error; err != nil {
		return "", errors.New("không tìm thấy file")
	}
	return s.store.PresignedGet(ctx, resource.S3Key, expiry)
}

func (s *KBService) Stats() (*dto.KBStats, error) {
	var stats dto.KBStats
	s.db.Model(&model.Topic{}).Count(&stats.TotalTopics)
	s.db.Model(&model.Resource{}).Count(&stats.TotalResources)
	s.db.Model(&model.Resource{}).Select("COALESCE(SUM(file_size), 0)").Scan(&stats.TotalSizeBytes)
	return &stats, nil
}

func topicResp(t *model.Topic, fileCount int64) dto.TopicResp {
	return dto.TopicResp{
		ID:           t.ID,
		Name:         t.Name,
		Slug:         t.Slug,
		Category:     t.Category,
		CategorySlug: t.CategorySlug,
		Description:  t.Description,
		FileCount:    fileCount,
		CreatedAt:    t.CreatedAt,
	}
}
