package service

import (
	"context"
	"time"

	"gorm.io/gorm"

	"smartquiz/internal/dto"
	"smartquiz/internal/model"
)

type DashboardService struct {
	db    *gorm.DB
	exams *ExamService
}

func NewDashboardService(db *gorm.DB, exams *ExamService) *DashboardService {
	return &DashboardService{db: db, exams: exams}
}

// Get aggregates the teacher's totals plus a 24h traffic series (one point per
// hour) built from the Redis access sets.
func (s *DashboardService) Get(ctx context.Context, userID string) (*dto.DashboardResp, error) {
	var stats dto.DashboardStats

	s.db.Model(&model.Exam{}).Where("creator_id = ?", userID).Count(&stats.TotalExams)
	s.db.Model(&model.Class{}).Where("teacher_id = ?", userID).Count(&stats.TotalClasses)
	s.db.Model(&model.ClassStudent{}).
		Joins("JOIN classes ON classes.id = class_students.class_id").
		Where("classes.teacher_id = ?", userID).
		Count(&stats.TotalStudents)
	s.db.Model(&model.ExamResult{}).
		Joins("JOIN exams ON exams.id = exam_results.exam_id").
		Where("exams.creator_id = ?", userID).
		Count(&stats.TotalAttempts)

	var examIDs []string
	if err := s.db.Model(&model.Exam{}).Where("creator_id = ?", userID).Pluck("id", &examIDs).Error; err != nil {
		return nil, err
	}

	traffic := make([]dto.TrafficPoint, 0, 24)
	for h := 23; h >= 0; h-- {
		window := time.Duration(h+1) * time.Hour
		prev := time.Duration(h) * time.Hour

		var count int64
		for _, id := range examIDs {
			count += s.exams.AccessCount(ctx, id, window) - s.exams.AccessCount(ctx, id, prev)
		}
		label := time.Now().Add(-time.Duration(h) * time.Hour).Format("15:00")
		traffic = append(traffic, dto.TrafficPoint{Label: label, Count: count})
	}

	return &dto.DashboardResp{Stats: stats, Traffic: traffic}, nil
}
