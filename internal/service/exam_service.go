package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"smartquiz/internal/dto"
	"smartquiz/internal/model"
	"smartquiz/internal/parser"
)

type ExamService struct {
	db  *gorm.DB
	rdb *redis.Client
}

func NewExamService(db *gorm.DB, rdb *redis.Client) *ExamService {
	return &ExamService{db: db, rdb: rdb}
}

func (s *ExamService) ownedExam(examID, creatorID string) (*model.Exam, error) {
	var exam model.Exam
	if err := s.db.First(&exam, "id = ?", examID).Error; err != nil {
		return nil, errors.New("không tìm thấy đề thi")
	}
	if exam.CreatorID != creatorID {
		return nil, errors.New("bạn không có quyền với đề thi này")
	}
	return &exam, nil
}

// ParseFile turns an uploaded document into draft questions.
func (s *ExamService) ParseFile(content []byte, filename string) (*dto.ParseResp, error) {
	questions, err := parser.ParseDocument(content, filename)
	if err != nil {
		return nil, err
	}
	if len(questions) == 0 {
		return nil, errors.New("không tìm thấy câu hỏi nào trong file")
	}
	return &dto.ParseResp{Questions: questions, Count: len(questions)}, nil
}

func (s *ExamService) List(creatorID string) ([]dto.ExamListResp, error) {
	var exams []model.Exam
	if err := s.db.Where("creator_id = ?", creatorID).Order("created_at desc").Find(&exams).Error; err != nil {
		return nil, err
	}

	resp := make([]dto.ExamListResp, 0, len(exams))
	for _, e := range exams {
		var questions []parser.Question
		_ = json.Unmarshal(e.Questions, &questions)
		resp = append(resp, dto.ExamListResp{
			ID:            e.ID,
			PublicID:      e.PublicID,
			Title:         e.Title,
			QuestionCount: len(questions),
			TotalAttempts: e.TotalAttempts,
			CreatedAt:     e.CreatedAt,
		})
	}
	return resp, nil
}

func (s *ExamService) Create(creatorID string, req dto.ExamReq) (*model.Exam, error) {
	questions, err := json.Marshal(req.Questions)
	if err != nil {
		return nil, err
	}

	mode := req.Mode
	if mode == "" {
		mode = "test"
	}

	exam := &model.Exam{
		Title:            req.Title,
		Description:      req.Description,
		CreatorID:        creatorID,
		Mode:             mode,
		ShuffleQuestions: req.ShuffleQuestions,
		ShuffleAnswers:   req.ShuffleAnswers,
		TimeLimit:        req.TimeLimit,
		IsPublic:         req.IsPublic,
		Questions:        datatypes.JSON(questions),
	}
	if err := s.db.Create(exam).Error; err != nil {
		return nil, err
	}
	return exam, nil
}

func (s *ExamService) Get(examID, creatorID string) (*model.Exam, error) {
	return s.ownedExam(examID, creatorID)
}

func (s *ExamService) Update(examID, creatorID string, req dto.ExamReq) (*model.Exam, error) {
	exam, err := s.ownedExam(examID, creatorID)
	if err != nil {
		return nil, err
	}

	questions, err := json.Marshal(req.Questions)
	if err != nil {
		return nil, err
	}

	exam.Title = req.Title
	exam.Description = req.Description
	if req.Mode != "" {
		exam.Mode = req.Mode
	}
	exam.ShuffleQuestions = req.ShuffleQuestions
	exam.ShuffleAnswers = req.ShuffleAnswers
	exam.TimeLimit = req.TimeLimit
	exam.IsPublic = req.IsPublic
	exam.Questions = datatypes.JSON(questions)

	if err := s.db.Save(exam).Error; err != nil {
		return nil, err
	}
	return exam, nil
}

func (s *ExamService) Delete(examID, creatorID string) error {
	exam, err := s.ownedExam(examID, creatorID)
	if err != nil {
		return err
	}
	if err := s.db.Where("exam_id = ?", examID).Delete(&model.ExamResult{}).Error; err != nil {
		return err
	}
	if err := s.db.Where("exam_id = ?", examID).Delete(&model.ExamClassAssignment{}).Error; err != nil {
		return err
	}
	return s.db.Delete(exam).Error
}

// GetPublic loads a shared exam by its public id and records the access for
// the 24h traffic chart.
func (s *ExamService) GetPublic(ctx context.Context, publicID string) (*model.Exam, error) {
	var exam model.Exam
	if err := s.db.First(&exam, "public_id = ?", publicID).Error; err != nil {
		return nil, errors.New("không tìm thấy đề thi")
	}
	if !exam.IsPublic {
		return nil, errors.New("đề thi này không công khai")
	}
	s.trackAccess(ctx, exam.ID)
	return &exam, nil
}

// trackAccess pushes the access timestamp onto a per-exam sorted set and
// prunes entries older than 24h. Best effort: a Redis hiccup never fails the
// read path.
func (s *ExamService) trackAccess(ctx context.Context, examID string) {
	if s.rdb == nil {
		return
	}
	now := time.Now()
	key := accessKey(examID)
	pipe := s.rdb.Pipeline()
	pipe.ZAdd(ctx, key, redis.Z{Score: float64(now.Unix()), Member: fmt.Sprintf("%d-%s", now.UnixNano(), examID)})
	pipe.ZRemRangeByScore(ctx, key, "0", fmt.Sprintf("%d", now.Add(-24*time.Hour).Unix()))
	pipe.Expire(ctx, key, 25*time.Hour)
	if _, err := pipe.Exec(ctx); err != nil {
		logrus.WithError(err).Warn("failed to track exam access")
	}
}

// AccessCount returns how many accesses the exam had in the window ending now.
func (s *ExamService) AccessCount(ctx context.Context, examID string, window time.Duration) int64 {
	if s.rdb == nil {
		return 0
	}
	from := time.Now().Add(-window).Unix()
	count, err := s.rdb.ZCount(ctx, accessKey(examID), fmt.Sprintf("%d", from), "+inf").Result()
	if err != nil {
		logrus.WithError(err).Warn("failed to read exam access count")
		return 0
	}
	return count
}

func accessKey(examID string) string {
	return "exam:access:" + examID
}

func (s *ExamService) Results(examID, creatorID string) ([]model.ExamResult, error) {
	if _, err := s.ownedExam(examID, creatorID); err != nil {
		return nil, err
	}
	var results []model.ExamResult
	if err := s.db.Where("exam_id = ?", examID).Order("completed_at desc").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (s *ExamService) AssignToClass(examID, classID, creatorID string) error {
	if _, err := s.ownedExam(examID, creatorID); err != nil {
		return err
	}

	var class model.Class
	if err := s.db.First(&class, "id = ?", classID).Error; err != nil {
		return errors.New("không tìm thấy lớp học")
	}
	if class.TeacherID != creatorID {
		return errors.New("bạn không có quyền với lớp học này")
	}

	var count int64
	s.db.Model(&model.ExamClassAssignment{}).Where("exam_id = ? AND class_id = ?", examID, classID).Count(&count)
	if count > 0 {
		return errors.New("đề thi đã được gán cho lớp này")
	}

	return s.db.Create(&model.ExamClassAssignment{ExamID: examID, ClassID: classID}).Error
}
