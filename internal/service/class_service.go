package service

import (
	"errors"

	"gorm.io/gorm"

	"smartquiz/internal/dto"
	"smartquiz/internal/model"
)

type ClassService struct {
	db *gorm.DB
}

func NewClassService(db *gorm.DB) *ClassService {
	return &ClassService{db: db}
}

// ownedClass loads a class and checks the caller is its teacher.
func (s *ClassService) ownedClass(classID, teacherID string) (*model.Class, error) {
	var class model.Class
	if err := s.db.First(&class, "id = ?", classID).Error; err != nil {
		return nil, errors.New("không tìm thấy lớp học")
	}
	if class.TeacherID != teacherID {
		return nil, errors.New("bạn không có quyền với lớp học này")
	}
	return &class, nil
}

func (s *ClassService) List(teacherID string) ([]dto.ClassResp, error) {
	var classes []model.Class
	if err := s.db.Where("teacher_id = ?", teacherID).Order("created_at desc").Find(&classes).Error; err != nil {
		return nil, err
	}

	resp := make([]dto.ClassResp, 0, len(classes))
	for _, c := range classes {
		var count int64
		s.db.Model(&model.ClassStudent{}).Where("class_id = ?", c.ID).Count(&count)
		resp = append(resp, dto.ClassResp{
			ID:           c.ID,
			Name:         c.Name,
			Description:  c.Description,
			TeacherID:    c.TeacherID,
			StudentCount: int(count),
			CreatedAt:    c.CreatedAt,
		})
	}
	return resp, nil
}

func (s *ClassService) Create(teacherID string, req dto.ClassReq) (*model.Class, error) {
	class := &model.Class{
		Name:        req.Name,
		Description: req.Description,
		TeacherID:   teacherID,
	}
	if err := s.db.Create(class).Error; err != nil {
		return nil, err
	}
	return class, nil
}

func (s *ClassService) Get(classID, teacherID string) (*model.Class, error) {
	class, err := s.ownedClass(classID, teacherID)
	if err != nil {
		return nil, err
	}
	if err := s.db.Preload("Students").First(class, "id = ?", classID).Error; err != nil {
		return nil, err
	}
	return class, nil
}

func (s *ClassService) Update(classID, teacherID string, req dto.ClassReq) (*model.Class, error) {
	class, err := s.ownedClass(classID, teacherID)
	if err != nil {
		return nil, err
	}
	class.Name = req.Name
	class.Description = req.Description
	if err := s.db.Save(class).Error; err != nil {
		return nil, err
	}
	return class, nil
}

func (s *ClassService) Delete(classID, teacherID string) error {
	class, err := s.ownedClass(classID, teacherID)
	if err != nil {
		return err
	}
	// Xoá roster trước, tránh bản ghi mồ côi khi DB không bật cascade
	if err := s.db.Where("class_id = ?", classID).Delete(&model.ClassStudent{}).Error; err != nil {
		return err
	}
	return s.db.Delete(class).Error
}

func (s *ClassService) AddStudent(classID, teacherID, email string) (*model.ClassStudent, error) {
	if _, err := s.ownedClass(classID, teacherID); err != nil {
		return nil, err
	}

	var count int64
	s.db.Model(&model.ClassStudent{}).Where("class_id = ? AND student_email = ?", classID, email).Count(&count)
	if count > 0 {
		return nil, errors.New("học sinh đã có trong lớp")
	}

	student := &model.ClassStudent{ClassID: classID, StudentEmail: email}
	if err := s.db.Create(student).Error; err != nil {
		return nil, err
	}
	return student, nil
}

func (s *ClassService) RemoveStudent(classID, teacherID, studentID string) error {
	if _, err := s.ownedClass(classID, teacherID); err != nil {
		return err
	}
	result := s.db.Where("id = ? AND class_id = ?", studentID, classID).Delete(&model.ClassStudent{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errors.New("không tìm thấy học sinh trong lớp")
	}
	return nil
}
