package service

import (
	"errors"

	"gorm.io/gorm"

	"smartquiz/internal/dto"
	"smartquiz/internal/model"
	"smartquiz/internal/utils"
)

type AuthService interface {
	Register(req dto.RegisterReq) (*model.User, error)
	Login(req dto.LoginReq) (*dto.LoginResp, error)
	GetUser(userID string) (*model.User, error)
}

type authService struct {
	db        *gorm.DB
	jwtSecret string
}

func NewAuthService(db *gorm.DB, jwtSecret string) AuthService {
	return &authService{db: db, jwtSecret: jwtSecret}
}

func (s *authService) Register(req dto.RegisterReq) (*model.User, error) {
	// 1. Email đã tồn tại chưa
	var count int64
	s.db.Model(&model.User{}).Where("email = ?", req.Email).Count(&count)
	if count > 0 {
		return nil, errors.New("email đã được đăng ký")
	}

	// 2. Mã hoá mật khẩu
	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, errors.New("mã hoá mật khẩu thất bại")
	}

	// 3. Tạo user
	user := &model.User{
		Email:        req.Email,
		PasswordHash: hash,
		FullName:     req.FullName,
		Role:         "user",
		IsActive:     true,
	}
	if err := s.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

func (s *authService) Login(req dto.LoginReq) (*dto.LoginResp, error) {
	var user model.User
	if err := s.db.Where("email = ?", req.Email).First(&user).Error; err != nil {
		return nil, errors.New("email hoặc mật khẩu không đúng")
	}
	if !user.IsActive {
		return nil, errors.New("tài khoản đã bị khoá")
	}
	if !utils.CheckPasswordHash(req.Password, user.PasswordHash) {
		return nil, errors.New("email hoặc mật khẩu không đúng")
	}

	token, err := utils.GenerateToken(s.jwtSecret, user.ID, user.Email, user.Role)
	if err != nil {
		return nil, errors.New("tạo token thất bại")
	}

	return &dto.LoginResp{
		AccessToken: token,
		TokenType:   "bearer",
		User:        dto.NewUserResp(&user),
	}, nil
}

func (s *authService) GetUser(userID string) (*model.User, error) {
	var user model.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		return nil, errors.New("không tìm thấy người dùng")
	}
	return &user, nil
}
