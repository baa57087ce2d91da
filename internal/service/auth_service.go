package service

import (
	"errors"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"marketing_edu_backend/internal/config"
	"marketing_edu_backend/internal/model"
	"marketing_edu_backend/internal/repository"
	"marketing_edu_backend/internal/util"
	"marketing_edu_backend/pkg/logger"
)

type AuthService struct {
	UserRepo       *repository.UserRepository
	ProgressionSvc *ProgressionService
	Config         *config.Config
}

func NewAuthService(userRepo *repository.UserRepository, progressionSvc *ProgressionService, cfg *config.Config) *AuthService {
	return &AuthService{
		UserRepo:       userRepo,
		ProgressionSvc: progressionSvc,
		Config:         cfg,
	}
}

type RegisterInput struct {
	Name     string `json:"name" binding:"required,min=2,max=50"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Language string `json:"language"`
}

type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type AuthResult struct {
	Token string      `json:"token"`
	User  *model.User `json:"user"`
}

// Register 创建新用户并初始化进度引擎
func (s *AuthService) Register(input RegisterInput) (*AuthResult, error) {
	if _, err := s.UserRepo.FindByEmail(input.Email); err == nil {
		return nil, util.ErrEmailRegistered
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	language := input.Language
	if language == "" {
		language = "en"
	}

	user := &model.User{
		Name:     input.Name,
		Email:    input.Email,
		Password: string(hashed),
		Role:     model.Student,
		Language: language,
	}

	if err := s.UserRepo.Create(user); err != nil {
		return nil, err
	}

	// 注册即记录首次登录，保证连续登录从第一天开始计
	store := s.ProgressionSvc.StoreFor(user.ID)
	store.SetUserName(user.Name)
	if err := store.UpdateStreak(); err != nil {
		logger.Log.Warn("初始化连续登录失败", zap.Uint("user_id", user.ID), zap.Error(err))
	}

	token, err := util.GenerateJWT(user, s.Config.JWT.Secret, s.Config.JWT.ExpireTime)
	if err != nil {
		return nil, err
	}

	return &AuthResult{Token: token, User: user}, nil
}

// Login 校验凭据并推进连续登录
func (s *AuthService) Login(input LoginInput) (*AuthResult, error) {
	user, err := s.UserRepo.FindByEmail(input.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrUserNotFound
		}
		return nil, err
	}

	if user.Disabled {
		return nil, util.ErrPermissionDenied
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)); err != nil {
		return nil, util.ErrUserNotFound
	}

	if err := s.UserRepo.UpdateLastLogin(user.ID); err != nil {
		logger.Log.Warn("更新最近登录时间失败", zap.Uint("user_id", user.ID), zap.Error(err))
	}

	// 登录推进连续登录天数，同一天重复登录不加分
	if err := s.ProgressionSvc.StoreFor(user.ID).UpdateStreak(); err != nil {
		logger.Log.Warn("更新连续登录失败", zap.Uint("user_id", user.ID), zap.Error(err))
	}

	token, err := util.GenerateJWT(user, s.Config.JWT.Secret, s.Config.JWT.ExpireTime)
	if err != nil {
		return nil, err
	}

	return &AuthResult{Token: token, User: user}, nil
}
