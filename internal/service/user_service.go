package service

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"marketing_edu_backend/internal/model"
	"marketing_edu_backend/internal/repository"
	"marketing_edu_backend/internal/util"
)

type UserService struct {
	UserRepo       *repository.UserRepository
	ProgressionSvc *ProgressionService
}

func NewUserService(userRepo *repository.UserRepository, progressionSvc *ProgressionService) *UserService {
	return &UserService{UserRepo: userRepo, ProgressionSvc: progressionSvc}
}

func (s *UserService) GetByID(id uint) (*model.User, error) {
	user, err := s.UserRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

type UpdateProfileInput struct {
	Name     string `json:"name" binding:"omitempty,min=2,max=50"`
	Language string `json:"language" binding:"omitempty,oneof=en zh"`
	Avatar   string `json:"avatar"`
}

// UpdateProfile 更新资料，显示名同步到进度引擎
func (s *UserService) UpdateProfile(id uint, input UpdateProfileInput) (*model.User, error) {
	user, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	if input.Name != "" {
		user.Name = input.Name
	}
	if input.Language != "" {
		user.Language = input.Language
	}
	if input.Avatar != "" {
		user.Avatar = input.Avatar
	}

	if err := s.UserRepo.Update(user); err != nil {
		return nil, err
	}

	if input.Name != "" {
		s.ProgressionSvc.StoreFor(id).SetUserName(input.Name)
	}

	return user, nil
}

type ChangePasswordInput struct {
	OldPassword string `json:"oldPassword" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required,min=6"`
}

func (s *UserService) ChangePassword(id uint, input ChangePasswordInput) error {
	user, err := s.GetByID(id)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.OldPassword)); err != nil {
		return util.ErrPermissionDenied
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	user.Password = string(hashed)
	return s.UserRepo.Update(user)
}
