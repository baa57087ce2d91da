package service

import (
	"errors"
	"math/rand"
	"time"

	"marketing_edu_backend/internal/model"
	"marketing_edu_backend/internal/repository"
)

// MotivationService 每日营销小贴士的轮换与管理
type MotivationService struct {
	MotivationRepo *repository.MotivationRepository
}

func NewMotivationService(motivationRepo *repository.MotivationRepository) *MotivationService {
	return &MotivationService{MotivationRepo: motivationRepo}
}

func (s *MotivationService) GetAll() ([]*model.Motivation, error) {
	return s.MotivationRepo.GetAll()
}

// Current 返回当前展示的小贴士，超过24小时自动轮换
func (s *MotivationService) Current() (string, error) {
	current, err := s.MotivationRepo.GetCurrent()
	if err != nil {
		enabled, err := s.MotivationRepo.GetEnabled()
		if err != nil || len(enabled) == 0 {
			return "", err
		}
		s.MotivationRepo.SetCurrent(enabled[0].ID)
		return enabled[0].Content, nil
	}

	elapsed := time.Since(current.LastUsedAt)
	enabled, err := s.MotivationRepo.GetEnabled()

	if err == nil && len(enabled) > 1 && elapsed.Hours() >= 24 {
		var candidates []*model.Motivation
		for _, m := range enabled {
			if m.ID != current.ID {
				candidates = append(candidates, m)
			}
		}
		if len(candidates) > 0 {
			next := candidates[rand.Intn(len(candidates))]
			s.MotivationRepo.SetCurrent(next.ID)
			return next.Content, nil
		}
	}

	return current.Content, nil
}

func (s *MotivationService) Create(content string) error {
	return s.MotivationRepo.Create(&model.Motivation{
		Content:   content,
		IsEnabled: true,
	})
}

func (s *MotivationService) Update(id uint, content string, isEnabled bool) error {
	var motivation model.Motivation
	if err := s.MotivationRepo.DB.First(&motivation, id).Error; err != nil {
		return err
	}

	if !isEnabled {
		if current, err := s.MotivationRepo.GetCurrent(); err == nil && current.ID == id {
			enabled, err := s.MotivationRepo.GetEnabled()
			if err != nil {
				return err
			}
			if len(enabled) <= 1 {
				return errors.New("至少需要保留一条启用的小贴士")
			}
		}
	}

	motivation.Content = content
	motivation.IsEnabled = isEnabled
	return s.MotivationRepo.Update(&motivation)
}

func (s *MotivationService) Delete(id uint) error {
	if current, err := s.MotivationRepo.GetCurrent(); err == nil && current.ID == id {
		enabled, err := s.MotivationRepo.GetEnabled()
		if err != nil {
			return err
		}
		if len(enabled) <= 1 {
			return errors.New("至少需要保留一条启用的小贴士")
		}
	}
	return s.MotivationRepo.Delete(id)
}
