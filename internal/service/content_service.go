package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"marketing_edu_backend/internal/model"
	"marketing_edu_backend/internal/repository"
	"marketing_edu_backend/internal/util"
	"marketing_edu_backend/pkg/logger"
)

// ContentService 课程资源管理：文章、案例与教学视频
type ContentService struct {
	ResourceRepo *repository.ResourceRepository
	Storage      *StorageService
}

func NewContentService(resourceRepo *repository.ResourceRepository, storage *StorageService) *ContentService {
	return &ContentService{ResourceRepo: resourceRepo, Storage: storage}
}

func (s *ContentService) List(lab string) ([]model.Resource, error) {
	if lab != "" {
		return s.ResourceRepo.FindByLab(lab)
	}
	return s.ResourceRepo.FindAll()
}

func (s *ContentService) Get(id uint) (*model.Resource, error) {
	resource, err := s.ResourceRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrResourceNotFound
		}
		return nil, err
	}
	return resource, nil
}

func (s *ContentService) Recommended(limit int) ([]model.Resource, error) {
	if limit <= 0 || limit > 20 {
		limit = 5
	}
	return s.ResourceRepo.FindRecommended(limit)
}

type CreateResourceInput struct {
	Title       string             `json:"title" binding:"required,max=255"`
	Description string             `json:"description"`
	Type        model.ResourceType `json:"type" binding:"required,oneof=article video case_study"`
	Lab         string             `json:"lab"`
	URL         string             `json:"url"`
}

func (s *ContentService) Create(input CreateResourceInput) (*model.Resource, error) {
	resource := &model.Resource{
		Title:       input.Title,
		Description: input.Description,
		Type:        input.Type,
		Lab:         input.Lab,
		URL:         input.URL,
	}
	if err := s.ResourceRepo.Create(resource); err != nil {
		return nil, err
	}
	return resource, nil
}

func (s *ContentService) Update(id uint, input CreateResourceInput) (*model.Resource, error) {
	resource, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	resource.Title = input.Title
	resource.Description = input.Description
	resource.Type = input.Type
	resource.Lab = input.Lab
	if input.URL != "" {
		resource.URL = input.URL
	}

	if err := s.ResourceRepo.Update(resource); err != nil {
		return nil, err
	}
	return resource, nil
}

func (s *ContentService) Delete(id uint) error {
	if _, err := s.Get(id); err != nil {
		return err
	}
	return s.ResourceRepo.Delete(id)
}

// UploadVideo 上传教学视频：落临时盘、探测元数据、抓帧做缩略图，最后归档到存储
func (s *ContentService) UploadVideo(ctx context.Context, file *multipart.FileHeader, input CreateResourceInput) (*model.Resource, error) {
	src, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	ext := strings.ToLower(filepath.Ext(file.Filename))
	allowed := false
	for _, e := range util.AllowedVideoExtensions {
		if ext == e {
			allowed = true
			break
		}
	}
	if !allowed {
		return nil, fmt.Errorf("不支持的视频格式: %s", ext)
	}

	mimeType, err := util.ValidateMimeType(src, []string{util.MimeVideo})
	if err != nil {
		return nil, err
	}
	if !util.IsVideo(mimeType) {
		return nil, fmt.Errorf("不支持的文件类型: %s", mimeType)
	}
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}

	// ffmpeg 需要本地文件路径，先落临时盘
	tmpDir := os.TempDir()
	id := uuid.New().String()
	tmpVideo := filepath.Join(tmpDir, id+ext)
	tmpThumb := filepath.Join(tmpDir, id+".jpg")

	out, err := os.Create(tmpVideo)
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(out, src); err != nil {
		out.Close()
		os.Remove(tmpVideo)
		return nil, err
	}
	out.Close()
	defer os.Remove(tmpVideo)
	defer os.Remove(tmpThumb)

	duration := 0
	if info, err := util.GetVideoInfo(tmpVideo); err == nil {
		duration = int(info.Duration)
	} else {
		logger.Log.Warn("探测视频信息失败", zap.String("file", file.Filename), zap.Error(err))
	}

	videoURL, err := s.Storage.UploadFile(ctx, "videos/"+id+ext, tmpVideo, mimeType)
	if err != nil {
		return nil, err
	}

	thumbnailURL := ""
	if err := util.GenerateThumbnail(tmpVideo, tmpThumb, "00:00:01"); err == nil {
		if url, err := s.Storage.UploadFile(ctx, "thumbnails/"+id+".jpg", tmpThumb, "image/jpeg"); err == nil {
			thumbnailURL = url
		}
	} else {
		logger.Log.Warn("生成视频缩略图失败", zap.String("file", file.Filename), zap.Error(err))
	}

	resource := &model.Resource{
		Title:       input.Title,
		Description: input.Description,
		Type:        model.ResourceVideo,
		Lab:         input.Lab,
		URL:         videoURL,
		Thumbnail:   thumbnailURL,
		Duration:    duration,
	}
	if err := s.ResourceRepo.Create(resource); err != nil {
		return nil, err
	}
	return resource, nil
}
