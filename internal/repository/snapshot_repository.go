package repository

import (
	"errors"
	"marketing_edu_backend/internal/model"
	"marketing_edu_backend/internal/progression"

	"gorm.io/gorm"
)

// SnapshotRepository 进度快照的持久化适配器
// 每个用户一条记录，整表快照写穿，读取失败或数据损坏时由调用方退回默认状态
type SnapshotRepository struct {
	DB *gorm.DB
}

func NewSnapshotRepository(db *gorm.DB) *SnapshotRepository {
	return &SnapshotRepository{DB: db}
}

// Save 整体写入用户的进度快照（upsert）
func (r *SnapshotRepository) Save(userID uint, state *progression.State) error {
	data, err := state.Encode()
	if err != nil {
		return err
	}

	var existing model.ProgressionSnapshot
	err = r.DB.Where("user_id = ?", userID).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return r.DB.Create(&model.ProgressionSnapshot{
			UserID:  userID,
			Version: state.Version,
			Data:    data,
		}).Error
	}
	if err != nil {
		return err
	}

	existing.Version = state.Version
	existing.Data = data
	return r.DB.Save(&existing).Error
}

// Load 读取用户的进度快照。没有快照时返回 (nil, nil)，
// 快照损坏时返回错误，由上层降级到默认状态
func (r *SnapshotRepository) Load(userID uint) (*progression.State, error) {
	var snapshot model.ProgressionSnapshot
	err := r.DB.Where("user_id = ?", userID).First(&snapshot).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return progression.DecodeState(snapshot.Data)
}

// userPersister 把仓库绑定到具体用户，实现 progression.Persister
type userPersister struct {
	repo   *SnapshotRepository
	userID uint
}

func (p *userPersister) Save(state *progression.State) error {
	return p.repo.Save(p.userID, state)
}

// PersisterFor 返回绑定到指定用户的持久化适配器
func (r *SnapshotRepository) PersisterFor(userID uint) progression.Persister {
	return &userPersister{repo: r, userID: userID}
}
