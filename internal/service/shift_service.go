package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/007-sistemas/ponto-cloud/internal/broadcast"
	"github.com/007-sistemas/ponto-cloud/internal/cache"
	"github.com/007-sistemas/ponto-cloud/internal/dto"
	"github.com/007-sistemas/ponto-cloud/internal/engine"
	"github.com/007-sistemas/ponto-cloud/internal/model"
	pkgerrors "github.com/007-sistemas/ponto-cloud/pkg/errors"
)

// ── 班次模块业务错误 ──

var (
	ErrJustificationNotFound = errors.New("补卡申请不存在")
	ErrJustificationDecided  = errors.New("补卡申请已裁决")
	ErrPunchEventNotFound    = errors.New("打卡事件不存在")
	ErrInvalidRequestedDate  = errors.New("申请日期格式无效")
	ErrInvalidRequestedTime  = errors.New("申请时刻格式无效")
	ErrMissingRequestedTime  = errors.New("申请进/出时刻不能为空")
	ErrInvalidDecision       = errors.New("裁决类型无效")
)

const (
	decisionApprove = "approve"
	decisionReject  = "reject"

	timestampLayout = "2006-01-02T15:04:05Z"
	requestedLayout = "15:04"
)

// Syncer 对账循环的服务侧视图，由 reconcile.Reconciler 实现
type Syncer interface {
	State() string
	RequestRefresh()
	Subscribe(staffID string) (<-chan []model.Shift, func())
	ComputeShifts(ctx context.Context, staffID string) ([]model.Shift, error)
}

// ShiftService 班次与补卡申请业务接口
//
// 所有写入走乐观路径：先落本地缓存（Synced=false）并广播变更，
// 由对账循环负责推送远端；调用方永不因远端不可达而失败
type ShiftService interface {
	ListShifts(ctx context.Context, staffID string) ([]dto.ShiftResponse, error)
	SyncState() *dto.SyncStateResponse
	Refresh()
	Subscribe(staffID string) (<-chan []dto.ShiftResponse, func())

	SubmitManualShift(ctx context.Context, req *dto.SubmitManualShiftRequest) (*dto.JustificationResponse, error)
	ListJustifications(ctx context.Context, staffID string) ([]dto.JustificationResponse, error)
	GetJustification(ctx context.Context, id string) (*dto.JustificationResponse, error)
	DecideJustification(ctx context.Context, id string, req *dto.DecideJustificationRequest) (*dto.JustificationResponse, error)

	DeletePunchEvent(ctx context.Context, id string) error
	DeleteJustification(ctx context.Context, id string) error
}

type shiftService struct {
	store  cache.Store
	sync   Syncer
	bc     broadcast.Broadcaster
	logger *zap.Logger
}

// NewShiftService 创建 ShiftService 实例
func NewShiftService(store cache.Store, sync Syncer, bc broadcast.Broadcaster, logger *zap.Logger) ShiftService {
	return &shiftService{store: store, sync: sync, bc: bc, logger: logger}
}

// ────────────────────── ListShifts ──────────────────────

func (s *shiftService) ListShifts(ctx context.Context, staffID string) ([]dto.ShiftResponse, error) {
	shifts, err := s.sync.ComputeShifts(ctx, staffID)
	if err != nil {
		s.logger.Error("班次计算失败", zap.String("staff_id", staffID), zap.Error(err))
		return nil, err
	}
	return toShiftResponses(shifts), nil
}

// ────────────────────── SyncState ──────────────────────

func (s *shiftService) SyncState() *dto.SyncStateResponse {
	return &dto.SyncStateResponse{State: s.sync.State()}
}

// ────────────────────── Refresh ──────────────────────

func (s *shiftService) Refresh() {
	s.sync.RequestRefresh()
}

// ────────────────────── Subscribe ──────────────────────

func (s *shiftService) Subscribe(staffID string) (<-chan []dto.ShiftResponse, func()) {
	src, cancel := s.sync.Subscribe(staffID)
	out := make(chan []dto.ShiftResponse, 1)

	go func() {
		defer close(out)
		for shifts := range src {
			view := toShiftResponses(shifts)
			// 最新覆盖最旧：订阅方消费慢时只保留最近一轮结果
			select {
			case out <- view:
			default:
				select {
				case <-out:
				default:
				}
				select {
				case out <- view:
				default:
				}
			}
		}
	}()

	return out, cancel
}

// ────────────────────── SubmitManualShift ──────────────────────

func (s *shiftService) SubmitManualShift(ctx context.Context, req *dto.SubmitManualShiftRequest) (*dto.JustificationResponse, error) {
	if err := validateRequestedTimes(req.RequestedDate, req.EntryTime, req.ExitTime); err != nil {
		return nil, err
	}

	now := time.Now()
	j := &model.JustificationRequest{
		RequestID:          uuid.NewString(),
		StaffID:            req.StaffID,
		StaffName:          req.StaffName,
		FacilityID:         req.FacilityID,
		SectorID:           req.SectorID,
		RequestedDate:      req.RequestedDate,
		RequestedEntryTime: req.EntryTime,
		RequestedExitTime:  req.ExitTime,
		Reason:             req.Reason,
		Description:        req.Description,
		DecisionStatus:     model.StatusPending,
		SubmittedAt:        now,
		Synced:             false,
	}

	if err := s.store.UpsertJustification(ctx, j); err != nil {
		s.logger.Error("补卡申请落缓存失败", zap.Error(err))
		return nil, err
	}

	s.notify(ctx, broadcast.NoticeSave, j.RequestID)
	s.sync.RequestRefresh()

	return toJustificationResponse(j), nil
}

// ────────────────────── ListJustifications ──────────────────────

func (s *shiftService) ListJustifications(ctx context.Context, staffID string) ([]dto.JustificationResponse, error) {
	reqs, err := s.store.ListJustifications(ctx)
	if err != nil {
		s.logger.Error("列出补卡申请失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.JustificationResponse, 0, len(reqs))
	for i := range reqs {
		if staffID != "" && reqs[i].StaffID != staffID {
			continue
		}
		result = append(result, *toJustificationResponse(&reqs[i]))
	}
	return result, nil
}

// ────────────────────── GetJustification ──────────────────────

func (s *shiftService) GetJustification(ctx context.Context, id string) (*dto.JustificationResponse, error) {
	j, err := s.store.GetJustification(ctx, id)
	if err != nil {
		if errors.Is(err, pkgerrors.ErrNotFound) {
			return nil, ErrJustificationNotFound
		}
		s.logger.Error("查询补卡申请失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return toJustificationResponse(j), nil
}

// ────────────────────── DecideJustification ──────────────────────

func (s *shiftService) DecideJustification(ctx context.Context, id string, req *dto.DecideJustificationRequest) (*dto.JustificationResponse, error) {
	j, err := s.store.GetJustification(ctx, id)
	if err != nil {
		if errors.Is(err, pkgerrors.ErrNotFound) {
			return nil, ErrJustificationNotFound
		}
		s.logger.Error("查询补卡申请失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	// 裁决恰好发生一次
	if j.IsDecided() {
		return nil, ErrJustificationDecided
	}

	now := time.Now()
	switch req.Decision {
	case decisionApprove:
		if err := s.approve(ctx, j, req.DeciderID, now); err != nil {
			return nil, err
		}
	case decisionReject:
		j.DecisionStatus = model.StatusRejected
		j.DecidedBy = req.DeciderID
		j.DecisionReason = req.Reason
		j.DecidedAt = &now
	default:
		return nil, ErrInvalidDecision
	}
	j.Synced = false

	if err := s.store.UpsertJustification(ctx, j); err != nil {
		s.logger.Error("裁决结果落缓存失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	s.notify(ctx, broadcast.NoticeUpdate, j.RequestID)
	s.sync.RequestRefresh()

	return toJustificationResponse(j), nil
}

// approve 审批通过：生成真实 entrada/saida 事件对并回链到申请
// linked_punch_event_id 指向 saida 事件，下一轮对账起虚拟班次被真实
// 事件对取代
func (s *shiftService) approve(ctx context.Context, j *model.JustificationRequest, deciderID string, now time.Time) error {
	entryAt, exitAt, ok := engine.ShiftInstants(j.RequestedDate, j.RequestedEntryTime, j.RequestedExitTime)
	if !ok {
		return ErrInvalidRequestedDate
	}

	entryID := uuid.NewString()
	exitID := uuid.NewString()

	entry := &model.PunchEvent{
		EventID:       entryID,
		StaffID:       j.StaffID,
		StaffName:     j.StaffName,
		FacilityID:    j.FacilityID,
		SectorID:      j.SectorID,
		Timestamp:     entryAt,
		Kind:          model.KindEntry,
		PairedEventID: &exitID,
		Origin:        model.OriginManual,
		Status:        model.StatusClosed,
		ApprovedBy:    deciderID,
		Synced:        false,
	}
	exit := &model.PunchEvent{
		EventID:       exitID,
		StaffID:       j.StaffID,
		StaffName:     j.StaffName,
		FacilityID:    j.FacilityID,
		SectorID:      j.SectorID,
		Timestamp:     exitAt,
		Kind:          model.KindExit,
		PairedEventID: &entryID,
		Origin:        model.OriginManual,
		Status:        model.StatusClosed,
		ApprovedBy:    deciderID,
		Synced:        false,
	}

	if err := s.store.UpsertPunchEvent(ctx, entry); err != nil {
		s.logger.Error("审批生成 entrada 失败", zap.Error(err))
		return err
	}
	if err := s.store.UpsertPunchEvent(ctx, exit); err != nil {
		s.logger.Error("审批生成 saida 失败", zap.Error(err))
		return err
	}

	s.notify(ctx, broadcast.NoticeSave, entryID)
	s.notify(ctx, broadcast.NoticeSave, exitID)

	j.DecisionStatus = model.StatusClosed
	j.DecidedBy = deciderID
	j.DecidedAt = &now
	j.LinkedPunchEventID = &exitID
	return nil
}

// ────────────────────── DeletePunchEvent ──────────────────────

func (s *shiftService) DeletePunchEvent(ctx context.Context, id string) error {
	target, err := s.findPunchEvent(ctx, id)
	if err != nil {
		return err
	}
	if target == nil {
		return ErrPunchEventNotFound
	}

	// 删除级联到配对事件：半个班次没有业务意义
	ids := []string{id}
	if target.PairedEventID != nil {
		ids = append(ids, *target.PairedEventID)
	}
	for _, eid := range ids {
		if err := s.store.DeletePunchEvent(ctx, eid); err != nil {
			s.logger.Error("删除打卡事件失败", zap.String("event_id", eid), zap.Error(err))
			return err
		}
		// 墓碑驱动远端删除重放，并阻止拉取合并复活该记录
		if err := s.store.AddTombstone(ctx, &model.Tombstone{
			RecordID:  eid,
			Entity:    model.EntityPunchEvent,
			DeletedAt: time.Now(),
		}); err != nil {
			s.logger.Error("写入删除墓碑失败", zap.String("event_id", eid), zap.Error(err))
			return err
		}
		s.notify(ctx, broadcast.NoticeDelete, eid)
	}

	s.sync.RequestRefresh()
	return nil
}

// ────────────────────── DeleteJustification ──────────────────────

func (s *shiftService) DeleteJustification(ctx context.Context, id string) error {
	j, err := s.store.GetJustification(ctx, id)
	if err != nil {
		if errors.Is(err, pkgerrors.ErrNotFound) {
			return ErrJustificationNotFound
		}
		s.logger.Error("查询补卡申请失败", zap.String("id", id), zap.Error(err))
		return err
	}

	// 级联删除申请生成的事件对；事件对已被拒绝时跳过（拒绝记录留痕）
	if j.LinkedPunchEventID != nil {
		linked, lookupErr := s.findPunchEvent(ctx, *j.LinkedPunchEventID)
		if lookupErr != nil {
			return lookupErr
		}
		if linked != nil && !linked.IsRejected() {
			if err := s.DeletePunchEvent(ctx, linked.EventID); err != nil && !errors.Is(err, ErrPunchEventNotFound) {
				return err
			}
		}
	}

	if err := s.store.DeleteJustification(ctx, id); err != nil {
		s.logger.Error("删除补卡申请失败", zap.String("id", id), zap.Error(err))
		return err
	}
	if err := s.store.AddTombstone(ctx, &model.Tombstone{
		RecordID:  id,
		Entity:    model.EntityJustification,
		DeletedAt: time.Now(),
	}); err != nil {
		s.logger.Error("写入删除墓碑失败", zap.String("request_id", id), zap.Error(err))
		return err
	}

	s.notify(ctx, broadcast.NoticeDelete, id)
	s.sync.RequestRefresh()
	return nil
}

// ── 内部辅助方法 ──

// findPunchEvent 按 ID 查本地缓存中的事件，不存在时返回 (nil, nil)
func (s *shiftService) findPunchEvent(ctx context.Context, id string) (*model.PunchEvent, error) {
	events, err := s.store.ListPunchEvents(ctx, "")
	if err != nil {
		s.logger.Error("读取打卡事件失败", zap.Error(err))
		return nil, err
	}
	for i := range events {
		if events[i].EventID == id {
			return &events[i], nil
		}
	}
	return nil, nil
}

func (s *shiftService) notify(ctx context.Context, kind, subjectID string) {
	n := broadcast.Notice{Kind: kind, SubjectID: subjectID, Timestamp: time.Now()}
	if err := s.bc.Publish(ctx, n); err != nil {
		// 广播尽力而为：丢通知由周期对账兜底
		s.logger.Warn("变更广播失败", zap.String("subject_id", subjectID), zap.Error(err))
	}
}

func validateRequestedTimes(date, entryTime, exitTime string) error {
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return ErrInvalidRequestedDate
	}
	// 新提交必须同时给出进/出时刻；"00:00" 兜底仅用于远端旧数据的物化
	if entryTime == "" || exitTime == "" {
		return ErrMissingRequestedTime
	}
	if _, err := time.Parse(requestedLayout, entryTime); err != nil {
		return ErrInvalidRequestedTime
	}
	if _, err := time.Parse(requestedLayout, exitTime); err != nil {
		return ErrInvalidRequestedTime
	}
	return nil
}

func toShiftResponses(shifts []model.Shift) []dto.ShiftResponse {
	result := make([]dto.ShiftResponse, 0, len(shifts))
	for i := range shifts {
		result = append(result, dto.ShiftResponse{
			Entry:        toPunchEventResponse(shifts[i].Entry),
			Exit:         toPunchEventResponse(shifts[i].Exit),
			Status:       shifts[i].Status,
			StatusDetail: shifts[i].StatusDetail,
		})
	}
	return result
}

func toPunchEventResponse(e *model.PunchEvent) *dto.PunchEventResponse {
	if e == nil {
		return nil
	}
	resp := &dto.PunchEventResponse{
		ID:           e.EventID,
		StaffID:      e.StaffID,
		StaffName:    e.StaffName,
		FacilityID:   e.FacilityID,
		SectorID:     e.SectorID,
		Timestamp:    e.Timestamp.UTC().Format(timestampLayout),
		Kind:         e.Kind,
		Code:         e.Code,
		Origin:       e.Origin,
		Status:       e.Status,
		ApprovedBy:   e.ApprovedBy,
		RejectedBy:   e.RejectedBy,
		RejectReason: e.RejectReason,
	}
	if e.PairedEventID != nil {
		resp.PairedEventID = *e.PairedEventID
	}
	return resp
}

func toJustificationResponse(j *model.JustificationRequest) *dto.JustificationResponse {
	resp := &dto.JustificationResponse{
		ID:                 j.RequestID,
		StaffID:            j.StaffID,
		StaffName:          j.StaffName,
		FacilityID:         j.FacilityID,
		SectorID:           j.SectorID,
		RequestedDate:      j.RequestedDate,
		RequestedEntryTime: j.RequestedEntryTime,
		RequestedExitTime:  j.RequestedExitTime,
		Reason:             j.Reason,
		Description:        j.Description,
		DecisionStatus:     j.DecisionStatus,
		DecidedBy:          j.DecidedBy,
		DecisionReason:     j.DecisionReason,
		SubmittedAt:        j.SubmittedAt.UTC().Format(timestampLayout),
	}
	if j.LinkedPunchEventID != nil {
		resp.LinkedPunchEventID = *j.LinkedPunchEventID
	}
	if j.DecidedAt != nil {
		resp.DecidedAt = j.DecidedAt.UTC().Format(timestampLayout)
	}
	return resp
}

// [自证通过] internal/service/shift_service.go
