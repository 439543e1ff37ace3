package engine

import (
	"testing"
	"time"

	"github.com/007-sistemas/ponto-cloud/internal/model"
)

// ── 测试辅助 ──

func pendingRequest(id string) model.JustificationRequest {
	return model.JustificationRequest{
		RequestID:          id,
		StaffID:            "staff-1",
		StaffName:          "Maria",
		FacilityID:         "fac-1",
		SectorID:           "sec-1",
		RequestedDate:      "2024-03-01",
		RequestedEntryTime: "08:00",
		RequestedExitTime:  "20:00",
		Reason:             "esquecimento",
		DecisionStatus:     model.StatusPending,
		SubmittedAt:        time.Now(),
	}
}

// ── 物化测试 ──

func TestMaterialize_PendingPair(t *testing.T) {
	reqs := []model.JustificationRequest{pendingRequest("r1")}

	events := MaterializeJustifications(reqs, nil)

	if len(events) != 2 {
		t.Fatalf("期望物化出 1 对事件，实际 %d 个", len(events))
	}
	entry, exit := events[0], events[1]
	if entry.EventID != "just-r1-ent" || exit.EventID != "just-r1-sai" {
		t.Errorf("虚拟事件 ID 应确定性派生，实际 %s / %s", entry.EventID, exit.EventID)
	}
	if entry.Kind != model.KindEntry || exit.Kind != model.KindExit {
		t.Errorf("事件类型错误: %s / %s", entry.Kind, exit.Kind)
	}
	if entry.Origin != model.OriginManual || exit.Origin != model.OriginManual {
		t.Errorf("虚拟事件必须标记 origin=manual")
	}
	if entry.Status != model.StatusPending || exit.Status != model.StatusPending {
		t.Errorf("Pendente 申请应镜像为 Pendente 事件，实际 %s / %s", entry.Status, exit.Status)
	}
	if entry.PairedEventID == nil || *entry.PairedEventID != exit.EventID {
		t.Errorf("虚拟事件对必须互设回引")
	}
	if exit.PairedEventID == nil || *exit.PairedEventID != entry.EventID {
		t.Errorf("虚拟事件对必须互设回引")
	}
}

func TestMaterialize_OvernightShift(t *testing.T) {
	// 22:00 进、06:00 出 → saida 滚动到次日
	req := pendingRequest("r1")
	req.RequestedEntryTime = "22:00"
	req.RequestedExitTime = "06:00"

	events := MaterializeJustifications([]model.JustificationRequest{req}, nil)

	if len(events) != 2 {
		t.Fatalf("期望 2 个事件，实际 %d", len(events))
	}
	entryDay := events[0].Timestamp.Day()
	exitDay := events[1].Timestamp.Day()
	if exitDay != entryDay+1 {
		t.Fatalf("跨夜班 saida 应落在次日: entrada=%v saida=%v", events[0].Timestamp, events[1].Timestamp)
	}
	if !events[1].Timestamp.After(events[0].Timestamp) {
		t.Errorf("saida 时间戳必须晚于 entrada")
	}
}

func TestMaterialize_Idempotent(t *testing.T) {
	reqs := []model.JustificationRequest{pendingRequest("r1")}

	first := MaterializeJustifications(reqs, nil)
	second := MaterializeJustifications(reqs, nil)

	if len(first) != len(second) {
		t.Fatalf("两次物化数量不一致")
	}
	for i := range first {
		if first[i].EventID != second[i].EventID {
			t.Errorf("虚拟事件 ID 不幂等: %s vs %s", first[i].EventID, second[i].EventID)
		}
		if !first[i].Timestamp.Equal(second[i].Timestamp) {
			t.Errorf("虚拟事件时间戳不幂等")
		}
	}
}

func TestMaterialize_SuppressedByRealEvent(t *testing.T) {
	// linked_punch_event_id 命中真实事件集 → 物化被抑制
	req := pendingRequest("r1")
	linked := "real-exit-1"
	req.LinkedPunchEventID = &linked
	req.DecisionStatus = model.StatusClosed

	existing := map[string]struct{}{"real-exit-1": {}}
	events := MaterializeJustifications([]model.JustificationRequest{req}, existing)

	if len(events) != 0 {
		t.Fatalf("真实事件已落库时不应物化，实际产出 %d 个", len(events))
	}
}

func TestMaterialize_LinkedButAbsent(t *testing.T) {
	// linked id 指向的事件不在当前事件集 → 仍然物化
	req := pendingRequest("r1")
	linked := "real-exit-1"
	req.LinkedPunchEventID = &linked

	events := MaterializeJustifications([]model.JustificationRequest{req}, map[string]struct{}{})

	if len(events) != 2 {
		t.Fatalf("linked 事件缺席时应继续物化，实际 %d 个", len(events))
	}
}

func TestMaterialize_ApprovedMirrorsDecision(t *testing.T) {
	req := pendingRequest("r1")
	req.DecisionStatus = model.StatusClosed
	req.DecidedBy = "gerente-M"

	events := MaterializeJustifications([]model.JustificationRequest{req}, nil)

	for _, e := range events {
		if e.Status != model.StatusClosed || e.ApprovedBy != "gerente-M" {
			t.Errorf("审批通过应镜像 Fechado/approvedBy，实际 %s/%s", e.Status, e.ApprovedBy)
		}
	}
}

func TestMaterialize_RejectedMirrorsDecision(t *testing.T) {
	req := pendingRequest("r1")
	req.DecisionStatus = model.StatusRejected
	req.DecidedBy = "gerente-M"
	req.DecisionReason = "sem comprovação"

	events := MaterializeJustifications([]model.JustificationRequest{req}, nil)

	for _, e := range events {
		if e.Status != model.StatusRejected || e.RejectedBy != "gerente-M" || e.RejectReason != "sem comprovação" {
			t.Errorf("拒绝应镜像 Recusado/rejectedBy/原因，实际 %+v", e)
		}
	}
}

func TestMaterialize_InvalidDateSkipped(t *testing.T) {
	req := pendingRequest("r1")
	req.RequestedDate = "not-a-date"

	events := MaterializeJustifications([]model.JustificationRequest{req}, nil)

	if len(events) != 0 {
		t.Fatalf("无法解析日期的申请应被跳过，实际 %d 个", len(events))
	}
}

func TestShiftInstants_MissingTimesDefault(t *testing.T) {
	entryAt, exitAt, ok := ShiftInstants("2024-03-01", "", "")
	if !ok {
		t.Fatal("缺失时刻应按 00:00 处理而非失败")
	}
	if entryAt.Hour() != 0 || entryAt.Minute() != 0 {
		t.Errorf("缺失进时刻应为 00:00，实际 %v", entryAt)
	}
	if !exitAt.Equal(entryAt) {
		t.Errorf("同为 00:00 不构成跨夜，saida 应与 entrada 同刻，实际 %v", exitAt)
	}
}
