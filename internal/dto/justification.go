package dto

// ── 补卡申请模块 DTO ──

// SubmitManualShiftRequest 手工班次提交请求
// 进/出时刻为必填；"00:00" 兜底只在物化远端旧数据时使用
type SubmitManualShiftRequest struct {
	StaffID       string `json:"staff_id"       binding:"required"`
	StaffName     string `json:"staff_name"     binding:"required"`
	FacilityID    string `json:"facility_id"    binding:"required"`
	SectorID      string `json:"sector_id"      binding:"required"`
	RequestedDate string `json:"requested_date" binding:"required"` // YYYY-MM-DD
	EntryTime     string `json:"entry_time"     binding:"required"` // HH:MM
	ExitTime      string `json:"exit_time"      binding:"required"` // HH:MM
	Reason        string `json:"reason"         binding:"required"`
	Description   string `json:"description"`
}

// DecideJustificationRequest 补卡申请裁决请求
type DecideJustificationRequest struct {
	Decision  string `json:"decision"   binding:"required,oneof=approve reject"`
	DeciderID string `json:"decider_id" binding:"required"`
	Reason    string `json:"reason"` // 拒绝时的说明，批准时可省略
}

// JustificationResponse 补卡申请响应
type JustificationResponse struct {
	ID                 string `json:"id"`
	StaffID            string `json:"staff_id"`
	StaffName          string `json:"staff_name"`
	FacilityID         string `json:"facility_id,omitempty"`
	SectorID           string `json:"sector_id,omitempty"`
	RequestedDate      string `json:"requested_date"`
	RequestedEntryTime string `json:"requested_entry_time,omitempty"`
	RequestedExitTime  string `json:"requested_exit_time,omitempty"`
	Reason             string `json:"reason"`
	Description        string `json:"description,omitempty"`
	LinkedPunchEventID string `json:"linked_punch_event_id,omitempty"`
	DecisionStatus     string `json:"decision_status"`
	DecidedBy          string `json:"decided_by,omitempty"`
	DecisionReason     string `json:"decision_reason,omitempty"`
	SubmittedAt        string `json:"submitted_at"`
	DecidedAt          string `json:"decided_at,omitempty"`
}
