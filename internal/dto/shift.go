package dto

// ── 班次模块 DTO ──

// ShiftListRequest 班次列表查询参数
type ShiftListRequest struct {
	StaffID string `form:"staff_id"`
}

// PunchEventResponse 打卡事件响应
type PunchEventResponse struct {
	ID            string `json:"id"`
	StaffID       string `json:"staff_id"`
	StaffName     string `json:"staff_name,omitempty"`
	FacilityID    string `json:"facility_id,omitempty"`
	SectorID      string `json:"sector_id,omitempty"`
	Timestamp     string `json:"timestamp"`
	Kind          string `json:"kind"` // entrada | saida
	PairedEventID string `json:"paired_event_id,omitempty"`
	Code          string `json:"code,omitempty"`
	Origin        string `json:"origin"` // biometrico | manual
	Status        string `json:"status,omitempty"`
	ApprovedBy    string `json:"approved_by,omitempty"`
	RejectedBy    string `json:"rejected_by,omitempty"`
	RejectReason  string `json:"reject_reason,omitempty"`
}

// ShiftResponse 班次行响应：entrada/saida 至少其一非空
type ShiftResponse struct {
	Entry        *PunchEventResponse `json:"entry,omitempty"`
	Exit         *PunchEventResponse `json:"exit,omitempty"`
	Status       string              `json:"status"`
	StatusDetail string              `json:"status_detail,omitempty"`
}

// SyncStateResponse 对账状态响应
type SyncStateResponse struct {
	State string `json:"state"` // idle | syncing | ready
}
