package reconcile

import (
	"context"
	"sync"

	"github.com/007-sistemas/ponto-cloud/internal/cache"
	"github.com/007-sistemas/ponto-cloud/internal/model"
	pkgerrors "github.com/007-sistemas/ponto-cloud/pkg/errors"
)

// ── Mock 本地缓存 ──

type mockStore struct {
	mu         sync.Mutex
	events     map[string]model.PunchEvent
	reqs       map[string]model.JustificationRequest
	facilities map[string]model.Facility
	sectors    map[string]model.Sector
	tombs      map[string]model.Tombstone
}

func newMockStore() *mockStore {
	return &mockStore{
		events:     make(map[string]model.PunchEvent),
		reqs:       make(map[string]model.JustificationRequest),
		facilities: make(map[string]model.Facility),
		sectors:    make(map[string]model.Sector),
		tombs:      make(map[string]model.Tombstone),
	}
}

var _ cache.Store = (*mockStore)(nil)

func (m *mockStore) ListPunchEvents(_ context.Context, staffID string) ([]model.PunchEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []model.PunchEvent
	for _, e := range m.events {
		if staffID == "" || e.StaffID == staffID {
			result = append(result, e)
		}
	}
	return result, nil
}

func (m *mockStore) UpsertPunchEvent(_ context.Context, event *model.PunchEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events[event.EventID] = *event
	return nil
}

func (m *mockStore) DeletePunchEvent(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.events, id)
	return nil
}

func (m *mockStore) ListUnsyncedPunchEvents(_ context.Context) ([]model.PunchEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []model.PunchEvent
	for _, e := range m.events {
		if !e.Synced {
			result = append(result, e)
		}
	}
	return result, nil
}

func (m *mockStore) ReplacePunchEvents(_ context.Context, remote []model.PunchEvent, staffID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var local []model.PunchEvent
	for _, e := range m.events {
		if !e.Synced && (staffID == "" || e.StaffID == staffID) {
			local = append(local, e)
		}
	}
	var tombs []model.Tombstone
	for _, t := range m.tombs {
		tombs = append(tombs, t)
	}
	merged := cache.MergeRemotePunchEvents(local, remote, cache.TombstoneSet(tombs, model.EntityPunchEvent))

	for id, e := range m.events {
		if staffID == "" || e.StaffID == staffID {
			delete(m.events, id)
		}
	}
	for _, e := range merged {
		m.events[e.EventID] = e
	}
	return nil
}

func (m *mockStore) ListJustifications(_ context.Context) ([]model.JustificationRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []model.JustificationRequest
	for _, r := range m.reqs {
		result = append(result, r)
	}
	return result, nil
}

func (m *mockStore) GetJustification(_ context.Context, id string) (*model.JustificationRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r, ok := m.reqs[id]; ok {
		return &r, nil
	}
	return nil, pkgerrors.ErrNotFound
}

func (m *mockStore) UpsertJustification(_ context.Context, req *model.JustificationRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reqs[req.RequestID] = *req
	return nil
}

func (m *mockStore) DeleteJustification(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.reqs, id)
	return nil
}

func (m *mockStore) ListUnsyncedJustifications(_ context.Context) ([]model.JustificationRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []model.JustificationRequest
	for _, r := range m.reqs {
		if !r.Synced {
			result = append(result, r)
		}
	}
	return result, nil
}

func (m *mockStore) ReplaceJustifications(_ context.Context, remote []model.JustificationRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var local []model.JustificationRequest
	for _, r := range m.reqs {
		if !r.Synced {
			local = append(local, r)
		}
	}
	var tombs []model.Tombstone
	for _, t := range m.tombs {
		tombs = append(tombs, t)
	}
	merged := cache.MergeRemoteJustifications(local, remote, cache.TombstoneSet(tombs, model.EntityJustification))

	m.reqs = make(map[string]model.JustificationRequest)
	for _, r := range merged {
		m.reqs[r.RequestID] = r
	}
	return nil
}

func (m *mockStore) AddTombstone(_ context.Context, t *model.Tombstone) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := t.Entity + "/" + t.RecordID
	if _, ok := m.tombs[key]; !ok {
		m.tombs[key] = *t
	}
	return nil
}

func (m *mockStore) ListTombstones(_ context.Context) ([]model.Tombstone, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []model.Tombstone
	for _, t := range m.tombs {
		result = append(result, t)
	}
	return result, nil
}

func (m *mockStore) RemoveTombstone(_ context.Context, entity, recordID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.tombs, entity+"/"+recordID)
	return nil
}

func (m *mockStore) ListFacilities(_ context.Context) ([]model.Facility, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []model.Facility
	for _, f := range m.facilities {
		result = append(result, f)
	}
	return result, nil
}

func (m *mockStore) ListSectorsForFacility(_ context.Context, facilityID string) ([]model.Sector, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []model.Sector
	for _, s := range m.sectors {
		if s.FacilityID == facilityID {
			result = append(result, s)
		}
	}
	return result, nil
}

func (m *mockStore) ReplaceFacilities(_ context.Context, facilities []model.Facility) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.facilities = make(map[string]model.Facility)
	for _, f := range facilities {
		m.facilities[f.FacilityID] = f
	}
	return nil
}

func (m *mockStore) ReplaceSectors(_ context.Context, sectors []model.Sector) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sectors = make(map[string]model.Sector)
	for _, s := range sectors {
		m.sectors[s.SectorID] = s
	}
	return nil
}

// ── Mock 远端网关 ──

type mockGateway struct {
	mu     sync.Mutex
	events map[string]model.PunchEvent
	reqs   map[string]model.JustificationRequest
	// unavailable 为 true 时所有操作返回远端不可用
	unavailable bool
	// failUpserts 为 true 时仅写入失败（拉取正常）：模拟推送失败但
	// 并发读已在途的竞态
	failUpserts bool
	upsertCount int
	deleteCount int
}

func newMockGateway() *mockGateway {
	return &mockGateway{
		events: make(map[string]model.PunchEvent),
		reqs:   make(map[string]model.JustificationRequest),
	}
}

func (m *mockGateway) ListPunchEvents(_ context.Context, staffID string) ([]model.PunchEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.unavailable {
		return nil, pkgerrors.ErrRemoteUnavailable
	}
	var result []model.PunchEvent
	for _, e := range m.events {
		if staffID == "" || e.StaffID == staffID {
			result = append(result, e)
		}
	}
	return result, nil
}

func (m *mockGateway) UpsertPunchEvent(_ context.Context, event *model.PunchEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.unavailable || m.failUpserts {
		return pkgerrors.ErrRemoteUnavailable
	}
	e := *event
	e.Synced = true
	m.events[e.EventID] = e
	m.upsertCount++
	return nil
}

func (m *mockGateway) DeletePunchEvent(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.unavailable {
		return pkgerrors.ErrRemoteUnavailable
	}
	event, ok := m.events[id]
	if !ok {
		return pkgerrors.ErrNotFound
	}
	delete(m.events, id)
	if event.PairedEventID != nil {
		delete(m.events, *event.PairedEventID)
	}
	m.deleteCount++
	return nil
}

func (m *mockGateway) ListJustifications(_ context.Context) ([]model.JustificationRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.unavailable {
		return nil, pkgerrors.ErrRemoteUnavailable
	}
	var result []model.JustificationRequest
	for _, r := range m.reqs {
		result = append(result, r)
	}
	return result, nil
}

func (m *mockGateway) UpsertJustification(_ context.Context, req *model.JustificationRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.unavailable || m.failUpserts {
		return pkgerrors.ErrRemoteUnavailable
	}
	r := *req
	r.Synced = true
	m.reqs[r.RequestID] = r
	return nil
}

func (m *mockGateway) DeleteJustification(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.unavailable {
		return pkgerrors.ErrRemoteUnavailable
	}
	if _, ok := m.reqs[id]; !ok {
		return pkgerrors.ErrNotFound
	}
	delete(m.reqs, id)
	m.deleteCount++
	return nil
}

func (m *mockGateway) ListFacilities(_ context.Context) ([]model.Facility, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.unavailable {
		return nil, pkgerrors.ErrRemoteUnavailable
	}
	return nil, nil
}

func (m *mockGateway) ListSectorsForFacility(_ context.Context, _ string) ([]model.Sector, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.unavailable {
		return nil, pkgerrors.ErrRemoteUnavailable
	}
	return nil, nil
}

func (m *mockGateway) setUnavailable(v bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.unavailable = v
}
