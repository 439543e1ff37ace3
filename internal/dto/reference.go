package dto

// ── 参照数据 DTO ──

// FacilityResponse 院区响应
type FacilityResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// SectorResponse 科室响应
type SectorResponse struct {
	ID         string `json:"id"`
	FacilityID string `json:"facility_id"`
	Name       string `json:"name"`
}
