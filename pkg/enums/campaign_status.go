package enums

import "fmt"

// CampaignStatus maps to the campaign_status enum in Postgres.
type CampaignStatus string

const (
	CampaignStatusDraft      CampaignStatus = "draft"
	CampaignStatusPending    CampaignStatus = "pending"
	CampaignStatusActive     CampaignStatus = "active"
	CampaignStatusRejected   CampaignStatus = "rejected"
	CampaignStatusSuccessful CampaignStatus = "successful"
	CampaignStatusFailed     CampaignStatus = "failed"
)

var validCampaignStatuses = []CampaignStatus{
	CampaignStatusDraft,
	CampaignStatusPending,
	CampaignStatusActive,
	CampaignStatusRejected,
	CampaignStatusSuccessful,
	CampaignStatusFailed,
}

// String implements fmt.Stringer.
func (s CampaignStatus) String() string {
	return string(s)
}

// IsValid reports whether the value matches the canonical campaign_status enum.
func (s CampaignStatus) IsValid() bool {
	for _, candidate := range validCampaignStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// CanTransitionTo reports whether the lifecycle allows moving to next.
// draft -> pending (creator submit), pending -> active|rejected (admin review),
// active -> successful|failed (close-out job once the end date passes).
func (s CampaignStatus) CanTransitionTo(next CampaignStatus) bool {
	switch s {
	case CampaignStatusDraft:
		return next == CampaignStatusPending
	case CampaignStatusPending:
		return next == CampaignStatusActive || next == CampaignStatusRejected
	case CampaignStatusActive:
		return next == CampaignStatusSuccessful || next == CampaignStatusFailed
	default:
		return false
	}
}

// ParseCampaignStatus converts raw input into CampaignStatus.
func ParseCampaignStatus(value string) (CampaignStatus, error) {
	for _, candidate := range validCampaignStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid campaign status %q", value)
}
