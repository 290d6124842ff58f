package domain

import "time"

// Sejour 只由申请被接受时的级联创建，绝不由用户动作直接建
type Sejour struct {
	ID       string `gorm:"primaryKey;type:varchar(32)" json:"id"`
	OfferID  string `gorm:"index;type:varchar(32);not null" json:"offerId"`
	OwnerID  string `gorm:"index;type:varchar(32);not null" json:"ownerId"`
	TenantID string `gorm:"index;type:varchar(32);not null" json:"tenantId"`

	StartDate time.Time  `gorm:"not null" json:"startDate"`
	EndDate   *time.Time `json:"endDate,omitempty"`

	// 每方至多评一次
	OwnerFeedbackGiven  bool `gorm:"not null;default:false" json:"ownerFeedbackGiven"`
	TenantFeedbackGiven bool `gorm:"not null;default:false" json:"tenantFeedbackGiven"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

func (Sejour) TableName() string { return "sejours" }

// PartyOf 返回 uid 在本次入住中的角色（"owner"/"tenant"/""）
func (s *Sejour) PartyOf(uid string) string {
	switch uid {
	case s.OwnerID:
		return "owner"
	case s.TenantID:
		return "tenant"
	}
	return ""
}
