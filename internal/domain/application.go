package domain

import "time"

type ApplicationStatus string

const (
	ApplicationPending  ApplicationStatus = "pending"
	ApplicationAccepted ApplicationStatus = "accepted"
	ApplicationRejected ApplicationStatus = "rejected"
)

// Terminal accepted/rejected 均为终态，没有任何出边
func (s ApplicationStatus) Terminal() bool { return s != ApplicationPending }

type Application struct {
	ID          string            `gorm:"primaryKey;type:varchar(32)" json:"id"`
	OfferID     string            `gorm:"index:idx_app_offer;type:varchar(32);not null" json:"offerId"`
	ApplicantID string            `gorm:"index;type:varchar(32);not null" json:"applicantId"`
	Status      ApplicationStatus `gorm:"size:16;not null;default:pending" json:"status"`
	Message     string            `gorm:"size:1024" json:"message"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (Application) TableName() string { return "applications" }
