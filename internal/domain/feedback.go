package domain

import "time"

type FeedbackType string

const (
	// FeedbackAboutOwner 租客评房东
	FeedbackAboutOwner FeedbackType = "owner"
	// FeedbackAboutTenant 房东评租客
	FeedbackAboutTenant FeedbackType = "tenant"
)

type Feedback struct {
	ID       string       `gorm:"primaryKey;type:varchar(32)" json:"id"`
	SejourID string       `gorm:"uniqueIndex:uq_fb_sejour_author_type;type:varchar(32);not null" json:"sejourId"`
	AuthorID string       `gorm:"uniqueIndex:uq_fb_sejour_author_type;type:varchar(32);not null" json:"authorId"`
	TargetID string       `gorm:"index;type:varchar(32);not null" json:"targetId"`
	Type     FeedbackType `gorm:"uniqueIndex:uq_fb_sejour_author_type;size:8;not null" json:"type"`

	Rating  int    `gorm:"not null" json:"rating"`
	Comment string `gorm:"size:1024" json:"comment"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

func (Feedback) TableName() string { return "feedbacks" }
