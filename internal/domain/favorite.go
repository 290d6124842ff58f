package domain

import "time"

// Favorite (userId, offerId) 唯一，toggle 语义依赖这个唯一索引兜底并发
type Favorite struct {
	ID      string `gorm:"primaryKey;type:varchar(32)" json:"id"`
	UserID  string `gorm:"uniqueIndex:uq_fav_user_offer;type:varchar(32);not null" json:"userId"`
	OfferID string `gorm:"uniqueIndex:uq_fav_user_offer;type:varchar(32);not null" json:"offerId"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

func (Favorite) TableName() string { return "favorites" }
