package domain

import "time"

type OfferStatus string

const (
	OfferDraft    OfferStatus = "draft"
	OfferPending  OfferStatus = "pending" // 等待管理员审核
	OfferActive   OfferStatus = "active"
	OfferRented   OfferStatus = "rented"
	OfferClosed   OfferStatus = "closed"
	OfferArchived OfferStatus = "archived"
)

type Offer struct {
	ID      string      `gorm:"primaryKey;type:varchar(32)" json:"id"`
	OwnerID string      `gorm:"index;type:varchar(32);not null" json:"ownerId"`
	Status  OfferStatus `gorm:"size:16;not null;default:draft" json:"status"`

	Title       string `gorm:"size:128;not null" json:"title" binding:"required,max=128"`
	Description string `gorm:"size:2048" json:"description" binding:"omitempty,max=2048"`
	City        string `gorm:"size:64;index" json:"city" binding:"omitempty,max=64"`
	Address     string `gorm:"size:191" json:"address" binding:"omitempty,max=191"`
	PriceCents  int64  `gorm:"not null;default:0" json:"priceCents" binding:"omitempty,min=0"`
	Surface     int    `json:"surface" binding:"omitempty,min=0"`

	// 槽位用显式计数，不从申请状态反推
	Capacity   int `gorm:"not null;default:1" json:"capacity" binding:"omitempty,min=1,max=16"`
	SlotsTaken int `gorm:"not null;default:0" json:"slotsTaken" binding:"-"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (Offer) TableName() string { return "offers" }

func (o *Offer) Full() bool { return o.SlotsTaken >= o.Capacity }

// 归属访问器，供 owner 维度的通用 CRUD 使用
func (o *Offer) GetID() string        { return o.ID }
func (o *Offer) SetID(id string)      { o.ID = id }
func (o *Offer) GetOwnerID() string   { return o.OwnerID }
func (o *Offer) SetOwnerID(id string) { o.OwnerID = id }
