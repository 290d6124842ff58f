package domain

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	ID           string `gorm:"primaryKey;type:varchar(32)" json:"id"`
	Email        string `gorm:"uniqueIndex;size:191;not null" json:"email"`
	Name         string `gorm:"size:64" json:"name"`
	PasswordHash string `gorm:"size:100;not null" json:"-"`
	Phone        string `gorm:"size:32" json:"phone"`
	Bio          string `gorm:"size:512" json:"bio"`

	IsAdmin bool `gorm:"not null;default:false" json:"isAdmin"`
	// ProfileComplete 只由资料提交置 true，正常流程不会回退 false
	ProfileComplete bool `gorm:"not null;default:false" json:"profileComplete"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string { return "users" }

// AuthFlags 每次请求从库里重读的权威标志（不信任 token 里的旧快照）
type AuthFlags struct {
	IsAdmin         bool
	ProfileComplete bool
}
