package domain

import (
	"context"
	"time"
)

// Store 核心消费的数据访问契约。Find* 查不到返回 (nil, nil)，
// 底层故障统一包成 ErrStorageUnavailable。
type Store interface {
	CreateUser(ctx context.Context, u *User) error
	FindUserByID(ctx context.Context, id string) (*User, error)
	FindUserByEmail(ctx context.Context, email string) (*User, error)
	UpdateUser(ctx context.Context, u *User) error
	FindUserAuthFlags(ctx context.Context, id string) (*AuthFlags, error)

	FindOfferByID(ctx context.Context, id string) (*Offer, error)
	UpdateOfferStatus(ctx context.Context, id string, to OfferStatus) error
	// ClaimOfferSlot 原子执行 slots_taken+1（仅当未满），返回是否抢到
	ClaimOfferSlot(ctx context.Context, offerID string) (bool, error)
	ListOffersByStatus(ctx context.Context, status OfferStatus, offset, limit int) ([]Offer, int64, error)

	CreateApplication(ctx context.Context, a *Application) error
	FindApplicationByID(ctx context.Context, id string) (*Application, error)
	ListApplicationsByOffer(ctx context.Context, offerID string) ([]Application, error)
	ListApplicationsByApplicant(ctx context.Context, applicantID string) ([]Application, error)
	// FindOpenApplication 查该申请人在该 offer 上未被拒绝的申请
	FindOpenApplication(ctx context.Context, offerID, applicantID string) (*Application, error)
	// UpdateApplicationStatus 状态 CAS：仅当当前状态为 from 才写 to，返回是否写成
	UpdateApplicationStatus(ctx context.Context, id string, from, to ApplicationStatus) (bool, error)

	FindFavorite(ctx context.Context, userID, offerID string) (*Favorite, error)
	CreateFavorite(ctx context.Context, f *Favorite) error
	DeleteFavorite(ctx context.Context, id string) error
	ListFavoritesByUser(ctx context.Context, userID string) ([]Favorite, error)

	CreateSejour(ctx context.Context, s *Sejour) error
	FindSejourByID(ctx context.Context, id string) (*Sejour, error)
	ListSejoursByUser(ctx context.Context, userID string) ([]Sejour, error)
	SetSejourEnd(ctx context.Context, sejourID string, end time.Time) error
	// SetFeedbackFlag party ∈ {"owner","tenant"}，置对应一方的 *FeedbackGiven
	SetFeedbackFlag(ctx context.Context, sejourID, party string) error
	// ReleaseOfferSlot slots_taken-1，下限 0
	ReleaseOfferSlot(ctx context.Context, offerID string) error

	CreateFeedback(ctx context.Context, f *Feedback) error
	FindFeedback(ctx context.Context, sejourID, authorID string, t FeedbackType) (*Feedback, error)
	ListFeedbackByTarget(ctx context.Context, targetID string) ([]Feedback, error)

	// InTransaction 内的回调拿到的是绑定事务的 Store；回调返回错误则整体回滚
	InTransaction(ctx context.Context, fn func(tx Store) error) error
}
