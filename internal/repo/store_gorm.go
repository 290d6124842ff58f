package repo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"roomatch/internal/domain"
)

// GormStore domain.Store 的 gorm 实现。查不到 → (nil, nil)，
// 其余数据库错误包成 domain.ErrStorageUnavailable（可重试类别）。
type GormStore struct{ db *gorm.DB }

func NewGormStore(db *gorm.DB) *GormStore { return &GormStore{db: db} }

func (s *GormStore) AutoMigrate() error {
	return s.db.AutoMigrate(
		&domain.User{},
		&domain.Offer{},
		&domain.Application{},
		&domain.Favorite{},
		&domain.Sejour{},
		&domain.Feedback{},
	)
}

func storageErr(err error) error {
	return fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
}

// isDupKey 不依赖 gorm.ErrDuplicatedKey，避免驱动差异
func isDupKey(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "unique violation") ||
		strings.Contains(msg, "duplicate key")
}

func first[T any](db *gorm.DB, cond string, args ...any) (*T, error) {
	var m T
	err := db.First(&m, append([]any{cond}, args...)...).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, storageErr(err)
	}
	return &m, nil
}

func (s *GormStore) create(ctx context.Context, m any) error {
	if err := s.db.WithContext(ctx).Create(m).Error; err != nil {
		if isDupKey(err) {
			return domain.ErrAlreadyExists
		}
		return storageErr(err)
	}
	return nil
}

/* ---------- users ---------- */

func (s *GormStore) CreateUser(ctx context.Context, u *domain.User) error {
	return s.create(ctx, u)
}

func (s *GormStore) FindUserByID(ctx context.Context, id string) (*domain.User, error) {
	return first[domain.User](s.db.WithContext(ctx), "id = ?", id)
}

func (s *GormStore) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return first[domain.User](s.db.WithContext(ctx), "email = ?", email)
}

func (s *GormStore) UpdateUser(ctx context.Context, u *domain.User) error {
	if err := s.db.WithContext(ctx).Save(u).Error; err != nil {
		return storageErr(err)
	}
	return nil
}

func (s *GormStore) FindUserAuthFlags(ctx context.Context, id string) (*domain.AuthFlags, error) {
	var row struct {
		IsAdmin         bool
		ProfileComplete bool
	}
	err := s.db.WithContext(ctx).Model(&domain.User{}).
		Select("is_admin", "profile_complete").
		Where("id = ?", id).
		Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, storageErr(err)
	}
	return &domain.AuthFlags{IsAdmin: row.IsAdmin, ProfileComplete: row.ProfileComplete}, nil
}

/* ---------- offers ---------- */

func (s *GormStore) FindOfferByID(ctx context.Context, id string) (*domain.Offer, error) {
	return first[domain.Offer](s.db.WithContext(ctx), "id = ?", id)
}

func (s *GormStore) UpdateOfferStatus(ctx context.Context, id string, to domain.OfferStatus) error {
	res := s.db.WithContext(ctx).Model(&domain.Offer{}).
		Where("id = ?", id).
		Update("status", to)
	if res.Error != nil {
		return storageErr(res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (s *GormStore) ClaimOfferSlot(ctx context.Context, offerID string) (bool, error) {
	res := s.db.WithContext(ctx).Model(&domain.Offer{}).
		Where("id = ? AND slots_taken < capacity", offerID).
		UpdateColumn("slots_taken", gorm.Expr("slots_taken + 1"))
	if res.Error != nil {
		return false, storageErr(res.Error)
	}
	return res.RowsAffected == 1, nil
}

func (s *GormStore) ReleaseOfferSlot(ctx context.Context, offerID string) error {
	res := s.db.WithContext(ctx).Model(&domain.Offer{}).
		Where("id = ? AND slots_taken > 0", offerID).
		UpdateColumn("slots_taken", gorm.Expr("slots_taken - 1"))
	if res.Error != nil {
		return storageErr(res.Error)
	}
	return nil
}

func (s *GormStore) ListOffersByStatus(ctx context.Context, status domain.OfferStatus, offset, limit int) ([]domain.Offer, int64, error) {
	q := s.db.WithContext(ctx).Model(&domain.Offer{}).Where("status = ?", status)
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, storageErr(err)
	}
	var offers []domain.Offer
	if err := q.Order("created_at DESC").Offset(offset).Limit(limit).Find(&offers).Error; err != nil {
		return nil, 0, storageErr(err)
	}
	return offers, total, nil
}

/* ---------- applications ---------- */

func (s *GormStore) CreateApplication(ctx context.Context, a *domain.Application) error {
	return s.create(ctx, a)
}

func (s *GormStore) FindApplicationByID(ctx context.Context, id string) (*domain.Application, error) {
	return first[domain.Application](s.db.WithContext(ctx), "id = ?", id)
}

func (s *GormStore) ListApplicationsByOffer(ctx context.Context, offerID string) ([]domain.Application, error) {
	var apps []domain.Application
	err := s.db.WithContext(ctx).
		Where("offer_id = ?", offerID).
		Order("created_at ASC").
		Find(&apps).Error
	if err != nil {
		return nil, storageErr(err)
	}
	return apps, nil
}

func (s *GormStore) ListApplicationsByApplicant(ctx context.Context, applicantID string) ([]domain.Application, error) {
	var apps []domain.Application
	err := s.db.WithContext(ctx).
		Where("applicant_id = ?", applicantID).
		Order("created_at DESC").
		Find(&apps).Error
	if err != nil {
		return nil, storageErr(err)
	}
	return apps, nil
}

func (s *GormStore) FindOpenApplication(ctx context.Context, offerID, applicantID string) (*domain.Application, error) {
	return first[domain.Application](s.db.WithContext(ctx),
		"offer_id = ? AND applicant_id = ? AND status <> ?",
		offerID, applicantID, domain.ApplicationRejected)
}

func (s *GormStore) UpdateApplicationStatus(ctx context.Context, id string, from, to domain.ApplicationStatus) (bool, error) {
	res := s.db.WithContext(ctx).Model(&domain.Application{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if res.Error != nil {
		return false, storageErr(res.Error)
	}
	return res.RowsAffected == 1, nil
}

/* ---------- favorites ---------- */

func (s *GormStore) FindFavorite(ctx context.Context, userID, offerID string) (*domain.Favorite, error) {
	return first[domain.Favorite](s.db.WithContext(ctx), "user_id = ? AND offer_id = ?", userID, offerID)
}

func (s *GormStore) CreateFavorite(ctx context.Context, f *domain.Favorite) error {
	return s.create(ctx, f)
}

func (s *GormStore) DeleteFavorite(ctx context.Context, id string) error {
	if err := s.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Favorite{}).Error; err != nil {
		return storageErr(err)
	}
	return nil
}

func (s *GormStore) ListFavoritesByUser(ctx context.Context, userID string) ([]domain.Favorite, error) {
	var favs []domain.Favorite
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&favs).Error
	if err != nil {
		return nil, storageErr(err)
	}
	return favs, nil
}

/* ---------- sejours ---------- */

func (s *GormStore) CreateSejour(ctx context.Context, sj *domain.Sejour) error {
	return s.create(ctx, sj)
}

func (s *GormStore) FindSejourByID(ctx context.Context, id string) (*domain.Sejour, error) {
	return first[domain.Sejour](s.db.WithContext(ctx), "id = ?", id)
}

func (s *GormStore) ListSejoursByUser(ctx context.Context, userID string) ([]domain.Sejour, error) {
	var sjs []domain.Sejour
	err := s.db.WithContext(ctx).
		Where("owner_id = ? OR tenant_id = ?", userID, userID).
		Order("start_date DESC").
		Find(&sjs).Error
	if err != nil {
		return nil, storageErr(err)
	}
	return sjs, nil
}

func (s *GormStore) SetSejourEnd(ctx context.Context, sejourID string, end time.Time) error {
	res := s.db.WithContext(ctx).Model(&domain.Sejour{}).
		Where("id = ?", sejourID).
		Update("end_date", end)
	if res.Error != nil {
		return storageErr(res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (s *GormStore) SetFeedbackFlag(ctx context.Context, sejourID, party string) error {
	col := "owner_feedback_given"
	if party == "tenant" {
		col = "tenant_feedback_given"
	}
	res := s.db.WithContext(ctx).Model(&domain.Sejour{}).
		Where("id = ?", sejourID).
		Update(col, true)
	if res.Error != nil {
		return storageErr(res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

/* ---------- feedback ---------- */

func (s *GormStore) CreateFeedback(ctx context.Context, f *domain.Feedback) error {
	return s.create(ctx, f)
}

func (s *GormStore) FindFeedback(ctx context.Context, sejourID, authorID string, t domain.FeedbackType) (*domain.Feedback, error) {
	return first[domain.Feedback](s.db.WithContext(ctx),
		"sejour_id = ? AND author_id = ? AND type = ?", sejourID, authorID, t)
}

func (s *GormStore) ListFeedbackByTarget(ctx context.Context, targetID string) ([]domain.Feedback, error) {
	var fbs []domain.Feedback
	err := s.db.WithContext(ctx).
		Where("target_id = ?", targetID).
		Order("created_at DESC").
		Find(&fbs).Error
	if err != nil {
		return nil, storageErr(err)
	}
	return fbs, nil
}

/* ---------- tx ---------- */

// InTransaction 回调内拿到的是绑定事务的 Store，回调报错整体回滚
func (s *GormStore) InTransaction(ctx context.Context, fn func(tx domain.Store) error) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormStore{db: tx})
	})
	if err == nil {
		return nil
	}
	// 领域错误原样穿透，其余算存储故障
	for _, known := range []error{
		domain.ErrUnauthorized, domain.ErrForbidden, domain.ErrNotFound,
		domain.ErrInvalidTransition, domain.ErrDuplicateApp, domain.ErrDuplicateFeedback,
		domain.ErrInvalidRating, domain.ErrSelfApplication, domain.ErrOfferNotAccepting,
		domain.ErrAlreadyExists, domain.ErrStorageUnavailable,
	} {
		if errors.Is(err, known) {
			return err
		}
	}
	return storageErr(err)
}
