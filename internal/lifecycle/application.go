package lifecycle

import (
	"context"

	"go.uber.org/zap"

	"roomatch/internal/domain"
	"roomatch/pkg/utils"
)

// CreateApplication 申请入住。自己的 offer 不能申、非 active 不收申请、
// 同一 offer 上已有未被拒的申请不能重复申。
func (s *Service) CreateApplication(ctx context.Context, applicantID, offerID, message string) (*domain.Application, error) {
	var out *domain.Application
	err := s.store.InTransaction(ctx, func(tx domain.Store) error {
		off, err := tx.FindOfferByID(ctx, offerID)
		if err != nil {
			return err
		}
		if off == nil {
			return domain.ErrNotFound
		}
		if off.OwnerID == applicantID {
			return domain.ErrSelfApplication
		}
		if off.Status != domain.OfferActive {
			return domain.ErrOfferNotAccepting
		}
		open, err := tx.FindOpenApplication(ctx, offerID, applicantID)
		if err != nil {
			return err
		}
		if open != nil {
			return domain.ErrDuplicateApp
		}
		a := &domain.Application{
			ID:          utils.NewID(),
			OfferID:     offerID,
			ApplicantID: applicantID,
			Status:      domain.ApplicationPending,
			Message:     message,
		}
		if err := tx.CreateApplication(ctx, a); err != nil {
			return err
		}
		out = a
		return nil
	})
	return out, err
}

// AcceptApplication 接受申请，四步级联一个事务：目标置 accepted、
// offer 满员时其余 pending 全部 rejected、创建 Sejour、满员时 offer
// 转 rented。并发 accept 靠状态 CAS 决出唯一赢家，输家拿
// ErrInvalidTransition。
func (s *Service) AcceptApplication(ctx context.Context, actorID string, actorAdmin bool, applicationID string) (*domain.Sejour, error) {
	var sejour *domain.Sejour
	err := s.store.InTransaction(ctx, func(tx domain.Store) error {
		app, err := tx.FindApplicationByID(ctx, applicationID)
		if err != nil {
			return err
		}
		if app == nil {
			return domain.ErrNotFound
		}
		off, err := tx.FindOfferByID(ctx, app.OfferID)
		if err != nil {
			return err
		}
		if off == nil {
			return domain.ErrNotFound
		}
		if off.OwnerID != actorID && !actorAdmin {
			return domain.ErrForbidden
		}
		if app.Status != domain.ApplicationPending {
			return domain.ErrInvalidTransition
		}

		// CAS：赢家提交后输家的这一步写不动
		ok, err := tx.UpdateApplicationStatus(ctx, app.ID, domain.ApplicationPending, domain.ApplicationAccepted)
		if err != nil {
			return err
		}
		if !ok {
			return domain.ErrInvalidTransition
		}
		claimed, err := tx.ClaimOfferSlot(ctx, off.ID)
		if err != nil {
			return err
		}
		if !claimed {
			// 没槽位了（并发下另一个 accept 先占满）
			return domain.ErrInvalidTransition
		}

		sj := &domain.Sejour{
			ID:        utils.NewID(),
			OfferID:   off.ID,
			OwnerID:   off.OwnerID,
			TenantID:  app.ApplicantID,
			StartDate: s.now(),
		}
		if err := tx.CreateSejour(ctx, sj); err != nil {
			return err
		}

		// 事务内重读拿到占槽后的计数
		off, err = tx.FindOfferByID(ctx, off.ID)
		if err != nil {
			return err
		}
		if off.Full() {
			apps, err := tx.ListApplicationsByOffer(ctx, off.ID)
			if err != nil {
				return err
			}
			for i := range apps {
				other := &apps[i]
				if other.ID == app.ID || other.Status != domain.ApplicationPending {
					continue
				}
				if _, err := tx.UpdateApplicationStatus(ctx, other.ID, domain.ApplicationPending, domain.ApplicationRejected); err != nil {
					return err
				}
			}
			if err := tx.UpdateOfferStatus(ctx, off.ID, domain.OfferRented); err != nil {
				return err
			}
		}
		sejour = sj
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("application accepted",
		zap.String("application", applicationID),
		zap.String("sejour", sejour.ID),
		zap.String("offer", sejour.OfferID),
	)
	return sejour, nil
}

// RejectApplication 拒绝，仅 pending 可拒，无级联
func (s *Service) RejectApplication(ctx context.Context, actorID string, actorAdmin bool, applicationID string) error {
	return s.store.InTransaction(ctx, func(tx domain.Store) error {
		app, err := tx.FindApplicationByID(ctx, applicationID)
		if err != nil {
			return err
		}
		if app == nil {
			return domain.ErrNotFound
		}
		off, err := tx.FindOfferByID(ctx, app.OfferID)
		if err != nil {
			return err
		}
		if off == nil {
			return domain.ErrNotFound
		}
		if off.OwnerID != actorID && !actorAdmin {
			return domain.ErrForbidden
		}
		ok, err := tx.UpdateApplicationStatus(ctx, app.ID, domain.ApplicationPending, domain.ApplicationRejected)
		if err != nil {
			return err
		}
		if !ok {
			return domain.ErrInvalidTransition
		}
		return nil
	})
}

// WithdrawApplication 申请人自己撤回，落到 rejected 终态
func (s *Service) WithdrawApplication(ctx context.Context, applicantID, applicationID string) error {
	return s.store.InTransaction(ctx, func(tx domain.Store) error {
		app, err := tx.FindApplicationByID(ctx, applicationID)
		if err != nil {
			return err
		}
		if app == nil {
			return domain.ErrNotFound
		}
		if app.ApplicantID != applicantID {
			return domain.ErrForbidden
		}
		ok, err := tx.UpdateApplicationStatus(ctx, app.ID, domain.ApplicationPending, domain.ApplicationRejected)
		if err != nil {
			return err
		}
		if !ok {
			return domain.ErrInvalidTransition
		}
		return nil
	})
}
