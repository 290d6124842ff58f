package lifecycle

import (
	"context"

	"go.uber.org/zap"

	"roomatch/internal/domain"
)

// offerEdges 状态图的唯一出处。archived 是唯一终态；
// rented/closed 对业主可重开（退租/重新上架）。
var offerEdges = map[domain.OfferStatus][]domain.OfferStatus{
	domain.OfferDraft:    {domain.OfferPending},
	domain.OfferPending:  {domain.OfferActive}, // 仅管理员审核通过
	domain.OfferActive:   {domain.OfferRented, domain.OfferClosed, domain.OfferArchived, domain.OfferDraft},
	domain.OfferRented:   {domain.OfferActive},
	domain.OfferClosed:   {domain.OfferActive},
	domain.OfferArchived: {},
}

func legalEdge(from, to domain.OfferStatus) bool {
	for _, t := range offerEdges[from] {
		if t == to {
			return true
		}
	}
	return false
}

// ChangeOfferStatus 业主可走除 pending→active 之外的全部合法边，
// pending→active 只有管理员能走（上架审核）。
func (s *Service) ChangeOfferStatus(ctx context.Context, actorID string, actorAdmin bool, offerID string, to domain.OfferStatus) (*domain.Offer, error) {
	var out *domain.Offer
	err := s.store.InTransaction(ctx, func(tx domain.Store) error {
		off, err := tx.FindOfferByID(ctx, offerID)
		if err != nil {
			return err
		}
		if off == nil {
			return domain.ErrNotFound
		}
		if off.OwnerID != actorID && !actorAdmin {
			return domain.ErrForbidden
		}
		if !legalEdge(off.Status, to) {
			return domain.ErrInvalidTransition
		}
		if off.Status == domain.OfferPending && to == domain.OfferActive && !actorAdmin {
			return domain.ErrForbidden
		}
		if err := tx.UpdateOfferStatus(ctx, off.ID, to); err != nil {
			return err
		}
		off.Status = to
		out = off
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("offer status changed", zap.String("offer", offerID), zap.String("to", string(to)))
	return out, nil
}

// EndSejour 结束入住：记 endDate、释放一个槽位，offer 若在 rented
// 则回到 active 重新可申。入住双方或管理员可操作。
func (s *Service) EndSejour(ctx context.Context, actorID string, actorAdmin bool, sejourID string) error {
	return s.store.InTransaction(ctx, func(tx domain.Store) error {
		sj, err := tx.FindSejourByID(ctx, sejourID)
		if err != nil {
			return err
		}
		if sj == nil {
			return domain.ErrNotFound
		}
		if sj.PartyOf(actorID) == "" && !actorAdmin {
			return domain.ErrForbidden
		}
		if sj.EndDate != nil {
			return domain.ErrInvalidTransition
		}
		if err := tx.SetSejourEnd(ctx, sj.ID, s.now()); err != nil {
			return err
		}
		if err := tx.ReleaseOfferSlot(ctx, sj.OfferID); err != nil {
			return err
		}
		off, err := tx.FindOfferByID(ctx, sj.OfferID)
		if err != nil {
			return err
		}
		if off != nil && off.Status == domain.OfferRented {
			if err := tx.UpdateOfferStatus(ctx, off.ID, domain.OfferActive); err != nil {
				return err
			}
		}
		return nil
	})
}
