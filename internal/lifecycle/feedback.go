package lifecycle

import (
	"context"
	"errors"

	"roomatch/internal/domain"
	"roomatch/pkg/utils"
)

// CreateFeedback 入住双方各评对方一次：房东只能交 type=tenant（评租客），
// 租客只能交 type=owner（评房东）。对应一方的 *FeedbackGiven 已置位
// 即重复。评分 1..5 整数。
func (s *Service) CreateFeedback(ctx context.Context, authorID, sejourID string, t domain.FeedbackType, rating int, comment string) (*domain.Feedback, error) {
	if rating < 1 || rating > 5 {
		return nil, domain.ErrInvalidRating
	}
	var out *domain.Feedback
	err := s.store.InTransaction(ctx, func(tx domain.Store) error {
		sj, err := tx.FindSejourByID(ctx, sejourID)
		if err != nil {
			return err
		}
		if sj == nil {
			return domain.ErrNotFound
		}

		party := sj.PartyOf(authorID)
		var target string
		switch {
		case party == "owner" && t == domain.FeedbackAboutTenant:
			if sj.OwnerFeedbackGiven {
				return domain.ErrDuplicateFeedback
			}
			target = sj.TenantID
		case party == "tenant" && t == domain.FeedbackAboutOwner:
			if sj.TenantFeedbackGiven {
				return domain.ErrDuplicateFeedback
			}
			target = sj.OwnerID
		default:
			// 非当事人，或 type 跟角色对不上
			return domain.ErrForbidden
		}

		fb := &domain.Feedback{
			ID:       utils.NewID(),
			SejourID: sj.ID,
			AuthorID: authorID,
			TargetID: target,
			Type:     t,
			Rating:   rating,
			Comment:  comment,
		}
		if err := tx.CreateFeedback(ctx, fb); err != nil {
			if errors.Is(err, domain.ErrAlreadyExists) {
				return domain.ErrDuplicateFeedback
			}
			return err
		}
		if err := tx.SetFeedbackFlag(ctx, sj.ID, party); err != nil {
			return err
		}
		out = fb
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
