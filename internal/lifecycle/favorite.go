package lifecycle

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"roomatch/internal/domain"
	"roomatch/pkg/utils"
)

type ToggleResult struct {
	IsFavorited bool `json:"isFavorited"`
}

// ToggleFavorite 有则删、无则建。并发下以 (userId, offerId) 唯一索引
// 为准：创建撞唯一键就当别的请求刚收藏过，按"已收藏"返回。
func (s *Service) ToggleFavorite(ctx context.Context, userID, offerID string) (ToggleResult, error) {
	off, err := s.store.FindOfferByID(ctx, offerID)
	if err != nil {
		return ToggleResult{}, err
	}
	if off == nil {
		return ToggleResult{}, domain.ErrNotFound
	}

	existing, err := s.store.FindFavorite(ctx, userID, offerID)
	if err != nil {
		return ToggleResult{}, err
	}
	if existing != nil {
		if err := s.store.DeleteFavorite(ctx, existing.ID); err != nil {
			return ToggleResult{}, err
		}
		return ToggleResult{IsFavorited: false}, nil
	}

	err = s.store.CreateFavorite(ctx, &domain.Favorite{
		ID:      utils.NewID(),
		UserID:  userID,
		OfferID: offerID,
	})
	if errors.Is(err, domain.ErrAlreadyExists) {
		return ToggleResult{IsFavorited: true}, nil
	}
	if err != nil {
		return ToggleResult{}, err
	}
	s.log.Debug("favorite toggled on", zap.String("user", userID), zap.String("offer", offerID))
	return ToggleResult{IsFavorited: true}, nil
}
