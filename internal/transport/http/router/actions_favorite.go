package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"roomatch/internal/domain"
	"roomatch/internal/lifecycle"
	httpez "roomatch/internal/transport/http/ez"
	mdw "roomatch/internal/transport/http/middleware"
)

func mountFavoriteActions(authed *gin.RouterGroup, d Deps) {
	ezAuth := httpez.New(authed)

	// --- POST /favorites/toggle 有则删无则建 ---
	type toggleIn struct {
		OfferID string `json:"offerId" binding:"required"`
	}
	httpez.RegisterAction[toggleIn, lifecycle.ToggleResult](ezAuth, d.DB, httpez.Action[toggleIn, lifecycle.ToggleResult]{
		Method: http.MethodPost,
		Path:   "/favorites/toggle",
		Binder: httpez.BindJSON,
		Handler: func(c *gin.Context, _ *gorm.DB, in *toggleIn) (lifecycle.ToggleResult, error) {
			return d.Lifecycle.ToggleFavorite(c.Request.Context(),
				c.GetString(mdw.KeyUserID), in.OfferID)
		},
	})

	// --- GET /favorites ---
	httpez.RegisterAction[struct{}, []domain.Favorite](ezAuth, d.DB, httpez.Action[struct{}, []domain.Favorite]{
		Method: http.MethodGet,
		Path:   "/favorites",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, _ *gorm.DB, _ *struct{}) ([]domain.Favorite, error) {
			return d.Store.ListFavoritesByUser(c.Request.Context(), c.GetString(mdw.KeyUserID))
		},
	})
}
