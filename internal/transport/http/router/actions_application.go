package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"roomatch/internal/domain"
	httpez "roomatch/internal/transport/http/ez"
	mdw "roomatch/internal/transport/http/middleware"
)

func mountApplicationActions(authed *gin.RouterGroup, d Deps) {
	ezAuth := httpez.New(authed)

	// --- POST /offers/:id/apply ---
	type applyIn struct {
		Message string `json:"message" binding:"omitempty,max=1024"`
	}
	httpez.RegisterAction[applyIn, *domain.Application](ezAuth, d.DB, httpez.Action[applyIn, *domain.Application]{
		Method: http.MethodPost,
		Path:   "/offers/:id/apply",
		Binder: httpez.BindJSON,
		Handler: func(c *gin.Context, _ *gorm.DB, in *applyIn) (*domain.Application, error) {
			return d.Lifecycle.CreateApplication(c.Request.Context(),
				c.GetString(mdw.KeyUserID), c.Param("id"), in.Message)
		},
	})

	// --- GET /applications/mine ---
	httpez.RegisterAction[struct{}, []domain.Application](ezAuth, d.DB, httpez.Action[struct{}, []domain.Application]{
		Method: http.MethodGet,
		Path:   "/applications/mine",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, _ *gorm.DB, _ *struct{}) ([]domain.Application, error) {
			return d.Store.ListApplicationsByApplicant(c.Request.Context(), c.GetString(mdw.KeyUserID))
		},
	})

	// --- POST /applications/:id/accept 四步级联在一个事务里 ---
	httpez.RegisterAction[struct{}, *domain.Sejour](ezAuth, d.DB, httpez.Action[struct{}, *domain.Sejour]{
		Method: http.MethodPost,
		Path:   "/applications/:id/accept",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, _ *gorm.DB, _ *struct{}) (*domain.Sejour, error) {
			sj, err := d.Lifecycle.AcceptApplication(c.Request.Context(),
				c.GetString(mdw.KeyUserID), c.GetBool(mdw.KeyIsAdmin), c.Param("id"))
			if err != nil {
				return nil, err
			}
			d.Cache.Invalidate(c.Request.Context(), offerCacheKey(sj.OfferID))
			return sj, nil
		},
	})

	// --- POST /applications/:id/reject ---
	httpez.RegisterAction[struct{}, gin.H](ezAuth, d.DB, httpez.Action[struct{}, gin.H]{
		Method: http.MethodPost,
		Path:   "/applications/:id/reject",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, _ *gorm.DB, _ *struct{}) (gin.H, error) {
			if err := d.Lifecycle.RejectApplication(c.Request.Context(),
				c.GetString(mdw.KeyUserID), c.GetBool(mdw.KeyIsAdmin), c.Param("id")); err != nil {
				return nil, err
			}
			return gin.H{"id": c.Param("id")}, nil
		},
	})

	// --- POST /applications/:id/withdraw 申请人自己撤回 ---
	httpez.RegisterAction[struct{}, gin.H](ezAuth, d.DB, httpez.Action[struct{}, gin.H]{
		Method: http.MethodPost,
		Path:   "/applications/:id/withdraw",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, _ *gorm.DB, _ *struct{}) (gin.H, error) {
			if err := d.Lifecycle.WithdrawApplication(c.Request.Context(),
				c.GetString(mdw.KeyUserID), c.Param("id")); err != nil {
				return nil, err
			}
			return gin.H{"id": c.Param("id")}, nil
		},
	})
}
