package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"roomatch/internal/domain"
	httpez "roomatch/internal/transport/http/ez"
	mdw "roomatch/internal/transport/http/middleware"
)

func mountSejourActions(api, authed *gin.RouterGroup, d Deps) {
	ezPublic := httpez.New(api)
	ezAuth := httpez.New(authed)

	// --- GET /sejours 我参与的入住（房东或租客视角） ---
	httpez.RegisterAction[struct{}, []domain.Sejour](ezAuth, d.DB, httpez.Action[struct{}, []domain.Sejour]{
		Method: http.MethodGet,
		Path:   "/sejours",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, _ *gorm.DB, _ *struct{}) ([]domain.Sejour, error) {
			return d.Store.ListSejoursByUser(c.Request.Context(), c.GetString(mdw.KeyUserID))
		},
	})

	// --- GET /sejours/:id 仅当事双方或管理员 ---
	httpez.RegisterAction[struct{}, *domain.Sejour](ezAuth, d.DB, httpez.Action[struct{}, *domain.Sejour]{
		Method: http.MethodGet,
		Path:   "/sejours/:id",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, _ *gorm.DB, _ *struct{}) (*domain.Sejour, error) {
			sj, err := d.Store.FindSejourByID(c.Request.Context(), c.Param("id"))
			if err != nil {
				return nil, err
			}
			if sj == nil {
				return nil, httpez.NotFound("sejour not found")
			}
			if sj.PartyOf(c.GetString(mdw.KeyUserID)) == "" && !c.GetBool(mdw.KeyIsAdmin) {
				return nil, httpez.Forbidden("not a party of this sejour")
			}
			return sj, nil
		},
	})

	// --- POST /sejours/:id/end 退租：释放槽位，rented 的房源回 active ---
	httpez.RegisterAction[struct{}, gin.H](ezAuth, d.DB, httpez.Action[struct{}, gin.H]{
		Method: http.MethodPost,
		Path:   "/sejours/:id/end",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, _ *gorm.DB, _ *struct{}) (gin.H, error) {
			ctx := c.Request.Context()
			sj, err := d.Store.FindSejourByID(ctx, c.Param("id"))
			if err != nil {
				return nil, err
			}
			if sj == nil {
				return nil, httpez.NotFound("sejour not found")
			}
			if err := d.Lifecycle.EndSejour(ctx,
				c.GetString(mdw.KeyUserID), c.GetBool(mdw.KeyIsAdmin), sj.ID); err != nil {
				return nil, err
			}
			d.Cache.Invalidate(ctx, offerCacheKey(sj.OfferID))
			return gin.H{"id": sj.ID}, nil
		},
	})

	// --- POST /sejours/:id/feedback 双方各评一次 ---
	type feedbackIn struct {
		Type    domain.FeedbackType `json:"type"    binding:"required,oneof=owner tenant"`
		Rating  int                 `json:"rating"  binding:"required"`
		Comment string              `json:"comment" binding:"omitempty,max=1024"`
	}
	httpez.RegisterAction[feedbackIn, *domain.Feedback](ezAuth, d.DB, httpez.Action[feedbackIn, *domain.Feedback]{
		Method: http.MethodPost,
		Path:   "/sejours/:id/feedback",
		Binder: httpez.BindJSON,
		Handler: func(c *gin.Context, _ *gorm.DB, in *feedbackIn) (*domain.Feedback, error) {
			return d.Lifecycle.CreateFeedback(c.Request.Context(),
				c.GetString(mdw.KeyUserID), c.Param("id"), in.Type, in.Rating, in.Comment)
		},
	})

	// --- GET /users/:id/feedback 某用户收到的评价，公开 ---
	httpez.RegisterAction[struct{}, []domain.Feedback](ezPublic, d.DB, httpez.Action[struct{}, []domain.Feedback]{
		Method: http.MethodGet,
		Path:   "/users/:id/feedback",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, _ *gorm.DB, _ *struct{}) ([]domain.Feedback, error) {
			return d.Store.ListFeedbackByTarget(c.Request.Context(), c.Param("id"))
		},
	})
}
