package router

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"roomatch/internal/core/cache"
	"roomatch/internal/domain"
	httpez "roomatch/internal/transport/http/ez"
	mdw "roomatch/internal/transport/http/middleware"
)

func offerCacheKey(id string) string { return "offer:" + id }

func mountOfferActions(api, authed *gin.RouterGroup, d Deps) {
	ezPublic := httpez.New(api)
	ezAuth := httpez.New(authed)

	// "我的房源"草稿 CRUD；状态与槽位计数只能走状态机，不吃直写
	httpez.Crud[domain.Offer, *domain.Offer](httpez.CrudConfig[domain.Offer, *domain.Offer]{
		DB:    d.DB,
		Group: authed,
		Path:  "/my/offers",
		Hooks: httpez.CrudHooks[domain.Offer]{
			BeforeCreate: func(c *gin.Context, m *domain.Offer) error {
				m.Status = domain.OfferDraft
				m.SlotsTaken = 0
				if m.Capacity <= 0 {
					m.Capacity = 1
				}
				return nil
			},
			BeforeUpdate: func(c *gin.Context, old, in *domain.Offer) error {
				in.Status = old.Status
				in.SlotsTaken = old.SlotsTaken
				if old.Status != domain.OfferDraft {
					// 上架后容量定死，避免计数语义漂移
					in.Capacity = old.Capacity
				}
				return nil
			},
		},
	})

	// --- GET /offers 公开列表（仅 active，分页） ---
	type listQ struct {
		Page int `form:"page,default=1"`
		Size int `form:"size,default=20"`
	}
	type listOut struct {
		List  []domain.Offer `json:"list"`
		Total int64          `json:"total"`
		Page  int            `json:"page"`
		Size  int            `json:"size"`
	}
	httpez.RegisterAction[listQ, listOut](ezPublic, d.DB, httpez.Action[listQ, listOut]{
		Method: http.MethodGet,
		Path:   "/offers",
		Binder: httpez.BindQuery,
		Handler: func(c *gin.Context, _ *gorm.DB, in *listQ) (listOut, error) {
			if in.Page <= 0 {
				in.Page = 1
			}
			if in.Size <= 0 || in.Size > 100 {
				in.Size = 20
			}
			offers, total, err := d.Store.ListOffersByStatus(
				c.Request.Context(), domain.OfferActive, (in.Page-1)*in.Size, in.Size)
			if err != nil {
				return listOut{}, err
			}
			return listOut{List: offers, Total: total, Page: in.Page, Size: in.Size}, nil
		},
	})

	// --- GET /offers/:id 公开详情，redis 缓存 + singleflight 回源 ---
	httpez.RegisterAction[struct{}, *domain.Offer](ezPublic, d.DB, httpez.Action[struct{}, *domain.Offer]{
		Method: http.MethodGet,
		Path:   "/offers/:id",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, _ *gorm.DB, _ *struct{}) (*domain.Offer, error) {
			id := c.Param("id")
			off, err := cache.GetOrLoadJSON[domain.Offer](d.Cache, c.Request.Context(),
				offerCacheKey(id), d.OfferTTL,
				func(ctx context.Context) (*domain.Offer, error) {
					return d.Store.FindOfferByID(ctx, id)
				})
			if err != nil {
				return nil, err
			}
			// 草稿/待审/归档对公众不可见，owner 自己走 /my/offers
			if off == nil || off.Status == domain.OfferDraft ||
				off.Status == domain.OfferPending || off.Status == domain.OfferArchived {
				return nil, httpez.NotFound("offer not found")
			}
			return off, nil
		},
	})

	// --- POST /offers/:id/status 业主侧状态流转（提交审核/关闭/重开/归档） ---
	type statusIn struct {
		Status domain.OfferStatus `json:"status" binding:"required"`
	}
	httpez.RegisterAction[statusIn, *domain.Offer](ezAuth, d.DB, httpez.Action[statusIn, *domain.Offer]{
		Method: http.MethodPost,
		Path:   "/offers/:id/status",
		Binder: httpez.BindJSON,
		Handler: func(c *gin.Context, _ *gorm.DB, in *statusIn) (*domain.Offer, error) {
			id := c.Param("id")
			off, err := d.Lifecycle.ChangeOfferStatus(c.Request.Context(),
				c.GetString(mdw.KeyUserID), c.GetBool(mdw.KeyIsAdmin), id, in.Status)
			if err != nil {
				return nil, err
			}
			d.Cache.Invalidate(c.Request.Context(), offerCacheKey(id))
			return off, nil
		},
	})

	// --- GET /offers/:id/applications 业主看自己房源的申请 ---
	httpez.RegisterAction[struct{}, []domain.Application](ezAuth, d.DB, httpez.Action[struct{}, []domain.Application]{
		Method: http.MethodGet,
		Path:   "/offers/:id/applications",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, _ *gorm.DB, _ *struct{}) ([]domain.Application, error) {
			ctx := c.Request.Context()
			off, err := d.Store.FindOfferByID(ctx, c.Param("id"))
			if err != nil {
				return nil, err
			}
			if off == nil {
				return nil, httpez.NotFound("offer not found")
			}
			if off.OwnerID != c.GetString(mdw.KeyUserID) && !c.GetBool(mdw.KeyIsAdmin) {
				return nil, httpez.Forbidden("not your offer")
			}
			return d.Store.ListApplicationsByOffer(ctx, off.ID)
		},
	})
}
