package router

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"roomatch/internal/core/server"
	"roomatch/internal/domain"
	"roomatch/internal/gate"
	httpez "roomatch/internal/transport/http/ez"
	mdw "roomatch/internal/transport/http/middleware"
)

// NewAdminEngine 管理端：ginzap/cors 基座 + 管理中间件，
// /admin/v1 整组要求 admin（标志每次从库里重读）
func NewAdminEngine(d Deps) *gin.Engine {
	r := server.NewWebEngine(d.Log)

	resolver := &gate.Resolver{JWT: d.JWT, Flags: d.Store}

	r.Use(
		mdw.RequestID(),
		mdw.RateLimit(100, 200),
		mdw.MaxBodyBytes(4<<20),
		mdw.Timeout(10*time.Second),
		mdw.Metrics(),
		mdw.ResolvePrincipal(resolver),
	)

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": 1}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	admin := r.Group("/admin/v1")
	admin.Use(mdw.RequireAdmin())

	MountAllAdmin(admin)
	mountAdminActions(admin, d)

	return r
}

func mountAdminActions(admin *gin.RouterGroup, d Deps) {
	ezAdmin := httpez.New(admin)

	// --- GET /admin/v1/users 用户列表（可按 email/name 模糊搜，可含软删） ---
	type listQ struct {
		Offset      int    `form:"offset,default=0"`
		Limit       int    `form:"limit,default=20"`
		Q           string `form:"q"`
		WithDeleted bool   `form:"with_deleted"`
	}
	type userRow struct {
		ID              string    `json:"id"`
		Email           string    `json:"email"`
		Name            string    `json:"name"`
		IsAdmin         bool      `json:"isAdmin"`
		ProfileComplete bool      `json:"profileComplete"`
		CreatedAt       time.Time `json:"createdAt"`
	}
	type listOut struct {
		Total int64     `json:"total"`
		Items []userRow `json:"items"`
	}
	httpez.RegisterAction[listQ, listOut](ezAdmin, d.DB, httpez.Action[listQ, listOut]{
		Method:    http.MethodGet,
		Path:      "/users",
		Binder:    httpez.BindQuery,
		Auth:      true,
		AdminOnly: true,
		Handler: func(c *gin.Context, tx *gorm.DB, in *listQ) (listOut, error) {
			if in.Limit <= 0 || in.Limit > 100 {
				in.Limit = 20
			}
			q := tx.Model(&domain.User{})
			if in.WithDeleted {
				q = q.Unscoped()
			}
			if s := strings.TrimSpace(in.Q); s != "" {
				like := "%" + s + "%"
				q = q.Where("email LIKE ? OR name LIKE ?", like, like)
			}
			var total int64
			if err := q.Count(&total).Error; err != nil {
				return listOut{}, httpez.Internal("count users failed", err)
			}
			var us []domain.User
			if err := q.Order("created_at DESC").Limit(in.Limit).Offset(in.Offset).Find(&us).Error; err != nil {
				return listOut{}, httpez.Internal("list users failed", err)
			}
			out := listOut{Total: total, Items: make([]userRow, 0, len(us))}
			for _, u := range us {
				out.Items = append(out.Items, userRow{
					ID: u.ID, Email: u.Email, Name: u.Name,
					IsAdmin: u.IsAdmin, ProfileComplete: u.ProfileComplete,
					CreatedAt: u.CreatedAt,
				})
			}
			return out, nil
		},
	})

	// --- POST /admin/v1/users/:id/ban 封禁（软删），会话随之失效 ---
	httpez.RegisterAction[struct{}, gin.H](ezAdmin, d.DB, httpez.Action[struct{}, gin.H]{
		Method:    http.MethodPost,
		Path:      "/users/:id/ban",
		Binder:    httpez.BindNone,
		Auth:      true,
		AdminOnly: true,
		UseTx:     true,
		Handler: func(c *gin.Context, tx *gorm.DB, _ *struct{}) (gin.H, error) {
			id := c.Param("id")
			if id == "" {
				return nil, httpez.BadRequest("missing id")
			}
			res := tx.Where("id = ?", id).Delete(&domain.User{})
			if res.Error != nil {
				return nil, httpez.Internal("ban user failed", res.Error)
			}
			if res.RowsAffected == 0 {
				return nil, httpez.NotFound("user not found")
			}
			return gin.H{"id": id}, nil
		},
	})

	// --- GET /admin/v1/offers/moderation 待审核队列 ---
	type modQ struct {
		Offset int `form:"offset,default=0"`
		Limit  int `form:"limit,default=20"`
	}
	type modOut struct {
		Total int64          `json:"total"`
		Items []domain.Offer `json:"items"`
	}
	httpez.RegisterAction[modQ, modOut](ezAdmin, d.DB, httpez.Action[modQ, modOut]{
		Method:    http.MethodGet,
		Path:      "/offers/moderation",
		Binder:    httpez.BindQuery,
		Auth:      true,
		AdminOnly: true,
		Handler: func(c *gin.Context, _ *gorm.DB, in *modQ) (modOut, error) {
			if in.Limit <= 0 || in.Limit > 100 {
				in.Limit = 20
			}
			offers, total, err := d.Store.ListOffersByStatus(
				c.Request.Context(), domain.OfferPending, in.Offset, in.Limit)
			if err != nil {
				return modOut{}, err
			}
			return modOut{Total: total, Items: offers}, nil
		},
	})

	// --- POST /admin/v1/offers/:id/approve 审核通过 pending → active ---
	httpez.RegisterAction[struct{}, *domain.Offer](ezAdmin, d.DB, httpez.Action[struct{}, *domain.Offer]{
		Method:    http.MethodPost,
		Path:      "/offers/:id/approve",
		Binder:    httpez.BindNone,
		Auth:      true,
		AdminOnly: true,
		Handler: func(c *gin.Context, _ *gorm.DB, _ *struct{}) (*domain.Offer, error) {
			off, err := d.Lifecycle.ChangeOfferStatus(c.Request.Context(),
				c.GetString(mdw.KeyUserID), true, c.Param("id"), domain.OfferActive)
			if err != nil {
				return nil, err
			}
			d.Cache.Invalidate(c.Request.Context(), offerCacheKey(off.ID))
			return off, nil
		},
	})

	// --- POST /admin/v1/offers/:id/archive 强制下架归档 ---
	httpez.RegisterAction[struct{}, *domain.Offer](ezAdmin, d.DB, httpez.Action[struct{}, *domain.Offer]{
		Method:    http.MethodPost,
		Path:      "/offers/:id/archive",
		Binder:    httpez.BindNone,
		Auth:      true,
		AdminOnly: true,
		Handler: func(c *gin.Context, _ *gorm.DB, _ *struct{}) (*domain.Offer, error) {
			off, err := d.Lifecycle.ChangeOfferStatus(c.Request.Context(),
				c.GetString(mdw.KeyUserID), true, c.Param("id"), domain.OfferArchived)
			if err != nil {
				return nil, err
			}
			d.Cache.Invalidate(c.Request.Context(), offerCacheKey(off.ID))
			return off, nil
		},
	})
}
