package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"roomatch/internal/core/auth"
	"roomatch/internal/core/cache"
	"roomatch/internal/core/config"
	"roomatch/internal/domain"
	"roomatch/internal/gate"
	"roomatch/internal/lifecycle"
	mdw "roomatch/internal/transport/http/middleware"
)

// Deps 路由层需要的全部依赖
type Deps struct {
	Log       *zap.Logger
	DB        *gorm.DB
	Store     domain.Store
	JWT       *auth.JWTer
	Lifecycle *lifecycle.Service
	Cache     *cache.Cache
	OfferTTL  time.Duration
	GateCfg   config.Gate
}

func (d Deps) classifier() *gate.Classifier {
	return gate.NewClassifier(gate.Routes{
		AdminPrefixes:  d.GateCfg.AdminPrefixes,
		AuthPrefixes:   d.GateCfg.AuthPrefixes,
		PublicPrefixes: d.GateCfg.PublicPrefixes,
		OnboardingPath: d.GateCfg.OnboardingPath,
		HomePath:       d.GateCfg.HomePath,
	})
}

func (d Deps) engine() *gate.Engine {
	return gate.NewEngine(gate.Targets{
		SignIn:     d.GateCfg.SignInPath,
		Onboarding: d.GateCfg.OnboardingPath,
		Forbidden:  d.GateCfg.ForbiddenPath,
		Home:       d.GateCfg.HomePath,
		AdminHome:  d.GateCfg.AdminHomePath,
	})
}

// NewAPIEngine 用户端引擎：API + 页面导航网关一体。
// 网关只挂在页面面（NoRoute 链）：已注册的 API 路由处理器自己鉴权，
// 网关绝不拦；页面路径按分类表裁决并 302。
func NewAPIEngine(d Deps) *gin.Engine {
	r := gin.New()

	resolver := &gate.Resolver{JWT: d.JWT, Flags: d.Store}
	cls := d.classifier()
	eng := d.engine()

	r.Use(
		mdw.RequestID(),
		mdw.RateLimit(200, 400),
		mdw.ConcurrencyLimit(300),
		mdw.MaxBodyBytes(16<<20),
		mdw.Timeout(10*time.Second),
		mdw.SimpleRecovery(),
		mdw.Metrics(),
		mdw.AccessLog(d.Log),
		mdw.ResolvePrincipal(resolver),
	)

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": 1}) })

	api := r.Group("/api/v1")

	// 统一注册器（自动发现模块）
	MountAllAPI(api)

	// GET /api/v1/gate/decision?path=/xxx&query=a=b
	// SPA 路由器用：对给定路径预取裁决结果
	type decideQ struct {
		Path  string `form:"path" binding:"required"`
		Query string `form:"query"`
	}
	api.GET("/gate/decision", func(c *gin.Context) {
		var q decideQ
		if err := c.ShouldBindQuery(&q); err != nil {
			c.JSON(http.StatusOK, gin.H{"code": 400, "msg": err.Error()})
			return
		}
		class := cls.Classify(q.Path)
		out := eng.Decide(mdw.PrincipalOf(c), class, q.Path, q.Query)
		c.JSON(http.StatusOK, gin.H{"code": 0, "msg": "OK", "data": out})
	})

	// 鉴权分组
	authed := api.Group("")
	authed.Use(mdw.RequireAuth())

	mountAuthActions(api, authed, d)
	mountOfferActions(api, authed, d)
	mountApplicationActions(authed, d)
	mountFavoriteActions(authed, d)
	mountSejourActions(api, authed, d)

	// 页面导航才过网关：挂在 NoRoute 链上，拦不到任何已注册的 API 路由。
	// 资料未完善的用户照样能打到 POST /api/v1/onboarding 去置位。
	// 页面不在后端渲染，Allow 之后回占位（真实页面由前端接管）。
	r.NoRoute(mdw.Gatekeeper(cls, eng), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"page": c.Request.URL.Path})
	})

	return r
}
