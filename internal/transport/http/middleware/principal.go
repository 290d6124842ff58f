package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"roomatch/internal/core/auth"
	"roomatch/internal/gate"
	resp "roomatch/internal/transport/http/response"
)

const (
	KeyPrincipal       = "principal"
	KeyUserID          = "userId"
	KeyIsAdmin         = "isAdmin"
	KeyProfileComplete = "profileComplete"
)

// tokenFrom API 优先 Bearer 头，页面导航用 session cookie
func tokenFrom(c *gin.Context) string {
	if ah := c.GetHeader("Authorization"); strings.HasPrefix(ah, "Bearer ") {
		return strings.TrimPrefix(ah, "Bearer ")
	}
	if tok, err := c.Cookie(auth.SessionCookie); err == nil {
		return tok
	}
	return ""
}

// ResolvePrincipal 只解析不拦截：把 Principal 挂上 context，
// 匿名也放行，由后面的 RequireAuth/Gatekeeper 决定怎么处置
func ResolvePrincipal(r *gate.Resolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		p := r.Resolve(c.Request.Context(), tokenFrom(c))
		c.Set(KeyPrincipal, p)
		if !p.Anonymous() {
			c.Set(KeyUserID, p.UserID)
			c.Set(KeyIsAdmin, p.IsAdmin)
			c.Set(KeyProfileComplete, p.ProfileComplete)
		}
		c.Next()
	}
}

func PrincipalOf(c *gin.Context) gate.Principal {
	if v, ok := c.Get(KeyPrincipal); ok {
		if p, ok := v.(gate.Principal); ok {
			return p
		}
	}
	return gate.Principal{}
}

// RequireAuth API 路由强制登录
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if PrincipalOf(c).Anonymous() {
			c.AbortWithStatusJSON(http.StatusOK, resp.Error(resp.CodeUnauthorized, "unauthorized"))
			return
		}
		c.Next()
	}
}

// RequireAdmin 管理端路由强制 admin（标志来自库里，不是 token）
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		p := PrincipalOf(c)
		if p.Anonymous() {
			c.AbortWithStatusJSON(http.StatusOK, resp.Error(resp.CodeUnauthorized, "unauthorized"))
			return
		}
		if !p.IsAdmin {
			c.AbortWithStatusJSON(http.StatusOK, resp.Error(resp.CodeForbidden, "forbidden"))
			return
		}
		c.Next()
	}
}
