package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"roomatch/internal/gate"
)

// Gatekeeper 页面导航网关：每个请求走 分类 → 裁决，Allow 放行，
// 其余按 302 跳转。需要前置 ResolvePrincipal。
func Gatekeeper(cls *gate.Classifier, eng *gate.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		class := cls.Classify(path)
		out := eng.Decide(PrincipalOf(c), class, path, c.Request.URL.RawQuery)

		gateDecisions.WithLabelValues(class.String(), out.Kind.String()).Inc()

		if out.Kind == gate.Allow {
			c.Next()
			return
		}
		c.Redirect(http.StatusFound, out.Target)
		c.Abort()
	}
}
