package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	resp "roomatch/internal/transport/http/response"
)

// SimpleRecovery 兜底 panic，绝不把堆栈回给调用方
func SimpleRecovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				c.AbortWithStatusJSON(http.StatusOK, resp.Error(resp.CodeServerError, "internal error"))
			}
		}()
		c.Next()
	}
}
