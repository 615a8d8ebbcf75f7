package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/hashfx/techblog/cmd/blog/trace"
	"github.com/hashfx/techblog/internal/logger"
)

// 요청 바디는 비밀번호와 업로드 파일을 담고 있으므로 기록하지 않는다.
func RequestLogging() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		req := c.Request

		queryParams := map[string][]string{}
		for key, values := range req.URL.Query() {
			if len(values) > 0 {
				queryParams[key] = values
			}
		}

		c.Next()

		status := c.Writer.Status()
		fields := logger.Fields{
			"method":       req.Method,
			"path":         req.URL.Path,
			"route":        c.FullPath(),
			"query_params": queryParams,
			"status":       status,
			"duration":     time.Since(start).String(),
			"client_ip":    c.ClientIP(),
			"request_id":   trace.RequestIDFromContext(c.Request.Context()),
			"span_id":      trace.CurrentSpanID(c.Request.Context()),
		}
		if len(c.Errors) > 0 {
			fields["errors"] = c.Errors.String()
		}

		switch {
		case status >= http.StatusInternalServerError:
			logger.ErrorWithFields("completed request", fields)
		case status >= http.StatusBadRequest:
			logger.WarnWithFields("completed request", fields)
		default:
			logger.InfoWithFields("completed request", fields)
		}
	}
}
