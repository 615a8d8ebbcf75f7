package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/hashfx/techblog/cmd/blog/trace"
)

const (
	HeaderRequestID = "X-Request-Id"
	HeaderSpanID    = "X-Span-Id"
)

// RequestTrace 는 모든 inbound 요청에 Request ID와 Span ID를 보장하고
// 컨텍스트와 요청/응답 헤더에 기록한다.
func RequestTrace() gin.HandlerFunc {
	return func(c *gin.Context) {
		req := c.Request

		requestID := req.Header.Get(HeaderRequestID)
		if requestID == "" {
			requestID = trace.GenerateID()
		}

		// inbound 는 span 0, 이후 DB/메일/스토리지 호출이 1,2,3,... 을 사용한다.
		ctx := trace.WithRequestAndSpan(req.Context(), requestID, 0)
		c.Request = req.WithContext(ctx)

		span := trace.CurrentSpanID(ctx)
		c.Request.Header.Set(HeaderRequestID, requestID)
		c.Request.Header.Set(HeaderSpanID, span)
		c.Writer.Header().Set(HeaderRequestID, requestID)
		c.Writer.Header().Set(HeaderSpanID, span)

		c.Next()
	}
}
