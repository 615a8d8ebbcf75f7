package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/hashfx/techblog/cmd/blog/auth"
	"github.com/hashfx/techblog/internal/logger"
	"github.com/hashfx/techblog/services"
)

const LoginPath = "/dashboard"

// SessionParser 는 세션 토큰에서 관리자 이름을 꺼낸다.
type SessionParser interface {
	ParseSession(token string) (string, error)
}

var _ SessionParser = (*services.AuthService)(nil)

// LoadSession 은 세션 쿠키 또는 Bearer 토큰이 유효하면 auth.Session 을 컨텍스트에 넣는다.
// 세션이 없어도 요청을 중단하지 않는다. 차단은 RequireAdmin 이 한다.
func LoadSession(parser SessionParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, via, err := auth.TokenFromRequest(c)
		if err != nil {
			c.Next()
			return
		}

		user, err := parser.ParseSession(token)
		if err != nil {
			logger.DebugWithFields("session rejected", logger.Fields{"via": via, "error": err.Error()})
			c.Next()
			return
		}

		auth.SetSession(c, auth.Session{User: user, IssuedVia: via})
		c.Next()
	}
}

// RequireAdmin 은 LoadSession 이 세션을 넣지 않은 요청을 막는다.
// 브라우저 요청은 로그인 폼으로, Bearer 요청과 /api 요청은 401 JSON 으로 응답한다.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, err := auth.SessionFrom(c); err == nil {
			c.Next()
			return
		}

		if c.GetHeader("Authorization") != "" || strings.HasPrefix(c.Request.URL.Path, "/api/") {
			auth.DenyJSON(c, auth.ErrNoSession)
			return
		}
		c.Redirect(http.StatusFound, LoginPath)
		c.Abort()
	}
}
