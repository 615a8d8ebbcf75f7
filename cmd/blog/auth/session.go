package auth

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	CookieName = "techblog_session"
	contextKey = "techblog.session"

	ViaCookie = "cookie"
	ViaBearer = "bearer"
)

var (
	ErrNoSession     = errors.New("no_session")
	ErrInvalidBearer = errors.New("invalid_authorization_header")
)

// Session is the authenticated admin capability. Admin handlers receive it from
// the session middleware through the gin context.
type Session struct {
	User      string
	IssuedVia string
}

// SessionFrom returns the session stored by the admin middleware.
func SessionFrom(c *gin.Context) (Session, error) {
	v, ok := c.Get(contextKey)
	if !ok {
		return Session{}, ErrNoSession
	}
	s, ok := v.(Session)
	if !ok {
		return Session{}, ErrNoSession
	}
	return s, nil
}

func SetSession(c *gin.Context, s Session) {
	c.Set(contextKey, s)
}

// TokenFromRequest 는 세션 토큰을 쿠키에서 먼저 찾고, 없으면 Authorization: Bearer 헤더에서 찾는다.
// 두 번째 반환값은 토큰 출처(ViaCookie, ViaBearer)다.
// 헤더가 아예 없으면 ErrNoSession, 형식이 틀리면 ErrInvalidBearer 를 반환한다.
func TokenFromRequest(c *gin.Context) (string, string, error) {
	if token, err := c.Cookie(CookieName); err == nil && token != "" {
		return token, ViaCookie, nil
	}

	header := c.GetHeader("Authorization")
	if header == "" {
		return "", "", ErrNoSession
	}
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "bearer") {
		return "", "", ErrInvalidBearer
	}
	if token = strings.TrimSpace(token); token == "" {
		return "", "", ErrInvalidBearer
	}
	return token, ViaBearer, nil
}

// CookieOptions controls the session cookie attributes.
type CookieOptions struct {
	Secure bool
	TTL    time.Duration
}

func WriteSessionCookie(c *gin.Context, token string, opts CookieOptions) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieName, token, int(opts.TTL.Seconds()), "/", "", opts.Secure, true)
}

func ClearSessionCookie(c *gin.Context, opts CookieOptions) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieName, "", -1, "/", "", opts.Secure, true)
}

// DenyJSON 은 세션이 없는 API/Bearer 요청을 401 JSON 으로 끝낸다.
func DenyJSON(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
}
