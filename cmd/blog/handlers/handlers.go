package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/hashfx/techblog/cmd/blog/auth"
	"github.com/hashfx/techblog/cmd/blog/trace"
	"github.com/hashfx/techblog/internal/logger"
	"github.com/hashfx/techblog/repositories"
	"github.com/hashfx/techblog/services"
	"github.com/hashfx/techblog/web"
)

var errBadSno = errors.New("invalid sno")

// Renderer 는 사이트 파라미터와 세션 정보를 채워 페이지 템플릿을 렌더링한다.
type Renderer struct {
	site web.Site
}

func NewRenderer(site web.Site) *Renderer {
	return &Renderer{site: site}
}

func (r *Renderer) Page(c *gin.Context, status int, name string, v web.View) {
	v.Site = r.site
	if s, err := auth.SessionFrom(c); err == nil {
		v.LoggedIn = true
		v.User = s.User
	}
	c.HTML(status, name, v)
}

// Error 는 서비스 에러를 상태 코드와 에러 페이지로 변환한다.
func (r *Renderer) Error(c *gin.Context, err error) {
	_ = c.Error(err)
	switch {
	case errors.Is(err, repositories.ErrNotFound), errors.Is(err, errBadSno):
		r.Page(c, http.StatusNotFound, "404.html", web.View{})
	case errors.Is(err, services.ErrInvalidInput):
		r.Page(c, http.StatusBadRequest, "error.html", web.View{Errors: []string{err.Error()}})
	default:
		fields := trace.Fields(c.Request.Context())
		fields["path"] = c.Request.URL.Path
		fields["error"] = err.Error()
		logger.ErrorWithFields("request failed", fields)
		r.Page(c, http.StatusInternalServerError, "error.html", web.View{})
	}
}

// NotFound serves the 404 page for unmatched routes.
func (r *Renderer) NotFound() gin.HandlerFunc {
	return func(c *gin.Context) {
		r.Page(c, http.StatusNotFound, "404.html", web.View{})
	}
}

func parseSno(c *gin.Context) (int64, error) {
	sno, err := strconv.ParseInt(c.Param("sno"), 10, 64)
	if err != nil || sno < 0 {
		return 0, errBadSno
	}
	return sno, nil
}

func apiError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not_found"})
	case errors.Is(err, services.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error"})
	}
}
