package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/hashfx/techblog/dto"
	"github.com/hashfx/techblog/services"
)

// ListPostsHandler godoc
// @Summary      List posts
// @Description  Home page listing as JSON. Invalid page values fall back to page 1; numeric pages outside the range return an empty page with out_of_range=true.
// @Tags         posts
// @Param        page  query  string  false  "Page number (1-based)"
// @Produce      json
// @Success      200  {object}  dto.PagePostDTO
// @Failure      500  {object}  dto.ErrorResponseDTO
// @Router       /posts [get]
func ListPostsHandler(svc *services.PostService) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, err := svc.Home(c.Request.Context(), c.Query("page"))
		if err != nil {
			apiError(c, err)
			return
		}
		c.JSON(http.StatusOK, dto.NewPagePostDTO(page, svc.PageSize()))
	}
}

// GetPostHandler godoc
// @Summary      Get post by slug
// @Tags         posts
// @Param        slug  path  string  true  "Post slug"
// @Produce      json
// @Success      200  {object}  dto.PostDTO
// @Failure      404  {object}  dto.ErrorResponseDTO
// @Router       /posts/{slug} [get]
func GetPostHandler(svc *services.PostService) gin.HandlerFunc {
	return func(c *gin.Context) {
		post, err := svc.BySlug(c.Request.Context(), c.Param("slug"))
		if err != nil {
			apiError(c, err)
			return
		}
		c.JSON(http.StatusOK, dto.NewPostDTO(*post))
	}
}

// Pinger 는 헬스 체크 대상 저장소다.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc adapts a function to Pinger.
type PingFunc func(ctx context.Context) error

func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }

// HealthHandler godoc
// @Summary      Health check
// @Tags         health
// @Produce      json
// @Success      200  {object}  dto.HealthDTO
// @Failure      503  {object}  dto.HealthDTO
// @Router       /health [get]
func HealthHandler(db Pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()
		if err := db.Ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, dto.HealthDTO{Status: "degraded", Database: "down", Error: err.Error()})
			return
		}
		c.JSON(http.StatusOK, dto.HealthDTO{Status: "ok", Database: "up"})
	}
}
