package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/hashfx/techblog/cmd/blog/auth"
	"github.com/hashfx/techblog/internal/logger"
	"github.com/hashfx/techblog/dto"
	"github.com/hashfx/techblog/services"
	"github.com/hashfx/techblog/storage"
	"github.com/hashfx/techblog/web"
)

const dashboardPath = "/dashboard"

// DashboardHandler 는 로그인 상태면 관리 화면을, 아니면 로그인 폼을 보여준다.
func DashboardHandler(r *Renderer, svc *services.PostService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, err := auth.SessionFrom(c); err != nil {
			r.Page(c, http.StatusOK, "login.html", web.View{})
			return
		}
		posts, err := svc.All(c.Request.Context())
		if err != nil {
			r.Error(c, err)
			return
		}
		r.Page(c, http.StatusOK, "dashboard.html", web.View{Posts: posts})
	}
}

// LoginHandler 는 관리자 자격 증명을 확인하고 세션 쿠키를 발급한다.
func LoginHandler(r *Renderer, authSvc *services.AuthService, cookie auth.CookieOptions) gin.HandlerFunc {
	return func(c *gin.Context) {
		var form dto.LoginForm
		_ = c.ShouldBind(&form)

		token, err := authSvc.Login(form)
		if err != nil {
			if !errors.Is(err, services.ErrInvalidCredentials) {
				r.Error(c, err)
				return
			}
			logger.WarnWithFields("admin login failed", logger.Fields{"user": form.Username, "client_ip": c.ClientIP()})
			r.Page(c, http.StatusUnauthorized, "login.html", web.View{Errors: []string{"Invalid user name or password"}})
			return
		}

		auth.WriteSessionCookie(c, token, cookie)
		logger.InfoWithFields("admin logged in", logger.Fields{"user": form.Username})
		c.Redirect(http.StatusSeeOther, dashboardPath)
	}
}

func LogoutHandler(cookie auth.CookieOptions) gin.HandlerFunc {
	return func(c *gin.Context) {
		auth.ClearSessionCookie(c, cookie)
		c.Redirect(http.StatusFound, dashboardPath)
	}
}

// EditPageHandler 는 sno 게시글의 편집 폼을 보여준다. sno 0 은 새 글 작성이다.
func EditPageHandler(r *Renderer, svc *services.PostService) gin.HandlerFunc {
	return func(c *gin.Context) {
		sno, err := parseSno(c)
		if err != nil {
			r.Error(c, err)
			return
		}
		if sno == 0 {
			r.Page(c, http.StatusOK, "edit.html", web.View{Sno: 0, Form: dto.PostForm{}})
			return
		}

		post, err := svc.BySno(c.Request.Context(), sno)
		if err != nil {
			r.Error(c, err)
			return
		}
		r.Page(c, http.StatusOK, "edit.html", web.View{
			Sno: sno,
			Form: dto.PostForm{
				Title:    post.Title,
				SubTitle: post.SubTitle,
				Slug:     post.Slug,
				Content:  post.Content,
				ImgFile:  post.ImgFile,
			},
		})
	}
}

// SavePostHandler 는 게시글을 만들거나 수정하고 편집 화면으로 돌려보낸다.
func SavePostHandler(r *Renderer, svc *services.PostService) gin.HandlerFunc {
	return func(c *gin.Context) {
		sno, err := parseSno(c)
		if err != nil {
			r.Error(c, err)
			return
		}

		var form dto.PostForm
		_ = c.ShouldBind(&form)

		post, err := svc.Save(c.Request.Context(), sno, form)
		if err != nil {
			if errors.Is(err, services.ErrInvalidInput) {
				r.Page(c, http.StatusBadRequest, "edit.html", web.View{
					Sno:    sno,
					Form:   form,
					Errors: dto.ValidationMessages(err),
				})
				return
			}
			r.Error(c, err)
			return
		}
		c.Redirect(http.StatusSeeOther, "/edit/"+strconv.FormatInt(post.Sno, 10))
	}
}

func DeletePostHandler(r *Renderer, svc *services.PostService) gin.HandlerFunc {
	return func(c *gin.Context) {
		sno, err := parseSno(c)
		if err == nil && sno == 0 {
			err = errBadSno
		}
		if err != nil {
			r.Error(c, err)
			return
		}
		if err := svc.Delete(c.Request.Context(), sno); err != nil {
			r.Error(c, err)
			return
		}
		c.Redirect(http.StatusFound, dashboardPath)
	}
}

// UploadHandler godoc
// @Summary      Upload an image
// @Description  Stores the multipart field file1 with the configured storage backend. Requires the admin session cookie or a Bearer token.
// @Tags         admin
// @Accept       multipart/form-data
// @Param        file1  formData  file  true  "image file"
// @Produce      json
// @Success      200  {object}  dto.UploadResponseDTO
// @Failure      400  {object}  dto.ErrorResponseDTO
// @Failure      401  {object}  dto.ErrorResponseDTO
// @Failure      413  {object}  dto.ErrorResponseDTO
// @Router       /uploader [post]
func UploadHandler(svc *services.UploadService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limit := svc.MaxBytes(); limit > 0 {
			// multipart 헤더 여유분 1MiB
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit+1<<20)
		}

		fh, err := c.FormFile("file1")
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				uploadError(c, storage.ErrTooLarge)
				return
			}
			uploadError(c, storage.ErrEmptyFile)
			return
		}

		ref, err := svc.Save(c.Request.Context(), fh)
		if err != nil {
			uploadError(c, err)
			return
		}

		if c.NegotiateFormat(gin.MIMEPlain, gin.MIMEJSON) == gin.MIMEJSON {
			c.JSON(http.StatusOK, dto.UploadResponseDTO{Ref: ref})
			return
		}
		c.String(http.StatusOK, "Uploaded successfully: %s", ref)
	}
}

func uploadError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, storage.ErrEmptyFile):
		c.JSON(http.StatusBadRequest, dto.ErrorResponseDTO{Error: err.Error()})
	case errors.Is(err, storage.ErrTooLarge):
		c.JSON(http.StatusRequestEntityTooLarge, dto.ErrorResponseDTO{Error: err.Error()})
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, dto.ErrorResponseDTO{Error: "upload_failed"})
	}
}
