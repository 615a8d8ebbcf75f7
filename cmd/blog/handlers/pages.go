package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hashfx/techblog/dto"
	"github.com/hashfx/techblog/services"
	"github.com/hashfx/techblog/web"
)

const contactThanks = "Thanks for reaching out. I will get back to you soon."

// HomeHandler 는 page 쿼리에 해당하는 게시글 목록과 이전/다음 링크를 보여준다.
func HomeHandler(r *Renderer, svc *services.PostService) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, err := svc.Home(c.Request.Context(), c.Query("page"))
		if err != nil {
			r.Error(c, err)
			return
		}
		r.Page(c, http.StatusOK, "index.html", web.View{
			Posts: page.Posts,
			Prev:  page.Prev,
			Next:  page.Next,
		})
	}
}

func AboutHandler(r *Renderer) gin.HandlerFunc {
	return func(c *gin.Context) {
		r.Page(c, http.StatusOK, "about.html", web.View{})
	}
}

func ContactPageHandler(r *Renderer) gin.HandlerFunc {
	return func(c *gin.Context) {
		r.Page(c, http.StatusOK, "contact.html", web.View{})
	}
}

// SubmitContactHandler 는 문의를 저장하고 알림을 보낸 뒤 폼을 다시 보여준다.
func SubmitContactHandler(r *Renderer, svc *services.ContactService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var form dto.ContactForm
		if err := c.ShouldBind(&form); err != nil {
			r.Page(c, http.StatusBadRequest, "contact.html", web.View{Errors: []string{err.Error()}, Form: form})
			return
		}

		if _, err := svc.Submit(c.Request.Context(), form); err != nil {
			if errors.Is(err, services.ErrInvalidInput) {
				r.Page(c, http.StatusBadRequest, "contact.html", web.View{
					Errors: dto.ValidationMessages(err),
					Form:   form,
				})
				return
			}
			r.Error(c, err)
			return
		}
		r.Page(c, http.StatusOK, "contact.html", web.View{Flash: contactThanks})
	}
}

// PostHandler 는 slug 로 게시글 하나를 보여준다.
func PostHandler(r *Renderer, svc *services.PostService) gin.HandlerFunc {
	return func(c *gin.Context) {
		post, err := svc.BySlug(c.Request.Context(), c.Param("slug"))
		if err != nil {
			r.Error(c, err)
			return
		}
		r.Page(c, http.StatusOK, "post.html", web.View{Post: post})
	}
}
