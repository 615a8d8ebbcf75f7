// Package web holds the embedded HTML templates and the view data they render.
package web

import (
	"embed"
	"html/template"
	"strings"
	"time"

	"github.com/hashfx/techblog/config"
	"github.com/hashfx/techblog/models"
)

//go:embed templates/*.html
var templateFS embed.FS

// Site 는 템플릿에 노출되는 사이트 파라미터다. 관리자 자격 증명은 포함하지 않는다.
type Site struct {
	BlogName  string
	TagLine   string
	AboutText string
	FbURL     string
	TwURL     string
	GhURL     string
	HomeBg    string
	AboutBg   string
	ContactBg string
	PostBg    string
	LoginBg   string
}

func NewSite(p config.Params) Site {
	return Site{
		BlogName:  p.BlogName,
		TagLine:   p.TagLine,
		AboutText: p.AboutText,
		FbURL:     p.FbURL,
		TwURL:     p.TwURL,
		GhURL:     p.GhURL,
		HomeBg:    p.HomeBg,
		AboutBg:   p.AboutBg,
		ContactBg: p.ContactBg,
		PostBg:    p.PostBg,
		LoginBg:   p.LoginBg,
	}
}

// View is the data every page template receives.
type View struct {
	Site     Site
	LoggedIn bool
	User     string
	Flash    string
	Errors   []string

	Posts []models.Post
	Post  *models.Post
	Prev  string
	Next  string

	// edit/contact 폼 재표시용
	Sno  int64
	Form any
}

var funcs = template.FuncMap{
	"date": func(t time.Time) string {
		if t.IsZero() {
			return ""
		}
		return t.Format("January 2, 2006")
	},
	// 게시글 본문은 관리자가 작성한 HTML 이다.
	"rawHTML": func(s string) template.HTML { return template.HTML(s) },
	"imageURL": func(ref string) string {
		if ref == "" {
			return ""
		}
		if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
			return ref
		}
		return "/uploads/" + ref
	},
}

// Templates parses every embedded page template. Pages are addressed by file name, e.g. "index.html".
func Templates() (*template.Template, error) {
	return template.New("").Funcs(funcs).ParseFS(templateFS, "templates/*.html")
}
