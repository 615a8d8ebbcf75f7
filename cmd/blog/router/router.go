package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/hashfx/techblog/cmd/blog/auth"
	"github.com/hashfx/techblog/cmd/blog/handlers"
	"github.com/hashfx/techblog/cmd/blog/middleware"
	"github.com/hashfx/techblog/docs"
	"github.com/hashfx/techblog/services"
	"github.com/hashfx/techblog/web"
)

// Deps 는 라우터가 핸들러에 넘겨주는 서비스 묶음이다.
type Deps struct {
	Site     web.Site
	Posts    *services.PostService
	Contacts *services.ContactService
	Auth     *services.AuthService
	Uploads  *services.UploadService
	Cookie   auth.CookieOptions
	DB       handlers.Pinger
	// UploadDir 가 비어 있지 않으면 /uploads 로 정적 서빙한다. (local 백엔드)
	UploadDir string
}

func New(d Deps) (*gin.Engine, error) {
	tmpl, err := web.Templates()
	if err != nil {
		return nil, err
	}

	r := gin.New()
	r.SetHTMLTemplate(tmpl)
	r.Use(
		gin.Recovery(),
		middleware.RequestTrace(),
		middleware.RequestLogging(),
		middleware.Metrics(),
		middleware.LoadSession(d.Auth),
	)

	rd := handlers.NewRenderer(d.Site)
	r.NoRoute(rd.NotFound())

	MountAll(r,
		pageRoutes(rd, d),
		adminRoutes(rd, d),
		apiRoutes(d),
		opsRoutes(d),
	)
	return r, nil
}

func pageRoutes(rd *handlers.Renderer, d Deps) Registrar {
	return RegistrarFunc(func(r *gin.Engine) {
		r.GET("/", handlers.HomeHandler(rd, d.Posts))
		r.GET("/about", handlers.AboutHandler(rd))
		r.GET("/contact", handlers.ContactPageHandler(rd))
		r.POST("/contact", handlers.SubmitContactHandler(rd, d.Contacts))
		r.GET("/post/:slug", handlers.PostHandler(rd, d.Posts))
		if d.UploadDir != "" {
			r.Static("/uploads", d.UploadDir)
		}
	})
}

func adminRoutes(rd *handlers.Renderer, d Deps) Registrar {
	return RegistrarFunc(func(r *gin.Engine) {
		r.GET("/dashboard", handlers.DashboardHandler(rd, d.Posts))
		r.POST("/dashboard", handlers.LoginHandler(rd, d.Auth, d.Cookie))
		r.GET("/logout", handlers.LogoutHandler(d.Cookie))

		admin := r.Group("/", middleware.RequireAdmin())
		{
			admin.GET("/edit/:sno", handlers.EditPageHandler(rd, d.Posts))
			admin.POST("/edit/:sno", handlers.SavePostHandler(rd, d.Posts))
			admin.GET("/delete/:sno", handlers.DeletePostHandler(rd, d.Posts))
			admin.POST("/uploader", handlers.UploadHandler(d.Uploads))
		}
	})
}

func apiRoutes(d Deps) Registrar {
	return RegistrarFunc(func(r *gin.Engine) {
		docs.SwaggerInfo.BasePath = "/api/v1"
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

		api := r.Group("/api/v1")
		{
			api.GET("/posts", handlers.ListPostsHandler(d.Posts))
			api.GET("/posts/:slug", handlers.GetPostHandler(d.Posts))
		}
	})
}

func opsRoutes(d Deps) Registrar {
	return RegistrarFunc(func(r *gin.Engine) {
		r.GET("/health", handlers.HealthHandler(d.DB))
		r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	})
}

// WithCORS 는 JSON API 를 다른 오리진에서 읽을 수 있도록 엔진을 감싼다.
// origins 가 비어 있으면 엔진을 그대로 반환한다.
func WithCORS(h http.Handler, origins []string) http.Handler {
	if len(origins) == 0 {
		return h
	}
	return cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodHead, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders: []string{"X-Request-Id", "X-Span-Id"},
	}).Handler(h)
}
