package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hashfx/techblog/cmd/blog/auth"
	"github.com/hashfx/techblog/cmd/blog/trace"
	"github.com/hashfx/techblog/metrics"
)

type fakeParser struct{ valid string }

func (f fakeParser) ParseSession(token string) (string, error) {
	if token != f.valid {
		return "", errors.New("bad token")
	}
	return "admin", nil
}

func newEngine(handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(handlers...)
	return r
}

func TestRequestTraceKeepsIncomingID(t *testing.T) {
	r := newEngine(RequestTrace())
	var seen string
	r.GET("/x", func(c *gin.Context) {
		seen = trace.RequestIDFromContext(c.Request.Context())
		c.Status(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(HeaderRequestID, "incoming")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "incoming", seen)
	assert.Equal(t, "incoming", w.Header().Get(HeaderRequestID))
	assert.Equal(t, "0", w.Header().Get(HeaderSpanID))
}

func TestRequestTraceGeneratesID(t *testing.T) {
	r := newEngine(RequestTrace(), RequestLogging())
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x?page=2", nil))

	assert.Len(t, w.Header().Get(HeaderRequestID), 32)
}

func TestMetricsUsesRouteTemplate(t *testing.T) {
	r := newEngine(Metrics())
	r.GET("/post/:slug", func(c *gin.Context) { c.Status(http.StatusOK) })

	counter := metrics.HTTPRequests.WithLabelValues(http.MethodGet, "/post/:slug", "200")
	before := testutil.ToFloat64(counter)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/post/hello", nil))
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/post/other", nil))

	assert.Equal(t, before+2, testutil.ToFloat64(counter))
}

func adminEngine() *gin.Engine {
	r := newEngine(LoadSession(fakeParser{valid: "good"}))
	r.GET("/dashboard", func(c *gin.Context) {
		if s, err := auth.SessionFrom(c); err == nil {
			c.String(http.StatusOK, "hello "+s.User+" via "+s.IssuedVia)
			return
		}
		c.String(http.StatusOK, "login")
	})
	admin := r.Group("/", RequireAdmin())
	admin.GET("/edit/:sno", func(c *gin.Context) { c.String(http.StatusOK, "edit") })
	admin.GET("/api/v1/admin", func(c *gin.Context) { c.String(http.StatusOK, "api") })
	return r
}

func TestLoadSessionDoesNotBlock(t *testing.T) {
	r := adminEngine()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/dashboard", nil))
	assert.Equal(t, "login", w.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.AddCookie(&http.Cookie{Name: auth.CookieName, Value: "good"})
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "hello admin via cookie", w.Body.String())
}

func TestRequireAdmin(t *testing.T) {
	testCases := []struct {
		name         string
		path         string
		cookie       string
		bearer       string
		wantStatus   int
		wantLocation string
	}{
		{name: "cookie session", path: "/edit/1", cookie: "good", wantStatus: http.StatusOK},
		{name: "bearer session", path: "/edit/1", bearer: "good", wantStatus: http.StatusOK},
		{name: "no session redirects", path: "/edit/1", wantStatus: http.StatusFound, wantLocation: LoginPath},
		{name: "bad cookie redirects", path: "/edit/1", cookie: "forged", wantStatus: http.StatusFound, wantLocation: LoginPath},
		{name: "bad bearer is 401", path: "/edit/1", bearer: "forged", wantStatus: http.StatusUnauthorized},
		{name: "api without session is 401", path: "/api/v1/admin", wantStatus: http.StatusUnauthorized},
	}

	r := adminEngine()
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tc.path, nil)
			if tc.cookie != "" {
				req.AddCookie(&http.Cookie{Name: auth.CookieName, Value: tc.cookie})
			}
			if tc.bearer != "" {
				req.Header.Set("Authorization", "Bearer "+tc.bearer)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			require.Equal(t, tc.wantStatus, w.Code)
			if tc.wantLocation != "" {
				assert.Equal(t, tc.wantLocation, w.Header().Get("Location"))
			}
		})
	}
}
