package router

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hashfx/techblog/cmd/blog/auth"
	"github.com/hashfx/techblog/cmd/blog/handlers"
	"github.com/hashfx/techblog/dto"
	"github.com/hashfx/techblog/models"
	"github.com/hashfx/techblog/repositories"
	"github.com/hashfx/techblog/services"
	"github.com/hashfx/techblog/storage"
	"github.com/hashfx/techblog/web"
)

type recordingNotifier struct {
	got []models.Contact
	err error
}

func (n *recordingNotifier) NotifyContact(_ context.Context, c models.Contact) error {
	n.got = append(n.got, c)
	return n.err
}

type testApp struct {
	engine   *gin.Engine
	posts    *repositories.MemoryPostRepository
	contacts *repositories.MemoryContactRepository
	notifier *recordingNotifier
	tokens   *auth.JWTManager
	uploads  string
}

func seedPosts(n int) []models.Post {
	out := make([]models.Post, n)
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := range out {
		out[i] = models.Post{
			Title:   "Post " + string(rune('A'+i)),
			Slug:    "post-" + string(rune('a'+i)),
			Content: "<p>body</p>",
			Date:    base.AddDate(0, 0, i),
		}
	}
	return out
}

func newTestApp(t *testing.T, n int) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	posts := repositories.NewMemoryPostRepository(seedPosts(n)...)
	contacts := repositories.NewMemoryContactRepository()
	notifier := &recordingNotifier{}
	tokens, err := auth.NewJWTManager("test-secret", time.Hour)
	require.NoError(t, err)

	dir := t.TempDir()
	store, err := storage.NewLocalStore(dir)
	require.NoError(t, err)

	engine, err := New(Deps{
		Site:      web.Site{BlogName: "Test Blog"},
		Posts:     services.NewPostService(posts, 3),
		Contacts:  services.NewContactService(contacts, notifier),
		Auth:      services.NewAuthService("admin", "pw", tokens),
		Uploads:   services.NewUploadService(store, 1024),
		Cookie:    auth.CookieOptions{TTL: time.Hour},
		DB:        handlers.PingFunc(func(context.Context) error { return nil }),
		UploadDir: dir,
	})
	require.NoError(t, err)

	return &testApp{engine: engine, posts: posts, contacts: contacts, notifier: notifier, tokens: tokens, uploads: dir}
}

func (a *testApp) do(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	a.engine.ServeHTTP(w, req)
	return w
}

func (a *testApp) get(path string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	return a.do(req)
}

func (a *testApp) postForm(path string, form url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	return a.do(req)
}

func (a *testApp) login(t *testing.T) *http.Cookie {
	t.Helper()
	w := a.postForm("/dashboard", url.Values{"uname": {"admin"}, "pass": {"pw"}})
	require.Equal(t, http.StatusSeeOther, w.Code)
	for _, c := range w.Result().Cookies() {
		if c.Name == auth.CookieName {
			return c
		}
	}
	t.Fatal("session cookie not set")
	return nil
}

func TestHomePagination(t *testing.T) {
	app := newTestApp(t, 7)

	testCases := []struct {
		name      string
		path      string
		wantSlugs []string
		wantPrev  string
		wantNext  string
	}{
		{name: "no page", path: "/", wantSlugs: []string{"post-a", "post-b", "post-c"}, wantPrev: `href="#"`, wantNext: `href="/?page=2"`},
		{name: "garbage page", path: "/?page=abc", wantSlugs: []string{"post-a"}, wantPrev: `href="#"`, wantNext: `href="/?page=2"`},
		{name: "middle", path: "/?page=2", wantSlugs: []string{"post-d", "post-f"}, wantPrev: `href="/?page=1"`, wantNext: `href="/?page=3"`},
		{name: "last", path: "/?page=3", wantSlugs: []string{"post-g"}, wantPrev: `href="/?page=2"`, wantNext: `href="#"`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w := app.get(tc.path)
			require.Equal(t, http.StatusOK, w.Code)
			body := w.Body.String()
			for _, s := range tc.wantSlugs {
				assert.Contains(t, body, "/post/"+s)
			}
			assert.Contains(t, body, tc.wantPrev)
			assert.Contains(t, body, tc.wantNext)
		})
	}
}

func TestHomeOutOfRangeRendersEmptyPage(t *testing.T) {
	app := newTestApp(t, 7)
	w := app.get("/?page=9")
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "/post/post-")
	assert.Contains(t, w.Body.String(), `href="/?page=8"`)
}

func TestPostBySlug(t *testing.T) {
	app := newTestApp(t, 2)

	w := app.get("/post/post-b")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Post B")
	assert.Contains(t, w.Body.String(), "<p>body</p>")

	w = app.get("/post/missing")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Not Found")

	assert.Equal(t, http.StatusNotFound, app.get("/nope").Code)
}

func TestStaticPages(t *testing.T) {
	app := newTestApp(t, 0)
	for _, p := range []string{"/about", "/contact", "/dashboard"} {
		w := app.get(p)
		assert.Equal(t, http.StatusOK, w.Code, p)
		assert.Contains(t, w.Body.String(), "Test Blog", p)
	}
}

func TestContactSubmit(t *testing.T) {
	app := newTestApp(t, 0)

	w := app.postForm("/contact", url.Values{
		"name": {"Ada"}, "email": {"ada@example.com"}, "phone": {"0101234"}, "message": {"hi"},
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Thanks for reaching out")

	stored := app.contacts.All()
	require.Len(t, stored, 1)
	assert.Equal(t, "Ada", stored[0].Name)
	require.Len(t, app.notifier.got, 1)
	assert.Equal(t, "hi", app.notifier.got[0].Msg)
}

func TestContactSubmitInvalid(t *testing.T) {
	app := newTestApp(t, 0)

	w := app.postForm("/contact", url.Values{"name": {"Ada"}, "email": {"nope"}, "phone": {"1"}, "message": {"hi"}})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "email must be a valid email address")
	assert.Contains(t, w.Body.String(), `value="Ada"`)
	assert.Empty(t, app.contacts.All())
}

func TestContactNotifyFailureStillSucceeds(t *testing.T) {
	app := newTestApp(t, 0)
	app.notifier.err = errors.New("smtp down")

	w := app.postForm("/contact", url.Values{
		"name": {"Ada"}, "email": {"ada@example.com"}, "phone": {"0101234"}, "message": {"hi"},
	})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, app.contacts.All(), 1)
}

func TestLogin(t *testing.T) {
	app := newTestApp(t, 2)

	w := app.postForm("/dashboard", url.Values{"uname": {"admin"}, "pass": {"wrong"}})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid user name or password")

	cookie := app.login(t)
	w = app.get("/dashboard", cookie)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Admin Panel")
	assert.Contains(t, w.Body.String(), `href="/edit/2"`)

	w = app.get("/logout", cookie)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Contains(t, w.Header().Get("Set-Cookie"), "Max-Age=0")
}

func TestAdminRoutesRequireSession(t *testing.T) {
	app := newTestApp(t, 2)

	for _, path := range []string{"/edit/0", "/edit/1", "/delete/1"} {
		w := app.get(path)
		assert.Equal(t, http.StatusFound, w.Code, path)
		assert.Equal(t, "/dashboard", w.Header().Get("Location"), path)
	}

	w := app.postForm("/edit/0", url.Values{"title": {"x"}, "slug": {"x"}, "content": {"x"}})
	assert.Equal(t, http.StatusFound, w.Code)
	posts, _ := app.posts.List(context.Background())
	assert.Len(t, posts, 2)
}

func TestCreateEditDeletePost(t *testing.T) {
	app := newTestApp(t, 1)
	cookie := app.login(t)

	w := app.get("/edit/0", cookie)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Add a new post")

	w = app.postForm("/edit/0", url.Values{
		"title": {"New"}, "tline": {"sub"}, "slug": {"new"}, "content": {"<b>hi</b>"}, "img_file": {"x.png"},
	}, cookie)
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/edit/2", w.Header().Get("Location"))

	created, err := app.posts.FindBySlug(context.Background(), "new")
	require.NoError(t, err)
	assert.False(t, created.Date.IsZero())

	w = app.postForm("/edit/2", url.Values{"title": {"Renamed"}, "slug": {"new"}, "content": {"c"}}, cookie)
	require.Equal(t, http.StatusSeeOther, w.Code)
	updated, err := app.posts.FindBySno(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Title)
	assert.Equal(t, created.Date, updated.Date)

	w = app.get("/edit/2", cookie)
	assert.Contains(t, w.Body.String(), `value="Renamed"`)

	w = app.get("/delete/2", cookie)
	assert.Equal(t, http.StatusFound, w.Code)
	_, err = app.posts.FindBySno(context.Background(), 2)
	assert.ErrorIs(t, err, repositories.ErrNotFound)

	assert.Equal(t, http.StatusNotFound, app.get("/delete/2", cookie).Code)
	assert.Equal(t, http.StatusNotFound, app.get("/edit/99", cookie).Code)
	assert.Equal(t, http.StatusNotFound, app.get("/edit/abc", cookie).Code)
}

func TestSavePostValidation(t *testing.T) {
	app := newTestApp(t, 0)
	cookie := app.login(t)

	w := app.postForm("/edit/0", url.Values{"title": {"Only title"}}, cookie)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "slug is required")
	assert.Contains(t, w.Body.String(), `value="Only title"`)
}

func multipartUpload(t *testing.T, field, name string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if field != "" {
		fw, err := mw.CreateFormFile(field, name)
		require.NoError(t, err)
		_, err = fw.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestUpload(t *testing.T) {
	app := newTestApp(t, 0)
	cookie := app.login(t)

	body, ct := multipartUpload(t, "file1", "../../My Photo.PNG", []byte("png-bytes"))
	req := httptest.NewRequest(http.MethodPost, "/uploader", body)
	req.Header.Set("Content-Type", ct)
	req.Header.Set("Accept", "application/json")
	req.AddCookie(cookie)
	w := app.do(req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp dto.UploadResponseDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, strings.HasSuffix(resp.Ref, "-My_Photo.png"), resp.Ref)

	data, err := os.ReadFile(filepath.Join(app.uploads, resp.Ref))
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(data))

	w = app.get("/uploads/"+resp.Ref, cookie)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestUploadErrors(t *testing.T) {
	app := newTestApp(t, 0)
	token, err := app.tokens.Sign("admin", services.RoleAdmin)
	require.NoError(t, err)

	send := func(field string, content []byte) *httptest.ResponseRecorder {
		body, ct := multipartUpload(t, field, "a.png", content)
		req := httptest.NewRequest(http.MethodPost, "/uploader", body)
		req.Header.Set("Content-Type", ct)
		req.Header.Set("Authorization", "Bearer "+token)
		return app.do(req)
	}

	assert.Equal(t, http.StatusBadRequest, send("", nil).Code)
	assert.Equal(t, http.StatusBadRequest, send("file1", nil).Code)
	assert.Equal(t, http.StatusRequestEntityTooLarge, send("file1", bytes.Repeat([]byte("x"), 2048)).Code)

	body, ct := multipartUpload(t, "file1", "a.png", []byte("x"))
	req := httptest.NewRequest(http.MethodPost, "/uploader", body)
	req.Header.Set("Content-Type", ct)
	req.Header.Set("Authorization", "Bearer forged")
	assert.Equal(t, http.StatusUnauthorized, app.do(req).Code)
}

func TestAPIPosts(t *testing.T) {
	app := newTestApp(t, 7)

	w := app.get("/api/v1/posts?page=3")
	require.Equal(t, http.StatusOK, w.Code)
	var page dto.PagePostDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	assert.Equal(t, 3, page.Page)
	assert.Equal(t, 3, page.LastPage)
	assert.Equal(t, 3, page.PageSize)
	require.Len(t, page.Data, 1)
	assert.Equal(t, "post-g", page.Data[0].Slug)
	assert.Equal(t, "#", page.Next)
	assert.False(t, page.OutOfRange)

	w = app.get("/api/v1/posts?page=0")
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	assert.True(t, page.OutOfRange)
	assert.Empty(t, page.Data)

	w = app.get("/api/v1/posts/post-a")
	require.Equal(t, http.StatusOK, w.Code)
	var post dto.PostDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &post))
	assert.Equal(t, int64(1), post.Sno)

	assert.Equal(t, http.StatusNotFound, app.get("/api/v1/posts/none").Code)
}

func TestOpsRoutes(t *testing.T) {
	app := newTestApp(t, 0)

	w := app.get("/health")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok","database":"up"}`, w.Body.String())

	w = app.get("/metrics")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "techblog_http_requests_total")
}

func TestHealthDegraded(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/health", handlers.HealthHandler(handlers.PingFunc(func(context.Context) error { return errors.New("down") })))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), `"database":"down"`)
}

func TestWithCORS(t *testing.T) {
	app := newTestApp(t, 0)
	assert.Equal(t, http.Handler(app.engine), WithCORS(app.engine, nil))

	h := WithCORS(app.engine, []string{"https://reader.example"})
	req := httptest.NewRequest(http.MethodGet, "/api/v1/posts", nil)
	req.Header.Set("Origin", "https://reader.example")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, "https://reader.example", w.Header().Get("Access-Control-Allow-Origin"))
}
