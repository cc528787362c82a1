package server

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lsx-portal/config"
	"lsx-portal/dto"
	"lsx-portal/internal/imagehost"
	"lsx-portal/internal/notion"
	"lsx-portal/internal/ranking"
	"lsx-portal/internal/services"
	"lsx-portal/internal/session"
)

var schema = config.DefaultSchema()

// fakeNotion serves the member database over HTTP and applies the equality
// filters used for login and duplicate-name checks.
type fakeNotion struct {
	mu    sync.Mutex
	pages []notion.Page
}

func (f *fakeNotion) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch {
	case r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, "/query"):
		var q notion.QueryRequest
		_ = json.NewDecoder(r.Body).Decode(&q)
		resp := notion.QueryResponse{Results: []notion.Page{}}
		if strings.Contains(r.URL.Path, "/databases/members/") {
			for _, p := range f.pages {
				if matches(p, q.Filter) {
					resp.Results = append(resp.Results, p)
				}
			}
		}
		_ = json.NewEncoder(w).Encode(resp)

	case strings.HasPrefix(r.URL.Path, "/v1/pages/"):
		id := strings.TrimPrefix(r.URL.Path, "/v1/pages/")
		for i := range f.pages {
			if f.pages[i].ID != id {
				continue
			}
			if r.Method == http.MethodPatch {
				var body struct {
					Properties map[string]json.RawMessage `json:"properties"`
				}
				_ = json.NewDecoder(r.Body).Decode(&body)
				for k, v := range body.Properties {
					f.pages[i].Properties[k] = v
				}
			}
			_ = json.NewEncoder(w).Encode(f.pages[i])
			return
		}
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"object":"error","status":404,"code":"object_not_found"}`))

	default:
		w.WriteHeader(http.StatusBadRequest)
	}
}

func matches(p notion.Page, f notion.Filter) bool {
	prop, ok := f["property"].(string)
	if !ok {
		return true
	}
	raw, _ := json.Marshal(f)
	var shape struct {
		Title   map[string]string `json:"title"`
		Formula struct {
			String map[string]string `json:"string"`
		} `json:"formula"`
	}
	_ = json.Unmarshal(raw, &shape)
	want, ok := shape.Title["equals"]
	if !ok {
		want, ok = shape.Formula.String["equals"]
	}
	return !ok || p.Properties.Text(prop, "") == want
}

func memberPage(t *testing.T, id, name, username, password, rank string, score float64) notion.Page {
	t.Helper()
	f := schema.Member
	props := map[string]any{
		f.Name:         notion.TitleValue(name),
		f.Username:     map[string]any{"type": "formula", "formula": map[string]any{"type": "string", "string": username}},
		f.Password:     notion.RichTextValue(password),
		f.OverallRank:  map[string]any{"type": "formula", "formula": map[string]any{"type": "string", "string": rank}},
		f.OverallScore: map[string]any{"type": "number", "number": score},
	}
	bag := notion.Properties{}
	for k, v := range props {
		raw, err := json.Marshal(v)
		require.NoError(t, err)
		bag[k] = raw
	}
	return notion.Page{ID: id, Properties: bag}
}

type harness struct {
	app    *fiber.App
	notion *fakeNotion
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	hashed, err := services.HashPassword("secret")
	require.NoError(t, err)

	fake := &fakeNotion{pages: []notion.Page{
		memberPage(t, "cat", "Cat", "3@lsxrank", "x", "3/3", 60),
		memberPage(t, "ann", "Ann", "1@lsxrank", hashed, "1/3", 100),
		memberPage(t, "bo", "Bo", "2@lsxrank", "x", "2/3", 80),
	}}
	notionSrv := httptest.NewServer(fake)
	t.Cleanup(notionSrv.Close)

	imgbb := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success":true,"status":200,"data":{"url":"https://i.ibb.co/abc/me.png"}}`))
	}))
	t.Cleanup(imgbb.Close)

	cfg := config.Config{
		MemberDBID: "members",
		JWTSecret:  "test-secret",
		RankingTTL: time.Minute,
		Schema:     schema,
	}
	s := BuildServices(cfg, Deps{
		Store:  notion.NewClient(notion.ClientConfig{BaseURL: notionSrv.URL, Token: "t"}, nil),
		Images: imagehost.NewClient(imagehost.Config{URL: imgbb.URL, APIKey: "k"}, nil),
		Clock:  ranking.FixedClock(time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)),
	})
	return &harness{app: NewApp(s), notion: fake}
}

func (h *harness) do(t *testing.T, req *http.Request) (*http.Response, []byte) {
	t.Helper()
	resp, err := h.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, body
}

func jsonRequest(method, path string, v any) *http.Request {
	raw, _ := json.Marshal(v)
	req := httptest.NewRequest(method, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestLeaderboardOverHTTP(t *testing.T) {
	h := newHarness(t)

	resp, body := h.do(t, httptest.NewRequest("GET", "/leaderboard", nil))
	require.Equal(t, 200, resp.StatusCode, string(body))

	var board struct {
		View  string `json:"view"`
		Total int    `json:"total"`
		Rows  []struct {
			DisplayName string `json:"display_name"`
			DisplayRank int    `json:"display_rank"`
		} `json:"rows"`
	}
	require.NoError(t, json.Unmarshal(body, &board))
	assert.Equal(t, "overall", board.View)
	require.Len(t, board.Rows, 3)
	for i, want := range []string{"Ann", "Bo", "Cat"} {
		assert.Equal(t, want, board.Rows[i].DisplayName)
		assert.Equal(t, i+1, board.Rows[i].DisplayRank)
	}
	assert.NotContains(t, string(body), "password")
}

func TestLoginAndProfile(t *testing.T) {
	h := newHarness(t)

	resp, body := h.do(t, jsonRequest("POST", "/login", dto.LoginRequest{Username: "1@lsxrank", Password: "wrong"}))
	assert.Equal(t, 401, resp.StatusCode)

	resp, body = h.do(t, jsonRequest("POST", "/login", dto.LoginRequest{Username: "1@lsxrank", Password: "secret", Remember: true}))
	require.Equal(t, 200, resp.StatusCode, string(body))

	var login dto.LoginResponse
	require.NoError(t, json.Unmarshal(body, &login))
	assert.Equal(t, "Ann", login.Member.DisplayName)
	assert.Equal(t, services.PlaceholderPhotoURL, login.Member.PhotoURL)
	assert.Equal(t, session.ProfileScreen("ann"), login.State.Screen)
	assert.NotEmpty(t, login.AccessToken)

	var remember string
	for _, ck := range resp.Cookies() {
		if ck.Name == session.RememberCookieName {
			remember = ck.Value
		}
	}
	require.NotEmpty(t, remember)

	req := httptest.NewRequest("GET", "/me", nil)
	req.Header.Set("Authorization", "Bearer "+login.AccessToken)
	resp, body = h.do(t, req)
	require.Equal(t, 200, resp.StatusCode, string(body))
	assert.Contains(t, string(body), `"display_name":"Ann"`)

	req = httptest.NewRequest("GET", "/me", nil)
	req.AddCookie(&http.Cookie{Name: session.RememberCookieName, Value: remember})
	resp, _ = h.do(t, req)
	assert.Equal(t, 200, resp.StatusCode)

	req = jsonRequest("PATCH", "/me", map[string]any{"display_name": "Bo"})
	req.Header.Set("Authorization", "Bearer "+login.AccessToken)
	resp, body = h.do(t, req)
	assert.Equal(t, 400, resp.StatusCode)
	assert.Contains(t, string(body), "already taken")
}

func TestLogoutClearsCookies(t *testing.T) {
	h := newHarness(t)

	req := httptest.NewRequest("POST", "/logout", nil)
	req.AddCookie(&http.Cookie{Name: session.StateCookieName, Value: session.Encode(session.State{MemberID: "ann", Screen: session.ProfileScreen("ann")})})
	resp, body := h.do(t, req)
	require.Equal(t, 200, resp.StatusCode, string(body))

	var st dto.StateResponse
	require.NoError(t, json.Unmarshal(body, &st))
	assert.Equal(t, session.Default(), st.State)

	cleared := map[string]bool{}
	for _, ck := range resp.Cookies() {
		if ck.Value == "" && !ck.Expires.IsZero() && ck.Expires.Before(time.Now()) {
			cleared[ck.Name] = true
		}
	}
	assert.True(t, cleared[session.StateCookieName])
	assert.True(t, cleared[session.RememberCookieName])
}

func TestProfileRequiresLogin(t *testing.T) {
	h := newHarness(t)

	resp, body := h.do(t, httptest.NewRequest("GET", "/me", nil))
	assert.Equal(t, 401, resp.StatusCode)
	assert.JSONEq(t, `{"error":"Unauthorized"}`, string(body))

	resp, body = h.do(t, jsonRequest("POST", "/state/navigate", dto.NavigateRequest{Screen: session.ModeProfile}))
	require.Equal(t, 200, resp.StatusCode)
	var st dto.StateResponse
	require.NoError(t, json.Unmarshal(body, &st))
	assert.Equal(t, session.LoginScreen(), st.State.Screen)

	resp, _ = h.do(t, jsonRequest("POST", "/state/navigate", map[string]string{"screen": "admin"}))
	assert.Equal(t, 400, resp.StatusCode)
}

func TestPhotoUpload(t *testing.T) {
	h := newHarness(t)
	_, body := h.do(t, jsonRequest("POST", "/login", dto.LoginRequest{Username: "1@lsxrank", Password: "secret"}))
	var login dto.LoginResponse
	require.NoError(t, json.Unmarshal(body, &login))

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "me.png")
	require.NoError(t, err)
	_, _ = part.Write([]byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0})
	require.NoError(t, mw.Close())

	req := httptest.NewRequest("POST", "/me/photo", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+login.AccessToken)
	resp, body := h.do(t, req)
	require.Equal(t, 200, resp.StatusCode, string(body))
	assert.JSONEq(t, `{"photo_url":"https://i.ibb.co/abc/me.png"}`, string(body))
}

func TestRegisterValidation(t *testing.T) {
	h := newHarness(t)

	resp, body := h.do(t, jsonRequest("POST", "/register", dto.RegisterRequest{
		DisplayName: "Ann", Password: "abcd", ConfirmPassword: "abcd", Birthday: "2014-01-01",
	}))
	assert.Equal(t, 400, resp.StatusCode)
	assert.Contains(t, string(body), "already taken")
}

func TestArchiveNotConfigured(t *testing.T) {
	h := newHarness(t)

	resp, body := h.do(t, httptest.NewRequest("GET", "/leaderboard/history", nil))
	assert.Equal(t, 503, resp.StatusCode)
	assert.Contains(t, string(body), "archive")
}

func TestHealthAndMetrics(t *testing.T) {
	h := newHarness(t)

	resp, body := h.do(t, httptest.NewRequest("GET", "/healthz", nil))
	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, "ok", string(body))

	resp, _ = h.do(t, httptest.NewRequest("GET", "/metrics", nil))
	assert.Equal(t, 200, resp.StatusCode)
}
