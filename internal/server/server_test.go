package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"leetcoders.uz/directory/internal/backend"
	"leetcoders.uz/directory/internal/config"
	"leetcoders.uz/directory/internal/middleware"
)

type fakeBackend struct {
	getUsers func(w http.ResponseWriter, r *http.Request)
	addUser  func(w http.ResponseWriter, r *http.Request)
	calls    atomic.Int32
}

func (f *fakeBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.calls.Add(1)
	switch r.URL.Path {
	case "/api/v1/get-users":
		f.getUsers(w, r)
	case "/api/v1/add-user":
		f.addUser(w, r)
	default:
		http.NotFound(w, r)
	}
}

func jsonReply(status int, body string) func(http.ResponseWriter, *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}
}

func setupServer(t *testing.T, fb *fakeBackend) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	remote := httptest.NewServer(fb)
	t.Cleanup(remote.Close)

	cfg := &config.Config{
		AppEnv:         "test",
		AllowedOrigins: []string{"http://localhost:3000"},
		InflightTTL:    time.Second,
		DonationURL:    "https://donate.example/leetcoders",
	}
	srv, err := NewServer(cfg, backend.NewClient(remote.URL+"/api/v1", 0), nil)
	require.NoError(t, err)
	return srv
}

func do(srv *Server, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	return w
}

func postForm(path string, form url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func postJSON(path, body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

const twoUsers = `{
	"users": [
		{"id": 1, "username": "alice", "real_name": {"String": "Alice", "Valid": true},
		 "country_code": {"String": "UZ", "Valid": true}, "country_name": {"String": "Uzbekistan", "Valid": true},
		 "total_problems_solved": 300, "total_submissions": 900},
		{"id": 2, "username": "bob", "real_name": {"String": "", "Valid": false},
		 "country_name": {"String": "", "Valid": false}, "total_problems_solved": 10, "total_submissions": 20}
	],
	"total_count": 250,
	"page": 1,
	"limit": 100
}`

func TestHealth(t *testing.T) {
	srv := setupServer(t, &fakeBackend{})

	w := do(srv, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestIndex_RendersIdlePage(t *testing.T) {
	fb := &fakeBackend{}
	srv := setupServer(t, fb)

	w := do(srv, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, w.Code)

	body := w.Body.String()
	assert.Contains(t, body, "Consider donating for the server")
	assert.Contains(t, body, `href="https://donate.example/leetcoders"`)
	assert.Contains(t, body, "Search LeetCode Users")
	assert.Contains(t, body, "Could not find yourself?")
	assert.Contains(t, body, "LeetCode Username")
	assert.Contains(t, body, "World wide")
	assert.NotContains(t, body, "No users found for the selected country.")
	assert.Equal(t, int32(0), fb.calls.Load())

	var issued bool
	for _, ck := range w.Result().Cookies() {
		issued = issued || ck.Name == middleware.VisitorCookie
	}
	assert.True(t, issued, "visitor cookie is issued")
}

func TestSearchPage_RendersResults(t *testing.T) {
	fb := &fakeBackend{getUsers: jsonReply(http.StatusOK, twoUsers)}
	srv := setupServer(t, fb)

	w := do(srv, httptest.NewRequest(http.MethodGet, "/search?country=UZ", nil))
	require.Equal(t, http.StatusOK, w.Code)

	body := w.Body.String()
	assert.Contains(t, body, "Found 250 users (Page 1 of 3)")
	assert.Contains(t, body, "alice")
	assert.Contains(t, body, "🇺🇿")
	assert.Contains(t, body, "Unknown")
	assert.Contains(t, body, `<button type="submit" disabled>Previous</button>`)
	assert.Contains(t, body, `<input type="hidden" name="page" value="2">`)
	assert.NotContains(t, body, `disabled>Next`)
}

func TestSearchPage_FailureLooksEmpty(t *testing.T) {
	fb := &fakeBackend{getUsers: jsonReply(http.StatusInternalServerError, `oops`)}
	srv := setupServer(t, fb)

	w := do(srv, httptest.NewRequest(http.MethodGet, "/search?country=US", nil))
	require.Equal(t, http.StatusOK, w.Code)

	body := w.Body.String()
	assert.Contains(t, body, "No users found for the selected country.")
	assert.NotContains(t, body, "oops")
	assert.NotContains(t, body, "Found ")
}

func TestSearchPage_FilterOnlyNarrowsPicker(t *testing.T) {
	fb := &fakeBackend{}
	srv := setupServer(t, fb)

	w := do(srv, httptest.NewRequest(http.MethodGet, "/search?action=filter&country=UZ&country_filter=zzzz", nil))
	require.Equal(t, http.StatusOK, w.Code)

	body := w.Body.String()
	assert.Contains(t, body, `id="no-countries">No countries found.`)
	assert.Contains(t, body, `<option value="UZ" selected>`)
	assert.Equal(t, int32(0), fb.calls.Load())
}

func TestSearchPage_InvalidPage(t *testing.T) {
	fb := &fakeBackend{}
	srv := setupServer(t, fb)

	w := do(srv, httptest.NewRequest(http.MethodGet, "/search?country=UZ&page=-1", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, int32(0), fb.calls.Load())
}

func TestAddUserPage_BlankUsername(t *testing.T) {
	fb := &fakeBackend{}
	srv := setupServer(t, fb)

	w := do(srv, postForm("/add-user", url.Values{"username": {"   "}}))
	require.Equal(t, http.StatusOK, w.Code)

	assert.Contains(t, w.Body.String(), "Please enter a username")
	assert.Equal(t, int32(0), fb.calls.Load())
}

func TestAddUserPage_ServerMessageKeepsInput(t *testing.T) {
	fb := &fakeBackend{addUser: jsonReply(http.StatusConflict, `{"message": "User already exists"}`)}
	srv := setupServer(t, fb)

	w := do(srv, postForm("/add-user", url.Values{"username": {"foo"}}))
	require.Equal(t, http.StatusOK, w.Code)

	body := w.Body.String()
	assert.Contains(t, body, "User already exists")
	assert.Contains(t, body, `value="foo"`)
}

func TestAddUserPage_Success(t *testing.T) {
	fb := &fakeBackend{addUser: func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Username string `json:"username"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "foo", req.Username)
		jsonReply(http.StatusCreated, `{"id": 9, "username": "foo", "total_problems_solved": 5}`)(w, r)
	}}
	srv := setupServer(t, fb)

	w := do(srv, postForm("/add-user", url.Values{"username": {" foo "}}))
	require.Equal(t, http.StatusOK, w.Code)

	body := w.Body.String()
	assert.Contains(t, body, "User added successfully!")
	assert.Contains(t, body, `name="username" value=""`)
	assert.Contains(t, body, ">foo</td>")
}

func TestAPI_Countries(t *testing.T) {
	srv := setupServer(t, &fakeBackend{})

	w := do(srv, httptest.NewRequest(http.MethodGet, "/api/v1/countries?search=uzbek", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data []struct {
			Code string `json:"code"`
			Name string `json:"name"`
			Flag string `json:"flag"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "UZ", resp.Data[0].Code)
	assert.Equal(t, "🇺🇿", resp.Data[0].Flag)
}

func TestAPI_SearchUsers(t *testing.T) {
	fb := &fakeBackend{getUsers: jsonReply(http.StatusOK, twoUsers)}
	srv := setupServer(t, fb)

	w := do(srv, httptest.NewRequest(http.MethodGet, "/api/v1/users?country=UZ", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data []struct {
			Rank     int    `json:"rank"`
			RealName string `json:"real_name"`
		} `json:"data"`
		Meta struct {
			CurrentPage int   `json:"current_page"`
			TotalPages  int   `json:"total_pages"`
			TotalItems  int64 `json:"total_items"`
			Limit       int   `json:"limit"`
		} `json:"meta"`
		State string `json:"state"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 2)
	assert.Equal(t, 2, resp.Data[1].Rank)
	assert.Equal(t, "-", resp.Data[1].RealName)
	assert.Equal(t, 3, resp.Meta.TotalPages)
	assert.Equal(t, int64(250), resp.Meta.TotalItems)
	assert.Equal(t, 100, resp.Meta.Limit)
	assert.Equal(t, "loaded", resp.State)
}

func TestAPI_AddUserStatuses(t *testing.T) {
	tests := []struct {
		name       string
		reply      func(http.ResponseWriter, *http.Request)
		body       string
		wantStatus int
		wantError  string
	}{
		{"blank", nil, `{"username": "  "}`, http.StatusBadRequest, "Please enter a username"},
		{"conflict", jsonReply(http.StatusConflict, `{"message": "User already exists"}`), `{"username": "foo"}`, http.StatusConflict, "User already exists"},
		{"no message", jsonReply(http.StatusInternalServerError, `{}`), `{"username": "foo"}`, http.StatusInternalServerError, "Failed to add user. Please try again."},
		{"malformed", jsonReply(http.StatusCreated, `not json`), `{"username": "foo"}`, http.StatusBadGateway, "Failed to add user. Please try again."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := setupServer(t, &fakeBackend{addUser: tt.reply})

			w := do(srv, postJSON("/api/v1/users", tt.body))
			assert.Equal(t, tt.wantStatus, w.Code)

			var resp map[string]string
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.wantError, resp["error"])
		})
	}
}

func TestAPI_AddUserCreated(t *testing.T) {
	fb := &fakeBackend{addUser: jsonReply(http.StatusCreated, `{"user": {"id": 3, "username": "foo"}}`)}
	srv := setupServer(t, fb)

	w := do(srv, postJSON("/api/v1/users", `{"username": "foo"}`))
	require.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		Message string `json:"message"`
		Data    struct {
			Rank     int    `json:"rank"`
			Username string `json:"username"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "User added successfully!", resp.Message)
	assert.Equal(t, 1, resp.Data.Rank)
	assert.Equal(t, "foo", resp.Data.Username)
}

func TestAPI_AddUserNetworkError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{InflightTTL: time.Second, DonationURL: "#"}
	srv, err := NewServer(cfg, backend.NewClient("http://127.0.0.1:1/api/v1", time.Second), nil)
	require.NoError(t, err)

	w := do(srv, postJSON("/api/v1/users", `{"username": "foo"}`))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "Network error. Please try again.")
}

func TestSearchPage_NonStandardTimestamps(t *testing.T) {
	fb := &fakeBackend{getUsers: jsonReply(http.StatusOK, `{
		"users": [
			{"id": 1, "username": "alice", "created_at": "2024-05-01 10:00:00"},
			{"id": 2, "username": "bob", "created_at": {"Time": "2024-05-01T10:00:00Z", "Valid": true}}
		],
		"total_count": 2,
		"page": 1
	}`)}
	srv := setupServer(t, fb)

	w := do(srv, httptest.NewRequest(http.MethodGet, "/search?country=all", nil))
	require.Equal(t, http.StatusOK, w.Code)

	body := w.Body.String()
	assert.Contains(t, body, "Found 2 users (Page 1 of 1)")
	assert.Contains(t, body, ">alice</td>")
	assert.Contains(t, body, ">bob</td>")
	assert.NotContains(t, body, "No users found for the selected country.")
}

func TestAddUserPage_NonStandardTimestampIsSuccess(t *testing.T) {
	fb := &fakeBackend{addUser: jsonReply(http.StatusCreated, `{"id": 7, "username": "foo", "created_at": "2024-05-01 10:00:00"}`)}
	srv := setupServer(t, fb)

	w := do(srv, postForm("/add-user", url.Values{"username": {"foo"}}))
	require.Equal(t, http.StatusOK, w.Code)

	body := w.Body.String()
	assert.Contains(t, body, "User added successfully!")
	assert.NotContains(t, body, "Failed to add user")
	assert.Contains(t, body, ">foo</td>")
}

func TestAddUserPage_KeepsSearchCard(t *testing.T) {
	fb := &fakeBackend{
		getUsers: jsonReply(http.StatusOK, twoUsers),
		addUser:  jsonReply(http.StatusCreated, `{"message": "ok"}`),
	}
	srv := setupServer(t, fb)

	w := do(srv, postForm("/add-user", url.Values{
		"username": {"foo"},
		"country":  {"UZ"},
		"page":     {"1"},
	}))
	require.Equal(t, http.StatusOK, w.Code)

	body := w.Body.String()
	assert.Contains(t, body, "User added successfully!")
	assert.Contains(t, body, "Found 250 users (Page 1 of 3)")
	assert.Contains(t, body, `<option value="UZ" selected>`)
	assert.NotContains(t, body, "<td class=\"strong\"></td>", "no empty registration row")
}

func TestAddUserPage_IdleSearchCardStaysIdle(t *testing.T) {
	fb := &fakeBackend{addUser: jsonReply(http.StatusCreated, `{"id": 1, "username": "foo"}`)}
	srv := setupServer(t, fb)

	w := do(srv, postForm("/add-user", url.Values{"username": {"foo"}, "country": {"DE"}}))
	require.Equal(t, http.StatusOK, w.Code)

	body := w.Body.String()
	assert.Contains(t, body, `<option value="DE" selected>`)
	assert.NotContains(t, body, "Found ")
	assert.Equal(t, int32(1), fb.calls.Load(), "only the add-user call")
}

func TestPages_InvalidQueryIsRejected(t *testing.T) {
	fb := &fakeBackend{}
	srv := setupServer(t, fb)

	w := do(srv, httptest.NewRequest(http.MethodGet, "/?page=-2", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Page must be at least 1")

	w = do(srv, postForm("/add-user", url.Values{"username": {"foo"}, "page": {"-1"}}))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, int32(0), fb.calls.Load())
}

func TestAPI_AddUserCreatedWithoutRecord(t *testing.T) {
	fb := &fakeBackend{addUser: jsonReply(http.StatusCreated, `{"message": "ok", "created_at": "2024-05-01 10:00:00"}`)}
	srv := setupServer(t, fb)

	w := do(srv, postJSON("/api/v1/users", `{"username": "foo"}`))
	require.Equal(t, http.StatusCreated, w.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "User added successfully!", resp["message"])
	assert.NotContains(t, resp, "data")
}
