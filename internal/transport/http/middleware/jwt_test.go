package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"postboard/internal/app"
	"postboard/internal/model"
	"postboard/internal/pkg/jwtutil"
)

type stubUsers map[uint]bool

func (s stubUsers) Subject(_ context.Context, id uint) (*model.User, error) {
	if !s[id] {
		return nil, app.ErrUserNotFound
	}
	return &model.User{ID: id}, nil
}

func newAuthRouter(tokens TokenVerifier, users SubjectResolver) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/private", AuthJWT(tokens, users), func(c *gin.Context) {
		id, ok := UserID(c)
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.JSON(http.StatusOK, gin.H{"user_id": id})
	})
	return r
}

func doGet(r http.Handler, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func TestAuthJWT(t *testing.T) {
	tokens := jwtutil.NewManager("secret", time.Hour)
	r := newAuthRouter(tokens, stubUsers{1: true})

	valid, err := tokens.Issue(1)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	orphan, err := tokens.Issue(2)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	expired, err := tokens.WithClock(func() time.Time { return time.Now().Add(-2 * time.Hour) }).Issue(1)
	if err != nil {
		t.Fatalf("Issue expired: %v", err)
	}
	foreign, err := jwtutil.NewManager("other", time.Hour).Issue(1)
	if err != nil {
		t.Fatalf("Issue foreign: %v", err)
	}

	cases := []struct {
		name       string
		header     string
		wantStatus int
		wantDetail string
	}{
		{"missing header", "", http.StatusUnauthorized, "not authenticated"},
		{"wrong scheme", "Basic " + valid, http.StatusUnauthorized, "not authenticated"},
		{"empty bearer", "Bearer ", http.StatusUnauthorized, "not authenticated"},
		{"garbage", "Bearer nope", http.StatusUnauthorized, "could not validate credentials"},
		{"other secret", "Bearer " + foreign, http.StatusUnauthorized, "could not validate credentials"},
		{"expired", "Bearer " + expired, http.StatusUnauthorized, "token expired"},
		{"deleted subject", "Bearer " + orphan, http.StatusUnauthorized, "could not validate credentials"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rr := doGet(r, tc.header)
			if rr.Code != tc.wantStatus {
				t.Fatalf("status: got %d, want %d", rr.Code, tc.wantStatus)
			}
			var body struct {
				Detail string `json:"detail"`
			}
			if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if body.Detail != tc.wantDetail {
				t.Errorf("detail: got %q, want %q", body.Detail, tc.wantDetail)
			}
			if rr.Header().Get("WWW-Authenticate") != "Bearer" {
				t.Error("missing WWW-Authenticate header")
			}
		})
	}

	rr := doGet(r, "bearer "+valid)
	if rr.Code != http.StatusOK {
		t.Fatalf("valid token: got %d", rr.Code)
	}
	var body struct {
		UserID uint `json:"user_id"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.UserID != 1 {
		t.Errorf("user id: got %d", body.UserID)
	}
}

type brokenUsers struct{}

func (brokenUsers) Subject(context.Context, uint) (*model.User, error) {
	return nil, errors.New("db down")
}

func TestAuthJWT_StoreFailureIs500(t *testing.T) {
	tokens := jwtutil.NewManager("secret", time.Hour)
	token, err := tokens.Issue(1)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	rr := doGet(newAuthRouter(tokens, brokenUsers{}), "Bearer "+token)
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("got %d, want 500", rr.Code)
	}
}

func TestRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(ContextRequestIDKey)) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	if rr.Body.String() != "abc-123" || rr.Header().Get(RequestIDHeader) != "abc-123" {
		t.Fatalf("incoming id not reused: body=%q header=%q", rr.Body.String(), rr.Header().Get(RequestIDHeader))
	}

	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	if len(rr.Body.String()) != 36 {
		t.Fatalf("expected generated uuid, got %q", rr.Body.String())
	}
}
