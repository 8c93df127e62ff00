package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"postboard/internal/app"
	"postboard/internal/model"
	"postboard/internal/pkg/jwtutil"
	"postboard/internal/transport/http/response"
)

const ContextUserIDKey = "user_id"

var (
	ErrMissingToken   = errors.New("missing bearer token")
	ErrUnknownSubject = errors.New("token subject does not exist")
)

type TokenVerifier interface {
	Verify(token string) (uint, error)
}

// SubjectResolver looks up the user a token was issued to. It must return
// app.ErrUserNotFound for deleted accounts.
type SubjectResolver interface {
	Subject(ctx context.Context, id uint) (*model.User, error)
}

// AuthJWT is the only place bearer tokens are read. It verifies the token,
// checks that its subject still exists and stores the user id in the context.
func AuthJWT(tokens TokenVerifier, users SubjectResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := authenticate(c, tokens, users)
		if err != nil {
			c.Header("WWW-Authenticate", "Bearer")
			switch {
			case errors.Is(err, ErrMissingToken):
				response.Abort(c, http.StatusUnauthorized, response.CodeUnauthorized, "not authenticated")
			case errors.Is(err, jwtutil.ErrTokenExpired):
				response.Abort(c, http.StatusUnauthorized, response.CodeTokenExpired, "token expired")
			case errors.Is(err, jwtutil.ErrTokenMalformed), errors.Is(err, ErrUnknownSubject):
				response.Abort(c, http.StatusUnauthorized, response.CodeUnauthorized, "could not validate credentials")
			default:
				response.Abort(c, http.StatusInternalServerError, response.CodeInternalServer, "internal server error")
			}
			return
		}

		c.Set(ContextUserIDKey, userID)
		c.Next()
	}
}

func authenticate(c *gin.Context, tokens TokenVerifier, users SubjectResolver) (uint, error) {
	token, ok := bearerToken(c.GetHeader("Authorization"))
	if !ok {
		return 0, ErrMissingToken
	}

	userID, err := tokens.Verify(token)
	if err != nil {
		return 0, err
	}

	if _, err := users.Subject(c.Request.Context(), userID); err != nil {
		if errors.Is(err, app.ErrUserNotFound) {
			return 0, ErrUnknownSubject
		}
		return 0, err
	}
	return userID, nil
}

func bearerToken(header string) (string, bool) {
	header = strings.TrimSpace(header)
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// UserID returns the authenticated user id set by AuthJWT.
func UserID(c *gin.Context) (uint, bool) {
	v, exists := c.Get(ContextUserIDKey)
	if !exists {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok && id != 0
}
