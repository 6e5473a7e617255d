package http

import (
	"net/http"
	"strings"

	"pg_wallpaper/internal/transport/http/dto/response"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
)

const (
	sessionName    = "session"
	sessionUserKey = "user_id"
	contextUserKey = "user_id"
	sessionMaxAge  = 7 * 24 * 60 * 60
	bearerPrefix   = "Bearer "
)

// RequireAuth accepts a bearer access token and falls back to the cookie
// session written at sign-in.
func (r *Routers) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if header := c.Request().Header.Get(echo.HeaderAuthorization); header != "" {
			if !strings.HasPrefix(header, bearerPrefix) {
				return echo.NewHTTPError(http.StatusUnauthorized, response.ErrUnauthorized)
			}

			claims, err := r.AuthService.ParseAccessToken(strings.TrimPrefix(header, bearerPrefix))
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, response.ErrUnauthorized)
			}

			c.Set(contextUserKey, claims.UserID)
			return next(c)
		}

		sess, err := session.Get(sessionName, c)
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, response.ErrUnauthorized)
		}

		raw, ok := sess.Values[sessionUserKey].(string)
		if !ok || raw == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, response.ErrUnauthorized)
		}

		userID, err := uuid.Parse(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, response.ErrUnauthorized)
		}

		c.Set(contextUserKey, userID)
		return next(c)
	}
}

// UserID returns the user put into the context by RequireAuth.
func UserID(c echo.Context) uuid.UUID {
	id, _ := c.Get(contextUserKey).(uuid.UUID)
	return id
}

func saveSession(c echo.Context, userID uuid.UUID) error {
	sess, err := session.Get(sessionName, c)
	if err != nil {
		return err
	}

	sess.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   sessionMaxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	sess.Values[sessionUserKey] = userID.String()

	return sess.Save(c.Request(), c.Response())
}

func clearSession(c echo.Context) error {
	sess, err := session.Get(sessionName, c)
	if err != nil {
		return err
	}

	sess.Options = &sessions.Options{Path: "/", MaxAge: -1, HttpOnly: true}
	delete(sess.Values, sessionUserKey)

	return sess.Save(c.Request(), c.Response())
}
