// Package session binds the signed-in user to the gin-contrib session.
package session

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	gorillasessions "github.com/gorilla/sessions"
)

const (
	// CookieName is the name of the session cookie.
	CookieName = "leadmap"

	loginUserId = "LOGIN_USER_ID"
)

// renewer is implemented by server-side stores that can reissue a session id.
type renewer interface {
	Renew(r *http.Request, s *gorillasessions.Session) error
}

// SetLoginUser binds a fresh session to userId and saves it. Values and the
// id of any earlier session are discarded.
func SetLoginUser(c *gin.Context, userId int) error {
	s := sessions.Default(c)
	if err := renew(c.Request, s); err != nil {
		return err
	}
	s.Clear()
	s.Set(loginUserId, userId)
	return s.Save()
}

func renew(r *http.Request, s sessions.Session) error {
	gs, ok := s.(interface{ Session() *gorillasessions.Session })
	if !ok {
		return nil
	}
	session := gs.Session()
	if rs, ok := session.Store().(renewer); ok && session.ID != "" {
		return rs.Renew(r, session)
	}
	return nil
}

// GetLoginUserId returns the user id bound to the session, if any.
func GetLoginUserId(c *gin.Context) (int, bool) {
	s := sessions.Default(c)
	if obj := s.Get(loginUserId); obj != nil {
		if id, ok := obj.(int); ok {
			return id, true
		}
	}
	return 0, false
}

// ClearSession destroys the session and expires its cookie.
func ClearSession(c *gin.Context) error {
	s := sessions.Default(c)
	s.Clear()
	s.Options(sessions.Options{
		Path:   "/",
		MaxAge: -1,
	})
	return s.Save()
}
