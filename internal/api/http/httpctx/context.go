// Package httpctx stores and retrieves the authenticated user on a gin
// request context.
package httpctx

import (
	"github.com/gin-gonic/gin"

	"github.com/studydeck/studydeck-server/internal/model"
)

const userKey = "studydeck.user"

// SetUser stores the authenticated user on the request context.
func SetUser(c *gin.Context, user model.User) {
	c.Set(userKey, user)
}

// GetUser retrieves the authenticated user from the request context.
func GetUser(c *gin.Context) (model.User, bool) {
	v, ok := c.Get(userKey)
	if !ok {
		return model.User{}, false
	}

	user, ok := v.(model.User)
	return user, ok
}
