package utils

import "github.com/gin-gonic/gin"

// CurrentUserID reads the user id stored by the auth middleware. Zero means
// the request never passed authentication.
func CurrentUserID(c *gin.Context) uint {
	if v, ok := c.Get("userId"); ok {
		if id, ok := v.(uint); ok {
			return id
		}
	}
	return 0
}

// CurrentRole reads the role stored by the auth middleware.
func CurrentRole(c *gin.Context) string {
	if v, ok := c.Get("role"); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
