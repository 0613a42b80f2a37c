package http

import (
	"github.com/gin-gonic/gin"

	"video-digest/domain/apperror"
	"video-digest/domain/model"
)

// UserKey is where the auth middleware stores the caller.
const UserKey = "user"

// YouTubeTokenHeader carries the caller's own YouTube OAuth access token.
const YouTubeTokenHeader = "X-YouTube-Access-Token"

func currentUser(c *gin.Context) (*model.User, error) {
	if v, ok := c.Get(UserKey); ok {
		if user, ok := v.(*model.User); ok && user != nil {
			return user, nil
		}
	}
	return nil, apperror.New(apperror.KindUnauthorized, "sign in required")
}
