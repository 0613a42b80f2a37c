package http

import (
	"github.com/gin-gonic/gin"

	"video-digest/domain/apperror"
	"video-digest/interfaces/respond"
	"video-digest/usecase"
)

type IYouTubeAuthHandler interface {
	Connect(c *gin.Context)
	Callback(c *gin.Context)
}

type YouTubeAuthHandler struct {
	connectUsecase usecase.IYouTubeConnectUsecase
}

func NewYouTubeAuthHandler(connectUsecase usecase.IYouTubeConnectUsecase) IYouTubeAuthHandler {
	return &YouTubeAuthHandler{connectUsecase: connectUsecase}
}

// Connect handles GET /api/youtube/connect
func (h *YouTubeAuthHandler) Connect(c *gin.Context) {
	user, err := currentUser(c)
	if err != nil {
		respond.Error(c, err)
		return
	}
	url, err := h.connectUsecase.AuthURL(user)
	if err != nil {
		respond.Error(c, err)
		return
	}
	respond.OK(c, gin.H{"authUrl": url})
}

// Callback handles GET /auth/youtube/callback
func (h *YouTubeAuthHandler) Callback(c *gin.Context) {
	if oauthErr := c.Query("error"); oauthErr != "" {
		respond.Error(c, apperror.New(apperror.KindValidation, "authorization was not granted").
			WithDetails(gin.H{"reason": oauthErr}))
		return
	}
	userID, err := h.connectUsecase.Callback(c.Request.Context(), c.Query("state"), c.Query("code"))
	if err != nil {
		respond.Error(c, err)
		return
	}
	respond.OK(c, gin.H{"userId": userID, "connected": true})
}
