package http

import (
	"github.com/gin-gonic/gin"

	"video-digest/interfaces/respond"
	"video-digest/usecase"
)

type IUserHandler interface {
	Me(c *gin.Context)
}

type UserHandler struct {
	userUsecase usecase.IUserUsecase
}

func NewUserHandler(userUsecase usecase.IUserUsecase) IUserHandler {
	return &UserHandler{userUsecase: userUsecase}
}

// Me handles GET /me
func (userHandler *UserHandler) Me(c *gin.Context) {
	user, err := currentUser(c)
	if err != nil {
		respond.Error(c, err)
		return
	}
	view, err := userHandler.userUsecase.Quota(c.Request.Context(), user)
	if err != nil {
		respond.Error(c, err)
		return
	}
	respond.OK(c, view)
}
