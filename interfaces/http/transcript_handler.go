package http

import (
	"strings"

	"github.com/gin-gonic/gin"

	"video-digest/domain/apperror"
	"video-digest/domain/dto"
	"video-digest/infrastructure/utils"
	"video-digest/interfaces/respond"
	"video-digest/usecase"
)

type ITranscriptHandler interface {
	Transcribe(c *gin.Context)
}

type TranscriptHandler struct {
	transcriptUsecase usecase.ITranscriptUsecase
}

func NewTranscriptHandler(transcriptUsecase usecase.ITranscriptUsecase) ITranscriptHandler {
	return &TranscriptHandler{transcriptUsecase: transcriptUsecase}
}

// Transcribe handles POST /transcribe
func (h *TranscriptHandler) Transcribe(c *gin.Context) {
	user, err := currentUser(c)
	if err != nil {
		respond.Error(c, err)
		return
	}

	var req dto.TranscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Bind(c, err)
		return
	}
	input := strings.TrimSpace(req.VideoID)
	if input == "" {
		input = strings.TrimSpace(req.URL)
	}
	if input == "" {
		respond.Error(c, apperror.New(apperror.KindValidation, "videoId is required"))
		return
	}
	videoID, err := utils.ParseVideoID(input)
	if err != nil {
		respond.Error(c, apperror.Wrap(apperror.KindValidation, err.Error(), err))
		return
	}

	token := strings.TrimSpace(req.AccessToken)
	if token == "" {
		token = strings.TrimSpace(c.GetHeader(YouTubeTokenHeader))
	}

	res, err := h.transcriptUsecase.Transcribe(c.Request.Context(), user, usecase.TranscribeRequest{
		VideoID:         videoID,
		Language:        strings.TrimSpace(req.Language),
		UserAccessToken: token,
	})
	if err != nil {
		respond.Error(c, err)
		return
	}
	respond.OK(c, res)
}
