package http

import (
	"strings"

	"github.com/gin-gonic/gin"

	"video-digest/domain/apperror"
	"video-digest/domain/dto"
	"video-digest/domain/model"
	"video-digest/infrastructure/utils"
	"video-digest/interfaces/respond"
	"video-digest/usecase"
)

type ISummaryHandler interface {
	Summarize(c *gin.Context)
}

type SummaryHandler struct {
	summaryUsecase usecase.ISummaryUsecase
}

func NewSummaryHandler(summaryUsecase usecase.ISummaryUsecase) ISummaryHandler {
	return &SummaryHandler{summaryUsecase: summaryUsecase}
}

// Summarize handles POST /summarize
func (h *SummaryHandler) Summarize(c *gin.Context) {
	user, err := currentUser(c)
	if err != nil {
		respond.Error(c, err)
		return
	}

	var req dto.SummarizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Bind(c, err)
		return
	}
	videoID := strings.TrimSpace(req.VideoID)
	if videoID != "" {
		if videoID, err = utils.ParseVideoID(videoID); err != nil {
			respond.Error(c, apperror.Wrap(apperror.KindValidation, err.Error(), err))
			return
		}
	}

	res, err := h.summaryUsecase.Summarize(c.Request.Context(), user, usecase.SummarizeRequest{
		Transcript: req.Transcript,
		Style:      model.SummaryStyle(strings.ToLower(strings.TrimSpace(req.Style))),
		MaxLength:  req.MaxLength,
		Language:   req.Language,
		VideoID:    videoID,
	})
	if err != nil {
		respond.Error(c, err)
		return
	}
	respond.OK(c, res)
}
