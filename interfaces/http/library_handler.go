package http

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"video-digest/domain/apperror"
	"video-digest/domain/dto"
	"video-digest/domain/model"
	"video-digest/infrastructure/filecsv"
	"video-digest/interfaces/respond"
	"video-digest/usecase"
)

type ILibraryHandler interface {
	List(c *gin.Context)
	Save(c *gin.Context)
	Delete(c *gin.Context)
	Export(c *gin.Context)
}

type LibraryHandler struct {
	libraryUsecase usecase.ILibraryUsecase
}

func NewLibraryHandler(libraryUsecase usecase.ILibraryUsecase) ILibraryHandler {
	return &LibraryHandler{libraryUsecase: libraryUsecase}
}

// List handles GET /library?videoId=&page=&limit=&search=
func (h *LibraryHandler) List(c *gin.Context) {
	user, err := currentUser(c)
	if err != nil {
		respond.Error(c, err)
		return
	}
	var q dto.LibraryQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respond.Bind(c, err)
		return
	}

	page, err := h.libraryUsecase.List(c.Request.Context(), user, model.LibraryQuery{
		VideoID: q.VideoID,
		Search:  q.Search,
		Page:    q.Page,
		Limit:   q.Limit,
	})
	if err != nil {
		respond.Error(c, err)
		return
	}
	respond.OK(c, page)
}

// Save handles POST /library
func (h *LibraryHandler) Save(c *gin.Context) {
	user, err := currentUser(c)
	if err != nil {
		respond.Error(c, err)
		return
	}
	var req dto.LibrarySaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Bind(c, err)
		return
	}

	entry, err := h.libraryUsecase.Save(c.Request.Context(), user, usecase.SaveLibraryRequest{
		VideoID:     req.VideoID,
		Title:       req.Title,
		ChannelName: req.ChannelName,
		Transcript:  req.Transcript,
		Summary:     req.Summary,
	})
	if err != nil {
		respond.Error(c, err)
		return
	}
	respond.OK(c, entry)
}

// Delete handles DELETE /library?videoId=
func (h *LibraryHandler) Delete(c *gin.Context) {
	user, err := currentUser(c)
	if err != nil {
		respond.Error(c, err)
		return
	}
	videoID := c.Query("videoId")
	if videoID == "" {
		respond.Error(c, apperror.New(apperror.KindValidation, "videoId is required"))
		return
	}
	if err := h.libraryUsecase.Delete(c.Request.Context(), user, videoID); err != nil {
		respond.Error(c, err)
		return
	}
	respond.OK(c, gin.H{"videoId": videoID, "deleted": true})
}

// Export handles GET /library/export
func (h *LibraryHandler) Export(c *gin.Context) {
	user, err := currentUser(c)
	if err != nil {
		respond.Error(c, err)
		return
	}
	entries, err := h.libraryUsecase.Export(c.Request.Context(), user)
	if err != nil {
		respond.Error(c, err)
		return
	}
	name := fmt.Sprintf("library-%s.csv", time.Now().UTC().Format("2006-01-02"))
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	if err := filecsv.WriteLibrary(c.Writer, entries); err != nil {
		c.Status(http.StatusInternalServerError)
	}
}
