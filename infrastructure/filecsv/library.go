package filecsv

import (
	"encoding/csv"
	"io"
	"strconv"
	"time"

	"video-digest/domain/model"
	"video-digest/infrastructure/logger"
	"video-digest/infrastructure/utils"
)

var libraryHeader = []string{"videoId", "title", "channel", "durationSeconds", "savedAt", "url", "summary"}

// WriteLibrary renders saved videos as CSV, one row per entry.
func WriteLibrary(w io.Writer, entries []model.LibraryEntry) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(libraryHeader); err != nil {
		return err
	}
	for _, e := range entries {
		summary := ""
		if rec, ok := e.Video.CachedSummary(); ok {
			summary = rec.Text
		}
		row := []string{
			e.VideoID,
			e.Video.Title,
			e.Video.ChannelName,
			strconv.Itoa(e.Video.DurationSeconds),
			e.CreatedAt.UTC().Format(time.RFC3339),
			utils.WatchURL(e.VideoID),
			summary,
		}
		if err := writer.Write(row); err != nil {
			logger.GetLogger().WithField("error", err).Error("Error while writing csv row")
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}
