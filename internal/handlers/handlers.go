package handlers

import (
	"time"

	"galarie/internal/indexer"
	"galarie/internal/media"
	"galarie/internal/startup"
)

type Handlers struct {
	coordinator *indexer.Coordinator
	thumbGen    *media.ThumbnailGenerator
	mediaRoot   string
	startTime   time.Time
}

func New(coordinator *indexer.Coordinator, config *startup.Config) *Handlers {
	return &Handlers{
		coordinator: coordinator,
		thumbGen:    media.NewThumbnailGenerator(config.ThumbnailDir, config.ThumbnailsEnabled),
		mediaRoot:   config.MediaRoot,
		startTime:   time.Now(),
	}
}
