package core

import (
	"log/slog"
	"time"

	"github.com/siahsang/yatube/internal/data"
	"github.com/siahsang/yatube/internal/utils/databaseutils"
)

// ImageStore keeps uploaded post images and hands back the stored path.
type ImageStore interface {
	Save(name string, content []byte) (string, error)
	Remove(path string) error
}

type Core struct {
	log      *slog.Logger
	models   data.Models
	session  databaseutils.Session
	images   ImageStore
	pageSize int64
	now      func() time.Time
}

func NewCore(log *slog.Logger, models data.Models, session databaseutils.Session, images ImageStore, pageSize int64) *Core {
	return &Core{
		log:      log,
		models:   models,
		session:  session,
		images:   images,
		pageSize: pageSize,
		now: func() time.Time {
			return time.Now().UTC()
		},
	}
}

func (c *Core) PageSize() int64 {
	return c.pageSize
}
