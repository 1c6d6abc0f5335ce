package courses

import (
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	uierrors "github.com/raiamitrai/coursehub/internal/app/features/errors"
	coursestore "github.com/raiamitrai/coursehub/internal/app/store/courses"
	userstore "github.com/raiamitrai/coursehub/internal/app/store/users"
	"github.com/raiamitrai/coursehub/internal/app/system/uploads"
)

// Handler is the feature-level entry point for the course catalog.
type Handler struct {
	DB      *mongo.Database
	Courses *coursestore.Store
	Users   *userstore.Store
	Uploads *uploads.Store
	ErrLog  *uierrors.ErrorLogger
	Log     *zap.Logger
}

// NewHandler constructs a courses handler bound to a DB, upload store, and
// logger.
func NewHandler(db *mongo.Database, uploadStore *uploads.Store, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:      db,
		Courses: coursestore.New(db),
		Users:   userstore.New(db),
		Uploads: uploadStore,
		ErrLog:  errLog,
		Log:     logger,
	}
}
