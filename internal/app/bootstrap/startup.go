package bootstrap

import (
	"context"

	"github.com/dalemusser/waffle/config"
	"github.com/raiamitrai/coursehub/internal/app/resources"
	"github.com/raiamitrai/coursehub/internal/app/system/uploads"
	"go.uber.org/zap"
)

// Startup runs one-time application initialization after DB connections and
// schema setup are complete, but before the HTTP handler is built.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	resources.LoadSharedTemplates()

	store := uploads.New(appCfg.UploadDir, appCfg.UploadURL, appCfg.UploadMaxBytes)
	if err := store.EnsureDir(); err != nil {
		logger.Error("create upload directory failed",
			zap.String("dir", appCfg.UploadDir), zap.Error(err))
		return err
	}

	return nil
}
