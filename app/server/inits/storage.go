package inits

import (
	"context"
	"fmt"
	"portfolio-backend/app/server/config"
	"portfolio-backend/app/server/storage"
)

func Storage(ctx context.Context, cfg *config.Config) (storage.Storage, error) {
	switch cfg.Storage.Driver {
	case "s3":
		s, err := storage.NewS3(ctx, cfg.Storage.S3)
		if err != nil {
			return nil, fmt.Errorf("init s3 storage: %w", err)
		}
		return s, nil
	default:
		s, err := storage.NewLocal(cfg.Storage.UploadDir)
		if err != nil {
			return nil, fmt.Errorf("init local storage: %w", err)
		}
		return s, nil
	}
}
