package xcontext

import (
	"context"
	"net/http"

	"github.com/rolewarden/backend/config"
	"github.com/rolewarden/backend/pkg/logger"
	"gorm.io/gorm"
)

type (
	configsKey    struct{}
	loggerKey     struct{}
	dbKey         struct{}
	httpClientKey struct{}
)

func WithConfigs(ctx context.Context, cfg config.Configs) context.Context {
	return context.WithValue(ctx, configsKey{}, cfg)
}

func Configs(ctx context.Context) config.Configs {
	cfg, ok := ctx.Value(configsKey{}).(config.Configs)
	if !ok {
		return config.Configs{}
	}

	return cfg
}

func WithLogger(ctx context.Context, l logger.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, l)
}

func Logger(ctx context.Context) logger.Logger {
	l, ok := ctx.Value(loggerKey{}).(logger.Logger)
	if !ok {
		return logger.NewLogger(logger.INFO)
	}

	return l
}

func WithDB(ctx context.Context, db *gorm.DB) context.Context {
	return context.WithValue(ctx, dbKey{}, db)
}

func DB(ctx context.Context) *gorm.DB {
	db, ok := ctx.Value(dbKey{}).(*gorm.DB)
	if !ok {
		panic("no database in context")
	}

	return db
}

func WithHTTPClient(ctx context.Context, client *http.Client) context.Context {
	return context.WithValue(ctx, httpClientKey{}, client)
}

func HTTPClient(ctx context.Context) *http.Client {
	client, ok := ctx.Value(httpClientKey{}).(*http.Client)
	if !ok {
		return http.DefaultClient
	}

	return client
}
