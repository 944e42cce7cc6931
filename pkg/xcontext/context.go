package xcontext

import (
	"context"

	"github.com/cameronsaddress/snapchef-social/config"
	"github.com/cameronsaddress/snapchef-social/pkg/logger"
	"github.com/cameronsaddress/snapchef-social/pkg/recordstore"
)

type (
	configsKey     struct{}
	loggerKey      struct{}
	recordStoreKey struct{}
	userIDKey      struct{}
)

func WithConfigs(ctx context.Context, cfg config.Configs) context.Context {
	return context.WithValue(ctx, configsKey{}, cfg)
}

// Configs returns the configurations bound to this context. It returns the
// zero value if the embedder never bound one.
func Configs(ctx context.Context) config.Configs {
	if cfg, ok := ctx.Value(configsKey{}).(config.Configs); ok {
		return cfg
	}

	return config.Configs{}
}

func WithLogger(ctx context.Context, l logger.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, l)
}

func Logger(ctx context.Context) logger.Logger {
	if l, ok := ctx.Value(loggerKey{}).(logger.Logger); ok {
		return l
	}

	return logger.NewLogger(logger.INFO)
}

func WithRecordStore(ctx context.Context, store recordstore.Store) context.Context {
	return context.WithValue(ctx, recordStoreKey{}, store)
}

func RecordStore(ctx context.Context) recordstore.Store {
	if s, ok := ctx.Value(recordStoreKey{}).(recordstore.Store); ok {
		return s
	}

	return nil
}

// WithRequestUserID binds the caller identity. Domains refuse writes when no
// identity is bound.
func WithRequestUserID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, userIDKey{}, id)
}

func RequestUserID(ctx context.Context) string {
	if id, ok := ctx.Value(userIDKey{}).(string); ok {
		return id
	}

	return ""
}
