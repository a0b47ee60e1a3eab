package utils

import (
	"context"

	"github.com/hooperp/franchise_backend/appctx"
)

var (
	ContextKeyUsername      = appctx.ContextKeyUsername
	ContextKeyCorrelationId = appctx.ContextKeyCorrelationId
	ContextKeyCurrentWeek   = appctx.ContextKeyCurrentWeek
)

func GetUsernameFromContext(ctx context.Context) (string, bool) {
	return appctx.GetString(ctx, ContextKeyUsername)
}

func GetCorrelationIdFromContext(ctx context.Context) (string, bool) {
	return appctx.GetString(ctx, ContextKeyCorrelationId)
}

func GetCurrentWeekFromContext(ctx context.Context) (int, bool) {
	return appctx.GetInt(ctx, ContextKeyCurrentWeek)
}

func SetUsernameInContext(ctx context.Context, username string) context.Context {
	return appctx.Set(ctx, ContextKeyUsername, username)
}

func SetCorrelationIdInContext(ctx context.Context, correlationId string) context.Context {
	return appctx.Set(ctx, ContextKeyCorrelationId, correlationId)
}

func SetCurrentWeekInContext(ctx context.Context, week int) context.Context {
	return appctx.Set(ctx, ContextKeyCurrentWeek, week)
}
