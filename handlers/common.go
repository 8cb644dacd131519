package handlers

import (
	"context"

	"github.com/umakantv/go-utils/httpserver"
	"go.uber.org/zap"
)

// RequestLogger is the logger handed to each session handler for its request
type RequestLogger interface {
	Info(message string, fields ...zap.Field)
	Warning(message string, fields ...zap.Field)
	Error(message string, fields ...zap.Field)
}

// routeLogger tags every entry with the route resolved by httpserver
type routeLogger struct {
	ctx context.Context
	log *zap.Logger
}

func newRouteLogger(ctx context.Context, log *zap.Logger) *routeLogger {
	return &routeLogger{ctx: ctx, log: log}
}

func (l *routeLogger) Info(message string, fields ...zap.Field) {
	logRequest(l.ctx, l.log, "info", message, fields...)
}

func (l *routeLogger) Warning(message string, fields ...zap.Field) {
	logRequest(l.ctx, l.log, "warning", message, fields...)
}

func (l *routeLogger) Error(message string, fields ...zap.Field) {
	logRequest(l.ctx, l.log, "error", message, fields...)
}

// logRequest writes "route - method - path[ - client:x] - message" with the route as fields
func logRequest(ctx context.Context, log *zap.Logger, level string, message string, fields ...zap.Field) {
	routeName := httpserver.GetRouteName(ctx)
	method := httpserver.GetRouteMethod(ctx)
	path := httpserver.GetRoutePath(ctx)
	auth := httpserver.GetRequestAuth(ctx)

	logMsg := routeName + " - " + method + " - " + path
	if auth != nil && auth.Client != "" {
		logMsg += " - client:" + auth.Client
	}
	if message != "" {
		logMsg += " - " + message
	}

	allFields := append([]zap.Field{
		zap.String("route", routeName),
		zap.String("method", method),
		zap.String("path", path),
	}, fields...)

	switch level {
	case "info":
		log.Info(logMsg, allFields...)
	case "warning":
		log.Warn(logMsg, allFields...)
	case "error":
		log.Error(logMsg, allFields...)
	case "debug":
		log.Debug(logMsg, allFields...)
	}
}
