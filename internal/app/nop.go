package app

import (
	"context"

	"github.com/okian/partidos/pkg/logger"
)

type nopLogger struct{}

func (nopLogger) Info(context.Context, string, ...logger.Field)  {}
func (nopLogger) Error(context.Context, string, ...logger.Field) {}
func (nopLogger) Debug(context.Context, string, ...logger.Field) {}
func (nopLogger) Warn(context.Context, string, ...logger.Field)  {}
func (nopLogger) Fatal(context.Context, string, ...logger.Field) {}
func (n nopLogger) Named(string) logger.Logger                   { return n }
func (n nopLogger) With(...logger.Field) logger.Logger           { return n }
