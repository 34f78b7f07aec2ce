package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/vk/gridcalc/internal/api"
	"github.com/vk/gridcalc/internal/config"
	"github.com/vk/gridcalc/internal/ctxlog"
	"github.com/vk/gridcalc/internal/evaluator"
	"github.com/vk/gridcalc/internal/sheet"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW   io.Writer
	logger *slog.Logger
	ctx    context.Context
	config *config.Model
}

// NewApp is the constructor for the main application. It returns a fully
// initialized App with its own isolated logger. A configuration that cannot
// be loaded is a fatal startup error and panics.
func NewApp(outW io.Writer, appConfig *Config) *App {
	logger := newLogger(appConfig.LogLevel, appConfig.LogFormat, outW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	model := config.Default()
	if len(appConfig.ConfigPaths) > 0 {
		loader, err := loaderFor(appConfig.ConfigPaths)
		if err != nil {
			panic(fmt.Errorf("failed to load configuration: %w", err))
		}
		model, err = loader.Load(ctx, appConfig.ConfigPaths...)
		if err != nil {
			panic(fmt.Errorf("failed to load configuration: %w", err))
		}
		logger.Debug("Configuration loaded.", "paths", appConfig.ConfigPaths)
	}
	if err := model.Apply(appConfig.Overrides); err != nil {
		panic(fmt.Errorf("failed to apply flags: %w", err))
	}
	if err := model.Validate(); err != nil {
		panic(fmt.Errorf("invalid configuration: %w", err))
	}

	return &App{
		outW:   outW,
		logger: logger,
		ctx:    ctx,
		config: model,
	}
}

// Config returns the resolved configuration.
func (a *App) Config() *config.Model { return a.config }

// Context returns the base context carrying the app logger.
func (a *App) Context() context.Context { return a.ctx }

func (a *App) limits() sheet.Limits {
	return sheet.Limits{MaxRows: a.config.Engine.MaxRows, MaxCols: a.config.Engine.MaxCols}
}

// Evaluate computes matrix in-process. Malformed matrices are returned as
// errors wrapping the sheet sentinels; cell failures are in the response.
func (a *App) Evaluate(ctx context.Context, matrix [][]string) (*api.EvaluateResponse, error) {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	workers := a.config.Engine.Workers

	grid, err := sheet.FromMatrix(ctx, matrix, a.limits(), workers)
	if err != nil {
		return nil, err
	}
	res, err := evaluator.New(workers).Evaluate(ctx, grid)
	if err != nil {
		return nil, fmt.Errorf("evaluation failed: %w", err)
	}
	resp := api.NewEvaluateResponse(matrix, res)
	a.logger.Debug("Evaluation finished.", "cells", grid.Len(), "success", resp.Success)
	return resp, nil
}

// Logger returns the application logger.
func (a *App) Logger() *slog.Logger { return a.logger }
