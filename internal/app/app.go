// Package app wires the trigger engine together: configuration, logging,
// the expression evaluator, the trigger registry, the tick scheduler and
// the admin API.
package app

import (
	"context"

	"trigger-engine/internal/common/logging"
	"trigger-engine/internal/conditions"
	"trigger-engine/internal/config"
	"trigger-engine/internal/definitions"
	"trigger-engine/internal/expression"
	"trigger-engine/internal/handlers"
	"trigger-engine/internal/schedule"
	"trigger-engine/internal/server"
	"trigger-engine/internal/triggers"
)

// App holds the application dependencies.
type App struct {
	Config     *config.Config
	Evaluator  *triggers.Evaluator
	Expression *expression.Evaluator
	Scheduler  *schedule.Scheduler
	Lifecycle  *triggers.Lifecycle
	Logger     logging.Logger
}

// New creates the application and loads any declared trigger definitions.
func New(cfg *config.Config) (*App, error) {
	app := &App{
		Config: cfg,
		Logger: logging.GetGlobalLogger().WithFields(logging.String("component", "app")),
	}

	app.Expression = expression.NewEvaluator(
		expression.WithCacheExpiration(cfg.ExprCacheExpiration),
		expression.WithRateLimit(cfg.ExprRateLimit, 10),
	)
	app.Evaluator = triggers.NewEvaluator()
	app.Lifecycle = triggers.NewLifecycle(cfg.MaxFailures)
	app.Scheduler = schedule.New(app.Evaluator, cfg.TickInterval, app.onTriggerFired)

	if cfg.TriggerDefinitions != "" {
		if err := app.loadDefinitions(cfg.TriggerDefinitions); err != nil {
			return nil, err
		}
	}

	return app, nil
}

// loadDefinitions registers every trigger declared in the definitions file.
func (a *App) loadDefinitions(path string) error {
	file, err := definitions.Load(path)
	if err != nil {
		return err
	}

	for _, def := range file.Triggers {
		config, err := def.BuildConfig()
		if err != nil {
			return err
		}
		id, err := def.ID()
		if err != nil {
			return err
		}

		t, err := triggers.FromConfig(id, config,
			conditions.WithPriority(def.Priority),
			conditions.WithEvaluator(a.Expression),
		)
		if err != nil {
			return err
		}

		if err := a.Evaluator.Register(t); err != nil {
			return err
		}
		a.Lifecycle.Track(t)
	}

	a.Logger.Info("trigger definitions loaded",
		logging.String("path", path),
		logging.Int("count", len(file.Triggers)),
	)
	return nil
}

// onTriggerFired is the scheduler's fire callback. The firing runs under
// the lifecycle state machine so failures count against the budget.
func (a *App) onTriggerFired(t triggers.Trigger, _ conditions.Context) {
	err := a.Lifecycle.Execute(t, func() error {
		a.Logger.Info("trigger fired",
			logging.String("trigger_id", t.ID()),
			logging.String("name", t.Name()),
		)
		return nil
	})
	if err != nil {
		a.Logger.Warn("trigger execution failed",
			logging.String("trigger_id", t.ID()),
			logging.Err(err),
		)
	}
}

// NewServer builds the admin API server.
func (a *App) NewServer() *server.Server {
	h := handlers.New(a.Evaluator, a.Scheduler, a.Lifecycle, conditions.WithEvaluator(a.Expression))
	return server.New(h.Router(), a.Config.Port)
}

// Start begins background work.
func (a *App) Start() error {
	return a.Scheduler.Start()
}

// Shutdown stops background work.
func (a *App) Shutdown(ctx context.Context) error {
	a.Scheduler.Stop()
	return nil
}
