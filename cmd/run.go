package cmd

import (
	"github.com/abhisek/synapse/internal/app"
	"github.com/abhisek/synapse/internal/challenge"
	"github.com/abhisek/synapse/internal/lesson"
	"github.com/abhisek/synapse/internal/llm"
	"github.com/abhisek/synapse/internal/preferences"
	"github.com/abhisek/synapse/internal/timer"
	"github.com/abhisek/synapse/internal/tutor"
	"github.com/spf13/cobra"
)

// runApp opens the store, builds dependencies, and launches the TUI.
func runApp(cmd *cobra.Command) error {
	ctx := cmd.Context()
	e, err := openEnv(cmd)
	if err != nil {
		return err
	}
	defer e.Close()

	events := e.store.EventRepo()
	queue := &timer.Queue{}
	ctrl := lesson.NewController(e.repo, e.progress, challenge.New(e.log), queue, lesson.Options{
		Debug:  e.cfg.Debug,
		Log:    e.log,
		Events: events,
	})

	opts := app.Options{
		Repo:       e.repo,
		Controller: ctrl,
		Progress:   e.progress,
		Prefs:      preferences.New(e.store.KV(), e.log),
		Events:     events,
		Queue:      queue,
		Log:        e.log,
	}

	// The tutor is optional; the app works without a provider.
	if llmCfg, ok := llm.Resolve(); ok {
		provider, err := llm.NewProvider(ctx, llmCfg, events, e.log)
		if err != nil {
			e.log.Warn("llm provider unavailable", "provider", llmCfg.Provider, "error", err)
		} else {
			opts.Tutor = tutor.NewService(provider, tutor.DefaultConfig(), e.log)
		}
	} else {
		e.log.Info("no llm provider configured, explanations disabled")
	}

	e.log.Info("starting tui", "debug", e.cfg.Debug)
	return app.Run(opts)
}
