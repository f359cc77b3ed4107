package cmd

import (
	"fmt"

	"github.com/abhisek/synapse/internal/config"
	"github.com/abhisek/synapse/internal/curriculum"
	"github.com/abhisek/synapse/internal/logger"
	"github.com/abhisek/synapse/internal/progress"
	"github.com/abhisek/synapse/internal/store"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "synapse",
	Short: "Learn HTML and CSS in the terminal",
	Long:  "Synapse is a terminal course for HTML and CSS with live-checked challenges and a quiz.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	config.BindFlags(rootCmd.PersistentFlags())

	rootCmd.AddCommand(progressCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(unitsCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(themeCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// env is what every command needs: resolved config, the log file and the
// open store.
type env struct {
	cfg      config.Config
	log      *logger.Logger
	store    *store.Store
	repo     *curriculum.Repository
	progress *progress.Store
}

func openEnv(cmd *cobra.Command) (*env, error) {
	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return nil, err
	}
	log, err := logger.New(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("open log: %w", err)
	}
	st, err := store.Open(cfg.DBPath)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("open database: %w", err)
	}
	log.Debug("environment ready", "db", cfg.DBPath, "command", cmd.Name())

	return &env{
		cfg:      cfg,
		log:      log,
		store:    st,
		repo:     curriculum.Default(),
		progress: progress.NewStore(st.KV(), log),
	}, nil
}

func (e *env) Close() {
	if err := e.store.Close(); err != nil {
		e.log.Warn("close database", "error", err)
	}
	e.log.Sync()
}
