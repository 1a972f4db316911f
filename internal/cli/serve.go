package cli

import (
	"context"
	"io"

	"campusbot/internal/assistant"
	"campusbot/internal/config"
	"campusbot/internal/knowledge"
	"campusbot/internal/logging"
	"campusbot/internal/models"
	"campusbot/internal/session"
	"campusbot/internal/web"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

func (a *app) newServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the chat widget over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.load()
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			return serve(cmd.Context(), cfg, logging.New(cmd.ErrOrStderr(), cfg.LogLevel))
		},
	}

	cmd.Flags().String("addr", a.v.GetString(config.KeyAddr), "listen address")
	cmd.Flags().String("logo", a.v.GetString(config.KeyLogoFile), "logo image shown in the sidebar")
	cmd.Flags().Bool("watch", a.v.GetBool(config.KeyWatch), "reload the spreadsheet when it changes")
	_ = a.v.BindPFlag(config.KeyAddr, cmd.Flags().Lookup("addr"))
	_ = a.v.BindPFlag(config.KeyLogoFile, cmd.Flags().Lookup("logo"))
	_ = a.v.BindPFlag(config.KeyWatch, cmd.Flags().Lookup("watch"))

	return cmd
}

func serve(ctx context.Context, cfg *config.Config, logger *log.Logger) error {
	store, closer, err := openKnowledge(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closer.Close()

	ex, err := newExchange(ctx, cfg, store, logger)
	if err != nil {
		return err
	}

	srv, err := web.NewServer(ex, store, session.NewStore(), web.Options{
		LogoFile:    cfg.LogoFile,
		ModelName:   cfg.Model,
		SessionIdle: cfg.SessionIdle,
	}, logger)
	if err != nil {
		return err
	}
	return srv.Start(ctx, cfg.Addr)
}

// openKnowledge loads the spreadsheet and, when enabled, starts watching it.
// A failed first load is left in the store (Reload logs it) so the front
// ends can show it to visitors. When the data file's directory cannot be
// watched the store is served without hot reload.
func openKnowledge(ctx context.Context, cfg *config.Config, logger *log.Logger) (*knowledge.Store, io.Closer, error) {
	store := knowledge.NewStore(cfg.DataFile, logger)
	_ = store.Reload()

	noop := closerFunc(func() error { return nil })
	if !cfg.Watch {
		return store, noop, nil
	}

	w, err := knowledge.NewWatcher(store, logger)
	if err != nil {
		logger.Warn("data file will not be reloaded on change", "file", cfg.DataFile, "err", err)
		return store, noop, nil
	}
	go w.Run(ctx)
	return store, w, nil
}

func newExchange(ctx context.Context, cfg *config.Config, kb assistant.KnowledgeSource, logger *log.Logger) (*assistant.Exchange, error) {
	if !models.IsKnown(cfg.Model) {
		logger.Warn("model is not in the known catalogue, using it anyway", "model", cfg.Model, "known", models.IDs())
	}

	client, err := cfg.CreateClient(ctx)
	if err != nil {
		return nil, err
	}
	gen := assistant.NewGeminiGenerator(client, cfg.Model, cfg.MaxOutputTokens)
	return assistant.NewExchange(gen, kb, cfg.Timeout, logger), nil
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }
