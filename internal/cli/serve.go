package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/speedui/gridkit/internal/server"
	"github.com/speedui/gridkit/pkg/store"
)

// serveCommand creates the serve command that runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Run the HTTP API.

Layouts created through the API are kept in MongoDB when a URI is
configured ([store.mongo] uri, or GRIDKIT_MONGO_URI) and in memory
otherwise. Layout and render results share the cache used by the other
commands, or Redis when [cache.redis] addr (GRIDKIT_REDIS_ADDR) is set.

The server shuts down gracefully on interrupt.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("addr") {
				c.cfg.Server.Addr = addr
			}
			return c.runServe(cmd.Context(), noCache)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, noCache bool) error {
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	st, err := c.newStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close(context.WithoutCancel(ctx))

	srv := server.New(server.Config{
		Addr:         c.cfg.Server.Addr,
		ReadTimeout:  c.cfg.Server.ReadTimeout,
		WriteTimeout: c.cfg.Server.WriteTimeout,
		MaxBodyBytes: c.cfg.Server.MaxBodyBytes,
	}, runner, st, c.Logger)

	printInfo("Serving on %s", StyleLink.Render(c.cfg.Server.Addr))
	if err := srv.ListenAndServe(ctx); err != nil {
		return fmt.Errorf("serve: %w", err)
	}
	printSuccess("Server stopped")
	return nil
}

// newStore opens MongoDB when configured and falls back to memory.
func (c *CLI) newStore(ctx context.Context) (store.Store, error) {
	if c.cfg.Store.Mongo.URI == "" {
		c.Logger.Info("using in-memory layout store")
		return store.NewMemoryStore(), nil
	}
	st, err := store.NewMongoStore(ctx, c.cfg.Store.Mongo)
	if err != nil {
		return nil, fmt.Errorf("open mongo store: %w", err)
	}
	c.Logger.Info("using mongo layout store", "database", c.cfg.Store.Mongo.Database)
	return st, nil
}
