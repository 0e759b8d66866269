package cli

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/example/shopadmin/internal/apiclient"
	"github.com/example/shopadmin/internal/config"
	"github.com/example/shopadmin/internal/session"
	"github.com/example/shopadmin/internal/store"
)

// App wires the gateway and the three stores for one command invocation.
// The state lives for the length of a single CLI run; durable credentials
// carry the session across runs.
type App struct {
	Config     *config.Config
	Client     *apiclient.Client
	Session    *session.Store
	Categories *store.CategoriesStore
	Products   *store.ProductsStore
}

// NewApp loads configuration and constructs the gateway and stores.
func NewApp() (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	client := apiclient.New(cfg.APIURL)
	storage := session.NewFileStorage(cfg.CredentialsFile)

	return &App{
		Config:     cfg,
		Client:     client,
		Session:    session.NewStore(client, storage),
		Categories: store.NewCategoriesStore(client, cfg.CategoriesCacheTTL),
		Products:   store.NewProductsStore(client, cfg.ItemsPerPage, cfg.ProductsCacheTTL),
	}, nil
}

// RequireSession restores the persisted session and fails with a hint when
// none is available.
func (a *App) RequireSession() error {
	if err := a.Session.RestoreFromStorage(); err != nil {
		return fmt.Errorf("not logged in (%v); run 'admin login <email>'", err)
	}
	return nil
}

// NewRootCommand creates the admin CLI.
func NewRootCommand() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:           "admin",
		Short:         "Product catalog admin console",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				logrus.SetLevel(logrus.DebugLevel)
			} else {
				logrus.SetLevel(logrus.WarnLevel)
			}
		},
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	cmd.AddCommand(
		NewLoginCommand(),
		NewLogoutCommand(),
		NewWhoamiCommand(),
		NewCategoriesCommand(),
		NewProductsCommand(),
	)

	return cmd
}
