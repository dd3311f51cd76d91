package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"

	"github.com/dmitrijs2005/farmdash/internal/client/cache"
	"github.com/dmitrijs2005/farmdash/internal/client/client"
	"github.com/dmitrijs2005/farmdash/internal/client/config"
	"github.com/dmitrijs2005/farmdash/internal/client/credentials"
	"github.com/dmitrijs2005/farmdash/internal/client/services"
	"github.com/dmitrijs2005/farmdash/internal/filex"
	"github.com/dmitrijs2005/farmdash/internal/logging"
)

// App holds the services one CLI process works with. Each resource type
// (categories, products, farmers) has its own cache store; a single App, and
// so the same three stores, serves every command of a REPL session.
type App struct {
	config *config.Config
	log    logging.Logger
	db     *sql.DB
	stores []*cache.Store

	authService     services.AuthService
	categoryService services.CategoryService
	productService  services.ProductService
	farmerService   services.FarmerService

	reader *bufio.Reader
	out    io.Writer

	watchMu sync.Mutex
	watches map[string]*cache.Subscription
}

// NewApp opens the local database and wires the HTTP gateway, the
// credential store and the services.
func NewApp(ctx context.Context, c *config.Config, log logging.Logger) (*App, error) {
	path, err := filex.EnsureParentDir(c.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}
	db, err := client.InitDatabase(ctx, path)
	if err != nil {
		log.Error(ctx, "error initializing database", "path", path, "error", err)
		return nil, err
	}

	creds := credentials.NewStore(db)
	builder, err := client.NewRequestBuilder(c.APIBaseURL, creds, log)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	gw := client.NewHTTPGateway(&http.Client{Timeout: c.HTTPTimeout}, builder, log)

	a := newApp(c, log, gw, creds)
	a.db = db
	return a, nil
}

func newApp(c *config.Config, log logging.Logger, gw client.Gateway, creds services.CredentialStore) *App {
	newStore := func(name string) *cache.Store {
		return cache.New(name,
			cache.WithKeepUnusedDataFor(c.KeepUnusedDataFor),
			cache.WithLogger(log),
		)
	}
	categories := newStore("categories")
	products := newStore("products")
	farmers := newStore("farmers")

	return &App{
		config:          c,
		log:             log,
		stores:          []*cache.Store{categories, products, farmers},
		authService:     services.NewAuthService(gw, creds, log),
		categoryService: services.NewCategoryService(gw, categories, log),
		productService:  services.NewProductService(gw, products, log),
		farmerService:   services.NewFarmerService(gw, farmers, log, c.FarmersPageSize),
		reader:          bufio.NewReader(os.Stdin),
		out:             os.Stdout,
		watches:         map[string]*cache.Subscription{},
	}
}

// Close detaches live views and closes the local database.
func (a *App) Close() error {
	a.unwatchAll()
	if a.db != nil {
		return a.db.Close()
	}
	return nil
}

func (a *App) isLoggedIn(ctx context.Context) bool {
	ok, err := a.authService.LoggedIn(ctx)
	if err != nil {
		a.log.Warn(ctx, "cannot read credential", "error", err)
		return false
	}
	return ok
}

// StartSweeper evicts unused entries from every store until ctx is done.
func (a *App) StartSweeper(ctx context.Context) {
	var wg sync.WaitGroup
	for _, s := range a.stores {
		wg.Add(1)
		go func(s *cache.Store) {
			defer wg.Done()
			s.Run(ctx, a.config.SweepInterval)
		}(s)
	}
	wg.Wait()
}
