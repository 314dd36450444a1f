package runtime

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/snowdash/snowdash/core/infrastructure/logging"
	transport "github.com/snowdash/snowdash/core/infrastructure/transport/http"
	"github.com/snowdash/snowdash/core/runtime/connectors"
	"github.com/snowdash/snowdash/core/runtime/executor"
	"github.com/snowdash/snowdash/core/secrets"
)

// Options configures the runtime.
type Options struct {
	Port        string
	Driver      string
	SecretsPath string
}

// Runtime wires the secrets store, resolver, executor, and HTTP server.
type Runtime struct {
	executor *executor.Executor
	server   *transport.Server
	log      *logging.Logger
}

// NewRuntime creates a new runtime instance
func NewRuntime(opts Options) (*Runtime, error) {
	log := logging.New("runtime")

	store, err := loadStore(opts.SecretsPath, log)
	if err != nil {
		return nil, err
	}
	resolver := secrets.NewResolver(store)

	driver := opts.Driver
	if driver == "" {
		driver = connectors.DriverSnowflake
	}
	dial, err := connectors.Dialer(driver)
	if err != nil {
		return nil, err
	}

	exec := executor.New(resolver, dial)

	// Credentials are re-resolved on every action, so a missing record
	// is not fatal here; it is surfaced early to aid setup.
	if creds, err := resolver.Resolve(); err != nil {
		log.Warnf("%v", err)
	} else {
		log.Infof("Credentials resolved from %s tier (account: %s)", creds.Source, creds.Account)
	}

	server := transport.NewServer(opts.Port)
	transport.RegisterRoutes(server, exec)

	return &Runtime{
		executor: exec,
		server:   server,
		log:      log,
	}, nil
}

// Executor returns the query executor.
func (r *Runtime) Executor() *executor.Executor {
	return r.executor
}

// Start serves the dashboard and blocks until SIGTERM/SIGINT.
func (r *Runtime) Start() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	r.log.Infof("Starting dashboard runtime")

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return r.server.Serve()
	})
	g.Go(func() error {
		<-gctx.Done()
		return r.server.Stop()
	})

	return g.Wait()
}

// loadStore reads the secrets file. A missing file leaves only the
// environment tier available.
func loadStore(path string, log *logging.Logger) (*secrets.Store, error) {
	if path == "" {
		return secrets.NewStore(), nil
	}
	store, err := secrets.Load(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			log.Warnf("Secrets file '%s' not found; only SNOWFLAKE_* environment variables will be consulted", path)
			return secrets.NewStore(), nil
		}
		return nil, err
	}
	return store, nil
}
