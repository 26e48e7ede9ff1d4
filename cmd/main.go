package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/YelzhanWeb/ordertaker/internal/adapter/logger"
	"github.com/YelzhanWeb/ordertaker/internal/adapter/mysql"
	"github.com/YelzhanWeb/ordertaker/internal/adapter/postgres"
	"github.com/YelzhanWeb/ordertaker/internal/adapter/rabbitmq"
	"github.com/YelzhanWeb/ordertaker/internal/adapter/storage"
	"github.com/YelzhanWeb/ordertaker/internal/adapter/whatsapp"
	"github.com/YelzhanWeb/ordertaker/internal/app/catalog"
	"github.com/YelzhanWeb/ordertaker/internal/app/order"
	"github.com/YelzhanWeb/ordertaker/internal/config"
)

const appName = "ordertaker"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp().RunContext(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  appName,
		Usage: "take shop orders and send them to customers over WhatsApp",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Value:   "config.yaml",
				Usage:   "path to the YAML config file",
				EnvVars: []string{"ORDERTAKER_CONFIG"},
			},
		},
		Commands: []*cli.Command{
			serveCommand(),
			importCommand(),
			productsCommand(),
			templateCommand(),
			ordersCommand(),
			orderCommand(),
			setStatusCommand(),
			setPaymentCommand(),
			messageCommand(),
			clearOrdersCommand(),
			clearProductsCommand(),
			notificationsCommand(),
		},
	}
}

// runtime holds the wired services for one command invocation.
type runtime struct {
	cfg     *config.Config
	logger  logger.Logger
	catalog *catalog.Service
	orders  *order.Service
	mq      rabbitmq.Connection
	closers []func() error
}

func setup(c *cli.Context) (*runtime, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	lgr := logger.NewWithWriter(appName, cfg.Log.Level, os.Stderr)
	rt := &runtime{cfg: cfg, logger: lgr}

	kv, err := openKV(c.Context, cfg, lgr)
	if err != nil {
		return nil, err
	}
	rt.closers = append(rt.closers, kv.Close)

	publisher := rabbitmq.NewNopPublisher()
	if cfg.RabbitMQ.Enabled {
		conn, err := rabbitmq.Connect(cfg.RabbitMQ)
		if err != nil {
			rt.close()
			return nil, err
		}
		rt.mq = conn
		rt.closers = append(rt.closers, conn.Close)
		publisher = rabbitmq.NewPublisher(conn)

		lgr.Info("rabbitmq_connected", "Connected to RabbitMQ", "startup", map[string]interface{}{
			"host": cfg.RabbitMQ.Host,
		})
	}

	store := storage.NewStore(kv, cfg.Storage.Namespace)
	rt.catalog = catalog.NewService(store, lgr)
	rt.orders = order.NewService(store, store, publisher, lgr,
		whatsapp.Store{Name: cfg.Store.Name, Phone: cfg.Store.Phone},
		cfg.Store.MessagingHost,
	)

	return rt, nil
}

func (rt *runtime) close() {
	for i := len(rt.closers) - 1; i >= 0; i-- {
		if err := rt.closers[i](); err != nil {
			rt.logger.Error("close_failed", "Failed to release resource", "shutdown", nil, err)
		}
	}
	rt.closers = nil
}

func openKV(ctx context.Context, cfg *config.Config, lgr logger.Logger) (storage.KV, error) {
	switch cfg.Storage.Driver {
	case "memory":
		return storage.NewMemoryKV(), nil

	case "file":
		return storage.OpenFileKV(cfg.Storage.Path)

	case "postgres":
		if err := postgres.Migrate(cfg.Database.PostgresURL()); err != nil {
			return nil, err
		}
		db, err := postgres.Connect(ctx, cfg.Database)
		if err != nil {
			return nil, err
		}
		lgr.Info("db_connected", "Connected to PostgreSQL database", "startup", map[string]interface{}{
			"host": cfg.Database.Host,
			"db":   cfg.Database.Database,
		})
		return postgres.NewKV(db), nil

	case "mysql":
		kv, err := mysql.Open(ctx, cfg.MySQL.DSN)
		if err != nil {
			return nil, err
		}
		lgr.Info("db_connected", "Connected to MySQL database", "startup", nil)
		return kv, nil
	}

	return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
}

// withRuntime wires the services, runs action and releases them afterwards.
func withRuntime(action func(c *cli.Context, rt *runtime) error) cli.ActionFunc {
	return func(c *cli.Context) error {
		rt, err := setup(c)
		if err != nil {
			return err
		}
		defer rt.close()

		err = action(c, rt)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	}
}
