package app

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	config "github.com/DRSN-tech/go-cart/internal/cfg"
	v1Http "github.com/DRSN-tech/go-cart/internal/delivery/v1/http"
	"github.com/DRSN-tech/go-cart/internal/infrastructure/kafka"
	"github.com/DRSN-tech/go-cart/internal/repository/pgdb"
	pgdbConv "github.com/DRSN-tech/go-cart/internal/repository/pgdb/converter"
	"github.com/DRSN-tech/go-cart/internal/usecase"
	"github.com/DRSN-tech/go-cart/pkg/clients"
	"github.com/DRSN-tech/go-cart/pkg/closer"
	"github.com/DRSN-tech/go-cart/pkg/e"
	"github.com/DRSN-tech/go-cart/pkg/logger"
	"github.com/DRSN-tech/go-cart/pkg/postgres"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/go-chi/chi/v5"
	"github.com/jimlawless/whereami"
)

const (
	shutdownTimeout    = 10 * time.Second
	ensureTopicTimeout = 10 * time.Second
)

// App собирает зависимости сервиса корзин. Одна и та же сборка обслуживает HTTP-сервер и Lambda.
type App struct {
	cfg        *config.Config
	logger     logger.Logger
	closer     *closer.Closer
	dispatcher *usecase.Dispatcher

	aws *aws.Config
}

func NewApp(ctx context.Context, cfg *config.Config, logger logger.Logger) (*App, error) {
	a := &App{
		cfg:    cfg,
		logger: logger,
		closer: closer.NewCloser(0),
	}

	if err := a.init(ctx); err != nil {
		if closeErr := a.closer.Close(context.Background()); closeErr != nil {
			logger.Warnf("cleanup after failed init: %v", closeErr)
		}
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return a, nil
}

func (a *App) init(ctx context.Context) error {
	catalog, err := a.initCatalog(ctx)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	store, err := a.newCartStore(ctx)
	if err != nil {
		a.logger.Errorf(err, "failed to initialize %s cart store", a.cfg.Cart.Backend)
		return e.Wrap(whereami.WhereAmI(), err)
	}
	a.logger.Infof("cart store backend: %s (table %s)", a.cfg.Cart.Backend, a.cfg.Cart.TableName)

	opts := []usecase.Option{usecase.WithExpiredFilter(a.cfg.Cart.FilterExpired)}
	if a.cfg.Kafka != nil {
		producer := kafka.NewProducer(a.logger, a.cfg.Kafka)
		if err := producer.EnsureTopic(ensureTopicTimeout); err != nil {
			a.logger.Warnf("failed to ensure kafka topic %s: %v", a.cfg.Kafka.Topic, err)
		}
		a.closer.Add("kafka producer", producer.Close)
		opts = append(opts, usecase.WithEventPublisher(producer))
	}

	cartUC := usecase.NewCartUC(catalog, store, a.logger, opts...)
	a.dispatcher = usecase.NewDispatcher(cartUC, a.logger)

	return nil
}

// initCatalog подключается к каталогу. Учётные данные из Secrets Manager подставляются до подключения.
func (a *App) initCatalog(ctx context.Context) (*pgdb.CatalogRepo, error) {
	if a.cfg.Db.SecretARN != "" {
		awsCfg, err := a.awsConfig(ctx)
		if err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}
		if err := clients.ResolveDBCredentials(ctx, clients.NewSecretsManagerClient(awsCfg), a.cfg.Db); err != nil {
			a.logger.Errorf(err, "failed to resolve catalog credentials")
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}
	}

	db, err := postgres.Connect(ctx, a.cfg.Db, a.logger)
	if err != nil {
		a.logger.Errorf(err, "failed to connect to database")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	a.closer.Add("postgres", func(context.Context) error {
		db.Close()
		return nil
	})

	if a.cfg.Db.RunMigrations {
		if err := db.RunMigrations(a.logger); err != nil {
			a.logger.Errorf(err, "failed to run migrations")
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}
	}

	return pgdb.NewCatalogRepo(db.Pool, pgdbConv.NewProductConverter()), nil
}

func (a *App) awsConfig(ctx context.Context) (aws.Config, error) {
	if a.aws != nil {
		return *a.aws, nil
	}

	awsCfg, err := clients.LoadAWSConfig(ctx)
	if err != nil {
		return aws.Config{}, err
	}
	a.aws = &awsCfg

	return awsCfg, nil
}

// Dispatcher возвращает точку входа действий корзины.
func (a *App) Dispatcher() usecase.CartDispatcher {
	return a.dispatcher
}

// Close освобождает ресурсы в обратном порядке их создания.
func (a *App) Close(ctx context.Context) error {
	return a.closer.Close(ctx)
}

// Run запускает HTTP-сервер и блокируется до сигнала остановки или фатальной ошибки сервера.
func (a *App) Run() error {
	r := chi.NewRouter()
	router := v1Http.NewRouter(r, a.logger)
	router.Init(a.dispatcher)

	httpSrv := v1Http.NewServer(r, a.cfg.Http)
	if err := httpSrv.Listen(); err != nil {
		a.logger.Errorf(err, "failed to listen on port %s", a.cfg.Http.Port)
		if closeErr := a.Close(context.Background()); closeErr != nil {
			a.logger.Warnf("resource cleanup: %v", closeErr)
		}
		return e.Wrap(whereami.WhereAmI(), err)
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Infof("HTTP server started on %s", httpSrv.Addr())
		if err := httpSrv.Run(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// === Ожидание сигнала или ошибки ===
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	var appErr error
	select {
	case appErr = <-errCh:
		a.logger.Errorf(appErr, "HTTP server fatal error")
	case <-shutdown:
		a.logger.Infof("Received shutdown signal, stopping gracefully...")
	}

	// === Graceful shutdown ===
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := httpSrv.Stop(shutdownCtx); err != nil {
		a.logger.Errorf(err, "HTTP server shutdown error")
	} else {
		a.logger.Infof("HTTP server stopped")
	}

	if err := a.Close(shutdownCtx); err != nil {
		a.logger.Warnf("resource cleanup: %v", err)
	}

	a.logger.Infof("Application shutdown complete")
	return appErr
}
