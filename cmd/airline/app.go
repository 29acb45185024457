package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/spf13/cobra"

	"github.com/mateusmacedo/go-airline/internal/airline"
	"github.com/mateusmacedo/go-airline/internal/airline/application"
	"github.com/mateusmacedo/go-airline/internal/airline/domain"
	"github.com/mateusmacedo/go-airline/internal/airline/infrastructure"
	"github.com/mateusmacedo/go-airline/internal/config"
	pkgApp "github.com/mateusmacedo/go-airline/pkg/application"
	pkgDomain "github.com/mateusmacedo/go-airline/pkg/domain"
	pkgInfra "github.com/mateusmacedo/go-airline/pkg/infrastructure"
	channelsAdapter "github.com/mateusmacedo/go-airline/pkg/infrastructure/channels/adapter"
	kafkaAdapter "github.com/mateusmacedo/go-airline/pkg/infrastructure/kafka/adapter"
	redisAdapter "github.com/mateusmacedo/go-airline/pkg/infrastructure/redis/adapter"
	watermillAdapter "github.com/mateusmacedo/go-airline/pkg/infrastructure/watermill/adapter"
	zapAdapter "github.com/mateusmacedo/go-airline/pkg/infrastructure/zaplogger/adapter"
)

// app reúne o que os comandos compartilham: configuração, logger, store, transporte de eventos e o slice.
type app struct {
	cfg     *config.Config
	logger  *zapAdapter.ZapAppLogger
	slice   *airline.AirlineSlice
	closers []func() error
}

func newApp(ctx context.Context, cmd *cobra.Command) (*app, error) {
	cfg, err := config.Load(configPath, cmd.Flags().Changed("config"))
	if err != nil {
		return nil, err
	}

	level := cfg.Logging.Level
	if verbose {
		level = "debug"
	}
	logger, err := zapAdapter.NewZapAppLoggerWithOptions(level, cfg.Logging.OutputPaths)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	a := &app{cfg: cfg, logger: logger}

	store, err := a.newStore()
	if err != nil {
		a.Close()
		return nil, err
	}

	eventBus, err := a.newEventBus(ctx)
	if err != nil {
		a.Close()
		return nil, err
	}

	slice, err := airline.NewAirlineSlice(ctx, airline.NewSimpleBuses(logger), eventBus, store, pkgInfra.UUIDGenerator(), logger)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.slice = slice

	logger.Info(ctx, "airline ready", map[string]interface{}{
		"storage": cfg.Storage.Driver,
		"events":  cfg.Events.Driver,
		"users":   cfg.UsersPath(),
		"flights": cfg.FlightsPath(),
	})
	return a, nil
}

func (a *app) newStore() (domain.Store, error) {
	switch a.cfg.Storage.Driver {
	case "postgres":
		return infrastructure.NewGormStore(a.cfg.Storage.DSN, a.logger)
	case "memory":
		return infrastructure.NewInMemoryStore(a.logger, domain.Snapshot{}), nil
	default:
		return infrastructure.NewJSONFileStore(a.cfg.DataDir, a.cfg.UsersFile, a.cfg.FlightsFile, a.logger), nil
	}
}

func (a *app) newEventBus(ctx context.Context) (application.AirlineEventBus, error) {
	wmLogger := watermillAdapter.NewWatermillLoggerAdapter(a.logger)

	switch a.cfg.Events.Driver {
	case "gochannel":
		pubSub := channelsAdapter.NewGoChannelPubSub(wmLogger)
		a.closers = append(a.closers, pubSub.Close)
		return a.watermillBus(pubSub, pubSub), nil

	case "redis":
		client := redisAdapter.NewRedisClient(a.cfg.Events.RedisAddr)
		a.closers = append(a.closers, client.Close)
		if err := redisAdapter.Ping(ctx, client); err != nil {
			return nil, err
		}
		publisher, subscriber, err := redisAdapter.NewRedisPubSub(client, a.cfg.Events.ConsumerGroup, consumerName(), wmLogger)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, publisher.Close, subscriber.Close)
		return a.watermillBus(publisher, subscriber), nil

	case "kafka":
		publisher, subscriber, err := kafkaAdapter.NewKafkaPubSub(kafkaAdapter.KafkaConfig{
			Brokers:       a.cfg.Events.KafkaBrokers,
			ConsumerGroup: a.cfg.Events.ConsumerGroup,
		}, wmLogger)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, publisher.Close, subscriber.Close)
		return a.watermillBus(publisher, subscriber), nil

	default:
		return pkgInfra.NewSimpleEventBus[pkgDomain.Event[application.AirlineEventData], application.AirlineEventData](a.logger), nil
	}
}

func (a *app) watermillBus(publisher message.Publisher, subscriber message.Subscriber) application.AirlineEventBus {
	bus := watermillAdapter.NewWatermillEventBus[pkgDomain.Event[application.AirlineEventData], application.AirlineEventData](publisher, subscriber, a.logger)
	a.closers = append(a.closers, bus.Close)
	return bus
}

// Close libera os recursos na ordem inversa da criação e descarrega o logger.
func (a *app) Close() {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i]())
	}
	if err := errors.Join(errs...); err != nil {
		pkgApp.LogError(context.Background(), a.logger, "error releasing resources", err, nil)
	}
	_ = a.logger.Sync()
}

// watchSignals cancela o contexto no primeiro SIGINT/SIGTERM. A função devolvida para a escuta.
func (a *app) watchSignals(ctx context.Context, cancel context.CancelFunc) func() {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	done := make(chan struct{})

	go func() {
		select {
		case sig := <-sigChan:
			a.logger.Info(ctx, "signal received", map[string]interface{}{"signal": sig.String()})
			cancel()
		case <-done:
		}
	}()

	return func() {
		signal.Stop(sigChan)
		close(done)
	}
}

func consumerName() string {
	host, err := os.Hostname()
	if err != nil {
		host = "airline"
	}
	return host + "-" + pkgInfra.GenerateUUID()[:8]
}
