package main

import (
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	natsgo "github.com/nats-io/nats.go"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"tribehouse.com/gameserver/game"
	"tribehouse.com/gameserver/nats"
	"tribehouse.com/gameserver/util"
)

var mainLogger = util.GetZeroLogger("main::main", nil)

func main() {
	if err := run(); err != nil {
		mainLogger.Error().Msg(err.Error())
		os.Exit(1)
	}
}

func run() error {
	env := util.GameServerEnvironment

	logLevel, err := zerolog.ParseLevel(strings.ToLower(env.GetLogLevel()))
	if err != nil {
		return errors.Wrapf(err, "Invalid log level %s", env.GetLogLevel())
	}
	zerolog.SetGlobalLevel(logLevel)

	store, err := newTableStore()
	if err != nil {
		return errors.Wrap(err, "Error while creating table store")
	}

	var stakes *game.StakesConfig
	if stakesFile := env.GetStakesFile(); stakesFile != "" {
		stakes, err = game.ParseStakesConfig(stakesFile)
		if err != nil {
			return errors.Wrap(err, "Error while parsing stakes config")
		}
	}

	wallet := game.NewAPIServerWallet(env.GetApiServerUrl())
	registry := game.NewRegistry(store)
	queue := game.NewMatchmakingQueue(registry, wallet, stakes, env.GetMaxTables())
	presence := game.NewPresenceTracker(registry, queue, env.GetSweepInterval(), env.GetGraceWindow())

	natsURL := env.GetNatsURL()
	mainLogger.Info().Msgf("NATS URL: %s", natsURL)
	nc, err := natsgo.Connect(natsURL)
	if err != nil {
		return errors.Wrap(err, "Error connecting to NATS server")
	}
	defer nc.Close()

	adapter := nats.NewAdapter(nc)
	facade, err := game.NewGameFacade(registry, queue, presence, wallet, adapter)
	if err != nil {
		return errors.Wrap(err, "Error while creating game facade")
	}
	adapter.SetFacade(facade)
	if err := adapter.Start(); err != nil {
		return errors.Wrap(err, "Error while starting NATS adapter")
	}
	defer adapter.Stop()

	presence.Start()
	defer presence.Stop()

	go serveMetrics(env.GetListenPort())

	mainLogger.Info().Msgf("Game server is running (persist: %s)", env.GetPersistMethod())

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	mainLogger.Info().Msg("Shutting down")
	return nil
}

func newTableStore() (game.TableStore, error) {
	env := util.GameServerEnvironment
	switch env.GetPersistMethod() {
	case "memory":
		return game.NewMemoryTableStore(), nil
	case "redis":
		addr := fmt.Sprintf("%s:%d", env.GetRedisHost(), env.GetRedisPort())
		return game.NewRedisTableStore(addr, env.GetRedisPW(), env.GetRedisDB()), nil
	default:
		return nil, fmt.Errorf("unsupported persist method %s", env.GetPersistMethod())
	}
}

func serveMetrics(port int) {
	http.Handle("/metrics", promhttp.Handler())
	addr := fmt.Sprintf(":%d", port)
	mainLogger.Info().Msgf("Serving metrics on %s", addr)
	if err := http.ListenAndServe(addr, nil); err != nil {
		mainLogger.Error().Msgf("Metrics server stopped: %s", err.Error())
	}
}
