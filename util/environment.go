package util

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
)

var environmentLogger = log.With().Str("logger_name", "util::environment").Logger()

type gameServerEnvironment struct {
	PersistMethod string
	RedisHost     string
	RedisPort     string
	RedisPW       string
	RedisDB       string
	NatsURL       string
	APIServerUrl  string
	ListenPort    string
	MaxTables     string
	SweepInterval string
	GraceWindow   string
	StakesFile    string
	LogLevel      string
}

// GameServerEnvironment is a helper object for accessing environment variables.
var GameServerEnvironment = &gameServerEnvironment{
	PersistMethod: "PERSIST_METHOD",
	RedisHost:     "REDIS_HOST",
	RedisPort:     "REDIS_PORT",
	RedisPW:       "REDIS_PW",
	RedisDB:       "REDIS_DB",
	NatsURL:       "NATS_URL",
	APIServerUrl:  "API_SERVER_URL",
	ListenPort:    "LISTEN_PORT",
	MaxTables:     "MAX_TABLES",
	SweepInterval: "SWEEP_INTERVAL_SEC",
	GraceWindow:   "GRACE_WINDOW_SEC",
	StakesFile:    "STAKES_FILE",
	LogLevel:      "LOG_LEVEL",
}

func (g *gameServerEnvironment) GetPersistMethod() string {
	method := os.Getenv(g.PersistMethod)
	if method == "" {
		return "memory"
	}
	return method
}

func (g *gameServerEnvironment) GetRedisHost() string {
	host := os.Getenv(g.RedisHost)
	if host == "" {
		msg := fmt.Sprintf("%s is not defined", g.RedisHost)
		environmentLogger.Error().Msg(msg)
		panic(msg)
	}
	return host
}

func (g *gameServerEnvironment) GetRedisPort() int {
	portStr := os.Getenv(g.RedisPort)
	if portStr == "" {
		msg := fmt.Sprintf("%s is not defined", g.RedisPort)
		environmentLogger.Error().Msg(msg)
		panic(msg)
	}
	portNum, err := strconv.Atoi(portStr)
	if err != nil {
		msg := fmt.Sprintf("Invalid Redis port %s", portStr)
		environmentLogger.Error().Msg(msg)
		panic(msg)
	}
	return portNum
}

func (g *gameServerEnvironment) GetRedisPW() string {
	return os.Getenv(g.RedisPW)
}

func (g *gameServerEnvironment) GetRedisDB() int {
	dbStr := os.Getenv(g.RedisDB)
	if dbStr == "" {
		return 0
	}
	dbNum, err := strconv.Atoi(dbStr)
	if err != nil {
		msg := fmt.Sprintf("Invalid Redis db %s", dbStr)
		environmentLogger.Error().Msg(msg)
		panic(msg)
	}
	return dbNum
}

func (g *gameServerEnvironment) GetNatsURL() string {
	url := os.Getenv(g.NatsURL)
	if url == "" {
		msg := fmt.Sprintf("%s is not defined", g.NatsURL)
		environmentLogger.Error().Msg(msg)
		panic(msg)
	}
	return url
}

func (g *gameServerEnvironment) GetApiServerUrl() string {
	url := os.Getenv(g.APIServerUrl)
	if url == "" {
		msg := fmt.Sprintf("%s is not defined", g.APIServerUrl)
		environmentLogger.Error().Msg(msg)
		panic(msg)
	}
	return url
}

func (g *gameServerEnvironment) GetListenPort() int {
	s := os.Getenv(g.ListenPort)
	if s == "" {
		return 8080
	}
	port, err := strconv.Atoi(s)
	if err != nil {
		msg := fmt.Sprintf("Invalid integer [%s] for listen port", s)
		environmentLogger.Error().Msg(msg)
		panic(msg)
	}
	return port
}

func (g *gameServerEnvironment) GetMaxTables() int {
	s := os.Getenv(g.MaxTables)
	if s == "" {
		return 100
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		msg := fmt.Sprintf("Invalid integer [%s] for max tables", s)
		environmentLogger.Error().Msg(msg)
		panic(msg)
	}
	return n
}

func (g *gameServerEnvironment) GetSweepInterval() time.Duration {
	s := os.Getenv(g.SweepInterval)
	if s == "" {
		return 10 * time.Second
	}
	sec, err := strconv.Atoi(s)
	if err != nil {
		msg := fmt.Sprintf("Invalid integer [%s] for sweep interval", s)
		environmentLogger.Error().Msg(msg)
		panic(msg)
	}
	return time.Duration(sec) * time.Second
}

func (g *gameServerEnvironment) GetGraceWindow() time.Duration {
	s := os.Getenv(g.GraceWindow)
	if s == "" {
		return 60 * time.Second
	}
	sec, err := strconv.Atoi(s)
	if err != nil {
		msg := fmt.Sprintf("Invalid integer [%s] for grace window", s)
		environmentLogger.Error().Msg(msg)
		panic(msg)
	}
	return time.Duration(sec) * time.Second
}

func (g *gameServerEnvironment) GetStakesFile() string {
	return os.Getenv(g.StakesFile)
}

func (g *gameServerEnvironment) GetLogLevel() string {
	level := os.Getenv(g.LogLevel)
	if level == "" {
		return "info"
	}
	return level
}
