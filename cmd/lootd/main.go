// lootfilter/cmd/lootd/main.go

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"

	"rgehrsitz/lootfilter/pkg/logging"
	"rgehrsitz/lootfilter/pkg/runtime"
	"rgehrsitz/lootfilter/pkg/store"
)

// Config represents the daemon configuration
type Config struct {
	FilterFile              string
	LogLevel                string
	LogOutput               string
	RedisAddress            string
	RedisPassword           string
	RedisDB                 int
	RedisChannels           []string
	ResultChannel           string
	MaxWorkers              int
	ReloadInterval          int
	AreaLevel               int
	DashboardEnabled        bool
	DashboardPort           int
	DashboardUpdateInterval int
}

// Dependencies represents the external dependencies of the daemon
type Dependencies struct {
	Store  store.Store
	Engine *runtime.Engine
}

// StoreFactory is an interface for creating a store
type StoreFactory interface {
	NewStore(config *Config) (store.Store, error)
}

// EngineFactory is an interface for creating an engine
type EngineFactory interface {
	NewEngine(filterFile string, store store.Store, opts runtime.EngineOptions) (*runtime.Engine, error)
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, os.Args, &RealStoreFactory{}, &RealEngineFactory{}); err != nil {
		log.Fatal().Err(err).Msg("Daemon failed")
	}
}

func run(ctx context.Context, args []string, storeFactory StoreFactory, engineFactory EngineFactory) error {
	config, err := parseConfig(args)
	if err != nil {
		return fmt.Errorf("failed to parse configuration: %w", err)
	}

	if err := logging.ConfigureLogger(config.LogLevel, config.LogOutput); err != nil {
		return fmt.Errorf("failed to configure logger: %w", err)
	}

	deps, err := setupDependencies(config, storeFactory, engineFactory)
	if err != nil {
		return fmt.Errorf("failed to setup dependencies: %w", err)
	}

	return runMainLoop(ctx, deps, config)
}

func parseConfig(args []string) (*Config, error) {
	fs := flag.NewFlagSet(args[0], flag.ContinueOnError)
	configFile := fs.String("config", "", "Path to configuration file")
	if err := fs.Parse(args[1:]); err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetDefault("filter_file", "loot.filter")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.output", "console")
	v.SetDefault("redis.address", "localhost:6379")
	v.SetDefault("redis.database", 0)
	v.SetDefault("redis.channels", []string{store.DefaultUpdateChannel})
	v.SetDefault("redis.result_channel", store.DefaultResultChannel)
	v.SetDefault("engine.max_workers", 4)
	v.SetDefault("engine.reload_interval", 5)
	v.SetDefault("engine.area_level", 0)
	v.SetDefault("dashboard.enabled", false)
	v.SetDefault("dashboard.port", 8080)
	v.SetDefault("dashboard.update_interval", 1)

	v.SetEnvPrefix("LOOT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if *configFile == "" {
		v.SetConfigName("lootd")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.lootfilter")
		v.AddConfigPath("/etc/lootfilter")
	} else {
		v.SetConfigFile(*configFile)
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || *configFile != "" {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		log.Info().Msg("No configuration file found, using defaults")
	}

	config := &Config{
		FilterFile:              v.GetString("filter_file"),
		LogLevel:                v.GetString("logging.level"),
		LogOutput:               v.GetString("logging.output"),
		RedisAddress:            v.GetString("redis.address"),
		RedisPassword:           v.GetString("redis.password"),
		RedisDB:                 v.GetInt("redis.database"),
		RedisChannels:           v.GetStringSlice("redis.channels"),
		ResultChannel:           v.GetString("redis.result_channel"),
		MaxWorkers:              v.GetInt("engine.max_workers"),
		ReloadInterval:          v.GetInt("engine.reload_interval"),
		AreaLevel:               v.GetInt("engine.area_level"),
		DashboardEnabled:        v.GetBool("dashboard.enabled"),
		DashboardPort:           v.GetInt("dashboard.port"),
		DashboardUpdateInterval: v.GetInt("dashboard.update_interval"),
	}
	if err := config.validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func (c *Config) validate() error {
	var problems []string
	if c.FilterFile == "" {
		problems = append(problems, "filter_file is empty")
	}
	if c.MaxWorkers < 1 {
		problems = append(problems, "engine.max_workers must be positive")
	}
	if c.ReloadInterval < 0 {
		problems = append(problems, "engine.reload_interval must not be negative")
	}
	if c.AreaLevel < 0 || c.AreaLevel > 100 {
		problems = append(problems, "engine.area_level must be between 0 and 100")
	}
	if len(c.RedisChannels) == 0 {
		problems = append(problems, "redis.channels is empty")
	}
	if c.DashboardEnabled {
		if c.DashboardPort < 1 || c.DashboardPort > 65535 {
			problems = append(problems, "dashboard.port must be between 1 and 65535")
		}
		if c.DashboardUpdateInterval < 1 {
			problems = append(problems, "dashboard.update_interval must be positive")
		}
	}
	if len(problems) > 0 {
		return logging.NewError(logging.ErrorTypeConfig, strings.Join(problems, "; "), nil, nil)
	}
	return nil
}

func setupDependencies(config *Config, storeFactory StoreFactory, engineFactory EngineFactory) (*Dependencies, error) {
	st, err := storeFactory.NewStore(config)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize store: %w", err)
	}

	engine, err := engineFactory.NewEngine(config.FilterFile, st, runtime.EngineOptions{
		MaxWorkers: config.MaxWorkers,
		AreaLevel:  config.AreaLevel,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize engine: %w", err)
	}

	return &Dependencies{
		Store:  st,
		Engine: engine,
	}, nil
}

func runMainLoop(ctx context.Context, deps *Dependencies, config *Config) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	pubsub, err := deps.Store.Subscribe(ctx, config.RedisChannels...)
	if err != nil {
		return fmt.Errorf("failed to subscribe: %w", err)
	}
	defer pubsub.Close()

	if config.DashboardEnabled {
		dashboard := runtime.NewDashboard(deps.Engine, config.DashboardPort,
			time.Duration(config.DashboardUpdateInterval)*time.Second)
		go func() {
			if err := dashboard.Start(ctx); err != nil {
				log.Error().Err(err).Msg("Dashboard stopped")
			}
		}()
	}

	var reload <-chan time.Time
	if config.ReloadInterval > 0 {
		ticker := time.NewTicker(time.Duration(config.ReloadInterval) * time.Second)
		defer ticker.Stop()
		reload = ticker.C
	}

	log.Info().Str("filter", config.FilterFile).Strs("channels", config.RedisChannels).Msg("Loot filter daemon started")

	messages := pubsub.Channel()
	for {
		select {
		case msg, ok := <-messages:
			if !ok {
				return nil
			}
			if err := processMessage(ctx, deps.Engine, msg); err != nil {
				logging.LogError(logging.Logger, err)
			}
		case <-reload:
			reloadFilter(ctx, deps.Engine, config.FilterFile)
		case <-ctx.Done():
			log.Info().Msg("Shutting down loot filter daemon")
			return nil
		}
	}
}

// reloadFilter recompiles the filter file and re-evaluates stored items when it
// changed.
func reloadFilter(ctx context.Context, engine *runtime.Engine, path string) {
	_, changed, err := engine.LoadFile(path)
	if err != nil {
		log.Error().Err(err).Str("filter", path).Msg("Failed to reload filter")
		return
	}
	if !changed {
		return
	}
	if _, err := engine.ProcessAll(ctx, "*"); err != nil {
		logging.LogError(logging.Logger, err)
	}
}

func processMessage(ctx context.Context, engine *runtime.Engine, msg *redis.Message) error {
	logging.Logger.Debug().Str("channel", msg.Channel).Str("payload", msg.Payload).Msg("Received message")

	id := strings.TrimSpace(msg.Payload)
	if id == "" || strings.ContainsAny(id, " \t") {
		return fmt.Errorf("invalid payload format: %q", msg.Payload)
	}

	_, err := engine.ProcessItemUpdate(ctx, id)
	return err
}

// RealStoreFactory implements StoreFactory
type RealStoreFactory struct{}

func (f *RealStoreFactory) NewStore(config *Config) (store.Store, error) {
	st, err := store.NewRedisStore(config.RedisAddress, config.RedisPassword, config.RedisDB)
	if err != nil {
		return nil, err
	}
	return st.WithChannels(config.RedisChannels[0], config.ResultChannel), nil
}

// RealEngineFactory implements EngineFactory
type RealEngineFactory struct{}

func (f *RealEngineFactory) NewEngine(filterFile string, store store.Store, opts runtime.EngineOptions) (*runtime.Engine, error) {
	return runtime.NewEngineFromFile(filterFile, store, opts)
}
