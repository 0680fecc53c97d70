package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/nexusdev/groupguard/bot"
	"github.com/nexusdev/groupguard/config"
	"github.com/nexusdev/groupguard/model"
	"github.com/nexusdev/groupguard/model/memory"
	"github.com/nexusdev/groupguard/model/redis"
	"github.com/nexusdev/groupguard/model/sql"
	"github.com/nexusdev/groupguard/plugin"
	"github.com/nexusdev/groupguard/plugin/groupinfo"
	"github.com/nexusdev/groupguard/plugin/help"
	"github.com/nexusdev/groupguard/plugin/moderation"
	"github.com/nexusdev/groupguard/plugin/premium"
	"github.com/nexusdev/groupguard/plugin/rules"
	"github.com/nexusdev/groupguard/utils"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/viper"
)

type stores struct {
	entitlements model.EntitlementRepository
	rules        model.RuleRepository
	close        func()
}

func loadConfig() (config.Config, error) {
	cfg := config.Load(viper.GetViper())
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func openStores(ctx context.Context, cfg config.Config) (stores, error) {
	switch cfg.Store {
	case config.StoreMySQL:
		db, err := sql.New(cfg.MySQLURL)
		if err != nil {
			return stores{}, err
		}
		log.Info().Msg("Database connection established")

		if !cfg.IgnoreSQLMigration {
			n, err := sql.Migrate(db)
			if err != nil {
				_ = db.Close()
				return stores{}, fmt.Errorf("failed to migrate database: %w", err)
			}
			if n > 0 {
				log.Info().Msgf("Applied %d migration(s)", n)
			}
		}

		return stores{
			entitlements: sql.NewEntitlementRepository(db),
			rules:        sql.NewRuleRepository(db),
			close:        func() { _ = db.Close() },
		}, nil
	case config.StoreRedis:
		client, err := redis.NewClient(ctx, cfg.RedisURL)
		if err != nil {
			return stores{}, err
		}
		log.Info().Str("prefix", cfg.RedisPrefix).Msg("Redis connection established")

		return stores{
			entitlements: redis.NewEntitlementRepo(client, cfg.RedisPrefix),
			rules:        redis.NewRuleRepo(client, cfg.RedisPrefix),
			close:        func() { _ = client.Close() },
		}, nil
	default:
		log.Warn().Msg("Using the in-memory store, premium and rules are lost on restart")
		store := memory.New()
		return stores{
			entitlements: store,
			rules:        store,
			close:        func() {},
		}, nil
	}
}

// serve wires the engine to transport and blocks until SIGINT/SIGTERM or
// until run returns.
func serve(cfg config.Config, transport bot.Transport, run func(ctx context.Context, sink *bot.Bot) error) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := openStores(ctx, cfg)
	if err != nil {
		return err
	}
	defer st.close()

	location := utils.LoadTimezone(cfg.Timezone)
	premiumService := bot.NewPremiumService(st.entitlements, cfg.Owner)
	ruleService := bot.NewRuleService(st.rules)

	plugins := []plugin.Plugin{
		help.New(cfg.BotName, cfg.Owner),
		rules.New(ruleService),
		premium.New(premiumService, premium.Options{
			Location:           location,
			CancelLeaveOnGrant: cfg.CancelLeaveOnGrant,
		}),
		moderation.New(moderation.Options{
			Keywords:         cfg.SpamKeywords,
			ClearChatDefault: cfg.ClearChatDefault,
			ClearChatMax:     cfg.ClearChatMax,
		}),
		groupinfo.New(premiumService, location),
	}
	for i, plg := range plugins {
		log.Info().Msgf("Registering plugin (%d/%d): %s", i+1, len(plugins), plg.Name())
	}

	processor, err := bot.NewProcessor(bot.ProcessorOpts{
		BotName:    cfg.BotName,
		Owner:      cfg.Owner,
		Vocabulary: cfg.Commands,
		Keywords:   cfg.SpamKeywords,
		LeaveDelay: cfg.LeaveDelay,
		Location:   location,
		Premium:    premiumService,
		Rules:      ruleService,
		Lookup:     transport,
		Plugins:    plugins,
	})
	if err != nil {
		return err
	}

	scheduler := bot.NewScheduler()
	defer scheduler.Stop()

	b := bot.New(processor, bot.NewExecutor(transport, scheduler))

	if cfg.MetricsAddr != "" {
		srv := startMetrics(cfg.MetricsAddr)
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	loopDone := make(chan error, 1)
	go func() {
		loopDone <- b.Run(ctx)
	}()

	err = run(ctx, b)
	stop()
	if loopErr := <-loopDone; loopErr != nil && err == nil {
		err = loopErr
	}
	if errors.Is(err, context.Canceled) {
		err = nil
	}

	log.Info().Msg("Shutting down")
	return err
}

func startMetrics(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", addr).Msg("Serving metrics")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Err(err).Str("addr", addr).Msg("Metrics listener failed")
		}
	}()

	return srv
}
