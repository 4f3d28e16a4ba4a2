package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	"blockparty/internal/modkit"
	"blockparty/internal/modkit/module"
	"blockparty/internal/modkit/repokit"
	"blockparty/internal/platform/config"
	"blockparty/internal/platform/logger"
	"blockparty/internal/platform/store"

	eventsmod "blockparty/internal/services/events/module"
	ingestmod "blockparty/internal/services/ingest/module"
	ingestsvc "blockparty/internal/services/ingest/service"
)

func main() {
	root := config.New()
	dbCfg := root.Prefix("SERVICE_PGSQL_")

	l := logger.Get()

	st, err := store.Open(context.Background(), store.Config{
		PG: store.PGConfig{
			Enabled:     true,
			URL:         dbCfg.MustString("DBURL"),
			MaxConns:    int32(dbCfg.MayInt("MAX_CONNS", 4)),
			SlowQueryMs: dbCfg.MayInt("SLOW_MS", 500),
			LogSQL:      dbCfg.MayBool("LOG_SQL", false),
		},
	}, store.WithLogger(*l))
	if err != nil {
		l.Panic().Err(err).Msg("store.Open failed")
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()

	repokit.MustGuard(context.Background(), st)

	// Flags
	var (
		fOnce     = flag.Bool("once", false, "run a single collection pass and exit")
		fSchedule = flag.String("schedule", "@every 24h", "cron schedule for recurring collection")
	)
	flag.Parse()

	deps := modkit.Deps{
		Cfg: root,
		PG:  st.PG,
		Log: l,
	}

	events := eventsmod.New(deps)
	evPorts := module.MustPortsOf[eventsmod.Ports](events)

	ingest := ingestmod.New(deps, ingestmod.Gateway{
		Writer:   evPorts.Writer,
		External: evPorts.External,
	})

	module.Register(events.Name(), events.Ports())
	module.Register(ingest.Name(), ingest.Ports())

	runner := module.MustPortsOf[ingestmod.Ports](ingest).Runner

	// Root context with cancellation on SIGINT/SIGTERM
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		l.Info().Str("signal", sig.String()).Msg("signal received, shutting down")
		cancel()
	}()

	collect := func() {
		res, err := runner.Run(ctx)
		switch {
		case errors.Is(err, ingestsvc.ErrRunInProgress):
			l.Warn().Msg("collection skipped, previous run still in flight")
		case err != nil:
			l.Error().Err(err).Msg("collection run failed")
		default:
			l.Info().Int("saved", res.Saved).Int("total", res.Total).Msg("collection run finished")
		}
	}

	if *fOnce {
		collect()
		return
	}

	// Kick one pass shortly after boot, then hand off to the scheduler
	boot := time.AfterFunc(5*time.Second, collect)
	defer boot.Stop()

	c := cron.New()
	if _, err := c.AddFunc(*fSchedule, collect); err != nil {
		l.Panic().Err(err).Str("schedule", *fSchedule).Msg("bad -schedule")
	}
	c.Start()
	l.Info().Str("schedule", *fSchedule).Msg("ingestd running")

	<-ctx.Done()

	// Wait for any in-flight scheduled job before exiting
	<-c.Stop().Done()
}
