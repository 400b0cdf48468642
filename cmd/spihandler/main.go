// cmd/spihandler/main.go
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/tamzrod/spi-handler/internal/config"
	"github.com/tamzrod/spi-handler/internal/publisher"
	"github.com/tamzrod/spi-handler/internal/runner"
	"github.com/tamzrod/spi-handler/internal/spi"
	"github.com/tamzrod/spi-handler/internal/transceiver"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("usage: spihandler <config.yaml>")
	}

	cfgPath := os.Args[1]

	// --------------------
	// Load + validate config
	// --------------------

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}

	if err := config.Validate(cfg); err != nil {
		log.Fatalf("config validation failed: %v", err)
	}
	config.Normalize(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --------------------
	// Build units + engine
	// --------------------

	units, closeUnits, err := transceiver.BuildAll(cfg.SPI.Units)
	if err != nil {
		log.Fatalf("unit build failed: %v", err)
	}

	tables, err := cfg.SPI.EngineConfig(units)
	if err != nil {
		_ = closeUnits()
		log.Fatalf("engine config failed: %v", err)
	}

	opts := append(cfg.SPI.Options(),
		spi.WithLogger(log.Default()),
		spi.WithNotifier(func(n spi.Notification) {
			if n.Kind == spi.JobEnd {
				log.Printf("job end (run=%s seq=%d job=%d): %s", n.RunID, n.Sequence, n.Job, n.JobResult)
				return
			}
			log.Printf("sequence end (run=%s seq=%d): %s", n.RunID, n.Sequence, n.SeqResult)
		}),
	)

	engine := spi.New(opts...)
	if err := engine.Init(tables); err != nil {
		_ = closeUnits()
		log.Fatalf("engine init failed: %v", err)
	}
	defer func() {
		if err := engine.DeInit(); err != nil {
			log.Printf("engine deinit: %v", err)
		}
	}()

	if err := engine.SetAsyncMode(cfg.SPI.AsyncMode()); err != nil {
		log.Printf("async mode %s not applied: %v", cfg.SPI.Mode, err)
	}

	// --------------------
	// Status publication (optional)
	// --------------------

	pub, closePub, pubEnabled, err := publisher.Build(cfg.Status)
	if err != nil {
		log.Printf("status publisher disabled (endpoint=%s): %v", cfg.Status.Endpoint, err)
	}
	if closePub != nil {
		defer closePub()
	}

	if pubEnabled {
		if err := pub.Publish(engine.Snapshot()); err != nil {
			log.Printf("status write failed on start: %v", err)
		}
	}

	// --------------------
	// Schedule
	// --------------------

	if len(cfg.Schedule.Sequences) == 0 {
		log.Printf("no sequences scheduled; engine idle")
		<-ctx.Done()
		return
	}

	r, err := runner.Build(cfg.Schedule, engine)
	if err != nil {
		log.Printf("runner build failed: %v", err)
		return
	}

	out := make(chan runner.CycleResult)
	go r.Run(ctx, out)

	for {
		select {
		case <-ctx.Done():
			log.Printf("shutting down")
			return

		case res := <-out:
			for _, run := range res.Runs {
				if run.Err != nil {
					log.Printf("sequence failed (seq=%d): %v", run.Sequence, run.Err)
				}
			}

			if !pubEnabled {
				continue
			}
			if err := pub.Publish(res.Snapshot); err != nil {
				log.Printf("status write failed: %v", err)
			}
		}
	}
}
