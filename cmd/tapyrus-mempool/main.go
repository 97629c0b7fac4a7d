package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/jessevdk/go-flags"

	"github.com/tapyruslabs/chaintools/internal/chart"
	"github.com/tapyruslabs/chaintools/internal/logger"
	"github.com/tapyruslabs/chaintools/internal/mempool"
	"github.com/tapyruslabs/chaintools/internal/rpc"
)

func main() {
	cfgFlags, cfg, err := parseConfig()
	if err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			fmt.Println(err)
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "tapyrus-mempool: %s\n", err)
		os.Exit(1)
	}

	log := logger.New(cfgFlags.Verbose)

	daemon, err := rpc.NewDaemon(cfg, log)
	if err != nil {
		log.Fatal("failed to create node RPC client", map[string]string{"error": err.Error()})
	}
	defer daemon.Close()

	analyzer := mempool.NewAnalyzer(daemon, cfg.Chain.CoinRatio, log)

	// The snapshot runs to completion before the chart server starts,
	// so a failed fetch never leaves a partial chart behind.
	dist, err := analyzer.Snapshot()
	if err != nil {
		log.Fatal("mempool snapshot failed", map[string]string{"error": err.Error()})
	}
	log.Info("mempool snapshot complete", map[string]string{
		"transactions": strconv.Itoa(len(dist.Entries)),
		"total_vsize":  strconv.FormatInt(dist.TotalVSize(), 10),
	})

	server := chart.NewServer(cfg.Chart.ListenAddr, dist, log)
	go func() {
		if err := server.Serve(); err != nil {
			log.Fatal("chart server error", map[string]string{"error": err.Error()})
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("chart server shutdown error", map[string]string{"error": err.Error()})
	}
}
