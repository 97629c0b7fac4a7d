package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/jessevdk/go-flags"

	"github.com/tapyruslabs/chaintools/internal/balance"
	"github.com/tapyruslabs/chaintools/internal/electrum"
	"github.com/tapyruslabs/chaintools/internal/logger"
)

func main() {
	cfgFlags, cfg, err := parseConfig()
	if err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			fmt.Println(err)
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "tapyrus-addr: %s\n", err)
		os.Exit(1)
	}

	log := logger.New(cfgFlags.Verbose)

	client, err := electrum.Dial(cfg.ElectrumAddr(), log)
	if err != nil {
		log.Fatal("failed to connect to electrum server", map[string]string{
			"addr":  cfg.ElectrumAddr(),
			"error": err.Error(),
		})
	}
	defer client.Close()

	if _, _, err := client.ServerVersion("tapyrus-addr"); err != nil {
		log.Fatal("protocol negotiation failed", map[string]string{"error": err.Error()})
	}

	resolver := balance.NewNetworkResolver(cfg.ChainParams())
	reporter := balance.NewReporter(resolver, client, os.Stdout, log)

	if err := reporter.Report(cfgFlags.Addresses); err != nil {
		fmt.Fprintf(os.Stderr, "tapyrus-addr: %s\n", err)
		os.Exit(1)
	}
}
