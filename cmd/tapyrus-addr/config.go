package main

import (
	"net"
	"strconv"

	"github.com/jessevdk/go-flags"
	"github.com/pkg/errors"

	"github.com/tapyruslabs/chaintools/internal/config"
)

type configFlags struct {
	Dev        bool   `long:"dev" description:"Use the dev network profile (dev indexer port, testnet addresses)"`
	ConfigFile string `long:"config" description:"Path to an optional YAML configuration file"`
	Server     string `short:"s" long:"server" description:"Electrum server to query (host:port)"`
	Verbose    bool   `short:"v" long:"verbose" description:"Enable debug logging"`
	Addresses  []string
}

func parseConfig() (*configFlags, *config.Config, error) {
	cfgFlags := &configFlags{}
	parser := flags.NewParser(cfgFlags, flags.HelpFlag)
	parser.Usage = "tapyrus-addr [OPTIONS] ADDRESS [ADDRESS...]"
	remainingArgs, err := parser.Parse()
	if err != nil {
		return nil, nil, err
	}
	if len(remainingArgs) == 0 {
		return nil, nil, errors.New("at least one address must be specified")
	}
	cfgFlags.Addresses = remainingArgs

	cfg, err := config.Load(cfgFlags.ConfigFile, cfgFlags.Dev)
	if err != nil {
		return nil, nil, err
	}

	if cfgFlags.Server != "" {
		host, port, err := net.SplitHostPort(cfgFlags.Server)
		if err != nil {
			return nil, nil, errors.Wrapf(err, "invalid --server value %q", cfgFlags.Server)
		}
		p, err := strconv.Atoi(port)
		if err != nil {
			return nil, nil, errors.Wrapf(err, "invalid --server port %q", port)
		}
		cfg.Electrum.Host = host
		cfg.Electrum.Port = p
	}

	return cfgFlags, cfg, nil
}
