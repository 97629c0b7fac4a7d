package main

import (
	"github.com/jessevdk/go-flags"

	"github.com/tapyruslabs/chaintools/internal/config"
)

type configFlags struct {
	Dev        bool   `long:"dev" description:"Use the dev network profile (dev RPC port and cookie namespace)"`
	ConfigFile string `long:"config" description:"Path to an optional YAML configuration file"`
	NetworkID  uint32 `long:"networkid" description:"Network id selecting the cookie namespace"`
	Port       int    `short:"p" long:"port" description:"Node RPC port"`
	CookieDir  string `long:"cookie-dir" description:"Directory holding the node auth cookie"`
	Listen     string `long:"listen" description:"Address to serve the chart on"`
	Verbose    bool   `short:"v" long:"verbose" description:"Enable debug logging"`
}

func parseConfig() (*configFlags, *config.Config, error) {
	cfgFlags := &configFlags{}
	parser := flags.NewParser(cfgFlags, flags.HelpFlag)
	parser.Usage = "tapyrus-mempool [OPTIONS]"
	if _, err := parser.Parse(); err != nil {
		return nil, nil, err
	}

	cfg, err := config.Load(cfgFlags.ConfigFile, cfgFlags.Dev)
	if err != nil {
		return nil, nil, err
	}

	if cfgFlags.NetworkID != 0 {
		cfg.Network.ID = cfgFlags.NetworkID
	}
	if cfgFlags.Port != 0 {
		cfg.Node.Port = cfgFlags.Port
	}
	if cfgFlags.CookieDir != "" {
		cfg.Node.CookieDir = cfgFlags.CookieDir
	}
	if cfgFlags.Listen != "" {
		cfg.Chart.ListenAddr = cfgFlags.Listen
	}

	return cfgFlags, cfg, nil
}
