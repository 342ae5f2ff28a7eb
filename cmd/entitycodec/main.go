/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Command entitycodec inspects stored object graphs.
//
//	entitycodec [-config file] [-backend file|ddb] <command> [args]
//
// Commands:
//
//	version        print version information
//	tree <path>    print the group hierarchy and type tags of a store
//	dump <path>    decode a store and print the value as JSON
//	tags           list the registered type tags
//	plugins        list the plugin entry points of each group
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/suparena/entitycodec"
	"github.com/suparena/entitycodec/config"
	"github.com/suparena/entitycodec/plugin"
	"github.com/suparena/entitycodec/plugins"
	"github.com/suparena/entitycodec/store"
	"github.com/suparena/entitycodec/store/ddbstore"
	"github.com/suparena/entitycodec/store/filestore"
)

var (
	configFlag  = flag.String("config", "", "Path to a YAML configuration file")
	backendFlag = flag.String("backend", "", "Store backend: file or ddb (overrides the configuration)")
	versionFlag = flag.Bool("version", false, "Show version information")
	vFlag       = flag.Bool("v", false, "Show version information (short)")
)

func main() {
	flag.Usage = usage
	flag.Parse()

	if *versionFlag || *vFlag {
		printVersion(os.Stdout)
		os.Exit(0)
	}
	if flag.NArg() == 0 {
		usage()
		os.Exit(2)
	}

	if err := run(context.Background(), flag.Args(), os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "entitycodec: %v\n", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintf(flag.CommandLine.Output(), "Usage: entitycodec [flags] version|tree|dump|tags|plugins [path]\n")
	flag.PrintDefaults()
}

func printVersion(w io.Writer) {
	info := entitycodec.GetVersionInfo()
	fmt.Fprintf(w, "entitycodec version %s\n", info.Version)
	fmt.Fprintf(w, "Git commit: %s\n", info.GitCommit)
	fmt.Fprintf(w, "Build date: %s\n", info.BuildDate)
	fmt.Fprintf(w, "Go version: %s\n", info.GoVersion)
}

func run(ctx context.Context, args []string, out io.Writer) error {
	cfg, err := config.Load(*configFlag)
	if err != nil {
		return err
	}
	if *backendFlag != "" {
		cfg.Store.Backend = *backendFlag
		if err := cfg.Validate(); err != nil {
			return err
		}
	}

	logger, err := newLogger(cfg.Log)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()
	entitycodec.SetLogger(logger)

	if cfg.Plugins.Manifest != "" {
		m, err := plugin.LoadManifest(cfg.Plugins.Manifest)
		if err != nil {
			return err
		}
		if err := m.Install(plugin.Default(), plugins.Units()); err != nil {
			return err
		}
	}

	opener, err := openerFor(ctx, cfg, logger)
	if err != nil {
		return err
	}
	e := entitycodec.NewEngine(
		entitycodec.WithRegistry(entitycodec.DefaultRegistry()),
		entitycodec.WithPlugins(plugin.Cached(plugin.Default())),
		entitycodec.WithOpener(opener),
		entitycodec.WithLogger(logger.Named("engine")),
	)

	cmd, rest := args[0], args[1:]
	switch cmd {
	case "version":
		printVersion(out)
		return nil
	case "tags":
		return listTags(out, e.Registry())
	case "plugins":
		return listPlugins(out, plugin.Default())
	case "tree", "dump":
		if len(rest) != 1 {
			return fmt.Errorf("%s needs exactly one store path", cmd)
		}
		f, err := opener.Open(rest[0])
		if err != nil {
			return err
		}
		defer f.Close()
		if cmd == "tree" {
			return printTree(out, f.Root())
		}
		return dump(out, e, f.Root())
	}
	return fmt.Errorf("unknown command %q", cmd)
}

// openerFor builds the backend selected by cfg. Only the selected backend is
// constructed, so the file backend needs no AWS settings.
func openerFor(ctx context.Context, cfg *config.Config, logger *zap.Logger) (store.Opener, error) {
	backends := store.NewBackends()
	if err := backends.Register(config.BackendFile, filestore.Opener{}); err != nil {
		return nil, err
	}

	if cfg.Store.Backend == config.BackendDynamoDB {
		d := cfg.Store.DynamoDB
		client, err := ddbstore.NewClient(ctx, d.AccessKey, d.SecretKey, d.Region, d.Endpoint)
		if err != nil {
			return nil, err
		}
		opts := []ddbstore.Option{
			ddbstore.WithContext(ctx),
			ddbstore.WithMaxRetries(uint64(d.MaxRetries)),
			ddbstore.WithLogger(logger.Named("ddbstore")),
		}
		if d.NoOverwrite {
			opts = append(opts, ddbstore.WithNoOverwrite())
		}
		if err := backends.Register(config.BackendDynamoDB, ddbstore.New(client, d.Table, opts...)); err != nil {
			return nil, err
		}
	}

	logger.Debug("Selected store backend", zap.String("backend", cfg.Store.Backend), zap.Strings("available", backends.List()))
	return backends.Get(cfg.Store.Backend)
}
