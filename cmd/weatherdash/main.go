// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

//go:build linux

// Package main implements the weatherdash terminal dashboard.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"

	"github.com/wneessen/weatherdash/internal/config"
	"github.com/wneessen/weatherdash/internal/logger"
	"github.com/wneessen/weatherdash/internal/presenter"
	"github.com/wneessen/weatherdash/internal/service"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGABRT, os.Interrupt)
	defer cancel()

	// Initialize Logger
	log := logger.New(slog.LevelError)

	confPath := flag.String("config", "", "path to the config file")
	city := flag.String("city", "", "city to show on start")
	locate := flag.Bool("locate", false, "detect the city from the network location on start")
	flag.Parse()

	if err := config.LoadDotEnv(); err != nil {
		log.Error("failed to load .env file", logger.Err(err))
		os.Exit(1)
	}

	conf, err := loadConfig(*confPath)
	if err != nil {
		log.Error("failed to load config", logger.Err(err))
		os.Exit(1)
	}
	log = logger.New(conf.LogLevel)

	pres, err := presenter.New(os.Stdout, log)
	if err != nil {
		log.Error("failed to initialize presenter", logger.Err(err))
		os.Exit(1)
	}

	// Initialize the service
	serv, err := service.New(conf, log, pres)
	if err != nil {
		log.Error("failed to initialize weatherdash service", logger.Err(err))
		os.Exit(1)
	}

	log.Info("starting weatherdash service", slog.String("version", version),
		slog.String("commit", commit), slog.String("date", date))

	var wg sync.WaitGroup
	wg.Go(func() {
		if err := serv.Run(ctx); err != nil {
			log.Error("weatherdash service failed", logger.Err(err))
			cancel()
		}
	})

	switch {
	case *city != "":
		_ = serv.Search(ctx, *city)
	case *locate:
		_ = serv.Locate(ctx)
	}

	go func() {
		readCommands(ctx, serv, os.Stdin, os.Stdout)
		cancel()
	}()

	<-ctx.Done()
	wg.Wait()
	log.Info("shutting down weatherdash service")
}

// loadConfig reads the config from path, from the default location or from the environment
// only, in that order.
func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.NewFromFile(filepath.Dir(path), filepath.Base(path))
	}
	if dir, file := findConfigFile(); dir != "" && file != "" {
		return config.NewFromFile(dir, file)
	}
	return config.New()
}

func findConfigFile() (string, string) {
	homedir, err := os.UserHomeDir()
	if err != nil {
		return "", ""
	}
	exts := []string{"toml", "yaml", "yml", "json"}
	for _, ext := range exts {
		path := filepath.Join(homedir, ".config", "weatherdash", "config."+ext)
		if _, err = os.Stat(path); err == nil {
			return filepath.Dir(path), filepath.Base(path)
		}
	}
	return "", ""
}
