package main

import (
	"fmt"
	"os"

	"github.com/sirapurapushyam/AluminiHub-sub000/config"
	"github.com/sirapurapushyam/AluminiHub-sub000/internal/api"
	"github.com/sirapurapushyam/AluminiHub-sub000/pkg/logger"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.ConfigFromEnv())
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger:", err)
		os.Exit(1)
	}
	defer log.Sync()

	if err := api.StartServer(cfg, log); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}
