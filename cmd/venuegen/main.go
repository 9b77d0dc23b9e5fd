package main

import (
	"os"

	"go-gin-seat-map/pkg/logger"
)

func main() {
	defer logger.Sync()
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
