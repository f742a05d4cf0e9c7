package main

import (
	"github.com/stackscout/backend/internal/server"
	"github.com/stackscout/backend/internal/util"
	"github.com/stackscout/backend/pkg/logger"
	"github.com/stackscout/backend/pkg/logger/console"
)

func main() {
	util.LoadEnv()

	debug := util.GetEnvBool("DEBUG", false)

	consoleLogger := console.NewConsoleLogger(console.ConsoleLoggerParams{
		Debug: debug,
	})
	logger.Init(consoleLogger)

	server.Init()
}
