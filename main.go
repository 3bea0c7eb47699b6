package main

import (
	"scheduling-api/core/logger"
	"scheduling-api/core/server"
)

func main() {
	if err := server.Run(); err != nil {
		logger.Error("run server error", err)
	}
}
