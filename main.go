package main

import (
	"os"

	"github.com/RahulGiri5677/nookly-sub000/core/logger"
	"github.com/RahulGiri5677/nookly-sub000/core/server"
)

// @title Nookly API
// @version 1.0
// @description Backend for hosting and attending nooks.
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := server.Run(); err != nil {
		logger.Error("server exited", err)
		os.Exit(1)
	}
}
