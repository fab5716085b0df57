package main

import (
	"github.com/joho/godotenv"

	"github.com/ibrhimmese/garage/config"
	"github.com/ibrhimmese/garage/routes"
	"github.com/ibrhimmese/garage/utils"
)

func main() {
	// Optional .env for local development; deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()

	// Initialize logger early
	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}

	// Connects with startup retries and ensures the vehicles table exists;
	// fatal before the port is bound when either fails.
	db := config.InitDatabase()

	r := routes.SetupRouter(db)

	utils.Sugar.Infof("Starting server on %s (graceful)", config.ListenAddr)
	if err := utils.Serve(config.ListenAddr, r); err != nil {
		utils.Sugar.Fatalf("server stopped with error: %v", err)
	}
}
