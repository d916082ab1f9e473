package main

import (
	"github.com/novatube/user-service/config"
	"github.com/novatube/user-service/internal/api"
)

func main() {
	cfg := config.LoadConfig()
	api.StartServer(cfg)
}
