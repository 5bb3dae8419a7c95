package main

import (
	"flag"
	"log"
	"net/http"

	"tasktrove/internal/config"
	"tasktrove/internal/serverapp"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

func main() {
	configPath := flag.String("config", "tasktrove.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	cfg.ApplyEnv()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}

	handler, err := serverapp.NewHandler(serverapp.Options{
		Config:        cfg,
		DataDir:       cfg.Server.DataDir,
		StaticDir:     "static",
		UseDiskStatic: serverapp.UseDiskStaticByEnv(),
		Logger:        log.Default(),
	})
	if err != nil {
		log.Fatalf("build server: %v", err)
	}

	log.Printf("tasktrove listening on %s (storage=%s)", cfg.Server.Addr, cfg.Storage.Backend)
	log.Fatal(http.ListenAndServe(cfg.Server.Addr, handler))
}
