// Comando migrate: aplica las migraciones SQL embebidas (idempotente).
//
//	go run ./cmd/migrate          aplica las pendientes
//	go run ./cmd/migrate -list    solo lista los archivos embebidos
package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/jhoicas/Bazar-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Bazar-api/pkg/config"
	"github.com/jhoicas/Bazar-api/pkg/logger"
)

func main() {
	list := flag.Bool("list", false, "lista las migraciones embebidas sin conectarse a la base")
	flag.Parse()

	if *list {
		files, err := postgres.MigrationFiles()
		if err != nil {
			panic(err)
		}
		for _, f := range files {
			fmt.Println(f)
		}
		return
	}

	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	applied, err := postgres.Migrate(ctx, pool, log)
	if err != nil {
		log.Fatal().Err(err).Msg("migraciones")
	}
	log.Info().Int("aplicadas", len(applied)).Strs("archivos", applied).Msg("migraciones completas")
}
