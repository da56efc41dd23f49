// import_sales carga en PostgreSQL las ventas exportadas del punto de venta (CSV).
// Las ventas que ya existen (mismo ID) se omiten, así que se puede reejecutar.
//
// Uso: go run ./cmd/import_sales [-latin1] [-sep ,] ventas.csv
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/jhoicas/Bazar-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Bazar-api/internal/infrastructure/salesimport"
	"github.com/jhoicas/Bazar-api/pkg/config"
	"github.com/jhoicas/Bazar-api/pkg/logger"
)

func main() {
	latin1 := flag.Bool("latin1", false, "el archivo está en ISO-8859-1")
	sep := flag.String("sep", ";", "separador de columnas")
	dryRun := flag.Bool("dry-run", false, "solo valida el archivo")
	flag.Parse()

	if flag.NArg() != 1 || len([]rune(*sep)) != 1 {
		fmt.Fprintln(os.Stderr, "uso: import_sales [-latin1] [-sep ;] [-dry-run] ventas.csv")
		os.Exit(2)
	}

	f, err := os.Open(flag.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Abrir CSV: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	sales, err := salesimport.Parse(f, salesimport.Options{Latin1: *latin1, Separator: []rune(*sep)[0]})
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	fmt.Printf("%d ventas leídas\n", len(sales))
	if *dryRun {
		return
	}

	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	tx := postgres.NewTxRunner(pool)
	inserted, skipped := 0, 0
	for i := range sales {
		s := &sales[i]
		err := tx.RunSales(ctx, func(repo *postgres.SaleRepo) error {
			ok, err := repo.Insert(ctx, s)
			if ok {
				inserted++
			} else if err == nil {
				skipped++
			}
			return err
		})
		if err != nil {
			log.Fatal().Err(err).Int64("sale_id", s.ID).Msg("importar venta")
		}
	}
	if err := postgres.NewSaleRepository(pool).SyncSequence(ctx); err != nil {
		log.Fatal().Err(err).Msg("secuencia de ventas")
	}
	log.Info().Int("insertadas", inserted).Int("omitidas", skipped).Msg("importación completa")
}
