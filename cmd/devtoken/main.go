// devtoken emite un JWT firmado con JWT_SECRET para probar la API en local.
//
// Uso: go run ./cmd/devtoken -user 1 -role cajero
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/jhoicas/Bazar-api/pkg/config"
	"github.com/jhoicas/Bazar-api/pkg/jwt"
)

func main() {
	userID := flag.Int64("user", 1, "ID del usuario de caja")
	role := flag.String("role", "admin", "rol: admin | cajero")
	flag.Parse()

	if *role != "admin" && *role != "cajero" {
		fmt.Fprintf(os.Stderr, "rol desconocido %q\n", *role)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "cargar configuración: %v\n", err)
		os.Exit(1)
	}
	tok, err := jwt.Generate(cfg.JWT.Secret, *userID, *role, cfg.JWT.Issuer, cfg.JWT.Expiration)
	if err != nil {
		fmt.Fprintf(os.Stderr, "generar token: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(tok)
}
