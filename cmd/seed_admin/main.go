// Comando seed_admin crea (o re-hashea) el administrador inicial.
//
// Uso:
//
//	ADMIN_EMAIL=admin@empresa.com ADMIN_PASSWORD=secreto123 go run ./cmd/seed_admin
//
// Con STORE_DRIVER=memory el dato se pierde al terminar; en ese modo cmd/api
// crea el administrador al arrancar si ADMIN_PASSWORD está definido.
package main

import (
	"context"
	"flag"
	"time"

	"github.com/jhoicas/Requisiciones-api/internal/application/auth"
	"github.com/jhoicas/Requisiciones-api/internal/infrastructure/store"
	"github.com/jhoicas/Requisiciones-api/pkg/config"
	"github.com/jhoicas/Requisiciones-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	email := flag.String("email", cfg.Admin.Email, "email del administrador")
	password := flag.String("password", cfg.Admin.Password, "password (mínimo 8 caracteres)")
	name := flag.String("name", cfg.Admin.Name, "nombre visible")
	flag.Parse()

	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})

	if cfg.Store.Driver == config.StoreDriverMemory {
		log.Warn().Msg("STORE_DRIVER=memory: el administrador no persistirá")
	}
	if *password == "" {
		log.Fatal().Msg("ADMIN_PASSWORD o -password es obligatorio")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	backend, err := store.Open(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("abrir almacenamiento")
	}
	defer backend.Close()

	// El secreto JWT no interviene: solo se usa el repositorio de usuarios.
	uc := auth.NewAuthUseCase(backend.Users, auth.JWTConfig{})
	created, err := uc.EnsureAdmin(ctx, *email, *password, *name)
	if err != nil {
		log.Fatal().Err(err).Str("email", *email).Msg("crear administrador")
	}
	if created {
		log.Info().Str("email", *email).Msg("administrador creado")
		return
	}
	log.Info().Str("email", *email).Msg("administrador existente actualizado")
}
