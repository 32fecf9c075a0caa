// seedadmin creates the SaaS admin_master account, or prints a bcrypt hash
// with --solo-hash.
//
// Uso: go run ./cmd/seedadmin --correo admin@domus.mx --password secreto
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/CzarAl/domus-backend/internal/config"
	"github.com/CzarAl/domus-backend/internal/infra"
	"github.com/CzarAl/domus-backend/internal/model"
	"github.com/CzarAl/domus-backend/internal/repository"
	"github.com/CzarAl/domus-backend/internal/scope"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	flag "github.com/spf13/pflag"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	correo := flag.String("correo", "admin@domus.mx", "correo del administrador")
	nombre := flag.String("nombre", "Administrador", "nombre visible")
	password := flag.StringP("password", "p", "", "contraseña en claro (requerida)")
	soloHash := flag.Bool("solo-hash", false, "solo imprime el hash bcrypt de --password")
	flag.Parse()

	if *password == "" {
		flag.Usage()
		os.Exit(2)
	}

	hash, err := infra.NewBcryptHasher().Hash(*password)
	if err != nil {
		log.Fatal().Err(err).Msg("bcrypt")
	}
	if *soloHash {
		fmt.Println(hash)
		return
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	db, err := infra.NewDatabase(cfg.DatabaseURL, cfg.DBAutoMigrate)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}

	ctx := context.Background()
	usuarios := repository.NewUsuarioRepository(db)

	if u, err := usuarios.FindByCorreo(ctx, *correo); err == nil {
		log.Info().Str("id", u.ID.String()).Msg("el usuario ya existe; nada que hacer")
		return
	} else if !errors.Is(err, repository.ErrNotFound) {
		log.Fatal().Err(err).Msg("buscar usuario")
	}

	// admin_master roots its own tree.
	id := uuid.New()
	admin := &model.Usuario{
		ID:         id,
		Correo:     *correo,
		Nombre:     *nombre,
		Contrasena: hash,
		Nivel:      string(scope.NivelAdminMaster),
		IDRaiz:     id,
		Activo:     true,
	}
	if err := usuarios.Create(ctx, admin); err != nil {
		log.Fatal().Err(err).Msg("crear usuario")
	}
	log.Info().Str("id", id.String()).Str("correo", *correo).Msg("admin_master creado")
}
