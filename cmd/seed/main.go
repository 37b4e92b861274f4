// seed aplica el esquema y crea las cuentas de demostración.
//
// Uso: go run ./cmd/seed [-manager usuario:password]
// Recrea siempre admin/admin123 (manager) y customer1/customer123 (cliente con 0 puntos).
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jhoicas/happyshop-api/internal/domain/entity"
	"github.com/jhoicas/happyshop-api/internal/infrastructure/postgres"
	"github.com/jhoicas/happyshop-api/pkg/config"
	"github.com/jhoicas/happyshop-api/pkg/logger"
	"github.com/jhoicas/happyshop-api/pkg/password"
)

type seedAccount struct {
	username string
	password string
	email    string
	role     entity.StaffRole // vacío = cliente
}

var defaults = []seedAccount{
	{username: "admin", password: "admin123", email: "admin@happyshop.com", role: entity.StaffRoleManager},
	{username: "customer1", password: "customer123", email: "customer1@happyshop.com"},
}

func main() {
	extraManager := flag.String("manager", "", "manager adicional en formato usuario:password")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel}).Component("seed")

	accounts := append([]seedAccount(nil), defaults...)
	if *extraManager != "" {
		user, pass, ok := strings.Cut(*extraManager, ":")
		if !ok || user == "" || pass == "" {
			fmt.Fprintln(os.Stderr, "-manager debe tener el formato usuario:password")
			os.Exit(2)
		}
		accounts = append(accounts, seedAccount{username: user, password: pass, email: user + "@happyshop.com", role: entity.StaffRoleManager})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if err := postgres.ApplySchema(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("esquema")
	}

	repo := postgres.NewAccountRepository(pool)
	hasher := password.NewHasher(cfg.Auth.BcryptCost)

	for _, sa := range accounts {
		acc, err := build(hasher, sa)
		if err != nil {
			log.Fatal().Err(err).Str("username", sa.username).Msg("construir cuenta")
		}
		if err := repo.DeleteByUsername(ctx, sa.username); err != nil {
			log.Fatal().Err(err).Str("username", sa.username).Msg("borrar cuenta previa")
		}
		id, err := repo.Create(ctx, acc)
		if err != nil {
			log.Fatal().Err(err).Str("username", sa.username).Msg("crear cuenta")
		}
		log.Info().Int64("id", id).Str("username", sa.username).Str("role", acc.RoleLabel()).Msg("cuenta creada")
		fmt.Printf("%s / %s\n", sa.username, sa.password)
	}
}

func build(h *password.Hasher, sa seedAccount) (*entity.Account, error) {
	if sa.role == "" {
		return entity.NewCustomer(h, sa.username, sa.password, sa.email)
	}
	return entity.NewStaff(h, sa.username, sa.password, sa.email, sa.role)
}
