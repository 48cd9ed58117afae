// This program provides platform administration: catalog migration, tenant
// provisioning and management token generation.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/DinukaCW/MealToken-sub001/app/sdk/auth"
	"github.com/DinukaCW/MealToken-sub001/business/domain/tenantbus"
	"github.com/DinukaCW/MealToken-sub001/business/domain/tenantbus/stores/tenantdb"
	"github.com/DinukaCW/MealToken-sub001/business/sdk/migrate"
	"github.com/DinukaCW/MealToken-sub001/business/sdk/sqldb"
	"github.com/DinukaCW/MealToken-sub001/business/types/name"
	"github.com/DinukaCW/MealToken-sub001/business/types/role"
	"github.com/DinukaCW/MealToken-sub001/foundation/keystore"
	"github.com/DinukaCW/MealToken-sub001/foundation/logger"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Auth struct {
		KeysFolder string `envconfig:"AUTH_KEYS_FOLDER" default:"foundation/zarf/keys"`
		Issuer     string `envconfig:"AUTH_ISSUER" default:"https://mealtoken.local/auth/"`
		ActiveKID  string `envconfig:"AUTH_ACTIVE_KID" default:"54bb2165-71e1-41a6-af3e-7da4a0e1e2c1"`
	}
	DB struct {
		User         string `envconfig:"DB_USER" default:"postgres"`
		Password     string `envconfig:"DB_PASSWORD" default:"postgres"`
		Host         string `envconfig:"DB_HOST" default:"localhost"`
		Name         string `envconfig:"DB_NAME" default:"mealtoken"`
		MaxIdleConns int    `envconfig:"DB_MAX_IDLE_CONNS" default:"0"`
		MaxOpenConns int    `envconfig:"DB_MAX_OPEN_CONNS" default:"0"`
		DisableTLS   bool   `envconfig:"DB_DISABLE_TLS" default:"true"`
	}
}

func main() {
	log := logger.New(os.Stdout, logger.LevelInfo, "ADMIN-TOOL", nil)
	ctx := context.Background()

	if err := run(ctx, log); err != nil {
		log.Error(ctx, "startup", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, log *logger.Logger) error {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return fmt.Errorf("processing config: %w", err)
	}

	db, err := sqldb.Open(sqldb.Config{
		User:         cfg.DB.User,
		Password:     cfg.DB.Password,
		Host:         cfg.DB.Host,
		Name:         cfg.DB.Name,
		MaxIdleConns: cfg.DB.MaxIdleConns,
		MaxOpenConns: cfg.DB.MaxOpenConns,
		DisableTLS:   cfg.DB.DisableTLS,
	})
	if err != nil {
		return fmt.Errorf("connecting to db: %w", err)
	}
	defer db.Close()

	tenantBus := tenantbus.NewCore(log, tenantbus.ResolveConfig{}, tenantdb.NewStore(log, db))

	if len(os.Args) < 2 {
		fmt.Println("Usage: admin <command> [args]")
		fmt.Println("Commands: migrate, tenant-add, tenant-list, gentoken")
		return nil
	}

	switch os.Args[1] {
	case "migrate":
		return runMigrate(ctx, db)
	case "tenant-add":
		return runTenantAdd(ctx, db, tenantBus, os.Args[2:])
	case "tenant-list":
		return runTenantList(ctx, tenantBus)
	case "gentoken":
		return runGenToken(cfg, os.Args[2:])
	default:
		return fmt.Errorf("unknown command: %s", os.Args[1])
	}
}

func runMigrate(ctx context.Context, db *sqlx.DB) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := migrate.Migrate(ctx, db); err != nil {
		return fmt.Errorf("migrate catalog: %w", err)
	}

	fmt.Println("catalog migration complete")
	return nil
}

func runTenantAdd(ctx context.Context, db *sqlx.DB, tb *tenantbus.Core, args []string) error {
	cmd := flag.NewFlagSet("tenant-add", flag.ExitOnError)
	nameStr := cmd.String("name", "", "Tenant display name (Required)")
	keyStr := cmd.String("key", "", "Subdomain key, e.g. tenant1 (Required)")
	schemaStr := cmd.String("schema", "", "Schema name; defaults to the key")
	cmd.Parse(args)

	if *nameStr == "" || *keyStr == "" {
		cmd.PrintDefaults()
		return fmt.Errorf("missing required fields")
	}

	schemaName := *schemaStr
	if schemaName == "" {
		schemaName = *keyStr
	}

	n, err := name.Parse(*nameStr)
	if err != nil {
		return fmt.Errorf("invalid name: %w", err)
	}

	if err := migrate.CreateTenantSchema(ctx, db, schemaName); err != nil {
		return fmt.Errorf("provision schema: %w", err)
	}

	t, err := tb.Create(ctx, tenantbus.NewTenant{
		Name:       n,
		Key:        *keyStr,
		SchemaName: schemaName,
	})
	if err != nil {
		return fmt.Errorf("create tenant: %w", err)
	}

	fmt.Printf("\nSUCCESS: Tenant created!\nID: %s\nKey: %s\nSchema: %s\n", t.ID, t.Key, t.SchemaName)
	return nil
}

func runTenantList(ctx context.Context, tb *tenantbus.Core) error {
	tenants, err := tb.Query(ctx)
	if err != nil {
		return fmt.Errorf("query tenants: %w", err)
	}

	for _, t := range tenants {
		fmt.Printf("%s  key=%-20s schema=%-20s enabled=%t  %s\n", t.ID, t.Key, t.SchemaName, t.Enabled, t.Name)
	}

	return nil
}

func runGenToken(cfg Config, args []string) error {
	cmd := flag.NewFlagSet("gentoken", flag.ExitOnError)
	subjectStr := cmd.String("subject", "", "Subject UUID; random when omitted")
	roleStr := cmd.String("role", "ADMIN", "Role (ADMIN, OPERATOR)")
	cmd.Parse(args)

	subjectID := uuid.New()
	if *subjectStr != "" {
		id, err := uuid.Parse(*subjectStr)
		if err != nil {
			return fmt.Errorf("invalid subject uuid: %w", err)
		}
		subjectID = id
	}

	r, err := role.Parse(*roleStr)
	if err != nil {
		return fmt.Errorf("invalid role: %w", err)
	}

	ks := keystore.New()
	if _, err := ks.LoadByFileSystem(os.DirFS(cfg.Auth.KeysFolder)); err != nil {
		return fmt.Errorf("loading keys: %w", err)
	}

	a := auth.New(auth.Config{
		KeyLookup: ks,
		Issuer:    cfg.Auth.Issuer,
	})

	token, err := a.GenerateToken(cfg.Auth.ActiveKID, subjectID, r)
	if err != nil {
		return fmt.Errorf("generate token: %w", err)
	}

	fmt.Printf("\nTOKEN:\n%s\n", token)
	return nil
}
