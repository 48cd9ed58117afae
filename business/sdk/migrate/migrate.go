// Package migrate contains the database schema and migration logic for the
// platform catalog and the per-tenant schemas.
package migrate

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"strings"

	"github.com/DinukaCW/MealToken-sub001/business/sdk/sqldb"
	"github.com/ardanlabs/darwin/v3"
	"github.com/ardanlabs/darwin/v3/dialects/postgres"
	"github.com/ardanlabs/darwin/v3/drivers/generic"
	"github.com/jmoiron/sqlx"
)

var (
	//go:embed sql/catalog.sql
	catalogDoc string

	//go:embed sql/tenant.sql
	tenantDoc string
)

// Migrate attempts to bring the public catalog schema up to date with the
// migrations defined in this package.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	if err := sqldb.StatusCheck(ctx, db); err != nil {
		return fmt.Errorf("status check database: %w", err)
	}

	driver, err := generic.New(db.DB, postgres.Dialect{})
	if err != nil {
		return fmt.Errorf("construct darwin driver: %w", err)
	}

	d := darwin.New(driver, darwin.ParseMigrations(catalogDoc))
	return d.Migrate()
}

// CreateTenantSchema creates the schema and all tenant-scoped tables for a
// new tenant. The statement set is idempotent so re-running provisioning for
// an existing tenant is safe.
func CreateTenantSchema(ctx context.Context, db *sqlx.DB, schemaName string) error {
	if err := validSchemaName(schemaName); err != nil {
		return err
	}

	if err := sqldb.StatusCheck(ctx, db); err != nil {
		return fmt.Errorf("status check database: %w", err)
	}

	doc := strings.ReplaceAll(tenantDoc, "{{SCHEMA}}", schemaName)

	if err := execInTran(ctx, db, doc); err != nil {
		return fmt.Errorf("create tenant schema %q: %w", schemaName, err)
	}

	return nil
}

// validSchemaName restricts schema names to identifiers that are safe to
// splice into DDL.
func validSchemaName(schemaName string) error {
	if schemaName == "" || len(schemaName) > 63 {
		return fmt.Errorf("invalid schema name %q", schemaName)
	}

	for i, r := range schemaName {
		switch {
		case r >= 'a' && r <= 'z':
		case r == '_':
		case r >= '0' && r <= '9' && i > 0:
		default:
			return fmt.Errorf("invalid schema name %q", schemaName)
		}
	}

	return nil
}

func execInTran(ctx context.Context, db *sqlx.DB, doc string) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	defer func() {
		if err := tx.Rollback(); err != nil && err != sql.ErrTxDone {
			return
		}
	}()

	if _, err := tx.ExecContext(ctx, doc); err != nil {
		return fmt.Errorf("exec ddl: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}
