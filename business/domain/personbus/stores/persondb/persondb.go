// Package persondb contains person related CRUD functionality. Every query
// runs against the schema of the tenant context it receives.
package persondb

import (
	"context"
	"errors"
	"fmt"

	"github.com/DinukaCW/MealToken-sub001/business/domain/personbus"
	"github.com/DinukaCW/MealToken-sub001/business/domain/tenantbus"
	"github.com/DinukaCW/MealToken-sub001/business/sdk/sqldb"
	"github.com/DinukaCW/MealToken-sub001/foundation/logger"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Store manages the set of APIs for person database access.
type Store struct {
	log *logger.Logger
	db  sqlx.ExtContext
}

// NewStore constructs the api for data access.
func NewStore(log *logger.Logger, db *sqlx.DB) *Store {
	return &Store{
		log: log,
		db:  db,
	}
}

// NewWithTx constructs a new Store value replacing the sqlx DB
// value with a sqlx DB value that is currently inside a transaction.
func (s *Store) NewWithTx(tx sqldb.CommitRollbacker) (personbus.Storer, error) {
	ec, err := sqldb.GetExtContext(tx)
	if err != nil {
		return nil, err
	}

	store := Store{
		log: s.log,
		db:  ec,
	}

	return &store, nil
}

func table(tc tenantbus.Context, name string) string {
	return fmt.Sprintf("%q.%q", tc.SchemaName, name)
}

// Create inserts a new person into the database.
func (s *Store) Create(ctx context.Context, tc tenantbus.Context, per personbus.Person) error {
	q := fmt.Sprintf(`
	INSERT INTO %s
		(person_id, number, name, gender, enabled, created_at, updated_at)
	VALUES
		(:person_id, :number, :name, :gender, :enabled, :created_at, :updated_at)`, table(tc, "person"))

	if err := sqldb.NamedExecContext(ctx, s.log, s.db, q, toDBPerson(per)); err != nil {
		var dupErr sqldb.ErrDBDuplicatedEntry
		if errors.As(err, &dupErr) {
			if dupErr.Column == "number" || dupErr.Column == "uq_person_number" {
				return fmt.Errorf("namedexeccontext: %w", personbus.ErrUniqueNumber)
			}
		}
		return fmt.Errorf("namedexeccontext: %w", err)
	}

	return nil
}

// Update replaces a person row in the database.
func (s *Store) Update(ctx context.Context, tc tenantbus.Context, per personbus.Person) error {
	q := fmt.Sprintf(`
	UPDATE
		%s
	SET
		name = :name,
		gender = :gender,
		enabled = :enabled,
		updated_at = :updated_at
	WHERE
		person_id = :person_id`, table(tc, "person"))

	if err := sqldb.NamedExecContext(ctx, s.log, s.db, q, toDBPerson(per)); err != nil {
		return fmt.Errorf("namedexeccontext: %w", err)
	}

	return nil
}

// QueryByID gets the specified person from the database.
func (s *Store) QueryByID(ctx context.Context, tc tenantbus.Context, personID uuid.UUID) (personbus.Person, error) {
	data := struct {
		ID string `db:"person_id"`
	}{
		ID: personID.String(),
	}

	q := fmt.Sprintf(`
	SELECT
		person_id, number, name, gender, enabled, created_at, updated_at
	FROM
		%s
	WHERE
		person_id = :person_id`, table(tc, "person"))

	var dbPer personDB
	if err := sqldb.NamedQueryStruct(ctx, s.log, s.db, q, data, &dbPer); err != nil {
		if errors.Is(err, sqldb.ErrDBNotFound) {
			return personbus.Person{}, fmt.Errorf("db: %w", personbus.ErrNotFound)
		}
		return personbus.Person{}, fmt.Errorf("db: %w", err)
	}

	return toBusPerson(dbPer)
}

// QueryByNumber gets the person with the given person number from the
// database.
func (s *Store) QueryByNumber(ctx context.Context, tc tenantbus.Context, number string) (personbus.Person, error) {
	data := struct {
		Number string `db:"number"`
	}{
		Number: number,
	}

	q := fmt.Sprintf(`
	SELECT
		person_id, number, name, gender, enabled, created_at, updated_at
	FROM
		%s
	WHERE
		number = :number`, table(tc, "person"))

	var dbPer personDB
	if err := sqldb.NamedQueryStruct(ctx, s.log, s.db, q, data, &dbPer); err != nil {
		if errors.Is(err, sqldb.ErrDBNotFound) {
			return personbus.Person{}, fmt.Errorf("db: %w", personbus.ErrNotFound)
		}
		return personbus.Person{}, fmt.Errorf("db: %w", err)
	}

	return toBusPerson(dbPer)
}
