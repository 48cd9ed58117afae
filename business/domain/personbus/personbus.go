// Package personbus provides business access to the people who can receive
// meal tokens.
package personbus

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/DinukaCW/MealToken-sub001/business/domain/tenantbus"
	"github.com/DinukaCW/MealToken-sub001/business/sdk/sqldb"
	"github.com/DinukaCW/MealToken-sub001/foundation/logger"
	"github.com/DinukaCW/MealToken-sub001/foundation/otel"
	"github.com/google/uuid"
)

// Set of error variables for CRUD operations.
var (
	ErrNotFound     = errors.New("person not found")
	ErrUniqueNumber = errors.New("person number is not unique")
)

// Storer interface declares the behavior this package needs to persist and
// retrieve data.
type Storer interface {
	NewWithTx(tx sqldb.CommitRollbacker) (Storer, error)
	Create(ctx context.Context, tc tenantbus.Context, per Person) error
	Update(ctx context.Context, tc tenantbus.Context, per Person) error
	QueryByID(ctx context.Context, tc tenantbus.Context, personID uuid.UUID) (Person, error)
	QueryByNumber(ctx context.Context, tc tenantbus.Context, number string) (Person, error)
}

// Core manages the set of APIs for person access.
type Core struct {
	log    *logger.Logger
	storer Storer
}

// NewCore constructs a person core API for use.
func NewCore(log *logger.Logger, storer Storer) *Core {
	return &Core{
		log:    log,
		storer: storer,
	}
}

// NewWithTx constructs a new business value that will use the specified
// transaction in any store related calls.
func (c *Core) NewWithTx(tx sqldb.CommitRollbacker) (*Core, error) {
	storer, err := c.storer.NewWithTx(tx)
	if err != nil {
		return nil, err
	}

	core := Core{
		log:    c.log,
		storer: storer,
	}

	return &core, nil
}

// Create registers a new person.
func (c *Core) Create(ctx context.Context, tc tenantbus.Context, np NewPerson) (Person, error) {
	ctx, span := otel.AddSpan(ctx, "business.personbus.create")
	defer span.End()

	now := time.Now()

	per := Person{
		ID:        uuid.New(),
		Number:    np.Number,
		Name:      np.Name,
		Gender:    np.Gender,
		Enabled:   true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := c.storer.Create(ctx, tc, per); err != nil {
		return Person{}, fmt.Errorf("create: %w", err)
	}

	return per, nil
}

// Update modifies information about a person.
func (c *Core) Update(ctx context.Context, tc tenantbus.Context, per Person, up UpdatePerson) (Person, error) {
	ctx, span := otel.AddSpan(ctx, "business.personbus.update")
	defer span.End()

	if up.Name != nil {
		per.Name = *up.Name
	}

	if up.Gender != nil {
		per.Gender = *up.Gender
	}

	if up.Enabled != nil {
		per.Enabled = *up.Enabled
	}

	per.UpdatedAt = time.Now()

	if err := c.storer.Update(ctx, tc, per); err != nil {
		return Person{}, fmt.Errorf("update: %w", err)
	}

	return per, nil
}

// QueryByID finds the person by the specified ID.
func (c *Core) QueryByID(ctx context.Context, tc tenantbus.Context, personID uuid.UUID) (Person, error) {
	ctx, span := otel.AddSpan(ctx, "business.personbus.querybyid")
	defer span.End()

	per, err := c.storer.QueryByID(ctx, tc, personID)
	if err != nil {
		return Person{}, fmt.Errorf("query: personID[%s]: %w", personID, err)
	}

	return per, nil
}

// QueryByNumber finds the person by their person number.
func (c *Core) QueryByNumber(ctx context.Context, tc tenantbus.Context, number string) (Person, error) {
	ctx, span := otel.AddSpan(ctx, "business.personbus.querybynumber")
	defer span.End()

	per, err := c.storer.QueryByNumber(ctx, tc, number)
	if err != nil {
		return Person{}, fmt.Errorf("query: number[%s]: %w", number, err)
	}

	return per, nil
}
