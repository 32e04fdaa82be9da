package contacts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tendline/tendline/internal/cadence"
	"github.com/tendline/tendline/pkg/pagination"
	"github.com/tendline/tendline/pkg/query"
	"github.com/tendline/tendline/pkg/repository"
)

type repo struct {
	db         *sql.DB
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates a contact repository implementing the System interface.
func New(db *sql.DB, logger *slog.Logger, pagination pagination.Config) System {
	return &repo{
		db:         db,
		logger:     logger.With("system", "contacts"),
		pagination: pagination,
	}
}

func (r *repo) Handler(rescheduler Rescheduler) *Handler {
	return NewHandler(r, rescheduler, r.logger, r.pagination)
}

func (r *repo) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Contact], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort...).
		WhereSearch(page.Search, "FirstName", "LastName", "Email", "Company")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count contacts: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	items, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanContact)
	if err != nil {
		return nil, fmt.Errorf("query contacts: %w", err)
	}

	result := pagination.NewPageResult(items, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Contact, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	c, err := repository.QueryOne(ctx, r.db, q, args, scanContact)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &c, nil
}

func (r *repo) Create(ctx context.Context, cmd CreateCommand) (*Contact, error) {
	if err := validateCommand(cmd.TenantID, cmd.Email, cmd.Nature, cmd.Recency, cmd.Awareness); err != nil {
		return nil, err
	}

	q := fmt.Sprintf(`
		INSERT INTO contacts(id, tenant_id, first_name, last_name, email, company, nature, recency, awareness)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING %s`, returningColumns())

	insertArgs := []any{
		uuid.New(),
		cmd.TenantID,
		cmd.FirstName,
		cmd.LastName,
		strings.ToLower(cmd.Email),
		cmd.Company,
		cmd.Nature,
		cmd.Recency,
		cmd.Awareness,
	}

	c, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Contact, error) {
		return repository.QueryOne(ctx, tx, q, insertArgs, scanContact)
	})
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("contact created", "id", c.ID, "tenant_id", c.TenantID)
	return &c, nil
}

func (r *repo) Update(ctx context.Context, id uuid.UUID, cmd UpdateCommand) (*Contact, error) {
	if _, err := cadence.NewClassification(cmd.Nature, cmd.Recency, cmd.Awareness); err != nil {
		return nil, err
	}
	if cmd.Email == "" {
		return nil, fmt.Errorf("%w: email required", ErrInvalidInput)
	}

	q := fmt.Sprintf(`
		UPDATE contacts
		SET first_name = $2, last_name = $3, email = $4, company = $5,
			nature = $6, recency = $7, awareness = $8, updated_at = now()
		WHERE id = $1
		RETURNING %s`, returningColumns())

	updateArgs := []any{
		id,
		cmd.FirstName,
		cmd.LastName,
		strings.ToLower(cmd.Email),
		cmd.Company,
		cmd.Nature,
		cmd.Recency,
		cmd.Awareness,
	}

	c, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Contact, error) {
		return repository.QueryOne(ctx, tx, q, updateArgs, scanContact)
	})
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("contact updated", "id", c.ID)
	return &c, nil
}

func (r *repo) RecordTouch(ctx context.Context, id uuid.UUID, cmd TouchCommand) (*Contact, error) {
	column, err := touchColumn(cmd.Direction)
	if err != nil {
		return nil, err
	}

	at := cmd.At
	if at.IsZero() {
		at = time.Now()
	}

	q := fmt.Sprintf(`
		UPDATE contacts
		SET %s = $2, updated_at = now()
		WHERE id = $1 AND do_not_contact = false
		RETURNING %s`, column, returningColumns())

	c, err := repository.QueryOne(ctx, r.db, q, []any{id, at}, scanContact)
	if errors.Is(err, sql.ErrNoRows) {
		// Zero rows means the contact is missing or opted out; one more
		// lookup tells the caller which.
		var optedOut bool
		lookupErr := r.db.QueryRowContext(ctx,
			"SELECT do_not_contact FROM contacts WHERE id = $1", id,
		).Scan(&optedOut)
		if lookupErr == nil && optedOut {
			return nil, ErrOptedOut
		}
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("touch recorded", "id", c.ID, "direction", cmd.Direction)
	return &c, nil
}

// OptOut sets the do-not-contact flag and clears the engagement schedule in
// one statement, so an opted-out contact can never retain a stale date.
func (r *repo) OptOut(ctx context.Context, id uuid.UUID) (*Contact, error) {
	q := fmt.Sprintf(`
		UPDATE contacts
		SET do_not_contact = true,
			next_engagement_date = NULL,
			next_engagement_purpose = NULL,
			next_contact_note = NULL,
			updated_at = now()
		WHERE id = $1
		RETURNING %s`, returningColumns())

	c, err := repository.QueryOne(ctx, r.db, q, []any{id}, scanContact)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("contact opted out", "id", c.ID)
	return &c, nil
}

func (r *repo) Delete(ctx context.Context, id uuid.UUID) error {
	err := repository.ExecExpectOne(ctx, r.db, "DELETE FROM contacts WHERE id = $1", id)
	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("contact deleted", "id", id)
	return nil
}

func validateCommand(tenantID uuid.UUID, email, nature, recency, awareness string) error {
	if tenantID == uuid.Nil {
		return fmt.Errorf("%w: tenant_id required", ErrInvalidInput)
	}
	if email == "" {
		return fmt.Errorf("%w: email required", ErrInvalidInput)
	}
	_, err := cadence.NewClassification(nature, recency, awareness)
	return err
}

func touchColumn(direction TouchDirection) (string, error) {
	switch direction {
	case TouchOutbound:
		return "last_contacted_at", nil
	case TouchInbound:
		return "last_responded_at", nil
	default:
		return "", fmt.Errorf("%w: touch direction %q", ErrInvalidInput, direction)
	}
}

func returningColumns() string {
	cols := projection.ColumnList()
	stripped := make([]string, len(cols))
	for i, col := range cols {
		stripped[i] = strings.TrimPrefix(col, projection.Alias()+".")
	}
	return strings.Join(stripped, ", ")
}
