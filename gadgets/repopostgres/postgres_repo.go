package repopostgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jrsteele09/go-gadget-server/gadgets"
	"github.com/jrsteele09/go-gadget-server/internal/database"
	apperrors "github.com/jrsteele09/go-gadget-server/internal/errors"
)

var _ gadgets.Repo = (*PostgresGadgetRepo)(nil)

type PostgresGadgetRepo struct {
	db database.DBTX
}

func NewPostgresGadgetRepo(db database.DBTX) *PostgresGadgetRepo {
	return &PostgresGadgetRepo{db: db}
}

func (r *PostgresGadgetRepo) Create(ctx context.Context, gadget *gadgets.Gadget) error {
	if gadget.ID == "" {
		gadget.ID = uuid.New().String()
	}

	query :=
		`INSERT INTO gadgets (id, name, status, decommissioned_on)
		 VALUES ($1, $2, $3, $4)`

	_, err := r.db.ExecContext(ctx, query, gadget.ID, gadget.Name, string(gadget.Status), nullTime(gadget))
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresGadgetRepo) Get(ctx context.Context, id string) (*gadgets.Gadget, error) {
	query :=
		`SELECT id, name, status, decommissioned_on FROM gadgets
		 WHERE id = $1`

	gadget, err := scanGadget(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return gadget, nil
}

func (r *PostgresGadgetRepo) List(ctx context.Context, status gadgets.Status) ([]*gadgets.Gadget, error) {
	query :=
		`SELECT id, name, status, decommissioned_on FROM gadgets
		 WHERE ($1::text = '' OR status = $1)
		 ORDER BY created_at, id`

	rows, err := r.db.QueryContext(ctx, query, string(status))
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	list := make([]*gadgets.Gadget, 0)
	for rows.Next() {
		gadget, err := scanGadget(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		list = append(list, gadget)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return list, nil
}

func (r *PostgresGadgetRepo) Names(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT name FROM gadgets`)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	names := make([]string, 0)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return names, nil
}

// Update writes the whole record; concurrent writers are last-write-wins.
func (r *PostgresGadgetRepo) Update(ctx context.Context, gadget *gadgets.Gadget) error {
	query :=
		`UPDATE gadgets SET name = $2, status = $3, decommissioned_on = $4
		 WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query, gadget.ID, gadget.Name, string(gadget.Status), nullTime(gadget))
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return apperrors.ErrUpdateFailed
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanGadget(row scanner) (*gadgets.Gadget, error) {
	var (
		gadget         gadgets.Gadget
		status         string
		decommissioned sql.NullTime
	)
	if err := row.Scan(&gadget.ID, &gadget.Name, &status, &decommissioned); err != nil {
		return nil, err
	}
	gadget.Status = gadgets.Status(status)
	if decommissioned.Valid {
		t := decommissioned.Time
		gadget.DecommissionedOn = &t
	}
	return &gadget, nil
}

func nullTime(g *gadgets.Gadget) sql.NullTime {
	if g.DecommissionedOn == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *g.DecommissionedOn, Valid: true}
}
