package objects

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/sharebox/internal/common"
	"github.com/dmitrijs2005/sharebox/internal/dbx"
	"github.com/dmitrijs2005/sharebox/internal/server/models"
)

const objectColumns = `id, owner_id, display_name, storage_key, size_bytes, created_at, visibility, credential, link_id`

// PostgresRepository stores records in the objects table. Minted link ids
// live in link_ids, which is never pruned.
type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanObject(row rowScanner) (*models.Object, error) {
	var (
		obj        models.Object
		visibility string
		credential sql.NullString
	)
	err := row.Scan(&obj.ID, &obj.OwnerID, &obj.DisplayName, &obj.StorageKey,
		&obj.SizeBytes, &obj.CreatedAt, &visibility, &credential, &obj.LinkID)
	if err != nil {
		return nil, err
	}

	v, ok := models.ParseVisibility(visibility)
	if !ok {
		return nil, fmt.Errorf("object %s: unknown visibility %q", obj.ID, visibility)
	}
	perm, err := models.RestorePermission(v, credential.String)
	if err != nil {
		return nil, fmt.Errorf("object %s: %w", obj.ID, err)
	}
	obj.Permission = perm
	return &obj, nil
}

func (r *PostgresRepository) Create(ctx context.Context, ownerID, storageKey, displayName string, sizeBytes int64) (*models.Object, error) {
	obj := &models.Object{
		OwnerID:     ownerID,
		DisplayName: displayName,
		StorageKey:  storageKey,
		SizeBytes:   sizeBytes,
		Permission:  models.Private(),
	}

	err := dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		linkID, err := mintLink(func(id string) error {
			return registerLink(ctx, tx, id)
		})
		if err != nil {
			return err
		}
		obj.LinkID = linkID

		query :=
			`INSERT INTO objects (owner_id, display_name, storage_key, size_bytes, visibility, link_id)
			 VALUES ($1, $2, $3, $4, $5, $6)
			 RETURNING id, created_at
			 `
		return tx.QueryRowContext(ctx, query,
			ownerID, displayName, storageKey, sizeBytes, models.AccessPrivate, linkID,
		).Scan(&obj.ID, &obj.CreatedAt)
	})
	if err != nil {
		if errors.Is(err, ErrLinkSpaceExhausted) {
			return nil, err
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return obj, nil
}

func registerLink(ctx context.Context, tx dbx.DBTX, linkID string) error {
	res, err := tx.ExecContext(ctx,
		`INSERT INTO link_ids (link_id) VALUES ($1) ON CONFLICT (link_id) DO NOTHING`, linkID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return errLinkTaken
	}
	return nil
}

func (r *PostgresRepository) Get(ctx context.Context, id string) (*models.Object, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, common.ErrorNotFound
	}
	query := `SELECT ` + objectColumns + ` FROM objects WHERE id = $1`
	return r.queryOne(ctx, query, id)
}

func (r *PostgresRepository) GetByLinkID(ctx context.Context, linkID string) (*models.Object, error) {
	query := `SELECT ` + objectColumns + ` FROM objects WHERE link_id = $1`
	return r.queryOne(ctx, query, linkID)
}

func (r *PostgresRepository) queryOne(ctx context.Context, query string, arg string) (*models.Object, error) {
	obj, err := scanObject(r.db.QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return obj, nil
}

func (r *PostgresRepository) ListByOwner(ctx context.Context, ownerID string) ([]*models.Object, error) {
	if _, err := uuid.Parse(ownerID); err != nil {
		return []*models.Object{}, nil
	}

	query := `SELECT ` + objectColumns + ` FROM objects WHERE owner_id = $1 ORDER BY created_at, id`
	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := []*models.Object{}
	for rows.Next() {
		obj, err := scanObject(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, obj)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func (r *PostgresRepository) ApplyMutation(ctx context.Context, id string, perm models.Permission) error {
	if _, err := uuid.Parse(id); err != nil {
		return common.ErrorNotFound
	}

	var credential sql.NullString
	if c, ok := perm.Credential(); ok {
		credential = sql.NullString{String: c, Valid: true}
	}

	res, err := r.db.ExecContext(ctx,
		`UPDATE objects SET visibility = $2, credential = $3 WHERE id = $1`,
		id, perm.Visibility().String(), credential)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return expectOneRow(res)
}

func (r *PostgresRepository) Delete(ctx context.Context, id string, beforeCommit func() error) error {
	if _, err := uuid.Parse(id); err != nil {
		return common.ErrorNotFound
	}

	return dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		res, err := tx.ExecContext(ctx, `DELETE FROM objects WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("db error: %w", err)
		}
		if err := expectOneRow(res); err != nil {
			return err
		}
		if beforeCommit != nil {
			return beforeCommit()
		}
		return nil
	})
}

func expectOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
