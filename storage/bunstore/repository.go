// Package bunstore stores localization resources in SQLite through
// go-repository-bun.
package bunstore

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	"github.com/goliatone/go-localization-provider/internal/logging"
	"github.com/goliatone/go-localization-provider/resources"
)

// DriverName is the database/sql driver registered by go-sqlite3.
const DriverName = "sqlite3"

// Repository implements resources.Repository on top of a bun database.
type Repository struct {
	db      *bun.DB
	records repository.Repository[*resourceRecord]
	driver  string
	logger  *slog.Logger
	now     func() time.Time
}

var _ resources.Repository = (*Repository)(nil)

// New wraps an existing bun database.
func New(db *bun.DB, logger *slog.Logger) *Repository {
	return &Repository{
		db:      db,
		records: repository.NewRepository[*resourceRecord](db, recordHandlers()),
		driver:  repository.DetectDriver(db),
		logger:  logging.OrDiscard(logger).With("store", "bun"),
		now:     time.Now,
	}
}

// Open opens a SQLite database at dsn. In-memory databases are limited to
// a single connection so every query sees the same data.
func Open(ctx context.Context, dsn string, logger *slog.Logger) (*Repository, error) {
	sqldb, err := sql.Open(DriverName, dsn)
	if err != nil {
		return nil, storeError(err, "open database")
	}
	if dsn == ":memory:" || dsn == "file::memory:" {
		sqldb.SetMaxOpenConns(1)
	}
	if err := sqldb.PingContext(ctx); err != nil {
		_ = sqldb.Close()
		return nil, storeError(err, "ping database")
	}

	return New(bun.NewDB(sqldb, sqlitedialect.New()), logger), nil
}

// DB exposes the underlying bun database.
func (r *Repository) DB() *bun.DB {
	return r.db
}

// Close closes the database.
func (r *Repository) Close() error {
	return r.db.Close()
}

// Migrate creates the resources table when missing.
func (r *Repository) Migrate(ctx context.Context) error {
	_, err := r.db.NewCreateTable().
		Model((*resourceRecord)(nil)).
		IfNotExists().
		Exec(ctx)
	if err != nil {
		return storeError(err, "create table "+TableName)
	}
	r.logger.Debug("table ready", "table", TableName)
	return nil
}

func (r *Repository) GetAll(ctx context.Context) ([]resources.LocalizationResource, error) {
	records, _, err := r.records.List(ctx,
		repository.OrderBy(keyColumn+" ASC"),
		repository.SelectPaginate(0, 0),
	)
	if err != nil {
		return nil, storeError(err, "list resources")
	}

	out := make([]resources.LocalizationResource, 0, len(records))
	for _, rec := range records {
		out = append(out, rec.toResource())
	}
	return out, nil
}

func (r *Repository) GetByKey(ctx context.Context, key string) (*resources.LocalizationResource, error) {
	rec, err := r.findByKey(ctx, r.db, key)
	if err != nil {
		return nil, err
	}
	res := rec.toResource()
	return &res, nil
}

// Save upserts by resource key. The stored ID is kept on update.
func (r *Repository) Save(ctx context.Context, resource *resources.LocalizationResource) error {
	return r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		resource.ModificationDate = r.now().UTC()
		rec := toRecord(resource)

		existing, err := r.findByKey(ctx, tx, resource.ResourceKey)
		switch {
		case err == nil:
			rec.ID = existing.ID
			if _, err := r.records.UpdateTx(ctx, tx, rec, contentColumns(rec)...); err != nil {
				return storeError(r.mapError(err), "update resource "+resource.ResourceKey)
			}
		case resources.IsNotFound(err):
			if _, err := r.records.CreateTx(ctx, tx, rec); err != nil {
				if repository.IsDuplicatedKey(r.mapError(err)) {
					return resources.KeyConflict(resource.ResourceKey)
				}
				return storeError(r.mapError(err), "create resource "+resource.ResourceKey)
			}
		default:
			return err
		}

		resource.ID = rec.ID.String()
		return nil
	})
}

func (r *Repository) RenameKey(ctx context.Context, oldKey, newKey string) error {
	if oldKey == newKey {
		return nil
	}

	err := r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		rec, err := r.findByKey(ctx, tx, oldKey)
		if err != nil {
			return err
		}

		_, err = r.records.UpdateTx(ctx, tx, rec,
			repository.UpdateSetColumn(keyColumn, newKey),
			repository.UpdateSetColumn("modification_date", r.now().UTC()),
		)
		if err != nil {
			if repository.IsDuplicatedKey(r.mapError(err)) {
				return resources.KeyConflict(newKey)
			}
			return storeError(r.mapError(err), "rename resource "+oldKey)
		}
		return nil
	})
	if err != nil {
		return err
	}

	r.logger.Debug("resource renamed", "from", oldKey, "to", newKey)
	return nil
}

func (r *Repository) Delete(ctx context.Context, key string) error {
	return r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := r.findByKey(ctx, tx, key); err != nil {
			return err
		}
		err := r.records.DeleteWhereTx(ctx, tx, repository.DeleteBy(keyColumn, "=", key))
		if err != nil {
			return storeError(r.mapError(err), "delete resource "+key)
		}
		return nil
	})
}

func (r *Repository) findByKey(ctx context.Context, db bun.IDB, key string) (*resourceRecord, error) {
	rec, err := r.records.GetTx(ctx, db, repository.SelectBy(keyColumn, "=", key))
	if repository.IsRecordNotFound(err) {
		return nil, resources.NotFound(key)
	}
	if err != nil {
		return nil, storeError(err, "get resource "+key)
	}
	return rec, nil
}

// mapError classifies raw driver errors. Errors already wrapped by the
// record repository pass through unchanged.
func (r *Repository) mapError(err error) error {
	return repository.MapDatabaseError(err, r.driver)
}

func storeError(err error, op string) error {
	return goerrors.Wrap(err, goerrors.CategoryExternal, "bunstore: "+op)
}
