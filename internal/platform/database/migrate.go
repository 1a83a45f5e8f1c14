package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sirupsen/logrus"
)

type migration struct {
	version    int
	name       string
	statements []string
}

var migrations = []migration{
	{
		version: 1,
		name:    "initial cache schema",
		statements: []string{
			`CREATE TABLE users (
				id            BIGSERIAL PRIMARY KEY,
				name          TEXT        NOT NULL,
				email         TEXT        NOT NULL UNIQUE,
				password_hash TEXT        NOT NULL,
				birth_date    TEXT        NOT NULL,
				rut           TEXT,
				address       TEXT,
				remote_id     BIGINT,
				registered_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
			)`,
			`CREATE TABLE categories (
				id          BIGINT PRIMARY KEY,
				name        TEXT NOT NULL,
				description TEXT NOT NULL DEFAULT '',
				icon        TEXT NOT NULL DEFAULT ''
			)`,
			`CREATE TABLE products (
				id             BIGINT PRIMARY KEY,
				name           TEXT             NOT NULL,
				description    TEXT             NOT NULL DEFAULT '',
				price          NUMERIC(12,2)    NOT NULL CHECK (price >= 0),
				previous_price NUMERIC(12,2),
				stock          INTEGER          NOT NULL DEFAULT 0 CHECK (stock >= 0),
				category_id    BIGINT           NOT NULL REFERENCES categories(id),
				image_url      TEXT             NOT NULL DEFAULT '',
				brand          TEXT             NOT NULL DEFAULT '',
				rating         DOUBLE PRECISION NOT NULL DEFAULT 0,
				review_count   INTEGER          NOT NULL DEFAULT 0,
				format         TEXT,
				updated_at     TIMESTAMPTZ      NOT NULL DEFAULT NOW()
			)`,
			`CREATE INDEX products_name_idx ON products (name)`,
			`CREATE INDEX products_category_idx ON products (category_id)`,
			`CREATE TABLE cart_items (
				id         BIGSERIAL PRIMARY KEY,
				product_id BIGINT        NOT NULL UNIQUE,
				name       TEXT          NOT NULL,
				price      NUMERIC(12,2) NOT NULL CHECK (price >= 0),
				quantity   INTEGER       NOT NULL CHECK (quantity >= 1),
				image_url  TEXT          NOT NULL DEFAULT '',
				added_at   TIMESTAMPTZ   NOT NULL DEFAULT NOW()
			)`,
			`INSERT INTO categories (id, name, description, icon) VALUES
				(1, 'Cocina',     'Limpieza de cocina y loza',            '🍳'),
				(2, 'Baño',       'Limpieza y desinfección de baños',     '🚽'),
				(3, 'Ropa',       'Detergentes y suavizantes',            '👕'),
				(4, 'Pisos',      'Ceras y limpiadores de pisos',         '🧹'),
				(5, 'Accesorios', 'Esponjas, paños y guantes',            '🧽'),
				(6, 'Multiuso',   'Desinfectantes y limpiadores generales', '✨')
			ON CONFLICT (id) DO NOTHING`,
		},
	},
	{
		version: 2,
		name:    "user roles",
		statements: []string{
			`ALTER TABLE users ADD COLUMN role TEXT NOT NULL DEFAULT 'user'`,
		},
	},
	{
		version: 3,
		name:    "sessions and orders",
		statements: []string{
			`CREATE TABLE sessions (
				id         UUID PRIMARY KEY,
				user_id    BIGINT      NOT NULL REFERENCES users(id),
				role       TEXT        NOT NULL,
				created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
				expires_at TIMESTAMPTZ NOT NULL,
				revoked_at TIMESTAMPTZ
			)`,
			`CREATE INDEX sessions_user_idx ON sessions (user_id)`,
			`CREATE TABLE orders (
				id         BIGSERIAL PRIMARY KEY,
				reference  UUID        NOT NULL UNIQUE,
				remote_id  BIGINT,
				user_id    BIGINT      NOT NULL REFERENCES users(id),
				total      BIGINT      NOT NULL CHECK (total >= 0),
				created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
			)`,
			`CREATE TABLE order_items (
				id         BIGSERIAL PRIMARY KEY,
				order_id   BIGINT  NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
				product_id BIGINT  NOT NULL,
				name       TEXT    NOT NULL,
				quantity   INTEGER NOT NULL CHECK (quantity >= 1),
				unit_price BIGINT  NOT NULL,
				line_total BIGINT  NOT NULL
			)`,
		},
	},
}

// Migrate brings the schema up to the latest version. Each migration runs in
// its own transaction and is recorded in schema_migrations.
func Migrate(ctx context.Context, db *sql.DB, logger *logrus.Logger) error {
	if _, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version    INTEGER PRIMARY KEY,
			name       TEXT        NOT NULL,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`); err != nil {
		return fmt.Errorf("create schema_migrations: %w", err)
	}

	for _, m := range migrations {
		applied, err := applyMigration(ctx, db, m)
		if err != nil {
			return fmt.Errorf("migration %d (%s): %w", m.version, m.name, err)
		}
		if applied {
			logger.WithFields(logrus.Fields{"version": m.version, "name": m.name}).Info("Database: migration applied")
		}
	}
	return nil
}

func applyMigration(ctx context.Context, db *sql.DB, m migration) (bool, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	// Serializes concurrent migrators until commit.
	if _, err := tx.ExecContext(ctx, `LOCK TABLE schema_migrations IN EXCLUSIVE MODE`); err != nil {
		return false, err
	}

	var exists bool
	if err := tx.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM schema_migrations WHERE version=$1)`, m.version).Scan(&exists); err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}

	for _, stmt := range m.statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return false, err
		}
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO schema_migrations (version, name) VALUES ($1, $2)`, m.version, m.name); err != nil {
		return false, err
	}
	return true, tx.Commit()
}
