package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/Anilsharma012/myProperty-sub000/internal/store"
)

// SQLiteStore implements store.Store for SQLite.
type SQLiteStore struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS notifications (
	id         TEXT PRIMARY KEY,
	user_id    TEXT NOT NULL,
	title      TEXT NOT NULL,
	message    TEXT NOT NULL,
	type       TEXT NOT NULL,
	created_at TIMESTAMP NOT NULL,
	read       INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_notifications_user ON notifications(user_id, created_at);

CREATE TABLE IF NOT EXISTS user_packages (
	id            TEXT PRIMARY KEY,
	user_id       TEXT NOT NULL,
	package_id    TEXT NOT NULL,
	package_name  TEXT NOT NULL,
	purchase_date TIMESTAMP NOT NULL,
	expiry_date   TIMESTAMP NOT NULL,
	ads_used      INTEGER NOT NULL DEFAULT 0,
	ad_limit      INTEGER NOT NULL DEFAULT 0,
	active        INTEGER NOT NULL DEFAULT 1
);
CREATE INDEX IF NOT EXISTS idx_user_packages_user ON user_packages(user_id, purchase_date);
`

// New creates a new SQLite store and applies the schema.
// dbPath is the path to the SQLite database file.
func New(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// SQLite works best with a single connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// ==== NotificationStore implementation ====

// InsertNotification durably records a notification.
func (s *SQLiteStore) InsertNotification(ctx context.Context, n *store.Notification) error {
	query := `
		INSERT INTO notifications (id, user_id, title, message, type, created_at, read)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	_, err := s.db.ExecContext(ctx, query,
		n.ID, n.UserID, n.Title, n.Message, string(n.Type), n.Timestamp, boolToInt(n.Read))
	if err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}
	return nil
}

// MarkRead flips the read flag. A row that is already read, or no row at all,
// is a no-op success.
func (s *SQLiteStore) MarkRead(ctx context.Context, userID, notificationID string) error {
	query := `UPDATE notifications SET read = 1 WHERE user_id = ? AND id = ?`
	if _, err := s.db.ExecContext(ctx, query, userID, notificationID); err != nil {
		return fmt.Errorf("mark notification read: %w", err)
	}
	return nil
}

// FindByUser returns all notifications for a user, newest first.
func (s *SQLiteStore) FindByUser(ctx context.Context, userID string) ([]*store.Notification, error) {
	query := `
		SELECT id, user_id, title, message, type, created_at, read
		FROM notifications
		WHERE user_id = ?
		ORDER BY created_at DESC, id DESC
	`
	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("query notifications: %w", err)
	}
	defer rows.Close()

	var out []*store.Notification
	for rows.Next() {
		var n store.Notification
		var typ string
		var read int
		if err := rows.Scan(&n.ID, &n.UserID, &n.Title, &n.Message, &typ, &n.Timestamp, &read); err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		n.Type = store.NotificationType(typ)
		n.Read = read != 0
		out = append(out, &n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate notifications: %w", err)
	}
	return out, nil
}

// ==== UserPackageStore implementation ====

// UpsertUserPackage inserts or replaces a user-package record.
func (s *SQLiteStore) UpsertUserPackage(ctx context.Context, up *store.UserPackage) error {
	query := `
		INSERT INTO user_packages (id, user_id, package_id, package_name, purchase_date, expiry_date, ads_used, ad_limit, active)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			package_name = excluded.package_name,
			expiry_date  = excluded.expiry_date,
			ads_used     = excluded.ads_used,
			ad_limit     = excluded.ad_limit,
			active       = excluded.active
	`
	_, err := s.db.ExecContext(ctx, query,
		up.ID, up.UserID, up.PackageID, up.PackageName,
		up.PurchaseDate, up.ExpiryDate, up.AdsUsed, up.AdLimit, boolToInt(up.Active))
	if err != nil {
		return fmt.Errorf("upsert user package: %w", err)
	}
	return nil
}

// FindUserPackages returns a user's package records, newest purchase first.
func (s *SQLiteStore) FindUserPackages(ctx context.Context, userID string) ([]*store.UserPackage, error) {
	query := `
		SELECT id, user_id, package_id, package_name, purchase_date, expiry_date, ads_used, ad_limit, active
		FROM user_packages
		WHERE user_id = ?
		ORDER BY purchase_date DESC, id DESC
	`
	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("query user packages: %w", err)
	}
	defer rows.Close()

	var out []*store.UserPackage
	for rows.Next() {
		var up store.UserPackage
		var active int
		if err := rows.Scan(&up.ID, &up.UserID, &up.PackageID, &up.PackageName,
			&up.PurchaseDate, &up.ExpiryDate, &up.AdsUsed, &up.AdLimit, &active); err != nil {
			return nil, fmt.Errorf("scan user package: %w", err)
		}
		up.Active = active != 0
		out = append(out, &up)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate user packages: %w", err)
	}
	return out, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
