package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver
	"github.com/lib/pq"                // PostgreSQL driver

	"github.com/ammar1510/chatterbox/internal/models"
)

const uniqueViolation = "23505"

// PostgresDB runs against PostgreSQL through either the lib/pq ("postgres")
// or the pgx ("pgx") database/sql driver.
type PostgresDB struct {
	db  *sql.DB
	now func() time.Time
}

func NewPostgresDB(ctx context.Context, driver, connStr string) (*PostgresDB, error) {
	db, err := sql.Open(driver, connStr)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("db ping error: %w", err)
	}

	if err := RunMigrations(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migration error: %w", err)
	}

	return newPostgresDB(db), nil
}

func newPostgresDB(db *sql.DB) *PostgresDB {
	return &PostgresDB{db: db, now: func() time.Time { return time.Now().UTC() }}
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == uniqueViolation
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == uniqueViolation
	}
	return false
}

func (p *PostgresDB) CreateUser(ctx context.Context, user *models.User) (*models.User, error) {
	stored := *user
	if stored.ID == uuid.Nil {
		stored.ID = uuid.New()
	}
	now := p.now()
	stored.CreatedAt = now
	stored.UpdatedAt = now

	_, err := p.db.ExecContext(ctx,
		`INSERT INTO users (id, full_name, email, password_hash, profile_pic, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		stored.ID, stored.FullName, stored.Email, stored.PasswordHash, stored.ProfilePic, stored.CreatedAt, stored.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrUserAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return &stored, nil
}

const userColumns = `id, full_name, email, password_hash, profile_pic, created_at, updated_at`

func scanUser(row interface{ Scan(dest ...any) error }) (*models.User, error) {
	var user models.User
	err := row.Scan(
		&user.ID,
		&user.FullName,
		&user.Email,
		&user.PasswordHash,
		&user.ProfilePic,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (p *PostgresDB) getUser(ctx context.Context, where string, arg any) (*models.User, error) {
	row := p.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE `+where+` = $1`, arg)

	user, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

func (p *PostgresDB) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return p.getUser(ctx, "email", email)
}

func (p *PostgresDB) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return p.getUser(ctx, "id", id)
}

func (p *PostgresDB) GetAllUsers(ctx context.Context, excludeUserID uuid.UUID) ([]*models.User, error) {
	rows, err := p.db.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id <> $1 ORDER BY full_name, id`,
		excludeUserID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	users := make([]*models.User, 0)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user row: %w", err)
		}
		users = append(users, user)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating user rows: %w", err)
	}

	return users, nil
}

func (p *PostgresDB) UpdateUser(ctx context.Context, id uuid.UUID, update models.ProfileUpdate) (*models.User, error) {
	row := p.db.QueryRowContext(ctx,
		`UPDATE users
		 SET full_name = $1, email = $2, profile_pic = COALESCE(NULLIF($3, ''), profile_pic), updated_at = $4
		 WHERE id = $5
		 RETURNING `+userColumns,
		update.FullName, update.Email, update.ProfilePic, p.now(), id,
	)

	user, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrUserAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func (p *PostgresDB) CreateMessage(ctx context.Context, message *models.Message) (*models.Message, error) {
	stored := *message
	if stored.ID == uuid.Nil {
		stored.ID = uuid.New()
	}
	stored.CreatedAt = p.now()

	_, err := p.db.ExecContext(ctx,
		`INSERT INTO messages (id, sender_id, receiver_id, text, image, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		stored.ID, stored.SenderID, stored.ReceiverID, nullString(stored.Text), nullString(stored.Image), stored.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return &stored, nil
}

func (p *PostgresDB) GetConversation(ctx context.Context, userID1, userID2 uuid.UUID) ([]*models.Message, error) {
	rows, err := p.db.QueryContext(ctx,
		`SELECT id, sender_id, receiver_id, text, image, created_at
		 FROM messages
		 WHERE (sender_id = $1 AND receiver_id = $2) OR (sender_id = $2 AND receiver_id = $1)
		 ORDER BY created_at ASC, id ASC`,
		userID1, userID2,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query messages: %w", err)
	}
	defer rows.Close()

	messages := make([]*models.Message, 0)
	for rows.Next() {
		var msg models.Message
		var text, image sql.NullString

		if err := rows.Scan(&msg.ID, &msg.SenderID, &msg.ReceiverID, &text, &image, &msg.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan message row: %w", err)
		}

		msg.Text = text.String
		msg.Image = image.String
		messages = append(messages, &msg)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating message rows: %w", err)
	}

	return messages, nil
}

func (p *PostgresDB) Ping(ctx context.Context) error {
	return p.db.PingContext(ctx)
}

func (p *PostgresDB) Close() error {
	return p.db.Close()
}
