package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mz310/FitProof/internal/core/domain"
)

func newMock(t *testing.T) (*DB, sqlmock.Sqlmock) {
	t.Helper()
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return New(conn, DialectPostgres, zerolog.Nop()), mock
}

func TestUserRepository_CreateMapsUniqueViolation(t *testing.T) {
	db, mock := newMock(t)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO users (id,email,name,password_hash,role,created_at) VALUES ($1,$2,$3,$4,$5,$6)")).
		WillReturnError(&pgconn.PgError{Code: pgerrcode.UniqueViolation})

	err := db.Users().Create(context.Background(), &domain.User{
		ID: "u1", Email: "a@b.c", Name: "A", PasswordHash: "h", Role: domain.RoleMember, CreatedAt: time.Now(),
	})

	assert.ErrorIs(t, err, domain.ErrEmailTaken)
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_FindByEmail(t *testing.T) {
	db, mock := newMock(t)
	created := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, email, name, password_hash, role, created_at FROM users WHERE email = $1")).
		WithArgs("a@b.c").
		WillReturnRows(sqlmock.NewRows(userColumns).AddRow("u1", "a@b.c", "Alice", "hash", "trainer", created))

	u, err := db.Users().FindByEmail(context.Background(), "a@b.c")
	require.NoError(t, err)
	assert.Equal(t, "u1", u.ID)
	assert.Equal(t, domain.RoleTrainer, u.Role)
	assert.Equal(t, created, u.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_FindByIDNotFound(t *testing.T) {
	db, mock := newMock(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE id = $1")).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := db.Users().FindByID(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUserRepository_UpdateRole(t *testing.T) {
	db, mock := newMock(t)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE users SET role = $1 WHERE id = $2")).
		WithArgs("admin", "u1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE users SET role = $1 WHERE id = $2")).
		WithArgs("admin", "ghost").
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, db.Users().UpdateRole(context.Background(), "u1", domain.RoleAdmin))

	err := db.Users().UpdateRole(context.Background(), "ghost", domain.RoleAdmin)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeviceRepository_FindActiveByCode(t *testing.T) {
	db, mock := newMock(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM devices WHERE code = $1 AND is_active = $2")).
		WithArgs("DEVICE-001", true).
		WillReturnRows(sqlmock.NewRows(deviceColumns).AddRow("d1", "DEVICE-001", "Bench", "Floor 1", true))
	mock.ExpectQuery(regexp.QuoteMeta("FROM devices WHERE code = $1 AND is_active = $2")).
		WithArgs("NOPE", true).
		WillReturnError(sql.ErrNoRows)

	d, err := db.Devices().FindActiveByCode(context.Background(), "DEVICE-001")
	require.NoError(t, err)
	assert.Equal(t, "Bench", d.Name)
	assert.True(t, d.Active)

	_, err = db.Devices().FindActiveByCode(context.Background(), "NOPE")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeviceRepository_UpsertUsesConflictClause(t *testing.T) {
	db, mock := newMock(t)

	mock.ExpectExec(regexp.QuoteMeta("ON CONFLICT (code) DO UPDATE SET")).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := db.Devices().Upsert(context.Background(), &domain.Device{ID: "d1", Code: "DEVICE-001", Name: "Bench", Active: true})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionRepository_ListSetsKeepsInsertionOrder(t *testing.T) {
	db, mock := newMock(t)
	now := time.Now().UTC()

	rows := sqlmock.NewRows(setColumns).
		AddRow("s1", "sess", "strength", "Bench", 60.0, 10.0, 3.0, 0.0, 0.0, 1800.0, now).
		AddRow("s2", "sess", "cardio", "Run", 0.0, 0.0, 1.0, 0.0, 600.0, 600.0, now)
	mock.ExpectQuery(regexp.QuoteMeta("FROM session_sets WHERE session_id = $1 ORDER BY seq ASC")).
		WithArgs("sess").
		WillReturnRows(rows)

	sets, err := db.Sessions().ListSets(context.Background(), "sess")
	require.NoError(t, err)
	require.Len(t, sets, 2)
	assert.Equal(t, "s1", sets[0].ID)
	assert.Equal(t, domain.SetCardio, sets[1].Type)
	assert.Equal(t, 600.0, sets[1].Volume)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionRepository_FindByIDNotFound(t *testing.T) {
	db, mock := newMock(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM sessions WHERE id = $1")).
		WillReturnError(sql.ErrNoRows)

	_, err := db.Sessions().FindByID(context.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSessionRepository_AppendSetWrapsDriverError(t *testing.T) {
	db, mock := newMock(t)
	boom := errors.New("connection reset")

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO session_sets")).WillReturnError(boom)

	err := db.Sessions().AppendSet(context.Background(), &domain.Set{ID: "s1", SessionID: "sess", Type: domain.SetStrength})
	assert.ErrorIs(t, err, boom)
}

func TestLoginEventRepository_ListByUser(t *testing.T) {
	db, mock := newMock(t)
	now := time.Now().UTC()

	mock.ExpectQuery(regexp.QuoteMeta("FROM login_events WHERE user_id = $1 ORDER BY created_at DESC, seq DESC LIMIT 50")).
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows(loginEventColumns).
			AddRow("e2", "u1", false, "10.0.0.1", "curl", now).
			AddRow("e1", nil, true, "", "", now.Add(-time.Minute)))

	events, err := db.LoginEvents().ListByUser(context.Background(), "u1", domain.HistoryLimit)
	require.NoError(t, err)
	require.Len(t, events, 2)
	require.NotNil(t, events[0].UserID)
	assert.Equal(t, "u1", *events[0].UserID)
	assert.Nil(t, events[1].UserID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPlaceholderByDialect(t *testing.T) {
	pg := New(nil, DialectPostgres, zerolog.Nop())
	lite := New(nil, DialectSQLite, zerolog.Nop())

	q, _, err := pg.sb.Select("id").From("users").Where("email = ?", "x").ToSql()
	require.NoError(t, err)
	assert.Equal(t, "SELECT id FROM users WHERE email = $1", q)

	q, _, err = lite.sb.Select("id").From("users").Where("email = ?", "x").ToSql()
	require.NoError(t, err)
	assert.Equal(t, "SELECT id FROM users WHERE email = ?", q)
}
