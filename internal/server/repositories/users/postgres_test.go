package users

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/rmaksimov/videotube/internal/common"
	"github.com/rmaksimov/videotube/internal/server/models"
)

func newMockRepo(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return NewPostgresRepository(db), mock
}

func userRows(u *models.User) *sqlmock.Rows {
	refresh := sql.NullString{String: u.RefreshToken, Valid: u.RefreshToken != ""}
	return sqlmock.NewRows([]string{
		"id", "username", "email", "full_name", "avatar", "cover_image",
		"password_hash", "refresh_token", "created_at",
	}).AddRow(u.ID, u.Username, u.Email, u.FullName, u.Avatar, u.CoverImage,
		u.PasswordHash, refresh, u.CreatedAt)
}

func TestCreate_Success(t *testing.T) {
	repo, mock := newMockRepo(t)

	created := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO users")).
		WithArgs("id-1", "alice", "alice@x.com", "Alice A", "", "", "hash").
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(created))

	u, err := repo.Create(context.Background(), &models.User{
		ID: "id-1", Username: "alice", Email: "alice@x.com",
		FullName: "Alice A", PasswordHash: "hash",
	})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if !u.CreatedAt.Equal(created) {
		t.Fatalf("created_at not populated")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations not met: %v", err)
	}
}

func TestCreate_DuplicateMapsToAlreadyExists(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO users")).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"})

	_, err := repo.Create(context.Background(), &models.User{
		ID: "id-2", Username: "bob", Email: "alice@x.com", FullName: "Bob", PasswordHash: "h",
	})
	if !errors.Is(err, common.ErrorAlreadyExists) {
		t.Fatalf("expected common.ErrorAlreadyExists, got %v", err)
	}
}

func TestFindByLogin_Found(t *testing.T) {
	repo, mock := newMockRepo(t)

	want := &models.User{
		ID: "id-1", Username: "alice", Email: "alice@x.com", FullName: "Alice",
		PasswordHash: "hash", RefreshToken: "r1", CreatedAt: time.Now(),
	}
	mock.ExpectQuery("SELECT .+ FROM users WHERE username = \\$1 OR email = \\$1").
		WithArgs("alice").
		WillReturnRows(userRows(want))

	got, err := repo.FindByLogin(context.Background(), "alice")
	if err != nil {
		t.Fatalf("FindByLogin error: %v", err)
	}
	if got.ID != want.ID || got.RefreshToken != "r1" {
		t.Fatalf("unexpected user: %+v", got)
	}
}

func TestFindByLogin_NotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery("SELECT .+ FROM users WHERE username = \\$1 OR email = \\$1").
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByLogin(context.Background(), "missing")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("expected common.ErrorNotFound, got %v", err)
	}
}

func TestFindByID_NotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery("SELECT .+ FROM users WHERE id = \\$1").
		WithArgs("nope").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByID(context.Background(), "nope")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("expected common.ErrorNotFound, got %v", err)
	}
}

func TestUpdateRefreshToken_SetAndClear(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE users SET refresh_token = $2 WHERE id = $1")).
		WithArgs("id-1", "new-token").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.UpdateRefreshToken(context.Background(), "id-1", "new-token"); err != nil {
		t.Fatalf("UpdateRefreshToken error: %v", err)
	}

	// empty token clears the column
	mock.ExpectExec(regexp.QuoteMeta("UPDATE users SET refresh_token = $2 WHERE id = $1")).
		WithArgs("id-1", nil).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.UpdateRefreshToken(context.Background(), "id-1", ""); err != nil {
		t.Fatalf("UpdateRefreshToken(clear) error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations not met: %v", err)
	}
}

func TestUpdateRefreshToken_UnknownUser(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE users SET refresh_token = $2 WHERE id = $1")).
		WithArgs("ghost", "tok").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateRefreshToken(context.Background(), "ghost", "tok")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("expected common.ErrorNotFound, got %v", err)
	}
}

func TestUpdateProfile_DuplicateEmail(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("UPDATE users SET full_name = $2, email = $3")).
		WithArgs("id-1", "Alice", "taken@x.com").
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"})

	_, err := repo.UpdateProfile(context.Background(), "id-1", "Alice", "taken@x.com")
	if !errors.Is(err, common.ErrorAlreadyExists) {
		t.Fatalf("expected common.ErrorAlreadyExists, got %v", err)
	}
}
