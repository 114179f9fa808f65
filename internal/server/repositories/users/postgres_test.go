package users

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/authkeeper/internal/common"
	"github.com/dmitrijs2005/authkeeper/internal/server/models"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	insertQuery  = `(?s)^INSERT\s+INTO\s+users\s*\(email,\s*password_hash\)\s*VALUES\s*\(\$1,\s*\$2\)\s*RETURNING\s+id,\s*created_at\s*$`
	byEmailQuery = `(?s)^SELECT\s+id,\s*email,\s*password_hash,\s*created_at\s+FROM\s+users\s+WHERE\s+email\s*=\s*\$1\s*$`
	byIDQuery    = `(?s)^SELECT\s+id,\s*email,\s*password_hash,\s*created_at\s+FROM\s+users\s+WHERE\s+id\s*=\s*\$1\s*$`
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func userRows(id, email, hash string, created time.Time) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "email", "password_hash", "created_at"}).
		AddRow(id, email, hash, created)
}

func TestCreate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	created := time.Now()
	mock.ExpectQuery(insertQuery).
		WithArgs("a@x.com", "hash").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow("42", created))

	got, err := repo.Create(context.Background(), &models.User{Email: "a@x.com", PasswordHash: "hash"})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if got.ID != "42" || got.Email != "a@x.com" || !got.CreatedAt.Equal(created) {
		t.Fatalf("unexpected user: %+v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreate_DuplicateEmail(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(insertQuery).
		WithArgs("a@x.com", "hash").
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"})

	_, err := repo.Create(context.Background(), &models.User{Email: "a@x.com", PasswordHash: "hash"})
	if !errors.Is(err, common.ErrorAlreadyExists) {
		t.Fatalf("want common.ErrorAlreadyExists, got %v", err)
	}
}

func TestCreate_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(insertQuery).
		WithArgs("a@x.com", "hash").
		WillReturnError(errors.New("db down"))

	_, err := repo.Create(context.Background(), &models.User{Email: "a@x.com", PasswordHash: "hash"})
	if err == nil || !regexp.MustCompile(`db error: .*db down`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
	if errors.Is(err, common.ErrorAlreadyExists) {
		t.Fatalf("plain db error must not look like a duplicate: %v", err)
	}
}

func TestGetUserByEmail_Found(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(byEmailQuery).
		WithArgs("a@x.com").
		WillReturnRows(userRows("u-1", "a@x.com", "hash", time.Now()))

	got, err := repo.GetUserByEmail(context.Background(), "a@x.com")
	if err != nil {
		t.Fatalf("GetUserByEmail error: %v", err)
	}
	if got.ID != "u-1" || got.PasswordHash != "hash" {
		t.Fatalf("unexpected user: %+v", got)
	}
}

func TestGetUserByEmail_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(byEmailQuery).
		WithArgs("ghost@x.com").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetUserByEmail(context.Background(), "ghost@x.com")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}

func TestGetUserByEmail_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(byEmailQuery).
		WithArgs("a@x.com").
		WillReturnError(errors.New("db err"))

	_, err := repo.GetUserByEmail(context.Background(), "a@x.com")
	if err == nil || !regexp.MustCompile(`db error: .*db err`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func TestGetUserByID_Found(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(byIDQuery).
		WithArgs("u-1").
		WillReturnRows(userRows("u-1", "a@x.com", "hash", time.Now()))

	got, err := repo.GetUserByID(context.Background(), "u-1")
	if err != nil {
		t.Fatalf("GetUserByID error: %v", err)
	}
	if got.Email != "a@x.com" {
		t.Fatalf("unexpected user: %+v", got)
	}
}

func TestGetUserByID_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(byIDQuery).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetUserByID(context.Background(), "missing")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}
