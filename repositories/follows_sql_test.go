package repositories

import (
  "errors"
  "testing"

  "github.com/DATA-DOG/go-sqlmock"
  "gorm.io/driver/postgres"
  "gorm.io/gorm"
)

func mockDb(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
  t.Helper()
  conn, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
  if err != nil {
    t.Fatalf("sqlmock failed: %v", err)
  }
  t.Cleanup(func() {
    conn.Close()
  })
  db, err := gorm.Open(postgres.New(postgres.Config{Conn: conn}), &gorm.Config{})
  if err != nil {
    t.Fatalf("gorm open failed: %v", err)
  }
  return db, mock
}

func TestFollowsCreateDuplicate(t *testing.T) {
  db, mock := mockDb(t)
  repository := &FollowsRepository{Db: db}

  mock.ExpectQuery(`SELECT \* FROM "follows"`).
    WithArgs("viewer", "alice").
    WillReturnRows(sqlmock.NewRows([]string{"id", "follower_id", "followed_id"}).
      AddRow("f1", "viewer", "alice"))

  if _, err := repository.Create("viewer", "alice"); !errors.Is(err, ErrConflict) {
    t.Fatalf("existing edge should conflict, got %v", err)
  }
  if err := mock.ExpectationsWereMet(); err != nil {
    t.Fatalf("unmet expectations: %v", err)
  }
}

func TestFollowsDeleteMissing(t *testing.T) {
  db, mock := mockDb(t)
  repository := &FollowsRepository{Db: db}

  mock.ExpectQuery(`SELECT \* FROM "follows"`).
    WithArgs("viewer", "alice").
    WillReturnRows(sqlmock.NewRows([]string{"id", "follower_id", "followed_id"}))

  err := repository.Delete("viewer", "alice")
  var notFound *NotFoundError
  if !errors.As(err, &notFound) || notFound.Kind != "follow" {
    t.Fatalf("missing edge should read as not found, got %v", err)
  }
  if err := mock.ExpectationsWereMet(); err != nil {
    t.Fatalf("unmet expectations: %v", err)
  }
}
