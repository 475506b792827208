package repositories

import (
  "errors"
  "testing"

  "github.com/DATA-DOG/go-sqlmock"

  "social.local/twitter-api/models"
)

func TestReactionsCreateDuplicate(t *testing.T) {
  db, mock := mockDb(t)
  repository := &ReactionsRepository{Db: db}

  mock.ExpectQuery(`SELECT \* FROM "reactions"`).
    WithArgs("viewer", "a1", "like").
    WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "post_id", "type"}).
      AddRow("r1", "viewer", "a1", "like"))

  if _, err := repository.Create("viewer", "a1", models.ReactionLike); !errors.Is(err, ErrConflict) {
    t.Fatalf("existing reaction should conflict, got %v", err)
  }
  if err := mock.ExpectationsWereMet(); err != nil {
    t.Fatalf("unmet expectations: %v", err)
  }
}

func TestReactionsDeleteMissing(t *testing.T) {
  db, mock := mockDb(t)
  repository := &ReactionsRepository{Db: db}

  mock.ExpectQuery(`SELECT \* FROM "reactions"`).
    WithArgs("viewer", "a1", "retweet").
    WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "post_id", "type"}))

  err := repository.Delete("viewer", "a1", models.ReactionRetweet)
  var notFound *NotFoundError
  if !errors.As(err, &notFound) || notFound.Kind != "reaction" {
    t.Fatalf("missing reaction should read as not found, got %v", err)
  }
  if err := mock.ExpectationsWereMet(); err != nil {
    t.Fatalf("unmet expectations: %v", err)
  }
}
