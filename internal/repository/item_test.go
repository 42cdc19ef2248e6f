package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/sickfits/sickfits-go/internal/model"
)

func newMockItemRepo(t *testing.T) (*ItemRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewItemRepository(db), mock
}

var itemCols = []string{"id", "title", "description", "image", "large_image", "price", "user_id", "created_at", "updated_at"}

func TestItemRepository_CreateItem(t *testing.T) {
	repo, mock := newMockItemRepo(t)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO items")).
		WithArgs(sqlmock.AnyArg(), "Hat", "Warm", "", "", 1500, "u1", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	it := &model.Item{Title: "Hat", Description: "Warm", Price: 1500, UserID: "u1"}
	if err := repo.CreateItem(context.Background(), it); err != nil {
		t.Fatalf("CreateItem() error = %v", err)
	}
	if it.ID == "" {
		t.Error("CreateItem() did not assign an ID")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestItemRepository_GetItem(t *testing.T) {
	repo, mock := newMockItemRepo(t)
	now := time.Now().UTC()

	mock.ExpectQuery(regexp.QuoteMeta("FROM items WHERE id = ?")).
		WithArgs("i1").
		WillReturnRows(sqlmock.NewRows(itemCols).AddRow("i1", "Hat", "Warm", "a.jpg", "b.jpg", 1500, "u1", now, now))

	it, err := repo.GetItem(context.Background(), "i1")
	if err != nil {
		t.Fatalf("GetItem() error = %v", err)
	}
	if it.Title != "Hat" || it.Price != 1500 || it.UserID != "u1" || it.LargeImage != "b.jpg" {
		t.Errorf("GetItem() = %+v", it)
	}
}

func TestItemRepository_GetItemNotFound(t *testing.T) {
	repo, mock := newMockItemRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM items WHERE id = ?")).
		WithArgs("nope").
		WillReturnRows(sqlmock.NewRows(itemCols))

	if _, err := repo.GetItem(context.Background(), "nope"); !errors.Is(err, ErrItemNotFound) {
		t.Fatalf("GetItem() error = %v, want ErrItemNotFound", err)
	}
}

func TestItemRepository_ListItems(t *testing.T) {
	repo, mock := newMockItemRepo(t)
	now := time.Now().UTC()

	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?")).
		WithArgs(4, 8).
		WillReturnRows(sqlmock.NewRows(itemCols).
			AddRow("i2", "B", "d", "", "", 2, "u1", now, now).
			AddRow("i1", "A", "d", "", "", 1, "u1", now, now))

	items, err := repo.ListItems(context.Background(), 8, 4)
	if err != nil {
		t.Fatalf("ListItems() error = %v", err)
	}
	if len(items) != 2 || items[0].ID != "i2" {
		t.Fatalf("ListItems() = %+v", items)
	}
}

func TestItemRepository_CountItems(t *testing.T) {
	repo, mock := newMockItemRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM items")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(7))

	n, err := repo.CountItems(context.Background())
	if err != nil || n != 7 {
		t.Fatalf("CountItems() = %d, %v; want 7, nil", n, err)
	}
}

func TestItemRepository_DeleteItem(t *testing.T) {
	tests := []struct {
		name    string
		rows    int64
		wantErr error
	}{
		{name: "deleted", rows: 1},
		{name: "missing", rows: 0, wantErr: ErrItemNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newMockItemRepo(t)
			mock.ExpectExec(regexp.QuoteMeta("DELETE FROM items WHERE id = ?")).
				WithArgs("i1").
				WillReturnResult(sqlmock.NewResult(0, tt.rows))

			if err := repo.DeleteItem(context.Background(), "i1"); !errors.Is(err, tt.wantErr) {
				t.Fatalf("DeleteItem() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestItemRepository_UpdateItem(t *testing.T) {
	repo, mock := newMockItemRepo(t)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE items SET title = ?")).
		WithArgs("New", "d", "", "", 99, sqlmock.AnyArg(), "i1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	it := &model.Item{ID: "i1", Title: "New", Description: "d", Price: 99}
	if err := repo.UpdateItem(context.Background(), it); err != nil {
		t.Fatalf("UpdateItem() error = %v", err)
	}
}
