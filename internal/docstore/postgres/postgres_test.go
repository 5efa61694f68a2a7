package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Marin-gh/shopping-app-backend/internal/docstore"
	"github.com/Marin-gh/shopping-app-backend/pkg/database"
)

func setupStore(t *testing.T) (*Store, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := database.NewMockPool()
	require.NoError(t, err)
	return New(mock), mock
}

func TestGet_ReturnsDocument(t *testing.T) {
	store, mock := setupStore(t)
	defer mock.Close()

	doc := json.RawMessage(`{"id":"p-1","title":"Old bicycle"}`)
	mock.ExpectQuery("SELECT doc FROM documents").
		WithArgs("products", "p-1").
		WillReturnRows(pgxmock.NewRows([]string{"doc"}).AddRow(doc))

	got, err := store.Get(context.Background(), docstore.KindProduct, "p-1")

	require.NoError(t, err)
	assert.JSONEq(t, string(doc), string(got))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGet_NotFound(t *testing.T) {
	store, mock := setupStore(t)
	defer mock.Close()

	mock.ExpectQuery("SELECT doc FROM documents").
		WithArgs("products", "missing").
		WillReturnRows(pgxmock.NewRows([]string{"doc"}))

	_, err := store.Get(context.Background(), docstore.KindProduct, "missing")

	assert.ErrorIs(t, err, docstore.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_InsertsDocument(t *testing.T) {
	store, mock := setupStore(t)
	defer mock.Close()

	mock.ExpectExec("INSERT INTO documents").
		WithArgs("users", "u-1", []byte(`{"id":"u-1"}`)).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := store.Create(context.Background(), docstore.KindUser, "u-1", map[string]string{"id": "u-1"})

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdate_MissingDocument(t *testing.T) {
	store, mock := setupStore(t)
	defer mock.Close()

	mock.ExpectExec("UPDATE documents").
		WithArgs("users", "ghost", []byte(`{"id":"ghost"}`)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := store.Update(context.Background(), docstore.KindUser, "ghost", map[string]string{"id": "ghost"})

	assert.ErrorIs(t, err, docstore.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDelete_RemovesDocument(t *testing.T) {
	store, mock := setupStore(t)
	defer mock.Close()

	mock.ExpectExec("DELETE FROM documents").
		WithArgs("reviews", "r-1").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	require.NoError(t, store.Delete(context.Background(), docstore.KindReview, "r-1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDelete_MissingDocument(t *testing.T) {
	store, mock := setupStore(t)
	defer mock.Close()

	mock.ExpectExec("DELETE FROM documents").
		WithArgs("reviews", "ghost").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	err := store.Delete(context.Background(), docstore.KindReview, "ghost")

	assert.ErrorIs(t, err, docstore.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFind_FiltersByContainment(t *testing.T) {
	store, mock := setupStore(t)
	defer mock.Close()

	mock.ExpectQuery("SELECT doc FROM documents WHERE kind = .+ AND doc @>").
		WithArgs("reviews", []byte(`{"product_id":"p-1"}`)).
		WillReturnRows(pgxmock.NewRows([]string{"doc"}).
			AddRow(json.RawMessage(`{"id":"r-1"}`)).
			AddRow(json.RawMessage(`{"id":"r-2"}`)))

	docs, err := store.Find(context.Background(), docstore.KindReview, docstore.Filter{"product_id": "p-1"})

	require.NoError(t, err)
	assert.Len(t, docs, 2)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFind_QueryError(t *testing.T) {
	store, mock := setupStore(t)
	defer mock.Close()

	mock.ExpectQuery("SELECT doc FROM documents").
		WithArgs("reviews", []byte(`{}`)).
		WillReturnError(errors.New("connection reset"))

	_, err := store.Find(context.Background(), docstore.KindReview, nil)

	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
