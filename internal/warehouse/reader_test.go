package warehouse

import (
	"context"
	"database/sql"
	"io"
	"path/filepath"
	"testing"

	"sjsage522/bookworker/internal/catalog"
	"sjsage522/bookworker/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

// newTableDB creates a sqlite file holding books_table with the warehouse column types
func newTableDB(t *testing.T, books []catalog.Book) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "warehouse.db")

	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Exec("CREATE TABLE books_table (Title STRING, Rating NUMBER, Price FLOAT, Availability BOOLEAN)")
	require.NoError(t, err)

	for _, b := range books {
		_, err := db.Exec("INSERT INTO books_table VALUES (?, ?, ?, ?)", b.Title, b.Rating, b.Price, b.Availability)
		require.NoError(t, err)
	}
	return path
}

func TestReader_ReadAll(t *testing.T) {
	want := []catalog.Book{
		{Title: "Book A", Rating: 3, Price: 51.77, Availability: true},
		{Title: "Book B", Rating: 1, Price: 10.00, Availability: false},
	}
	path := newTableDB(t, want)

	books, err := NewReader(OpenSQL("sqlite", path), testNamespace).ReadAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, want, books)
}

func TestReader_EmptyTable(t *testing.T) {
	path := newTableDB(t, nil)

	books, err := NewReader(OpenSQL("sqlite", path), testNamespace).ReadAll(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, books)
	assert.Empty(t, books)
}

func TestReader_MissingTable(t *testing.T) {
	path := newTableDB(t, nil)
	ns := testNamespace
	ns.Table = "no_such_table"

	_, err := NewReader(OpenSQL("sqlite", path), ns).ReadAll(context.Background())
	assert.True(t, errors.IsType(err, errors.ErrorTypeQuery))
}

func TestReader_RejectsNullColumns(t *testing.T) {
	path := newTableDB(t, nil)
	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	_, err = db.Exec("INSERT INTO books_table VALUES ('Book A', NULL, 1.5, 1)")
	require.NoError(t, err)
	db.Close()

	_, err = NewReader(OpenSQL("sqlite", path), testNamespace).ReadAll(context.Background())
	assert.True(t, errors.IsType(err, errors.ErrorTypeQuery))
	assert.Contains(t, err.Error(), "row 1 has NULL")
}

func TestReader_RejectsWrongColumnCount(t *testing.T) {
	path := filepath.Join(t.TempDir(), "warehouse.db")
	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	_, err = db.Exec("CREATE TABLE books_table (Title STRING, Price FLOAT)")
	require.NoError(t, err)
	db.Close()

	_, err = NewReader(OpenSQL("sqlite", path), testNamespace).ReadAll(context.Background())
	assert.True(t, errors.IsType(err, errors.ErrorTypeQuery))
	assert.Contains(t, err.Error(), "expected 4 columns")
}

// TestLoadThenRead stands the sqlite table in for COPY INTO: the transformed
// CSV is written, parsed back, inserted, and read through the Reader.
func TestLoadThenRead(t *testing.T) {
	csvPath := filepath.Join(t.TempDir(), "books_transformed.csv")
	normalized := []catalog.Book{
		{Title: "Book A", Rating: 3, Price: 51.77, Availability: true},
		{Title: "Book B", Rating: 1, Price: 10.00, Availability: false},
	}
	require.NoError(t, catalog.WriteFile(csvPath, func(w io.Writer) error { return catalog.WriteTransformed(w, normalized) }))

	staged, err := catalog.ReadFile(csvPath, catalog.ReadTransformed)
	require.NoError(t, err)

	dbPath := newTableDB(t, staged)
	books, err := NewReader(OpenSQL("sqlite", dbPath), testNamespace).ReadAll(context.Background())
	require.NoError(t, err)

	require.Len(t, books, 2)
	assert.Equal(t, normalized, books)
	assert.IsType(t, 0, books[0].Rating)
	assert.IsType(t, 0.0, books[0].Price)
	assert.IsType(t, true, books[0].Availability)
}
