package xlsx

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/huangsam/scoretools/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func smallTable() schema.Table {
	return schema.Table{
		Title:   "Value",
		Index:   "Value",
		Columns: []string{"A", "B"},
		Rows: []schema.TableRow{
			{Label: "Small", Values: []any{"a", 1}},
			{Label: "Large", Values: []any{"b", 2}},
		},
	}
}

func readRows(t *testing.T, path, sheet string) [][]string {
	t.Helper()
	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	return rows
}

func TestWriteTable(t *testing.T) {
	t.Run("with index", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "out.xlsx")
		w, err := NewTableWriter(path, false)
		require.NoError(t, err)

		next, err := w.WriteTable(Cursor{}, smallTable(), DefaultStyle(), WriteOptions{Index: true})
		require.NoError(t, err)
		assert.Equal(t, Cursor{Sheet: DefaultSheet, Row: 4}, next)
		require.NoError(t, w.Close())

		assert.Equal(t, [][]string{
			{"Value", "A", "B"},
			{"Small", "a", "1"},
			{"Large", "b", "2"},
		}, readRows(t, path, DefaultSheet))
	})

	t.Run("without index", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "out.xlsx")
		w, err := NewTableWriter(path, false)
		require.NoError(t, err)

		_, err = w.WriteTable(Cursor{}, smallTable(), DefaultStyle(), WriteOptions{})
		require.NoError(t, err)
		require.NoError(t, w.Close())

		assert.Equal(t, [][]string{{"A", "B"}, {"a", "1"}, {"b", "2"}}, readRows(t, path, DefaultSheet))
	})

	t.Run("cursor threads tables down the sheet", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "out.xlsx")
		w, err := NewTableWriter(path, false)
		require.NoError(t, err)

		cur := Cursor{Sheet: "Bivars", Col: 1}
		cur, err = w.WriteTable(cur, smallTable(), DefaultStyle(), WriteOptions{Index: true})
		require.NoError(t, err)
		cur, err = w.WriteTable(cur, smallTable(), DefaultStyle(), WriteOptions{Index: true})
		require.NoError(t, err)
		assert.Equal(t, Cursor{Sheet: "Bivars", Row: 8, Col: 1}, cur)
		require.NoError(t, w.Close())

		rows := readRows(t, path, "Bivars")
		require.Len(t, rows, 7)
		assert.Equal(t, []string{"", "Value", "A", "B"}, rows[4])
		assert.Equal(t, []string{"Bivars"}, w.WorksheetNames())
	})

	t.Run("percent columns get a percent format", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "out.xlsx")
		w, err := NewTableWriter(path, false)
		require.NoError(t, err)
		table := schema.Table{
			Index:   "score",
			Columns: []string{"Frequency", "Percent"},
			Rows:    []schema.TableRow{{Label: "1-50", Values: []any{2, 0.5}}},
		}
		_, err = w.WriteTable(Cursor{}, table, DefaultStyle(), WriteOptions{Index: true})
		require.NoError(t, err)
		require.NoError(t, w.Close())

		f, err := excelize.OpenFile(path)
		require.NoError(t, err)
		defer func() { _ = f.Close() }()
		id, err := f.GetCellStyle(DefaultSheet, "C2")
		require.NoError(t, err)
		style, err := f.GetStyle(id)
		require.NoError(t, err)
		assert.Equal(t, percentNumFmt, style.NumFmt)
		val, err := f.GetCellValue(DefaultSheet, "C2")
		require.NoError(t, err)
		assert.Equal(t, "50.00%", val)
	})

	t.Run("invalid cursor", func(t *testing.T) {
		w, err := NewTableWriter(filepath.Join(t.TempDir(), "out.xlsx"), false)
		require.NoError(t, err)
		defer func() { _ = w.Close() }()
		_, err = w.WriteTable(Cursor{Row: -1}, smallTable(), DefaultStyle(), WriteOptions{})
		assert.Error(t, err)
	})
}

func TestWorksheetNames(t *testing.T) {
	w, err := NewTableWriter(filepath.Join(t.TempDir(), "out.xlsx"), false)
	require.NoError(t, err)
	defer func() { _ = w.Close() }()

	require.NoError(t, w.AddWorksheet("newsheet1"))
	require.NoError(t, w.AddWorksheet("newsheet2"))
	require.NoError(t, w.AddWorksheet("newsheet3"))
	require.NoError(t, w.AddWorksheet("newsheet1"))
	assert.Equal(t, []string{"newsheet1", "newsheet2", "newsheet3"}, w.WorksheetNames())

	// Without a sheet name the first worksheet is used.
	next, err := w.WriteTable(Cursor{}, smallTable(), DefaultStyle(), WriteOptions{})
	require.NoError(t, err)
	assert.Equal(t, "newsheet1", next.Sheet)
}

func TestOverwriteGuard(t *testing.T) {
	path := filepath.Join(t.TempDir(), "exists.xlsx")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o600))

	_, err := NewTableWriter(path, false)
	assert.ErrorIs(t, err, ErrFileExists)

	w, err := NewTableWriter(path, true)
	require.NoError(t, err)
	require.NoError(t, w.Close())
}

func TestTemporaryWorkbook(t *testing.T) {
	w, err := NewTableWriter("", false)
	require.NoError(t, err)
	t.Cleanup(func() { _ = os.Remove(w.Path()) })
	assert.True(t, w.Temporary())

	_, err = w.WriteTable(Cursor{}, smallTable(), DefaultStyle(), WriteOptions{Index: true})
	require.NoError(t, err)
	require.NoError(t, w.Close())
	assert.Len(t, readRows(t, w.Path(), DefaultSheet), 3)
}

func TestCloseIsIdempotent(t *testing.T) {
	w, err := NewTableWriter(filepath.Join(t.TempDir(), "out.xlsx"), false)
	require.NoError(t, err)

	require.NoError(t, w.Close())
	require.NoError(t, w.Close())

	_, err = w.WriteTable(Cursor{}, smallTable(), DefaultStyle(), WriteOptions{})
	assert.ErrorIs(t, err, ErrClosed)
	assert.ErrorIs(t, w.AddWorksheet("late"), ErrClosed)
}

func TestDiscard(t *testing.T) {
	t.Run("existing file untouched", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "keep.xlsx")
		require.NoError(t, os.WriteFile(path, []byte("original"), 0o600))

		w, err := NewTableWriter(path, true)
		require.NoError(t, err)
		_, err = w.WriteTable(Cursor{}, smallTable(), DefaultStyle(), WriteOptions{})
		require.NoError(t, err)
		require.NoError(t, w.Discard())
		require.NoError(t, w.Close())

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "original", string(data))
	})

	t.Run("new file not created", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "never.xlsx")
		w, err := NewTableWriter(path, false)
		require.NoError(t, err)
		require.NoError(t, w.Discard())

		_, err = os.Stat(path)
		assert.ErrorIs(t, err, os.ErrNotExist)
		assert.ErrorIs(t, w.AddWorksheet("late"), ErrClosed)
	})

	t.Run("temporary file removed", func(t *testing.T) {
		w, err := NewTableWriter("", false)
		require.NoError(t, err)
		require.NoError(t, w.Discard())

		_, err = os.Stat(w.Path())
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
}

func TestCloseAll(t *testing.T) {
	dir := t.TempDir()
	before := OpenCount()
	a, err := NewTableWriter(filepath.Join(dir, "a.xlsx"), false)
	require.NoError(t, err)
	b, err := NewTableWriter(filepath.Join(dir, "b.xlsx"), false)
	require.NoError(t, err)
	assert.Equal(t, before+2, OpenCount())

	require.NoError(t, a.Close())
	require.NoError(t, CloseAll())
	assert.Equal(t, 0, OpenCount())

	for _, p := range []string{a.Path(), b.Path()} {
		_, err := os.Stat(p)
		assert.NoError(t, err)
	}
}

func TestFormatHandler(t *testing.T) {
	h, err := NewFormatHandler(DefaultPercentKeys)
	require.NoError(t, err)

	for _, col := range []string{"Percent", "Pct N", "bad Rate", "Cumulative Percent", "% bad"} {
		assert.True(t, h.IsPercent(col), col)
	}
	for _, col := range []string{"N", "Frequency", "bad sum", "income Mean"} {
		assert.False(t, h.IsPercent(col), col)
	}

	_, err = NewFormatHandler("(")
	assert.Error(t, err)

	var none *FormatHandler
	assert.False(t, none.IsPercent("Percent"))
}

func TestStyleIsImmutable(t *testing.T) {
	base := DefaultStyle()
	changed := base.WithHeaderColor("#ffffff")
	assert.Equal(t, "#e5d9fc", base.HeaderColor)
	assert.Equal(t, "#ffffff", changed.HeaderColor)
}
