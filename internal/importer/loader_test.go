package importer

import (
	"bytes"
	"compress/gzip"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"homeplate/internal/model"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testHeader = "name,description,price,quantity,available_date,size,is_single,is_bundle"

func gzipLines(t *testing.T, lines ...string) []byte {
	t.Helper()

	var buf bytes.Buffer
	gzipWriter := gzip.NewWriter(&buf)
	_, err := gzipWriter.Write([]byte(strings.Join(lines, "\n") + "\n"))
	require.NoError(t, err)
	require.NoError(t, gzipWriter.Close())
	return buf.Bytes()
}

// createTestPlateFile creates a gzipped plate CSV in a temp dir.
func createTestPlateFile(t *testing.T, filename string, lines ...string) string {
	t.Helper()

	filePath := filepath.Join(t.TempDir(), filename)
	require.NoError(t, os.WriteFile(filePath, gzipLines(t, lines...), 0o600))
	return filePath
}

func TestFileLoader_Load_Success(t *testing.T) {
	loader := NewFileLoader(zerolog.Nop())

	filePath := createTestPlateFile(t, "plates.csv.gz",
		testHeader,
		`Lasagna,"Beef, ricotta and basil",12.50,6,2026-10-20,large,true,false`,
		`Rice bowl,,4.00,20,2026-10-20,Small,false,true`,
	)

	batch, err := loader.Load(context.Background(), filePath)

	require.NoError(t, err)
	require.Len(t, batch.Rows, 2)
	assert.Empty(t, batch.Invalid)

	first := batch.Rows[0]
	assert.Equal(t, 2, first.Line)
	assert.Equal(t, "Lasagna", first.Request.Name)
	assert.Equal(t, "Beef, ricotta and basil", first.Request.Description)
	assert.True(t, first.Request.Price.Equal(decimal.RequireFromString("12.50")))
	assert.Equal(t, 6, first.Request.Quantity)
	assert.Equal(t, model.PlateSizeLarge, first.Request.Size)
	assert.True(t, first.Request.IsSingle)
	assert.False(t, first.Request.IsBundle)

	second := batch.Rows[1]
	assert.Equal(t, 3, second.Line)
	assert.Equal(t, model.PlateSizeSmall, second.Request.Size)
	assert.True(t, second.Request.IsBundle)
}

func TestFileLoader_Load_InvalidRows(t *testing.T) {
	loader := NewFileLoader(zerolog.Nop())

	filePath := createTestPlateFile(t, "plates.csv.gz",
		testHeader,
		`Soup,,cheap,3,2026-10-20,small,true,false`,
		`Stew,,5.00,many,2026-10-20,small,true,false`,
		`Pie,,5.00,3,2026-10-20,small,yes,false`,
		`Short,row`,
		`Tacos,,6.00,8,2026-10-20,medium,true,true`,
	)

	batch, err := loader.Load(context.Background(), filePath)

	require.NoError(t, err)
	require.Len(t, batch.Rows, 1)
	assert.Equal(t, "Tacos", batch.Rows[0].Request.Name)
	assert.Equal(t, 6, batch.Rows[0].Line)

	require.Len(t, batch.Invalid, 4)
	lines := []int{batch.Invalid[0].Line, batch.Invalid[1].Line, batch.Invalid[2].Line, batch.Invalid[3].Line}
	assert.Equal(t, []int{2, 3, 4, 5}, lines)
	assert.Contains(t, batch.Invalid[0].Error(), "invalid price")
}

func TestFileLoader_Load_Errors(t *testing.T) {
	loader := NewFileLoader(zerolog.Nop())
	ctx := context.Background()

	t.Run("Missing file", func(t *testing.T) {
		_, err := loader.Load(ctx, filepath.Join(t.TempDir(), "missing.gz"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to open plate file")
	})

	t.Run("Not gzipped", func(t *testing.T) {
		filePath := filepath.Join(t.TempDir(), "plain.csv")
		require.NoError(t, os.WriteFile(filePath, []byte(testHeader+"\n"), 0o600))

		_, err := loader.Load(ctx, filePath)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to create gzip reader")
	})

	t.Run("Wrong header", func(t *testing.T) {
		filePath := createTestPlateFile(t, "plates.csv.gz",
			"name,description,cost,quantity,available_date,size,is_single,is_bundle",
			"Soup,,4.00,3,2026-10-20,small,true,false",
		)

		_, err := loader.Load(ctx, filePath)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unexpected header")
	})

	t.Run("Header only", func(t *testing.T) {
		filePath := createTestPlateFile(t, "plates.csv.gz", testHeader)

		batch, err := loader.Load(ctx, filePath)
		require.NoError(t, err)
		assert.Empty(t, batch.Rows)
	})
}
