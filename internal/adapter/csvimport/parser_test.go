package csvimport_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YelzhanWeb/ordertaker/internal/adapter/csvimport"
)

func TestParseTemplate(t *testing.T) {
	res, err := csvimport.Parse(strings.NewReader(csvimport.Template()))
	require.NoError(t, err)

	require.Len(t, res.Products, 7)
	assert.Empty(t, res.Rejected)

	first := res.Products[0]
	assert.Equal(t, "Banana", first.Name)
	assert.Equal(t, "0.5", first.Price.String())
	assert.Equal(t, 100, first.AvailableQuantity)
	assert.NotEmpty(t, first.ID)

	seen := make(map[string]bool)
	for _, p := range res.Products {
		assert.False(t, seen[p.ID], "duplicate id %s", p.ID)
		seen[p.ID] = true
	}
}

func TestParseDropsMalformedRows(t *testing.T) {
	input := strings.Join([]string{
		"product_name,price_usd,available_quantity",
		"Banana,0.50,100",
		"  Tomato , 1.25 , 50  ",
		"",
		"Free sample,0,10",
		"Broken price,abc,5",
		",2.00,3",
		"Negative,1.00,-4",
		"Too,few",
		"Unknown stock,3.00,lots",
		"Extra columns,4.50,8,ignored",
	}, "\n")

	res, err := csvimport.Parse(strings.NewReader(input))
	require.NoError(t, err)

	var names []string
	for _, p := range res.Products {
		names = append(names, p.Name)
		assert.True(t, p.Price.IsPositive())
		assert.GreaterOrEqual(t, p.AvailableQuantity, 0)
	}
	assert.Equal(t, []string{"Banana", "Tomato", "Unknown stock", "Extra columns"}, names)
	assert.Equal(t, 0, res.Products[2].AvailableQuantity)

	require.Len(t, res.Rejected, 5)
	assert.Equal(t, 5, res.Rejected[0].Line)
	assert.Equal(t, "Free sample,0,10", res.Rejected[0].Raw)
	assert.Contains(t, res.Rejected[3].Reason, "negative")
}

func TestParseCountsWellFormedRows(t *testing.T) {
	good := []string{"A,1.00,1", "B,2.50,0", "C,0.01,7"}
	bad := []string{"D,-1,1", "E,x,1", "F,1,-1", "G"}

	lines := []string{"name,price,qty"}
	for i := 0; i < len(good) || i < len(bad); i++ {
		if i < len(good) {
			lines = append(lines, good[i])
		}
		if i < len(bad) {
			lines = append(lines, bad[i])
		}
	}

	res, err := csvimport.Parse(strings.NewReader(strings.Join(lines, "\r\n")))
	require.NoError(t, err)
	assert.Len(t, res.Products, len(good))
	assert.Len(t, res.Rejected, len(bad))
}

func TestParseHeaderOnlyIsEmptyCatalog(t *testing.T) {
	for _, input := range []string{
		"product_name,price_usd,available_quantity",
		"product_name,price_usd,available_quantity\n\n",
		"",
		"product_name,price_usd,available_quantity\nBad,0,0",
	} {
		res, err := csvimport.Parse(strings.NewReader(input))
		assert.ErrorIs(t, err, csvimport.ErrEmptyCatalog)
		assert.Empty(t, res.Products)
	}
}

func TestParseSkipsLeadingBlankLinesBeforeHeader(t *testing.T) {
	res, err := csvimport.Parse(strings.NewReader("\n\nname,price,qty\nBread,2.00,30\n"))
	require.NoError(t, err)
	require.Len(t, res.Products, 1)
	assert.Equal(t, "Bread", res.Products[0].Name)
}

func TestParseFile(t *testing.T) {
	dir := t.TempDir()

	t.Run("Success", func(t *testing.T) {
		path := filepath.Join(dir, "catalog.CSV")
		require.NoError(t, os.WriteFile(path, []byte(csvimport.Template()), 0o600))

		res, err := csvimport.ParseFile(path)
		require.NoError(t, err)
		assert.Len(t, res.Products, 7)
	})

	t.Run("Fail on wrong extension", func(t *testing.T) {
		path := filepath.Join(dir, "catalog.xlsx")
		require.NoError(t, os.WriteFile(path, []byte(csvimport.Template()), 0o600))

		_, err := csvimport.ParseFile(path)
		assert.ErrorIs(t, err, csvimport.ErrUnsupportedFileType)
	})

	t.Run("Fail on missing file", func(t *testing.T) {
		_, err := csvimport.ParseFile(filepath.Join(dir, "missing.csv"))
		require.Error(t, err)
		assert.NotErrorIs(t, err, csvimport.ErrEmptyCatalog)
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
}

func TestParseRejectsPriceExponentOutOfRange(t *testing.T) {
	input := strings.Join([]string{
		"name,price,qty",
		"Gold,1e20000000,1",
		"Dust,0.0000000000001,1",
		"Crate,1e3,2",
		"Milk,3.50,10",
	}, "\n")

	res, err := csvimport.Parse(strings.NewReader(input))
	require.NoError(t, err)

	require.Len(t, res.Products, 2)
	assert.Equal(t, "Crate", res.Products[0].Name)
	assert.Equal(t, "1000", res.Products[0].Price.String())

	require.Len(t, res.Rejected, 2)
	assert.Equal(t, "Gold,1e20000000,1", res.Rejected[0].Raw)
	assert.Contains(t, res.Rejected[0].Reason, "out of range")
	assert.Equal(t, 3, res.Rejected[1].Line)
}

func TestParseQuantityReadsLeadingInteger(t *testing.T) {
	tests := []struct {
		qty  string
		want int
	}{
		{"10", 10},
		{"10.0", 10},
		{"20 units", 20},
		{"+7", 7},
		{"lots", 0},
	}

	for _, tt := range tests {
		t.Run(tt.qty, func(t *testing.T) {
			res, err := csvimport.Parse(strings.NewReader("name,price,qty\nRice,12.00," + tt.qty + "\n"))
			require.NoError(t, err)
			require.Len(t, res.Products, 1)
			assert.Empty(t, res.Rejected)
			assert.Equal(t, tt.want, res.Products[0].AvailableQuantity)
		})
	}

	t.Run("Fail on overflow", func(t *testing.T) {
		res, err := csvimport.Parse(strings.NewReader("name,price,qty\nRice,12.00,99999999999999999999999\n"))
		assert.ErrorIs(t, err, csvimport.ErrEmptyCatalog)
		require.Len(t, res.Rejected, 1)
		assert.Contains(t, res.Rejected[0].Reason, "out of range")
	})
}

func TestParseLongLine(t *testing.T) {
	name := strings.Repeat("x", 100<<10)
	res, err := csvimport.Parse(strings.NewReader("name,price,qty\n" + name + ",1.00,1\n"))
	require.NoError(t, err)
	require.Len(t, res.Products, 1)
	assert.Len(t, res.Products[0].Name, 100<<10)
}
