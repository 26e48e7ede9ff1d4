// Package csvimport turns catalog spreadsheets exported as CSV into products.
//
// The format is deliberately simple: a header line followed by
// "name,price,quantity" lines. Fields are split on every comma; quoting is
// not supported.
package csvimport

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/YelzhanWeb/ordertaker/internal/domain"
)

var (
	ErrEmptyCatalog        = errors.New("no valid products found in CSV")
	ErrUnsupportedFileType = errors.New("please upload a CSV file")
)

const (
	minFields = 3

	// maxPriceExponent bounds the decimal exponent of a price in both
	// directions.
	maxPriceExponent = 9

	// MaxLineBytes bounds a single CSV line; it matches the HTTP upload cap.
	MaxLineBytes = 5 << 20
)

// RejectedRow describes a data line that did not produce a product.
type RejectedRow struct {
	Line   int    `json:"line"`
	Raw    string `json:"raw"`
	Reason string `json:"reason"`
}

type Result struct {
	Products []domain.Product
	Rejected []RejectedRow
}

// Parse reads CSV text and returns the valid products it contains.
// It returns ErrEmptyCatalog, together with the rejected rows, when no row
// qualifies.
func Parse(r io.Reader) (Result, error) {
	var res Result

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, bufio.MaxScanTokenSize), MaxLineBytes)
	lineNo := 0
	headerSeen := false
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if !headerSeen {
			headerSeen = true
			continue
		}

		product, reason := parseLine(line)
		if reason != "" {
			res.Rejected = append(res.Rejected, RejectedRow{Line: lineNo, Raw: line, Reason: reason})
			continue
		}
		res.Products = append(res.Products, product)
	}
	if err := scanner.Err(); err != nil {
		return Result{}, fmt.Errorf("failed to read csv: %w", err)
	}

	if len(res.Products) == 0 {
		return res, ErrEmptyCatalog
	}

	return res, nil
}

// ParseFile opens a .csv file and parses it.
func ParseFile(path string) (Result, error) {
	if !strings.EqualFold(filepath.Ext(path), ".csv") {
		return Result{}, fmt.Errorf("%w: %s", ErrUnsupportedFileType, filepath.Base(path))
	}

	f, err := os.Open(path)
	if err != nil {
		return Result{}, fmt.Errorf("failed to open csv file: %w", err)
	}
	defer f.Close()

	return Parse(f)
}

func parseLine(line string) (domain.Product, string) {
	parts := strings.Split(line, ",")
	if len(parts) < minFields {
		return domain.Product{}, fmt.Sprintf("expected at least %d fields, got %d", minFields, len(parts))
	}
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	name := parts[0]
	if name == "" {
		return domain.Product{}, "product name is empty"
	}

	price, err := decimal.NewFromString(parts[1])
	if err != nil {
		price = decimal.Zero
	}
	if exp := price.Exponent(); exp < -maxPriceExponent || exp > maxPriceExponent {
		return domain.Product{}, fmt.Sprintf("price %q is out of range", parts[1])
	}
	if !price.IsPositive() {
		return domain.Product{}, fmt.Sprintf("price %q must be a positive number", parts[1])
	}

	qty, ok := leadingInt(parts[2])
	if !ok {
		return domain.Product{}, fmt.Sprintf("quantity %q is out of range", parts[2])
	}
	if qty < 0 {
		return domain.Product{}, fmt.Sprintf("quantity %q must not be negative", parts[2])
	}

	return domain.Product{
		ID:                uuid.NewString(),
		Name:              name,
		Price:             price,
		AvailableQuantity: qty,
	}, ""
}

// leadingInt reads the optionally signed integer that s starts with, so
// "10.0" and "20 units" both count. Text without leading digits is 0.
// ok is false only when the digits overflow an int.
func leadingInt(s string) (n int, ok bool) {
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	start := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == start {
		return 0, true
	}

	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, false
	}
	return n, true
}

// Template returns a sample catalog that Parse accepts.
func Template() string {
	return `product_name,price_usd,available_quantity
Banana,0.50,100
Tomato,1.25,50
Bread,2.00,30
Milk 1L,3.50,20
Eggs (dozen),5.00,15
Rice 5kg,12.00,10
Oil 1L,4.50,8`
}
