package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"

	"github.com/YelzhanWeb/ordertaker/internal/adapter/csvimport"
	"github.com/YelzhanWeb/ordertaker/internal/domain"
)

func TestParseItemArgs(t *testing.T) {
	items, err := parseItemArgs([]string{"abc=3", "def", " ghi = 2 "})
	require.NoError(t, err)
	assert.Equal(t, []itemArg{{"abc", 3}, {"def", 1}, {"ghi", 2}}, items)

	for _, bad := range [][]string{nil, {"=3"}, {"abc=many"}} {
		_, err := parseItemArgs(bad)
		assert.Error(t, err, "%v", bad)
	}
}

// run executes the CLI against a file store in dir and returns stdout.
func run(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()

	t.Setenv("ORDERTAKER_STORAGE_PATH", filepath.Join(dir, "store.json"))
	t.Setenv("ORDERTAKER_LOG_LEVEL", "error")

	var out, errOut bytes.Buffer
	app := newApp()
	app.Writer = &out
	app.ErrWriter = &errOut
	app.ExitErrHandler = func(*cli.Context, error) {}

	err := app.Run(append([]string{appName, "--config", filepath.Join(dir, "missing.yaml")}, args...))
	return out.String(), err
}

func TestCLIWorkflow(t *testing.T) {
	dir := t.TempDir()
	catalogPath := filepath.Join(dir, "catalog.csv")
	require.NoError(t, os.WriteFile(catalogPath, []byte("name,price,qty\nBanana,0.50,100\nBread,2.00,30\nbroken\n"), 0o600))

	out, err := run(t, dir, "import", catalogPath)
	require.NoError(t, err)
	assert.Contains(t, out, "skipped line 4")
	assert.Contains(t, out, "✓ Loaded 2 products")

	out, err = run(t, dir, "products", "--search", "ban")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	fields := strings.Fields(lines[1])
	bananaID := fields[0]
	assert.Equal(t, "Banana", fields[1])

	out, err = run(t, dir, "products", "--id", bananaID)
	require.NoError(t, err)
	assert.Contains(t, out, "Banana")
	assert.Contains(t, out, "$0.50")

	_, err = run(t, dir, "products", "--id", "missing")
	assert.ErrorIs(t, err, domain.ErrProductNotFound)

	out, err = run(t, dir, "order", "--pickup-time", "17:00", bananaID+"=3")
	require.NoError(t, err)
	assert.Contains(t, out, "Order ORDER-")
	assert.Contains(t, out, "total $1.50")
	assert.Contains(t, out, "https://wa.me/263780616728?text=")

	_, err = run(t, dir, "order", bananaID+"=101")
	assert.Error(t, err)

	out, err = run(t, dir, "orders", "--filter", "not_paid")
	require.NoError(t, err)
	assert.Contains(t, out, "not_paid")
	id := strings.Fields(strings.Split(strings.TrimSpace(out), "\n")[1])[0]

	out, err = run(t, dir, "set-status", id, "ready")
	require.NoError(t, err)
	assert.Contains(t, out, id+" is now ready")

	_, err = run(t, dir, "set-payment", id, "refunded")
	assert.Error(t, err)

	out, err = run(t, dir, "message", id)
	require.NoError(t, err)
	assert.Contains(t, out, "🕐 Time: 17:00")

	_, err = run(t, dir, "clear-orders")
	assert.Error(t, err)

	_, err = run(t, dir, "clear-orders", "--yes")
	require.NoError(t, err)

	out, err = run(t, dir, "orders")
	require.NoError(t, err)
	assert.Contains(t, out, "No orders found")
}

func TestTemplateCommand(t *testing.T) {
	out, err := run(t, t.TempDir(), "template")
	require.NoError(t, err)
	assert.Equal(t, csvimport.Template()+"\n", out)
}

func TestNotificationsRequireRabbitMQ(t *testing.T) {
	_, err := run(t, t.TempDir(), "notifications")
	assert.ErrorContains(t, err, "rabbitmq is disabled")
}
