package cmd

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ndewijer/Broker-Document-Importer/internal/model"
	"github.com/ndewijer/Broker-Document-Importer/internal/secret"
	"github.com/ndewijer/Broker-Document-Importer/internal/testutil"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	root := NewRootCmd()
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func sample(name string) string {
	return filepath.Join(testutil.SampleDir(), name)
}

func TestDetectCmd(t *testing.T) {
	out, err := run(t, "detect", sample("buy_market_order.txt"), sample("other_broker.txt"))
	require.NoError(t, err)

	var got []detectOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got, 2)

	assert.Equal(t, "buy_market_order.txt", got[0].Name)
	assert.True(t, got[0].CanParse)
	assert.Equal(t, "buy-market", got[0].Variant)

	assert.False(t, got[1].CanParse)
	assert.NotEmpty(t, got[1].Error)
}

func TestParseCmd(t *testing.T) {
	t.Run("all documents parse", func(t *testing.T) {
		out, err := run(t, "parse", sample("sell_limit_order_stryker.txt"))
		require.NoError(t, err)

		var got []struct {
			Name     string         `json:"name"`
			Activity model.Activity `json:"activity"`
		}
		require.NoError(t, json.Unmarshal([]byte(out), &got))
		require.Len(t, got, 1)
		assert.Equal(t, model.ActivitySell, got[0].Activity.Type)
	})

	t.Run("failing document fails the command", func(t *testing.T) {
		out, err := run(t, "parse", sample("buy_limit_order.txt"), sample("garbled.txt"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "1 of 2")
		assert.Contains(t, out, `"error"`)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := run(t, "parse", filepath.Join(t.TempDir(), "missing.txt"))
		assert.Error(t, err)
	})

	t.Run("requires arguments", func(t *testing.T) {
		_, err := run(t, "parse")
		assert.Error(t, err)
	})
}

func TestImportCmd(t *testing.T) {
	t.Setenv("DOCUMENT_ENCRYPTION_KEY", "")
	t.Setenv("IMPORT_WORKERS", "2")
	dbPath := filepath.Join(t.TempDir(), "importer.db")

	out, err := run(t, "import", "--db", dbPath, sample("buy_limit_order.txt"), sample("dividend_royal_dutch_shell.txt"))
	require.NoError(t, err)

	var summary model.BatchImportSummary
	require.NoError(t, json.Unmarshal([]byte(out), &summary))
	assert.Equal(t, 2, summary.Imported)

	out, err = run(t, "import", "--db", dbPath, sample("buy_limit_order.txt"))
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), &summary))
	assert.Equal(t, 1, summary.Duplicate)
}

func TestKeygenCmd(t *testing.T) {
	out, err := run(t, "keygen")
	require.NoError(t, err)

	box, err := secret.NewBox(strings.TrimSpace(out))
	require.NoError(t, err)

	token, err := box.Encrypt("GESAMT 118,21 EUR")
	require.NoError(t, err)
	plain, err := box.Decrypt(token)
	require.NoError(t, err)
	assert.Equal(t, "GESAMT 118,21 EUR", plain)
}
