package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"dinein/internal/infra/qrcode"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitTables(t *testing.T) {
	assert.Equal(t, []string{"T1", "T2"}, splitTables(" T1, ,T2 "))
	assert.Empty(t, splitTables(""))
}

func TestGenerate(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "codes")
	qr := qrcode.NewQRCodeService(128, "L", "https://dine.example.com")
	var out bytes.Buffer

	require.NoError(t, generate(qr, []string{"T1", "T2"}, dir, &out))

	for _, table := range []string{"T1", "T2"} {
		png, err := os.ReadFile(filepath.Join(dir, table+".png"))
		require.NoError(t, err)
		assert.True(t, bytes.HasPrefix(png, []byte("\x89PNG")))
	}
	assert.Contains(t, out.String(), "https://dine.example.com/table/T1")

	assert.Error(t, generate(qr, []string{"bad id"}, dir, &out))
	assert.Error(t, generate(qr, nil, dir, &out))
}

func TestDecode(t *testing.T) {
	qr := qrcode.NewQRCodeService(0, "", "")
	var out bytes.Buffer

	require.NoError(t, decode(qr, []string{
		"https://dine.example.com/table/T1",
		`{"table_id":"T2","type":"table"}`,
	}, &out))
	assert.Equal(t, "T1\nT2\n", out.String())

	assert.Error(t, decode(qr, []string{"https://dine.example.com/menu"}, &out))
}
