package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
)

func TestParseCatalog_UTF8WithBOM(t *testing.T) {
	in := "\xEF\xBB\xBFcode,name,selling_price,reorder_point,initial_stock,expiry_days\n" +
		"YOG,Yogur,\"1,90\",5,12,7\n" +
		",fila vacía,1,0,0,0\n" +
		"RCE,Arroz,1.45,,,\n"

	rows, err := parseCatalog(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "YOG", rows[0].Item.Code)
	assert.Equal(t, "1.9", rows[0].Item.SellingPrice.String())
	assert.Equal(t, 5, rows[0].Item.ReorderPoint)
	assert.Equal(t, 12, rows[0].InitialStock)
	assert.Equal(t, 7, rows[0].ExpiryDays)

	assert.Equal(t, "RCE", rows[1].Item.Code)
	assert.Equal(t, 0, rows[1].InitialStock)
}

func TestParseCatalog_Latin1(t *testing.T) {
	utf := "code,name,selling_price\nCAF,Café molido,4.20\n"
	latin, err := charmap.ISO8859_1.NewEncoder().Bytes([]byte(utf))
	require.NoError(t, err)

	rows, err := parseCatalog(bytes.NewReader(latin))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Café molido", rows[0].Item.Name)
}

func TestParseCatalog_Errors(t *testing.T) {
	cases := map[string]string{
		"vacío":           "",
		"sin columna":     "code,name\nA,B\n",
		"precio inválido": "code,name,selling_price\nA,B,abc\n",
		"entero inválido": "code,name,selling_price,initial_stock\nA,B,1,x\n",
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := parseCatalog(strings.NewReader(in))
			assert.Error(t, err)
		})
	}
}

func TestDemoCatalog(t *testing.T) {
	rows := demoCatalog()
	require.NotEmpty(t, rows)
	seen := map[string]bool{}
	for _, r := range rows {
		assert.False(t, seen[r.Item.Code], "código repetido %s", r.Item.Code)
		seen[r.Item.Code] = true
		assert.True(t, r.Item.SellingPrice.IsPositive())
	}
}
