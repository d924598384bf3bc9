package main

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/stockflow-api/internal/application/dto"
)

// catalogRow ítem del catálogo con su stock inicial.
type catalogRow struct {
	Item         dto.CreateItemRequest
	InitialStock int
	ExpiryDays   int // 0 = vencimiento por defecto del ajuste
}

// Encabezados esperados (orden libre):
// code,name,cost_price,selling_price,reorder_point,initial_stock,expiry_days
var requiredColumns = []string{"code", "name", "selling_price"}

// parseCatalog lee el CSV del catálogo. Si el contenido no es UTF-8 válido se decodifica como
// ISO-8859-1 (exportaciones de Excel en español). Quita el BOM UTF-8 si existe.
func parseCatalog(r io.Reader) ([]catalogRow, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	raw = bytes.TrimPrefix(raw, []byte{0xEF, 0xBB, 0xBF})
	var src io.Reader = bytes.NewReader(raw)
	if !utf8.Valid(raw) {
		src = transform.NewReader(src, charmap.ISO8859_1.NewDecoder())
	}

	cr := csv.NewReader(bufio.NewReader(src))
	cr.TrimLeadingSpace = true
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("catalog: missing header")
	}
	if err != nil {
		return nil, fmt.Errorf("catalog header: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, c := range requiredColumns {
		if _, ok := cols[c]; !ok {
			return nil, fmt.Errorf("catalog: missing column %q", c)
		}
	}

	field := func(rec []string, name string) string {
		i, ok := cols[name]
		if !ok || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}

	var out []catalogRow
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("catalog line %d: %w", line, err)
		}
		if field(rec, "code") == "" {
			continue
		}
		row, err := toCatalogRow(rec, field)
		if err != nil {
			return nil, fmt.Errorf("catalog line %d: %w", line, err)
		}
		out = append(out, row)
	}
	return out, nil
}

func toCatalogRow(rec []string, field func([]string, string) string) (catalogRow, error) {
	row := catalogRow{Item: dto.CreateItemRequest{
		Code: field(rec, "code"),
		Name: field(rec, "name"),
	}}
	var err error
	if row.Item.SellingPrice, err = decimalOrZero(field(rec, "selling_price")); err != nil {
		return row, fmt.Errorf("selling_price: %w", err)
	}
	if row.Item.CostPrice, err = decimalOrZero(field(rec, "cost_price")); err != nil {
		return row, fmt.Errorf("cost_price: %w", err)
	}
	if row.Item.ReorderPoint, err = intOrZero(field(rec, "reorder_point")); err != nil {
		return row, fmt.Errorf("reorder_point: %w", err)
	}
	if row.InitialStock, err = intOrZero(field(rec, "initial_stock")); err != nil {
		return row, fmt.Errorf("initial_stock: %w", err)
	}
	if row.ExpiryDays, err = intOrZero(field(rec, "expiry_days")); err != nil {
		return row, fmt.Errorf("expiry_days: %w", err)
	}
	return row, nil
}

func decimalOrZero(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(strings.ReplaceAll(s, ",", "."))
}

func intOrZero(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.Atoi(s)
}

// demoCatalog catálogo por defecto cuando no se pasa -catalog.
func demoCatalog() []catalogRow {
	mk := func(code, name, cost, price string, rp, stock, expiry int) catalogRow {
		return catalogRow{
			Item: dto.CreateItemRequest{
				Code: code, Name: name, ReorderPoint: rp,
				CostPrice: decimal.RequireFromString(cost), SellingPrice: decimal.RequireFromString(price),
			},
			InitialStock: stock,
			ExpiryDays:   expiry,
		}
	}
	return []catalogRow{
		mk("YOG-001", "Yogur natural 1L", "1.10", "1.90", 20, 60, 21),
		mk("MLK-001", "Leche entera 1L", "0.70", "1.15", 40, 120, 10),
		mk("CHS-001", "Queso fresco 500g", "2.40", "3.80", 10, 8, 30),
		mk("RCE-001", "Arroz 1kg", "0.90", "1.45", 30, 200, 0),
	}
}
