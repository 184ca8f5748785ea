package services

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"
)

// RawLineItem is one cost line extracted from an uploaded contractor quote
// sheet. Prices are whole yen; Qty may be fractional.
type RawLineItem struct {
	Name   string  `json:"name"`
	Qty    float64 `json:"qty"`
	Unit   string  `json:"unit"`
	Price  float64 `json:"price"`
	Amount float64 `json:"amount"`
}

// Column-role keyword sets for header detection. Matching is substring
// containment on whitespace-stripped cell text.
var (
	nameKeywords   = []string{"品名", "項目", "名称", "明細"}
	qtyKeywords    = []string{"数量"}
	priceKeywords  = []string{"単価", "原価", "仕入"}
	amountKeywords = []string{"金額", "小計"}

	// A name cell containing one of these ends extraction: everything
	// below is totals, not line items.
	terminalKeywords = []string{"小計", "合計", "消費税"}
)

// headerScanWindow bounds how many leading rows are examined for a header.
const headerScanWindow = 30

// ExtractLineItems reads an uploaded spreadsheet and returns the cost lines
// found below its header row. Supported formats are .xlsx, legacy .xls and
// .csv. A sheet without a recognizable header yields an empty slice, not an
// error.
func ExtractLineItems(file io.Reader, fileName string) ([]RawLineItem, error) {
	lowerName := strings.ToLower(fileName)

	var grid [][]string
	var err error

	switch {
	case strings.HasSuffix(lowerName, ".xlsx"):
		grid, err = readExcelGrid(file)
	case strings.HasSuffix(lowerName, ".xls"):
		grid, err = readXLSGrid(file)
	case strings.HasSuffix(lowerName, ".csv"):
		grid, err = readCSVGrid(file)
	default:
		return nil, fmt.Errorf("unsupported file format: must be .xlsx, .xls or .csv")
	}
	if err != nil {
		return nil, err
	}

	return extractFromGrid(grid), nil
}

// readExcelGrid reads the first sheet of an xlsx file as a 2-D cell grid.
func readExcelGrid(file io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(file)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet: %w", err)
	}
	return rows, nil
}

// readXLSGrid reads the first sheet of a legacy BIFF .xls file as a 2-D
// cell grid.
func readXLSGrid(file io.Reader) ([][]string, error) {
	raw, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	wb, err := xls.OpenReader(bytes.NewReader(raw), "utf-8")
	if err != nil {
		return nil, fmt.Errorf("failed to open xls file: %w", err)
	}
	sheet := wb.GetSheet(0)
	if sheet == nil {
		return nil, errors.New("xls file has no sheets")
	}

	grid := make([][]string, 0, int(sheet.MaxRow)+1)
	for i := 0; i <= int(sheet.MaxRow); i++ {
		row := sheet.Row(i)
		if row == nil {
			grid = append(grid, nil)
			continue
		}
		last := row.LastCol()
		cols := make([]string, last)
		for j := 0; j < last; j++ {
			cols[j] = row.Col(j)
		}
		grid = append(grid, cols)
	}
	return grid, nil
}

// readCSVGrid reads a CSV file as a 2-D cell grid.
func readCSVGrid(file io.Reader) ([][]string, error) {
	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse CSV: %w", err)
	}
	return rows, nil
}

// columnRoles holds the claimed column index per role, -1 when unclaimed.
type columnRoles struct {
	name   int
	qty    int
	price  int
	amount int
}

// extractFromGrid locates the header row and emits one RawLineItem per data
// row, in sheet order.
func extractFromGrid(grid [][]string) []RawLineItem {
	headerRow := -1
	cols := columnRoles{name: -1, qty: -1, price: -1, amount: -1}

	limit := len(grid)
	if limit > headerScanWindow {
		limit = headerScanWindow
	}

	for i := 0; i < limit; i++ {
		row := normalizeRow(grid[i])

		hasName := rowMatchesAny(row, nameKeywords)
		hasPrice := rowMatchesAny(row, priceKeywords) || rowMatchesAny(row, amountKeywords)
		if !hasName || !hasPrice {
			continue
		}

		headerRow = i
		// Claim columns left to right, one role per column, in priority
		// order: name, qty, price, amount.
		for idx, cell := range row {
			switch {
			case cols.name == -1 && matchesAny(cell, nameKeywords):
				cols.name = idx
			case cols.qty == -1 && matchesAny(cell, qtyKeywords):
				cols.qty = idx
			case cols.price == -1 && matchesAny(cell, priceKeywords):
				cols.price = idx
			case cols.amount == -1 && matchesAny(cell, amountKeywords):
				cols.amount = idx
			}
		}
		break
	}

	if headerRow < 0 {
		return nil
	}

	var items []RawLineItem
	for j := headerRow + 1; j < len(grid); j++ {
		row := grid[j]

		name := strings.TrimSpace(cellAt(row, cols.name))
		if containsAny(stripSpace(name), terminalKeywords) {
			break
		}
		if name == "" {
			continue
		}

		qty := 1.0
		if cols.qty >= 0 {
			qty = ParseNumber(cellAt(row, cols.qty))
		}
		var price, amount float64
		if cols.price >= 0 {
			price = ParseNumber(cellAt(row, cols.price))
		}
		if cols.amount >= 0 {
			amount = ParseNumber(cellAt(row, cols.amount))
		}

		// Cross-fill: derive whichever of price/amount is missing.
		divisorQty := qty
		if divisorQty == 0 {
			divisorQty = 1
		}
		if amount == 0 && price > 0 {
			amount = price * divisorQty
		}
		if price == 0 && amount > 0 {
			price = float64(int64(amount / divisorQty))
		}
		if qty == 0 {
			qty = 1
		}

		items = append(items, RawLineItem{
			Name:   name,
			Qty:    qty,
			Unit:   DefaultUnit,
			Price:  price,
			Amount: amount,
		})
	}

	return items
}

// numericJunk matches any character that disqualifies a cell from numeric
// parsing: anything other than digits, separators, sign, currency symbols
// and whitespace. Free-text cells parse to 0 rather than a garbage number.
var numericJunk = regexp.MustCompile(`[^0-9,.\-¥円\s]`)

// nonNumeric strips everything but digits, period and minus before the
// final float parse.
var nonNumeric = regexp.MustCompile(`[^0-9.\-]`)

// ParseNumber parses a spreadsheet cell into a number, tolerating
// full-width digits, currency symbols, thousands separators and
// surrounding whitespace. Unparseable input yields 0.
func ParseNumber(val string) float64 {
	if val == "" {
		return 0
	}

	s := foldFullWidthDigits(val)
	if numericJunk.MatchString(s) {
		return 0
	}

	n, err := strconv.ParseFloat(nonNumeric.ReplaceAllString(s, ""), 64)
	if err != nil {
		return 0
	}
	return n
}

// foldFullWidthDigits converts full-width digits (０-９) to ASCII.
func foldFullWidthDigits(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '０' && r <= '９' {
			r = r - '０' + '0'
		}
		b.WriteRune(r)
	}
	return b.String()
}

// stripSpace removes all whitespace, including full-width spaces.
func stripSpace(s string) string {
	var b bytes.Buffer
	for _, r := range s {
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' || r == '　' {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func normalizeRow(row []string) []string {
	out := make([]string, len(row))
	for i, cell := range row {
		out[i] = stripSpace(cell)
	}
	return out
}

func cellAt(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

func matchesAny(cell string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(cell, k) {
			return true
		}
	}
	return false
}

func containsAny(s string, keywords []string) bool {
	if s == "" {
		return false
	}
	return matchesAny(s, keywords)
}

func rowMatchesAny(row []string, keywords []string) bool {
	for _, cell := range row {
		if matchesAny(cell, keywords) {
			return true
		}
	}
	return false
}
