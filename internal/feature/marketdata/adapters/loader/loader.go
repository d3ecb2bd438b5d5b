// Package loader は表計算ファイル（.xlsx）およびCSVから価格バーを読み込みます。
//
// 列の並びは datetime, open, high, low, close, volume, instrument で固定です。
// 先頭行はヘッダーとして読み飛ばします。
package loader

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"stock_analyzer/internal/feature/marketdata/domain"
	"stock_analyzer/internal/feature/marketdata/domain/entity"
	"stock_analyzer/internal/feature/marketdata/usecase"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

const columnCount = 7

// 日時セルとして受け付けるレイアウト
var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"01/02/2006",
	"1/2/2006",
}

// FileLoader は拡張子に応じてxlsxまたはCSVを読み込むBarLoader実装です。
type FileLoader struct {
	sheet string
}

var _ usecase.BarLoader = (*FileLoader)(nil)

// NewFileLoader は FileLoader を生成します。sheet が空の場合はブックの最初のシートを使います。
func NewFileLoader(sheet string) *FileLoader {
	return &FileLoader{sheet: sheet}
}

// Load はファイルを読み込み、行ごとに PriceBar へ変換します。
func (l *FileLoader) Load(ctx context.Context, path string) ([]entity.PriceBar, error) {
	var (
		rows [][]string
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		rows, err = l.readXLSX(path)
	case ".csv":
		rows, err = readCSV(path)
	default:
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedFormat, filepath.Ext(path))
	}
	if err != nil {
		return nil, err
	}
	return ParseRows(ctx, rows)
}

func (l *FileLoader) readXLSX(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	sheet := l.sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("%s: workbook has no sheets", path)
		}
		sheet = sheets[0]
	}
	// 日付セルはシリアル値のまま受け取り、parseTime で変換する
	return f.GetRows(sheet, excelize.Options{RawCellValue: true})
}

func readCSV(path string) ([][]string, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = fh.Close() }()

	r := csv.NewReader(fh)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true
	return r.ReadAll()
}

// ParseRows はヘッダー行を除く各行を PriceBar に変換します。空行は無視します。
func ParseRows(ctx context.Context, rows [][]string) ([]entity.PriceBar, error) {
	if len(rows) == 0 {
		return nil, nil
	}
	out := make([]entity.PriceBar, 0, len(rows)-1)
	for i, row := range rows[1:] {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if isBlank(row) {
			continue
		}
		line := i + 2
		if len(row) < columnCount {
			return nil, fmt.Errorf("row %d: expected %d columns, got %d", line, columnCount, len(row))
		}
		b, err := parseRow(row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", line, err)
		}
		out = append(out, b)
	}
	return out, nil
}

func parseRow(row []string) (entity.PriceBar, error) {
	tm, err := parseTime(row[0])
	if err != nil {
		return entity.PriceBar{}, err
	}
	prices := make([]decimal.Decimal, 4)
	for j, name := range []string{"open", "high", "low", "close"} {
		d, err := decimal.NewFromString(strings.TrimSpace(row[j+1]))
		if err != nil {
			return entity.PriceBar{}, fmt.Errorf("parse %s %q: %w", name, row[j+1], err)
		}
		prices[j] = d
	}
	vol, err := parseVolume(row[5])
	if err != nil {
		return entity.PriceBar{}, err
	}
	return entity.PriceBar{
		Instrument: strings.TrimSpace(row[6]),
		Time:       tm,
		Open:       prices[0],
		High:       prices[1],
		Low:        prices[2],
		Close:      prices[3],
		Volume:     vol,
	}, nil
}

func parseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timeLayouts {
		if tm, err := time.Parse(layout, s); err == nil {
			return tm, nil
		}
	}
	// Excel のシリアル日付
	if serial, err := strconv.ParseFloat(s, 64); err == nil {
		tm, err := excelize.ExcelDateToTime(serial, false)
		if err != nil {
			return time.Time{}, fmt.Errorf("parse datetime %q: %w", s, err)
		}
		return tm.UTC(), nil
	}
	return time.Time{}, fmt.Errorf("parse datetime %q: unrecognized format", s)
}

func parseVolume(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if v, err := strconv.ParseInt(s, 10, 64); err == nil {
		return v, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("parse volume %q: %w", s, err)
	}
	return d.IntPart(), nil
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
