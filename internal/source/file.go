package source

import (
	"context"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"
)

// CSVFile reads a locally saved export of the portfolio sheet.
type CSVFile struct {
	path string
	log  *logrus.Logger
}

func NewCSVFile(path string, log *logrus.Logger) *CSVFile {
	return &CSVFile{path: path, log: log}
}

func (c *CSVFile) Name() string { return "csv" }

func (c *CSVFile) Fetch(ctx context.Context) (*RawTable, error) {
	f, err := os.Open(c.path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetch, err)
	}
	defer f.Close()
	t, err := ParseCSV(f)
	if err != nil {
		return nil, err
	}
	c.log.Debugf("read %d rows from %s", len(t.Rows), c.path)
	return t, nil
}

// XLSXFile reads a workbook downloaded from the spreadsheet host. When sheet
// is empty the first sheet of the workbook is used.
type XLSXFile struct {
	path  string
	sheet string
	log   *logrus.Logger
}

func NewXLSXFile(path, sheet string, log *logrus.Logger) *XLSXFile {
	return &XLSXFile{path: path, sheet: sheet, log: log}
}

func (x *XLSXFile) Name() string { return "xlsx" }

func (x *XLSXFile) Fetch(ctx context.Context) (*RawTable, error) {
	f, err := excelize.OpenFile(x.path)
	if err != nil {
		return nil, fmt.Errorf("%w: open workbook: %v", ErrFetch, err)
	}
	defer f.Close()

	sheet := x.sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("%w: workbook %s has no sheets", ErrFetch, x.path)
		}
		sheet = sheets[0]
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("%w: read sheet %q: %v", ErrFetch, sheet, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: sheet %q is empty", ErrFetch, sheet)
	}
	t := NewRawTable(rows[0], rows[1:])
	x.log.Debugf("read %d rows from %s[%s]", len(t.Rows), x.path, sheet)
	return t, nil
}
