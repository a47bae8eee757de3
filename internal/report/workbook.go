package report

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"
)

const defaultSheet = "Sheet1"

// Sheet is one worksheet: a header row followed by typed rows.
type Sheet struct {
	Name   string
	Header []string
	Rows   [][]any
}

// WriteFunc persists sheets to path.
type WriteFunc func(path string, sheets []Sheet) error

// WriteWorkbook writes sheets, in order, to a new xlsx file at path.
// The file is written whole; nothing is left behind when an error is returned.
func WriteWorkbook(path string, sheets []Sheet) error {
	if path == "" {
		return errors.New("report: empty workbook path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	for i, sheet := range sheets {
		if i == 0 {
			if err := f.SetSheetName(defaultSheet, sheet.Name); err != nil {
				return err
			}
		} else if _, err := f.NewSheet(sheet.Name); err != nil {
			return err
		}
		if err := writeSheet(f, sheet); err != nil {
			return err
		}
	}
	if len(sheets) > 0 {
		f.SetActiveSheet(0)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".workbook-*")
	if err != nil {
		return err
	}
	if _, err := f.WriteTo(tmp); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return err
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		_ = os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), path)
}

func writeSheet(f *excelize.File, sheet Sheet) error {
	header := make([]any, len(sheet.Header))
	for i, h := range sheet.Header {
		header[i] = h
	}
	if err := f.SetSheetRow(sheet.Name, "A1", &header); err != nil {
		return err
	}
	for i, row := range sheet.Rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := row
		if err := f.SetSheetRow(sheet.Name, cell, &values); err != nil {
			return err
		}
	}
	return nil
}
