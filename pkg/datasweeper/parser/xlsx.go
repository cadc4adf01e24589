package parser

import (
	"errors"
	"io"
	"slices"

	"github.com/ukaji3/datasweeper-go/pkg/datasweeper/table"
	"github.com/xuri/excelize/v2"
)

// ErrNoSheets indicates a workbook without worksheets.
var ErrNoSheets = errors.New("workbook has no sheets")

// ReadXLSX decodes the first sheet of a workbook.
// The first non-empty row of the used range is the header.
func ReadXLSX(r io.Reader) (*table.Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrNoSheets
	}
	rows, text, err := ExtractRows(f, sheets[0])
	if err != nil {
		return nil, err
	}
	return loadRecords(rows, []string{""}, text)
}

// cellClass is what the stored type of a cell says about its value.
type cellClass int

const (
	cellEmpty cellClass = iota
	// cellText is a string cell. Its text is kept as is.
	cellText
	// cellValue is a number, boolean, date, error or formula result whose
	// text goes through null markers and type inference.
	cellValue
)

// ExtractRows returns the cell values of a sheet restricted to its data
// bounds, and for each column whether all its data cells are string cells.
//
// Values are raw, so number formats do not alter them; number cells with a
// date or time format are the exception and keep their formatted text.
// Boolean cells become "true" or "false". Outside all-text columns, cells
// matching NullValues are blanked. Rows shorter than the bounds are padded
// with empty cells.
func ExtractRows(f *excelize.File, sheetName string) ([][]string, []bool, error) {
	raw, err := f.GetRows(sheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, nil, err
	}

	minRow, maxRow, minCol, maxCol := findDataBounds(raw)
	if minRow < 0 {
		return nil, nil, nil
	}

	s := &sheetReader{f: f, sheet: sheetName, dateStyles: make(map[int]bool)}
	width := maxCol - minCol + 1
	result := make([][]string, 0, maxRow-minRow+1)
	classes := make([][]cellClass, 0, maxRow-minRow+1)
	for rowIdx := minRow; rowIdx <= maxRow; rowIdx++ {
		row := raw[rowIdx]
		out := make([]string, width)
		class := make([]cellClass, width)
		for colIdx := minCol; colIdx <= maxCol && colIdx < len(row); colIdx++ {
			if row[colIdx] == "" {
				continue
			}
			v, c, err := s.cell(rowIdx, colIdx, row[colIdx])
			if err != nil {
				return nil, nil, err
			}
			out[colIdx-minCol], class[colIdx-minCol] = v, c
		}
		result = append(result, out)
		classes = append(classes, class)
	}

	text := textColumns(classes[1:], width)
	for _, row := range result[1:] {
		for col, v := range row {
			if !text[col] && slices.Contains(NullValues, v) {
				row[col] = ""
			}
		}
	}
	return result, text, nil
}

// textColumns reports the columns whose non-empty data cells are all
// string cells. A column without data is not a text column.
func textColumns(classes [][]cellClass, width int) []bool {
	text := make([]bool, width)
	for col := range text {
		seen := false
		text[col] = true
		for _, row := range classes {
			switch row[col] {
			case cellEmpty:
				continue
			case cellValue:
				text[col] = false
			}
			seen = true
		}
		text[col] = text[col] && seen
	}
	return text
}

// sheetReader resolves cell types and styles of one worksheet.
type sheetReader struct {
	f          *excelize.File
	sheet      string
	dateStyles map[int]bool
	formatted  [][]string
}

// cell classifies the non-empty raw value at 0-based (row, col).
func (s *sheetReader) cell(row, col int, raw string) (string, cellClass, error) {
	name, err := excelize.CoordinatesToCellName(col+1, row+1)
	if err != nil {
		return "", cellEmpty, err
	}
	typ, err := s.f.GetCellType(s.sheet, name)
	if err != nil {
		return "", cellEmpty, err
	}

	switch typ {
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString, excelize.CellTypeFormula:
		return raw, cellText, nil
	case excelize.CellTypeBool:
		if raw == "1" {
			return "true", cellValue, nil
		}
		return "false", cellValue, nil
	case excelize.CellTypeUnset, excelize.CellTypeNumber:
		isDate, err := s.dateStyled(name)
		if err != nil {
			return "", cellEmpty, err
		}
		if isDate {
			v, err := s.formattedValue(row, col)
			return v, cellValue, err
		}
	}
	return raw, cellValue, nil
}

// dateStyled reports whether the cell's number format shows a date or time.
func (s *sheetReader) dateStyled(name string) (bool, error) {
	id, err := s.f.GetCellStyle(s.sheet, name)
	if err != nil || id == 0 {
		return false, err
	}
	if isDate, ok := s.dateStyles[id]; ok {
		return isDate, nil
	}
	style, err := s.f.GetStyle(id)
	if err != nil {
		return false, err
	}
	isDate := isDateFormat(style)
	s.dateStyles[id] = isDate
	return isDate, nil
}

func (s *sheetReader) formattedValue(row, col int) (string, error) {
	if s.formatted == nil {
		rows, err := s.f.GetRows(s.sheet)
		if err != nil {
			return "", err
		}
		s.formatted = rows
	}
	if row < len(s.formatted) && col < len(s.formatted[row]) {
		return s.formatted[row][col], nil
	}
	return "", nil
}

// Built-in number formats showing dates or times, CJK variants included.
var dateNumFmts = map[int]bool{
	14: true, 15: true, 16: true, 17: true, 18: true, 19: true, 20: true, 21: true, 22: true,
	27: true, 28: true, 29: true, 30: true, 31: true, 32: true, 33: true, 34: true, 35: true, 36: true,
	45: true, 46: true, 47: true,
	50: true, 51: true, 52: true, 53: true, 54: true, 55: true, 56: true, 57: true, 58: true,
}

func isDateFormat(style *excelize.Style) bool {
	if style == nil {
		return false
	}
	if dateNumFmts[style.NumFmt] {
		return true
	}
	return style.CustomNumFmt != nil && hasDateTokens(*style.CustomNumFmt)
}

// hasDateTokens reports whether a format code has a year, month, day,
// hour, minute or second part outside quoted text, escapes and brackets.
func hasDateTokens(code string) bool {
	for i := 0; i < len(code); i++ {
		switch c := code[i]; c {
		case '"':
			for i++; i < len(code) && code[i] != '"'; i++ {
			}
		case '[':
			for i++; i < len(code) && code[i] != ']'; i++ {
			}
		case '\\', '_', '*':
			i++
		case 'y', 'Y', 'm', 'M', 'd', 'D', 'h', 'H', 's', 'S':
			return true
		}
	}
	return false
}

// findDataBounds finds the bounding box of non-empty cells.
// All bounds are -1 when the sheet holds no data.
func findDataBounds(rows [][]string) (minRow, maxRow, minCol, maxCol int) {
	minRow, maxRow = -1, -1
	minCol, maxCol = -1, -1

	for rowIdx, row := range rows {
		for colIdx, cell := range row {
			if cell == "" {
				continue
			}
			if minRow < 0 {
				minRow = rowIdx
			}
			maxRow = rowIdx
			if minCol < 0 || colIdx < minCol {
				minCol = colIdx
			}
			if colIdx > maxCol {
				maxCol = colIdx
			}
		}
	}

	return
}
