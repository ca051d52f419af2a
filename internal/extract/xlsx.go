package extract

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"io"
	"sort"
	"strconv"
	"strings"
)

// XlsxRows reads up to maxRows rows from every worksheet in an xlsx archive.
// Cells are placed at their true column positions (A=0, B=1, ...) so callers
// can rely on column layout; missing cells are empty strings.
func XlsxRows(content []byte, maxRows int) ([][]string, error) {
	zr, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, err
	}

	shared, err := sharedStrings(zr)
	if err != nil {
		return nil, err
	}

	var sheetNames []string
	for _, f := range zr.File {
		if strings.HasPrefix(f.Name, "xl/worksheets/sheet") && strings.HasSuffix(f.Name, ".xml") {
			sheetNames = append(sheetNames, f.Name)
		}
	}
	sort.Strings(sheetNames)

	var rows [][]string
	for _, name := range sheetNames {
		sheetRows, err := sheetRows(zr, name, shared, maxRows)
		if err != nil {
			return nil, err
		}
		rows = append(rows, sheetRows...)
	}
	return rows, nil
}

func sharedStrings(zr *zip.Reader) ([]string, error) {
	for _, f := range zr.File {
		if f.Name != "xl/sharedStrings.xml" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, err
		}
		defer rc.Close()

		var strs []string
		var current strings.Builder
		var inT bool

		decoder := xml.NewDecoder(rc)
		for {
			tok, err := decoder.Token()
			if err != nil {
				break
			}
			switch t := tok.(type) {
			case xml.StartElement:
				switch t.Name.Local {
				case "si":
					current.Reset()
				case "t":
					inT = true
				}
			case xml.CharData:
				if inT {
					current.Write(t)
				}
			case xml.EndElement:
				switch t.Name.Local {
				case "t":
					inT = false
				case "si":
					strs = append(strs, current.String())
				}
			}
		}
		return strs, nil
	}
	return nil, nil
}

func sheetRows(zr *zip.Reader, name string, shared []string, maxRows int) ([][]string, error) {
	var file io.ReadCloser
	for _, f := range zr.File {
		if f.Name == name {
			rc, err := f.Open()
			if err != nil {
				return nil, err
			}
			file = rc
			break
		}
	}
	if file == nil {
		return nil, nil
	}
	defer file.Close()

	var rows [][]string
	var row []string
	var cellValue strings.Builder
	var cellType string
	var cellCol int
	var inValue bool

	decoder := xml.NewDecoder(file)
	for len(rows) < maxRows {
		tok, err := decoder.Token()
		if err != nil {
			break
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "row":
				row = nil
			case "c":
				cellType = ""
				cellCol = len(row)
				for _, attr := range t.Attr {
					switch attr.Name.Local {
					case "t":
						cellType = attr.Value
					case "r":
						cellCol = columnIndex(attr.Value)
					}
				}
			case "v", "t":
				inValue = true
				cellValue.Reset()
			}
		case xml.CharData:
			if inValue {
				cellValue.Write(t)
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "v", "t":
				inValue = false
			case "c":
				val := cellValue.String()
				if cellType == "s" {
					if idx, err := strconv.Atoi(val); err == nil && idx >= 0 && idx < len(shared) {
						val = shared[idx]
					}
				}
				for len(row) <= cellCol {
					row = append(row, "")
				}
				row[cellCol] = val
				cellValue.Reset()
			case "row":
				rows = append(rows, row)
			}
		}
	}
	return rows, nil
}

// columnIndex converts a cell reference like "B2" to a zero-based column.
func columnIndex(ref string) int {
	col := 0
	for _, r := range ref {
		if r < 'A' || r > 'Z' {
			break
		}
		col = col*26 + int(r-'A') + 1
	}
	if col == 0 {
		return 0
	}
	return col - 1
}
