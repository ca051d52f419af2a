package extract

import (
	"archive/zip"
	"bytes"
	"fmt"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// docxPara is a paragraph for the in-memory docx builder.
type docxPara struct {
	text string
	bold bool
}

func buildDocx(t *testing.T, paras ...docxPara) []byte {
	t.Helper()

	var body strings.Builder
	for _, p := range paras {
		if p.bold {
			fmt.Fprintf(&body, `<w:p><w:r><w:rPr><w:b/></w:rPr><w:t>%s</w:t></w:r></w:p>`, p.text)
		} else {
			fmt.Fprintf(&body, `<w:p><w:r><w:t>%s</w:t></w:r></w:p>`, p.text)
		}
	}
	doc := fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>%s</w:body></w:document>`, body.String())

	return buildZip(t, map[string]string{"word/document.xml": doc})
}

func buildXlsx(t *testing.T, sharedStrings []string, sheetRows [][]string) []byte {
	t.Helper()

	var sst strings.Builder
	sst.WriteString(`<?xml version="1.0"?><sst xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main">`)
	for _, s := range sharedStrings {
		fmt.Fprintf(&sst, `<si><t>%s</t></si>`, s)
	}
	sst.WriteString(`</sst>`)

	var sheet strings.Builder
	sheet.WriteString(`<?xml version="1.0"?><worksheet xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main"><sheetData>`)
	for r, row := range sheetRows {
		fmt.Fprintf(&sheet, `<row r="%d">`, r+1)
		for c, val := range row {
			if val == "" {
				continue
			}
			ref := fmt.Sprintf("%c%d", 'A'+c, r+1)
			// inline shared-string reference when the value is an index into sst
			fmt.Fprintf(&sheet, `<c r="%s" t="s"><v>%s</v></c>`, ref, val)
		}
		sheet.WriteString(`</row>`)
	}
	sheet.WriteString(`</sheetData></worksheet>`)

	return buildZip(t, map[string]string{
		"xl/sharedStrings.xml":     sst.String(),
		"xl/worksheets/sheet1.xml": sheet.String(),
	})
}

func buildZip(t *testing.T, files map[string]string) []byte {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range files {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestDocxParagraphs(t *testing.T) {
	content := buildDocx(t,
		docxPara{text: "Câu 1: Đây là câu hỏi?"},
		docxPara{text: "A. Sai"},
		docxPara{text: "B. Đúng", bold: true},
	)

	paras, err := DocxParagraphs(content)
	require.NoError(t, err)
	require.Len(t, paras, 3)

	assert.Equal(t, "Câu 1: Đây là câu hỏi?", paras[0].Text)
	assert.False(t, paras[0].Bold)
	assert.True(t, paras[2].Bold)
}

func TestDocxParagraphsMissingDocument(t *testing.T) {
	content := buildZip(t, map[string]string{"other.xml": "<x/>"})
	_, err := DocxParagraphs(content)
	assert.Error(t, err)
}

func TestTextDocxStopsAfterMaxQuestions(t *testing.T) {
	var paras []docxPara
	for i := 1; i <= 10; i++ {
		paras = append(paras, docxPara{text: fmt.Sprintf("Câu %d: nội dung câu hỏi", i)})
	}
	content := buildDocx(t, paras...)

	got := Text(content, "de-thi.docx", 5)
	assert.Contains(t, got, "Câu 5")
	assert.NotContains(t, got, "Câu 6")
}

func TestTextXlsx(t *testing.T) {
	content := buildXlsx(t,
		[]string{"Câu hỏi", "Đáp án A", "Đáp án B"},
		[][]string{
			{"0", "1", "2"},
		},
	)

	got := Text(content, "bang.xlsx", 0)
	assert.Equal(t, "Câu hỏi Đáp án A Đáp án B", got)
}

func TestXlsxRowsColumnPositions(t *testing.T) {
	// row with only column C filled must still index as position 2
	content := buildXlsx(t,
		[]string{"giá trị"},
		[][]string{
			{"", "", "0"},
		},
	)

	rows, err := XlsxRows(content, 10)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Len(t, rows[0], 3)
	assert.Equal(t, "", rows[0][0])
	assert.Equal(t, "giá trị", rows[0][2])
}

func TestTextPlain(t *testing.T) {
	got := Text([]byte("xin chào thế giới"), "ghi-chu.txt", 0)
	assert.Equal(t, "xin chào thế giới", got)
}

func TestTextPlainTruncates(t *testing.T) {
	long := strings.Repeat("a", maxTxtChars+500)
	got := Text([]byte(long), "to.txt", 0)
	assert.Len(t, got, maxTxtChars)
}

func TestTextPlainTruncatesOnRuneBoundary(t *testing.T) {
	long := strings.Repeat("ế", maxTxtChars+100)
	got := Text([]byte(long), "to.txt", 0)
	assert.Equal(t, maxTxtChars, utf8.RuneCountInString(got))
	assert.True(t, utf8.ValidString(got), "truncation must not split a character")
}

func TestTextCorruptDocxYieldsEmpty(t *testing.T) {
	got := Text([]byte("not a zip archive"), "hong.docx", 0)
	assert.Equal(t, "", got)
}

func TestQuestionMarker(t *testing.T) {
	assert.True(t, QuestionMarker.MatchString("Câu 1: nội dung"))
	assert.True(t, QuestionMarker.MatchString("question 12. text"))
	assert.True(t, QuestionMarker.MatchString("Q3 text"))
	assert.False(t, QuestionMarker.MatchString("nội dung Câu 1"))
}
