package parser

import (
	"archive/zip"
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smartquiz/internal/extract"
)

func TestParseText(t *testing.T) {
	input := `Câu 1: Thủ đô của Việt Nam là gì?
A. Hồ Chí Minh
B. **Hà Nội**
C. Đà Nẵng
D. Huế

Câu 2: 1 + 1 bằng mấy?
A) 1
B) __2__
C) 3`

	questions := ParseText(input)
	require.Len(t, questions, 2)

	q1 := questions[0]
	assert.Equal(t, "Thủ đô của Việt Nam là gì?", q1.Text)
	require.Len(t, q1.Options, 4)
	assert.False(t, q1.Options[0].IsCorrect)
	assert.True(t, q1.Options[1].IsCorrect)
	assert.Equal(t, "Hà Nội", q1.Options[1].Text, "bold markers must be stripped")

	q2 := questions[1]
	require.Len(t, q2.Options, 3)
	assert.True(t, q2.Options[1].IsCorrect)
	assert.Equal(t, "2", q2.Options[1].Text)
}

func TestParseTextNoBoldMeansNothingMarked(t *testing.T) {
	input := `Câu 1: Hỏi gì đó?
A. một
B. hai`

	questions := ParseText(input)
	require.Len(t, questions, 1)
	for _, opt := range questions[0].Options {
		assert.False(t, opt.IsCorrect)
	}
}

func TestParseTextIgnoresOptionsBeforeFirstQuestion(t *testing.T) {
	input := `A. lạc lõng
Câu 1: câu hỏi thật?
A. đáp án`

	questions := ParseText(input)
	require.Len(t, questions, 1)
	require.Len(t, questions[0].Options, 1)
	assert.Equal(t, "đáp án", questions[0].Options[0].Text)
}

func TestParseTextQuestionWithoutOptionsDropped(t *testing.T) {
	input := `Câu 1: không có đáp án
Câu 2: có đáp án?
A. x
B. y`

	questions := ParseText(input)
	require.Len(t, questions, 1)
	assert.Equal(t, "có đáp án?", questions[0].Text)
}

func TestParseDocxBoldOptionIsCorrect(t *testing.T) {
	content := buildQuizDocx(t)

	questions, err := ParseDocx(content)
	require.NoError(t, err)
	require.Len(t, questions, 1)

	q := questions[0]
	assert.Equal(t, "Ngôn ngữ nào biên dịch ra mã máy?", q.Text)
	require.Len(t, q.Options, 3)
	assert.False(t, q.Options[0].IsCorrect)
	assert.True(t, q.Options[1].IsCorrect)
	assert.False(t, q.Options[2].IsCorrect)
}

func TestParseExcelRowLayout(t *testing.T) {
	// A=question, B..E=options, F=correct letter; first row is a header
	sheet := `<?xml version="1.0"?><worksheet xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main"><sheetData>
<row r="1"><c r="A1"><v>Question</v></c><c r="B1"><v>A</v></c></row>
<row r="2"><c r="A2"><v>2 + 2 = ?</v></c><c r="B2"><v>3</v></c><c r="C2"><v>4</v></c><c r="D2"><v>5</v></c><c r="F2"><v>B</v></c></row>
</sheetData></worksheet>`

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("xl/worksheets/sheet1.xml")
	require.NoError(t, err)
	_, err = w.Write([]byte(sheet))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	questions, err := ParseExcel(buf.Bytes())
	require.NoError(t, err)
	require.Len(t, questions, 1)

	q := questions[0]
	assert.Equal(t, "2 + 2 = ?", q.Text)
	require.Len(t, q.Options, 3)
	assert.False(t, q.Options[0].IsCorrect)
	assert.True(t, q.Options[1].IsCorrect, "column C is option B")
	assert.False(t, q.Options[2].IsCorrect)
}

func TestParseDocument(t *testing.T) {
	questions, err := ParseDocument([]byte("Câu 1: hỏi?\nA. **đúng**\nB. sai"), "de.txt")
	require.NoError(t, err)
	assert.Len(t, questions, 1)

	_, err = ParseDocument([]byte("%PDF-1.4"), "de.pdf")
	assert.Error(t, err)
}

func TestNewQuestionOptionIDs(t *testing.T) {
	q := newQuestion("text", []Option{{Text: "a"}, {Text: "b"}})
	require.Len(t, q.ID, 8)
	assert.Equal(t, q.ID+"_opt_0", q.Options[0].ID)
	assert.Equal(t, q.ID+"_opt_1", q.Options[1].ID)
}

// buildQuizDocx assembles a minimal one-question docx where option B is bold.
func buildQuizDocx(t *testing.T) []byte {
	t.Helper()

	doc := `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>
<w:p><w:r><w:t>Câu 1: Ngôn ngữ nào biên dịch ra mã máy?</w:t></w:r></w:p>
<w:p><w:r><w:t>A. Python</w:t></w:r></w:p>
<w:p><w:r><w:rPr><w:b/></w:rPr><w:t>B. Go</w:t></w:r></w:p>
<w:p><w:r><w:t>C. JavaScript</w:t></w:r></w:p>
</w:body></w:document>`

	content, err := buildDocxArchive(doc)
	require.NoError(t, err)

	// sanity: the builder must round-trip through the paragraph reader
	paras, err := extract.DocxParagraphs(content)
	require.NoError(t, err)
	require.Len(t, paras, 4)
	return content
}

func buildDocxArchive(documentXML string) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	if err != nil {
		return nil, err
	}
	if _, err := w.Write([]byte(documentXML)); err != nil {
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
