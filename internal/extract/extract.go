// Package extract pulls a bounded text excerpt out of an uploaded document.
// Extraction is best effort: every failure is logged and yields an empty
// string, never an error, so the classifier's "not enough signal" branch stays
// simple.
package extract

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/sirupsen/logrus"
)

const (
	// DefaultMaxQuestions bounds how many question blocks are collected from
	// a docx before extraction stops (keeps the AI prompt small).
	DefaultMaxQuestions = 5

	maxXlsxRows = 20
	maxTxtChars = 3000
)

// QuestionMarker matches the start of a question line: "Câu 1", "Question 2", "Q3".
// Shared with the quiz parser.
var QuestionMarker = regexp.MustCompile(`(?i)^(?:Câu|Question|Q)\s*\d+`)

// Text extracts an excerpt from content, dispatching on the filename
// extension. Unknown extensions are attempted as plain text; binary formats
// like PDF will mostly yield an empty result, which is accepted.
func Text(content []byte, filename string, maxQuestions int) string {
	if maxQuestions <= 0 {
		maxQuestions = DefaultMaxQuestions
	}

	ext := ""
	if idx := strings.LastIndex(filename, "."); idx >= 0 {
		ext = strings.ToLower(filename[idx+1:])
	}

	switch ext {
	case "docx":
		return fromDocx(content, maxQuestions)
	case "xlsx", "xls":
		return fromXlsx(content)
	default:
		return fromTxt(content)
	}
}

// fromDocx walks word/document.xml paragraph by paragraph, stopping once more
// than maxQuestions question markers have been seen.
func fromDocx(content []byte, maxQuestions int) string {
	paragraphs, err := DocxParagraphs(content)
	if err != nil {
		logrus.WithError(err).Warn("failed to extract text from DOCX")
		return ""
	}

	var collected []string
	questionCount := 0
	for _, p := range paragraphs {
		if QuestionMarker.MatchString(p.Text) {
			questionCount++
			if questionCount > maxQuestions {
				break
			}
		}
		collected = append(collected, p.Text)
	}
	return strings.Join(collected, "\n")
}

// Paragraph is one non-empty docx paragraph.
type Paragraph struct {
	Text string
	// Bold reports whether any text run in the paragraph is bold. The quiz
	// parser uses this to detect correct answers.
	Bold bool
}

// DocxParagraphs reads word/document.xml out of the ZIP container and streams
// its paragraphs in document order.
func DocxParagraphs(content []byte) ([]Paragraph, error) {
	zr, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, err
	}

	var docFile *zip.File
	for _, f := range zr.File {
		if f.Name == "word/document.xml" {
			docFile = f
			break
		}
	}
	if docFile == nil {
		return nil, errors.New("word/document.xml not found in archive")
	}

	rc, err := docFile.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	decoder := xml.NewDecoder(rc)
	var paragraphs []Paragraph
	var text strings.Builder
	var inParagraph, inRunProps, bold bool

	for {
		tok, err := decoder.Token()
		if err != nil {
			break
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "p":
				inParagraph = true
				text.Reset()
				bold = false
			case "rPr":
				inRunProps = true
			case "b":
				// <w:b/> inside run properties marks the run bold unless
				// explicitly set to "0"/"false"
				if inParagraph && inRunProps {
					val := ""
					for _, attr := range t.Attr {
						if attr.Name.Local == "val" {
							val = attr.Value
						}
					}
					if val != "0" && val != "false" {
						bold = true
					}
				}
			}

		case xml.CharData:
			if inParagraph && !inRunProps {
				text.Write(t)
			}

		case xml.EndElement:
			switch t.Name.Local {
			case "rPr":
				inRunProps = false
			case "p":
				if inParagraph {
					inParagraph = false
					if s := strings.TrimSpace(text.String()); s != "" {
						paragraphs = append(paragraphs, Paragraph{Text: s, Bold: bold})
					}
				}
			}
		}
	}
	return paragraphs, nil
}

// fromXlsx joins non-empty cell values per row, up to maxXlsxRows rows on each
// sheet.
func fromXlsx(content []byte) string {
	rows, err := XlsxRows(content, maxXlsxRows)
	if err != nil {
		logrus.WithError(err).Warn("failed to extract text from XLSX")
		return ""
	}

	var texts []string
	for _, row := range rows {
		var cells []string
		for _, cell := range row {
			if cell != "" {
				cells = append(cells, cell)
			}
		}
		if joined := strings.Join(cells, " "); strings.TrimSpace(joined) != "" {
			texts = append(texts, joined)
		}
	}
	return strings.Join(texts, "\n")
}

// fromTxt decodes as UTF-8 (invalid bytes dropped) and truncates on rune count.
func fromTxt(content []byte) string {
	text := strings.ToValidUTF8(string(content), "")
	if utf8.RuneCountInString(text) > maxTxtChars {
		text = string([]rune(text)[:maxTxtChars])
	}
	return text
}
