// Package parser extracts quiz questions from Word, Excel and plain text
// documents. Correct answers are detected from bold formatting in docx option
// paragraphs (or **markers** in plain text).
package parser

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"smartquiz/internal/extract"
)

// "Câu 1: ...", "Question 2. ...", "Q3 ..."
var questionPattern = regexp.MustCompile(`(?i)^(?:Câu|Question|Q)\s*(\d+)\s*[:.]?\s*(.+)`)

// "a. ...", "B) ...", "c] ..."
var optionPattern = regexp.MustCompile(`(?i)^([a-dA-D])\s*[.)\]]\s*(.+)`)

var boldMarkers = regexp.MustCompile(`\*\*(.+?)\*\*|__(.+?)__`)

type Option struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	IsCorrect bool   `json:"is_correct"`
}

type Question struct {
	ID      string   `json:"id"`
	Text    string   `json:"text"`
	Options []Option `json:"options"`
}

// ParseDocument is the main entry point. The format is chosen by extension;
// unsupported extensions return an error.
func ParseDocument(content []byte, filename string) ([]Question, error) {
	lower := strings.ToLower(filename)
	switch {
	case strings.HasSuffix(lower, ".docx"):
		return ParseDocx(content)
	case strings.HasSuffix(lower, ".xlsx"), strings.HasSuffix(lower, ".xls"):
		return ParseExcel(content)
	case strings.HasSuffix(lower, ".txt"):
		return ParseText(string(content)), nil
	default:
		return nil, fmt.Errorf("định dạng file không được hỗ trợ: %s", filename)
	}
}

// ParseDocx walks document paragraphs: a question line opens a block, option
// lines attach to it, and a bold run inside an option paragraph marks the
// correct answer.
func ParseDocx(content []byte) ([]Question, error) {
	paragraphs, err := extract.DocxParagraphs(content)
	if err != nil {
		return nil, fmt.Errorf("không đọc được file Word: %w", err)
	}

	var questions []Question
	var currentText string
	var currentOptions []Option
	open := false

	flush := func() {
		if open && len(currentOptions) > 0 {
			questions = append(questions, newQuestion(currentText, currentOptions))
		}
	}

	for _, p := range paragraphs {
		if m := questionPattern.FindStringSubmatch(p.Text); m != nil {
			flush()
			currentText = strings.TrimSpace(m[2])
			currentOptions = nil
			open = true
			continue
		}

		if m := optionPattern.FindStringSubmatch(p.Text); m != nil && open {
			currentOptions = append(currentOptions, Option{
				Text:      strings.TrimSpace(m[2]),
				IsCorrect: p.Bold,
			})
		}
	}
	flush()

	return questions, nil
}

// ParseExcel expects one question per row:
// A = question, B..E = options A..D, F = correct answer letter.
// The first row is treated as a header.
func ParseExcel(content []byte) ([]Question, error) {
	rows, err := extract.XlsxRows(content, 1000)
	if err != nil {
		return nil, fmt.Errorf("không đọc được file Excel: %w", err)
	}

	var questions []Question
	for i, row := range rows {
		if i == 0 || len(row) == 0 || strings.TrimSpace(row[0]) == "" {
			continue
		}

		correct := ""
		if len(row) > 5 {
			correct = strings.ToUpper(strings.TrimSpace(row[5]))
		}

		var options []Option
		for j, letter := range []string{"A", "B", "C", "D"} {
			if len(row) > j+1 && strings.TrimSpace(row[j+1]) != "" {
				options = append(options, Option{
					Text:      strings.TrimSpace(row[j+1]),
					IsCorrect: letter == correct,
				})
			}
		}

		if len(options) > 0 {
			questions = append(questions, newQuestion(strings.TrimSpace(row[0]), options))
		}
	}
	return questions, nil
}

// ParseText handles copy-paste content; **bold** or __bold__ on an option line
// marks it correct.
func ParseText(text string) []Question {
	var questions []Question
	var currentText string
	var currentOptions []Option
	open := false

	flush := func() {
		if open && len(currentOptions) > 0 {
			questions = append(questions, newQuestion(currentText, currentOptions))
		}
	}

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if m := questionPattern.FindStringSubmatch(line); m != nil {
			flush()
			currentText = strings.TrimSpace(m[2])
			currentOptions = nil
			open = true
			continue
		}

		if m := optionPattern.FindStringSubmatch(line); m != nil && open {
			optText := strings.TrimSpace(m[2])
			isBold := strings.Contains(line, "**") || strings.Contains(line, "__")
			optText = boldMarkers.ReplaceAllString(optText, "$1$2")
			currentOptions = append(currentOptions, Option{
				Text:      optText,
				IsCorrect: isBold,
			})
		}
	}
	flush()

	return questions
}

// newQuestion assigns a short id and option ids. If no option is bold the
// question is returned with nothing marked; the teacher picks the answer in
// the editor.
func newQuestion(text string, options []Option) Question {
	id := uuid.New().String()[:8]
	for i := range options {
		options[i].ID = fmt.Sprintf("%s_opt_%d", id, i)
	}
	return Question{ID: id, Text: text, Options: options}
}
