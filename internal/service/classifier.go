package service

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/sirupsen/logrus"

	"smartquiz/internal/extract"
)

// Classification is the {category, subject} label pair for an uploaded document.
type Classification struct {
	Category string `json:"category"`
	Subject  string `json:"subject"`
}

const (
	// Default pair when neither the AI nor the keyword rules recognise anything.
	DefaultCategory = "Tài liệu chung"
	DefaultSubject  = "Tài liệu"

	// Below this many excerpt characters the filename is the better signal.
	minExcerptLen = 50

	// Prompt embeds at most this many excerpt characters.
	maxPromptExcerpt = 2000
)

// classify is a total function: it always returns a usable pair, falling back
// to keyword rules when the AI backend is absent, unreachable or returns
// garbage.
func (s *SmartUploadService) classify(ctx context.Context, excerpt, filename string) Classification {
	if len(strings.TrimSpace(excerpt)) < minExcerptLen {
		logrus.WithField("file", filename).Warn("not enough text extracted, classifying by filename")
		excerpt = filename
	}

	if s.AI == nil {
		return fallbackClassification(filename, excerpt)
	}

	raw, err := s.AI.Generate(ctx, buildClassificationPrompt(excerpt, filename))
	if err != nil {
		logrus.WithError(err).WithField("file", filename).Warn("AI classification failed, using fallback")
		return fallbackClassification(filename, excerpt)
	}

	if result, ok := parseClassification(raw); ok {
		logrus.WithFields(logrus.Fields{
			"file":     filename,
			"category": result.Category,
			"subject":  result.Subject,
		}).Info("AI classified document")
		return result
	}

	logrus.WithField("file", filename).Warn("unparseable AI response, using fallback")
	return fallbackClassification(filename, excerpt)
}

func buildClassificationPrompt(excerpt, filename string) string {
	// truncate on rune count, a byte cut could split a Vietnamese character
	if utf8.RuneCountInString(excerpt) > maxPromptExcerpt {
		excerpt = string([]rune(excerpt)[:maxPromptExcerpt])
	}
	return fmt.Sprintf(`Phân tích nội dung tài liệu sau và xác định danh mục (category) và môn học (subject).

Tên file: %s

Nội dung:
%s

Hãy trả về CHÍNH XÁC theo format JSON sau (không thêm bất kỳ text nào khác):
{"category": "Tên danh mục", "subject": "Tên môn học"}

Ví dụ các category phổ biến:
- Kinh Tế (cho các môn: Kinh Tế Vi Mô, Kinh Tế Vĩ Mô, Tài Chính, Kế Toán...)
- Toán học (cho các môn: Giải Tích, Đại Số, Xác Suất Thống Kê...)
- Công nghệ (cho các môn: Lập Trình, Cơ Sở Dữ Liệu, Mạng Máy Tính...)
- Ngoại ngữ (cho các môn: Tiếng Anh, Tiếng Nhật...)
- Khoa học (cho các môn: Vật Lý, Hóa Học, Sinh Học...)
- Đề thi (cho các đề thi tổng hợp không rõ môn)
- Tài liệu chung (cho tài liệu không phân loại được)

Chỉ trả về JSON, không giải thích.`, filename, excerpt)
}

var jsonObjectPattern = regexp.MustCompile(`\{[^{}]+\}`)

// parseClassification scans raw model output for the first JSON-object-shaped
// substring. The model is not trusted to return clean JSON; anything that does
// not yield both keys reports ok=false and the caller falls back.
func parseClassification(raw string) (Classification, bool) {
	match := jsonObjectPattern.FindString(raw)
	if match == "" {
		return Classification{}, false
	}

	var result Classification
	if err := json.Unmarshal([]byte(match), &result); err != nil {
		return Classification{}, false
	}
	if result.Category == "" || result.Subject == "" {
		return Classification{}, false
	}
	return result, true
}

// keywordRule maps any of its keywords to a fixed label pair. First match wins.
type keywordRule struct {
	keywords []string
	category string
	subject  string
}

var fallbackRules = []keywordRule{
	{[]string{"kinh tế", "kinh te", "economics", "tài chính", "kế toán"}, "Kinh Tế", "Kinh Tế"},
	{[]string{"toán", "toan", "math", "giải tích", "đại số"}, "Toán học", "Toán học"},
	{[]string{"lập trình", "lap trinh", "code", "python", "java", "web"}, "Công nghệ", "Lập Trình"},
	{[]string{"vật lý", "vat ly", "physics"}, "Khoa học", "Vật Lý"},
	{[]string{"hóa học", "hoa hoc", "chemistry"}, "Khoa học", "Hóa Học"},
	{[]string{"tiếng anh", "english"}, "Ngoại ngữ", "Tiếng Anh"},
	{[]string{"đề thi", "de thi", "exam", "kiểm tra"}, "Đề thi", "Đề thi"},
}

func fallbackClassification(filename, excerpt string) Classification {
	combined := strings.ToLower(filename + " " + excerpt)

	for _, rule := range fallbackRules {
		for _, kw := range rule.keywords {
			if strings.Contains(combined, kw) {
				return Classification{Category: rule.category, Subject: rule.subject}
			}
		}
	}
	return Classification{Category: DefaultCategory, Subject: DefaultSubject}
}

// analyzeDocument runs extraction + classification (step 1 of the pipeline).
func (s *SmartUploadService) analyzeDocument(ctx context.Context, content []byte, filename string) Classification {
	excerpt := extract.Text(content, filename, extract.DefaultMaxQuestions)
	return s.classify(ctx, excerpt, filename)
}
