package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeGenerator returns a canned response (or error) for every prompt.
type fakeGenerator struct {
	resp    string
	err     error
	prompts []string
}

func (f *fakeGenerator) Generate(_ context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	return f.resp, f.err
}

func TestClassifyCleanJSON(t *testing.T) {
	gen := &fakeGenerator{resp: `{"category": "Kinh Tế", "subject": "Kinh Tế Vi Mô"}`}
	s := &SmartUploadService{AI: gen}

	got := s.classify(context.Background(), strings.Repeat("nội dung bài giảng ", 10), "bai-giang.docx")
	assert.Equal(t, Classification{Category: "Kinh Tế", Subject: "Kinh Tế Vi Mô"}, got)
}

func TestClassifyJSONEmbeddedInProse(t *testing.T) {
	gen := &fakeGenerator{resp: "Đây là kết quả phân loại:\n```json\n{\"category\": \"Toán học\", \"subject\": \"Giải Tích\"}\n```\nHy vọng hữu ích!"}
	s := &SmartUploadService{AI: gen}

	got := s.classify(context.Background(), strings.Repeat("tích phân và đạo hàm ", 10), "chuong1.docx")
	assert.Equal(t, Classification{Category: "Toán học", Subject: "Giải Tích"}, got)
}

func TestClassifyUnparseableResponseFallsBack(t *testing.T) {
	gen := &fakeGenerator{resp: "Xin lỗi, tôi không thể phân loại tài liệu này."}
	s := &SmartUploadService{AI: gen}

	excerpt := "Câu 1: Cầu về hàng hóa trong kinh tế vi mô thay đổi thế nào khi giá tăng?"
	got := s.classify(context.Background(), excerpt, "tai-lieu.docx")
	assert.Equal(t, Classification{Category: "Kinh Tế", Subject: "Kinh Tế"}, got)
}

func TestClassifyMissingKeyFallsBack(t *testing.T) {
	gen := &fakeGenerator{resp: `{"category": "Kinh Tế"}`}
	s := &SmartUploadService{AI: gen}

	got := s.classify(context.Background(), strings.Repeat("bài tập lập trình python ", 5), "bai-tap.txt")
	assert.Equal(t, Classification{Category: "Công nghệ", Subject: "Lập Trình"}, got)
}

func TestClassifyAIErrorFallsBack(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("deadline exceeded")}
	s := &SmartUploadService{AI: gen}

	excerpt := strings.Repeat("từ vựng tiếng anh chuyên ngành ", 5)
	got := s.classify(context.Background(), excerpt, "vocab.txt")
	assert.Equal(t, Classification{Category: "Ngoại ngữ", Subject: "Tiếng Anh"}, got)
}

func TestClassifyNilAIUsesFallback(t *testing.T) {
	s := &SmartUploadService{}

	excerpt := strings.Repeat("phương trình phản ứng hóa học ", 5)
	got := s.classify(context.Background(), excerpt, "bai.txt")
	assert.Equal(t, Classification{Category: "Khoa học", Subject: "Hóa Học"}, got)
}

func TestClassifyShortExcerptUsesFilename(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("down")}
	s := &SmartUploadService{AI: gen}

	got := s.classify(context.Background(), "ngắn", "bai tap vat ly chuong 3.docx")
	assert.Equal(t, Classification{Category: "Khoa học", Subject: "Vật Lý"}, got)
}

func TestClassifyDefaultPair(t *testing.T) {
	s := &SmartUploadService{}

	got := s.classify(context.Background(), strings.Repeat("nội dung không rõ ràng ", 5), "tailieu.bin")
	assert.Equal(t, Classification{Category: DefaultCategory, Subject: DefaultSubject}, got)
}

func TestClassifyPromptContainsExcerptAndFilename(t *testing.T) {
	gen := &fakeGenerator{resp: `{"category": "Đề thi", "subject": "Đề thi"}`}
	s := &SmartUploadService{AI: gen}

	excerpt := strings.Repeat("Câu hỏi trắc nghiệm tổng hợp. ", 5)
	s.classify(context.Background(), excerpt, "de-thi-thu.docx")

	require.Len(t, gen.prompts, 1)
	assert.Contains(t, gen.prompts[0], "de-thi-thu.docx")
	assert.Contains(t, gen.prompts[0], "Câu hỏi trắc nghiệm tổng hợp.")
	assert.Contains(t, gen.prompts[0], `{"category"`)
}

func TestClassifyPromptTruncatesLongExcerpt(t *testing.T) {
	gen := &fakeGenerator{resp: `{"category": "Tài liệu chung", "subject": "Tài liệu"}`}
	s := &SmartUploadService{AI: gen}

	s.classify(context.Background(), strings.Repeat("a", maxPromptExcerpt+5000), "lon.txt")

	require.Len(t, gen.prompts, 1)
	assert.Less(t, len(gen.prompts[0]), maxPromptExcerpt+1000)
}

func TestClassifyPromptTruncatesOnRuneBoundary(t *testing.T) {
	gen := &fakeGenerator{resp: `{"category": "Tài liệu chung", "subject": "Tài liệu"}`}
	s := &SmartUploadService{AI: gen}

	s.classify(context.Background(), strings.Repeat("ệ", maxPromptExcerpt+500), "lon.txt")

	require.Len(t, gen.prompts, 1)
	assert.True(t, utf8.ValidString(gen.prompts[0]), "truncation must not split a character")
	assert.Contains(t, gen.prompts[0], strings.Repeat("ệ", 10))
}

func TestParseClassification(t *testing.T) {
	cases := []struct {
		raw  string
		want Classification
		ok   bool
	}{
		{`{"category": "Kinh Tế", "subject": "Tài Chính"}`, Classification{"Kinh Tế", "Tài Chính"}, true},
		{`text before {"category":"A","subject":"B"} text after`, Classification{"A", "B"}, true},
		{`không có json nào ở đây`, Classification{}, false},
		{`{"category": "chỉ một key"}`, Classification{}, false},
		{`{broken json}`, Classification{}, false},
		{``, Classification{}, false},
	}

	for _, tc := range cases {
		got, ok := parseClassification(tc.raw)
		assert.Equal(t, tc.ok, ok, "raw=%q", tc.raw)
		if tc.ok {
			assert.Equal(t, tc.want, got)
		}
	}
}
