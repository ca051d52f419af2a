package handler

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"smartquiz/internal/dto"
	"smartquiz/internal/model"
	"smartquiz/internal/service"
)

type ExamHandler struct {
	svc *service.ExamService
}

func NewExamHandler(svc *service.ExamService) *ExamHandler {
	return &ExamHandler{svc: svc}
}

// Parse POST /api/exams/parse
// Form-Data: file=BINARY — trả về danh sách câu hỏi đã bóc tách để preview.
func (h *ExamHandler) Parse(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Vui lòng chọn file"})
		return
	}

	src, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Không đọc được file"})
		return
	}
	defer src.Close()

	content, err := io.ReadAll(src)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Không đọc được file"})
		return
	}

	resp, err := h.svc.ParseFile(content, fileHeader.Filename)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ExamHandler) List(c *gin.Context) {
	exams, err := h.svc.List(c.GetString("userID"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, exams)
}

func (h *ExamHandler) Create(c *gin.Context) {
	var req dto.ExamReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Dữ liệu không hợp lệ: " + err.Error()})
		return
	}

	exam, err := h.svc.Create(c.GetString("userID"), req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, examResp(exam))
}

func (h *ExamHandler) Get(c *gin.Context) {
	exam, err := h.svc.Get(c.Param("id"), c.GetString("userID"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, examResp(exam))
}

func (h *ExamHandler) Update(c *gin.Context) {
	var req dto.ExamReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Dữ liệu không hợp lệ"})
		return
	}

	exam, err := h.svc.Update(c.Param("id"), c.GetString("userID"), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, examResp(exam))
}

func (h *ExamHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Param("id"), c.GetString("userID")); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Đã xoá đề thi"})
}

// GetPublic GET /api/exams/public/:publicID — không cần đăng nhập.
func (h *ExamHandler) GetPublic(c *gin.Context) {
	exam, err := h.svc.GetPublic(c.Request.Context(), c.Param("publicID"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, examResp(exam))
}

func (h *ExamHandler) Results(c *gin.Context) {
	results, err := h.svc.Results(c.Param("id"), c.GetString("userID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, results)
}

func (h *ExamHandler) AssignToClass(c *gin.Context) {
	if err := h.svc.AssignToClass(c.Param("id"), c.Param("classID"), c.GetString("userID")); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Đã gán đề thi cho lớp"})
}

func examResp(e *model.Exam) dto.ExamResp {
	return dto.ExamResp{
		ID:               e.ID,
		PublicID:         e.PublicID,
		Title:            e.Title,
		Description:      e.Description,
		Mode:             e.Mode,
		ShuffleQuestions: e.ShuffleQuestions,
		ShuffleAnswers:   e.ShuffleAnswers,
		TimeLimit:        e.TimeLimit,
		IsPublic:         e.IsPublic,
		Questions:        json.RawMessage(e.Questions),
		TotalAttempts:    e.TotalAttempts,
		CreatedAt:        e.CreatedAt,
	}
}
