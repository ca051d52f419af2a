package handler

import (
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"smartquiz/internal/dto"
	"smartquiz/internal/service"
)

// FileHandler serves the knowledge-base surface: smart/manual uploads plus
// topic and resource administration.
type FileHandler struct {
	uploads *service.SmartUploadService
	kb      *service.KBService
}

func NewFileHandler(uploads *service.SmartUploadService, kb *service.KBService) *FileHandler {
	return &FileHandler{uploads: uploads, kb: kb}
}

func readUpload(c *gin.Context) ([]byte, *multipart.FileHeader, bool) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Vui lòng chọn file"})
		return nil, nil, false
	}

	src, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Không đọc được file"})
		return nil, nil, false
	}
	defer src.Close()

	content, err := io.ReadAll(src)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Không đọc được file"})
		return nil, nil, false
	}
	return content, fileHeader, true
}

// SmartUpload POST /api/admin/smart-upload
// Form-Data: file=BINARY. AI phân loại và tự chọn thư mục.
func (h *FileHandler) SmartUpload(c *gin.Context) {
	content, fileHeader, ok := readUpload(c)
	if !ok {
		return
	}

	result, err := h.uploads.SmartUpload(
		c.Request.Context(),
		content,
		fileHeader.Filename,
		fileHeader.Header.Get("Content-Type"),
		c.GetString("userID"),
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}

// Upload POST /api/admin/upload
// Form-Data: file=BINARY, topic_name=..., category_name=... (tùy chọn)
func (h *FileHandler) Upload(c *gin.Context) {
	content, fileHeader, ok := readUpload(c)
	if !ok {
		return
	}

	topicName := c.PostForm("topic_name")
	if topicName == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Thiếu topic_name"})
		return
	}

	result, err := h.uploads.ManualUpload(
		c.Request.Context(),
		content,
		fileHeader.Filename,
		topicName,
		c.PostForm("category_name"),
		fileHeader.Header.Get("Content-Type"),
		c.GetString("userID"),
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}

// SimpleUpload POST /api/files/upload — dành cho giáo viên, không cần quyền admin.
func (h *FileHandler) SimpleUpload(c *gin.Context) {
	content, fileHeader, ok := readUpload(c)
	if !ok {
		return
	}

	topicName := c.PostForm("topic_name")
	if topicName == "" {
		topicName = "general"
	}

	result, err := h.uploads.ManualUpload(
		c.Request.Context(),
		content,
		fileHeader.Filename,
		topicName,
		"",
		fileHeader.Header.Get("Content-Type"),
		c.GetString("userID"),
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Upload file thất bại: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"file_id":       result.Resource.ID,
		"filename":      result.Resource.FileName,
		"web_view_link": result.S3URL,
		"message":       "Upload thành công vào folder: " + result.Topic.StoragePrefix(),
	})
}

func (h *FileHandler) ListTopics(c *gin.Context) {
	topics, err := h.kb.ListTopics()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, topics)
}

func (h *FileHandler) CreateTopic(c *gin.Context) {
	var req dto.TopicReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Dữ liệu không hợp lệ"})
		return
	}

	topic, err := h.kb.CreateTopic(req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, topic)
}

func (h *FileHandler) TopicDetail(c *gin.Context) {
	topic, err := h.kb.TopicDetail(c.Param("slug"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, topic)
}

func (h *FileHandler) DeleteTopic(c *gin.Context) {
	if err := h.kb.DeleteTopic(c.Request.Context(), c.Param("id")); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Đã xoá topic"})
}

func (h *FileHandler) ListResources(c *gin.Context) {
	resources, err := h.kb.ListResources(c.Query("topic_id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, resources)
}

func (h *FileHandler) DeleteResource(c *gin.Context) {
	if err := h.kb.DeleteResource(c.Request.Context(), c.Param("id")); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Đã xoá file"})
}

func (h *FileHandler) PresignResource(c *gin.Context) {
	url, err := h.kb.PresignResource(c.Request.Context(), c.Param("id"), time.Hour)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": url, "expires_in": 3600})
}

func (h *FileHandler) ListFolders(c *gin.Context) {
	folders, err := h.kb.ListFolders(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, folders)
}

func (h *FileHandler) Stats(c *gin.Context) {
	stats, err := h.kb.Stats()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, stats)
}
