package parsing

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"menuparser/internal/pipeline"
	"menuparser/internal/storage"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type parseMenuRequest struct {
	MenuText       *string `json:"menu_text" binding:"required"`
	DocID          string  `json:"docId"`
	SourceFilePath *string `json:"sourceFilePath"`
}

type parseFileRequest struct {
	SourceFilePath string          `json:"sourceFilePath" binding:"required"`
	DocID          string          `json:"docId"`
	OCRData        json.RawMessage `json:"ocr_data"`
}

// ocrText accepts ocr_data either as a JSON string holding the OCR JSON or
// as the OCR JSON itself.
func ocrText(raw json.RawMessage) string {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return trimmed
}

// --------------------------------------------------
// POST /parse-menu
// --------------------------------------------------
func (h *Handler) ParseMenu(c *gin.Context) {
	var req parseMenuRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "menu_text is required"})
		return
	}

	_, err := h.service.ParseText(c.Request.Context(), TextRequest{
		MenuText:       *req.MenuText,
		DocID:          req.DocID,
		SourceFilePath: req.SourceFilePath,
	})
	if err != nil {
		h.fail(c, "parse-menu", req.DocID, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// --------------------------------------------------
// POST /parse-menu-from-file
// --------------------------------------------------
func (h *Handler) ParseMenuFromFile(c *gin.Context) {
	var req parseFileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "sourceFilePath is required"})
		return
	}

	_, err := h.service.ParseFile(c.Request.Context(), FileRequest{
		SourceFilePath: req.SourceFilePath,
		DocID:          req.DocID,
		OCRData:        ocrText(req.OCRData),
	})
	if err != nil {
		h.fail(c, "parse-menu-from-file", req.DocID, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// --------------------------------------------------
// GET /menus/:collection/:docId
// --------------------------------------------------
func (h *Handler) GetMenu(c *gin.Context) {
	rec, err := h.service.Get(c.Request.Context(), c.Param("collection"), c.Param("docId"))
	if err != nil {
		if errors.Is(err, ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, rec)
}

func (h *Handler) fail(c *gin.Context, route, docID string, err error) {
	status := http.StatusInternalServerError
	switch {
	case pipeline.IsInputError(err):
		status = http.StatusBadRequest
	case errors.Is(err, storage.ErrNotFound):
		status = http.StatusNotFound
	}
	log.WithFields(log.Fields{
		"route":     route,
		"docId":     docID,
		"status":    status,
		"requestId": c.GetString("requestID"),
	}).WithError(err).Error("menu parse failed")
	c.JSON(status, gin.H{"error": err.Error()})
}
