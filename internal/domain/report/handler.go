package report

import (
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/labstack/echo/v4"
)

// Handler exposes report analysis over HTTP.
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers report endpoints on the provided route group.
//
//	POST /api/v1/reports/analyze      - Analyze an uploaded PDF or image
//	POST /api/v1/reports/analyze-text - Analyze already-extracted text
func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.POST("/reports/analyze", h.AnalyzeDocument)
	g.POST("/reports/analyze-text", h.AnalyzeText)
}

// AnalyzeDocument handles POST /api/v1/reports/analyze. It accepts a
// multipart upload (field "file") plus an optional "gender" form field.
// A document-level extraction failure returns 422 with the failure reason
// and remediation detail, not a 500.
func (h *Handler) AnalyzeDocument(c echo.Context) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "multipart field \"file\" is required",
		})
	}

	f, err := fh.Open()
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "failed to open uploaded file",
		})
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "failed to read uploaded file",
		})
	}

	override := ParseGender(c.FormValue("gender"))

	ra, failure := h.service.AnalyzeDocument(
		c.Request().Context(), data, mediaTypeFor(fh.Header.Get("Content-Type"), fh.Filename), override)
	if failure != nil {
		return c.JSON(http.StatusUnprocessableEntity, failure)
	}
	return c.JSON(http.StatusOK, ra)
}

type analyzeTextRequest struct {
	Text   string `json:"text"`
	Gender string `json:"gender"`
}

// AnalyzeText handles POST /api/v1/reports/analyze-text for callers that
// already hold plain text.
func (h *Handler) AnalyzeText(c echo.Context) error {
	var req analyzeTextRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "invalid request body",
		})
	}
	if strings.TrimSpace(req.Text) == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "text is required",
		})
	}

	ra := h.service.AnalyzeText(c.Request().Context(), req.Text, ParseGender(req.Gender))
	return c.JSON(http.StatusOK, ra)
}

// mediaTypeFor prefers the declared part content type and falls back to the
// file extension. An empty return lets the pipeline sniff the bytes.
func mediaTypeFor(declared, filename string) string {
	declared = strings.TrimSpace(declared)
	if declared != "" && declared != "application/octet-stream" {
		return declared
	}
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return "application/pdf"
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	}
	return ""
}
