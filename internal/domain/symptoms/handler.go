package symptoms

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Handler exposes the symptom checker. The predictor may be nil when no
// model is wired in, in which case predictions return 501 but the symptom
// list remains available.
type Handler struct {
	vectorizer *Vectorizer
	predictor  Predictor
}

func NewHandler(vectorizer *Vectorizer, predictor Predictor) *Handler {
	return &Handler{vectorizer: vectorizer, predictor: predictor}
}

// RegisterRoutes registers symptom endpoints on the provided route group.
//
//	GET  /api/v1/symptoms         - List the selectable symptoms
//	POST /api/v1/symptoms/predict - Predict a condition from symptoms
func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.GET("/symptoms", h.ListSymptoms)
	g.POST("/symptoms/predict", h.Predict)
}

func (h *Handler) ListSymptoms(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"symptoms": h.vectorizer.Symptoms(),
	})
}

type predictRequest struct {
	Symptoms []string `json:"symptoms"`
}

func (h *Handler) Predict(c echo.Context) error {
	if h.predictor == nil {
		return c.JSON(http.StatusNotImplemented, map[string]string{
			"error": "no prediction model is configured",
		})
	}

	var req predictRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "invalid request body",
		})
	}

	vector, err := h.vectorizer.Vector(req.Symptoms)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": err.Error(),
		})
	}

	condition, err := h.predictor.Predict(c.Request().Context(), vector)
	if err != nil {
		return c.JSON(http.StatusBadGateway, map[string]string{
			"error": "prediction failed: " + err.Error(),
		})
	}

	return c.JSON(http.StatusOK, map[string]string{
		"condition": condition,
	})
}
