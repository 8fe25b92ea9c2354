package handler

import (
	"net/http"

	"farmacia/internal/service"

	"github.com/gin-gonic/gin"
)

type AlertasHandler struct{ svc service.AlertaService }

func NewAlertasHandler(svc service.AlertaService) *AlertasHandler {
	return &AlertasHandler{svc: svc}
}

// Listar godoc
// @Summary Medicamentos con stock bajo o próximos a vencer
// @Tags medicamentos
// @Produce json
// @Success 200 {array} dto.AlertaResponse
// @Router /api/medicamentos/alertas [get]
func (h *AlertasHandler) Listar(c *gin.Context) {
	resp, err := h.svc.Listar(c.Request.Context())
	if err != nil {
		responderError(c, err, "Error al obtener alertas de inventario")
		return
	}
	c.JSON(http.StatusOK, resp)
}
