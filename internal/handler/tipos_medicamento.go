package handler

import (
	"net/http"

	"farmacia/internal/dto"
	"farmacia/internal/service"

	"github.com/gin-gonic/gin"
)

type TiposMedicamentoHandler struct{ svc service.TipoMedicamentoService }

func NewTiposMedicamentoHandler(svc service.TipoMedicamentoService) *TiposMedicamentoHandler {
	return &TiposMedicamentoHandler{svc: svc}
}

// Obtener godoc
// @Summary Lista los tipos de medicamento, o uno solo si se indica ?id=
// @Tags tipos-medicamento
// @Produce json
// @Param id query int false "ID del tipo"
// @Success 200 {array} dto.TipoMedicamentoResponse
// @Failure 400 {object} apierror.Response
// @Failure 404 {object} apierror.Response
// @Router /api/tipos-medicamento [get]
func (h *TiposMedicamentoHandler) Obtener(c *gin.Context) {
	id, present, err := queryID(c, msgIDInvalido)
	if err != nil {
		responderError(c, err, "")
		return
	}
	if !present {
		resp, err := h.svc.Listar(c.Request.Context())
		if err != nil {
			responderError(c, err, "Error al obtener tipos de medicamento")
			return
		}
		c.JSON(http.StatusOK, resp)
		return
	}
	resp, err := h.svc.Obtener(c.Request.Context(), id)
	if err != nil {
		responderError(c, err, "Error al obtener tipos de medicamento")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Crear POST /api/tipos-medicamento
func (h *TiposMedicamentoHandler) Crear(c *gin.Context) {
	var req dto.TipoMedicamentoRequest
	if !bindJSON(c, &req) {
		return
	}
	resp, err := h.svc.Crear(c.Request.Context(), req)
	if err != nil {
		responderError(c, err, "Error al crear tipo de medicamento")
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Actualizar PUT /api/tipos-medicamento (id in the body)
func (h *TiposMedicamentoHandler) Actualizar(c *gin.Context) {
	var req dto.TipoMedicamentoRequest
	if !bindJSON(c, &req) {
		return
	}
	resp, err := h.svc.Actualizar(c.Request.Context(), req)
	if err != nil {
		responderError(c, err, "Error al actualizar tipo de medicamento")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Eliminar DELETE /api/tipos-medicamento?id=
func (h *TiposMedicamentoHandler) Eliminar(c *gin.Context) {
	id, present, err := queryID(c, msgIDRequerido)
	if err == nil && !present {
		err = errIDRequerido
	}
	if err != nil {
		responderError(c, err, "")
		return
	}
	resp, err := h.svc.Eliminar(c.Request.Context(), id)
	if err != nil {
		responderError(c, err, "Error al eliminar tipo de medicamento")
		return
	}
	c.JSON(http.StatusOK, resp)
}
