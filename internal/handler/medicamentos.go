package handler

import (
	"net/http"

	"farmacia/internal/apierror"
	"farmacia/internal/dto"
	"farmacia/internal/service"

	"github.com/gin-gonic/gin"
)

var errIDRequerido = apierror.ArgumentoInvalido(msgIDRequerido)

type MedicamentosHandler struct{ svc service.MedicamentoService }

func NewMedicamentosHandler(svc service.MedicamentoService) *MedicamentosHandler {
	return &MedicamentosHandler{svc: svc}
}

// Obtener godoc
// @Summary Lista los medicamentos con su tipo, o uno solo si se indica ?id=
// @Tags medicamentos
// @Produce json
// @Param id query int false "ID del medicamento"
// @Success 200 {array} dto.MedicamentoResponse
// @Failure 400 {object} apierror.Response
// @Failure 404 {object} apierror.Response
// @Router /api/medicamentos [get]
func (h *MedicamentosHandler) Obtener(c *gin.Context) {
	id, present, err := queryID(c, msgIDInvalido)
	if err != nil {
		responderError(c, err, "")
		return
	}
	if !present {
		resp, err := h.svc.Listar(c.Request.Context())
		if err != nil {
			responderError(c, err, "Error al obtener medicamentos")
			return
		}
		c.JSON(http.StatusOK, resp)
		return
	}
	resp, err := h.svc.Obtener(c.Request.Context(), id)
	if err != nil {
		responderError(c, err, "Error al obtener medicamentos")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Crear godoc
// @Summary Registra un medicamento
// @Tags medicamentos
// @Accept json
// @Produce json
// @Param body body dto.MedicamentoRequest true "Medicamento"
// @Success 201 {object} dto.MedicamentoResponse
// @Failure 400 {object} apierror.Response
// @Router /api/medicamentos [post]
func (h *MedicamentosHandler) Crear(c *gin.Context) {
	var req dto.MedicamentoRequest
	if !bindJSON(c, &req) {
		return
	}
	resp, err := h.svc.Crear(c.Request.Context(), req)
	if err != nil {
		responderError(c, err, "Error al crear medicamento")
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Actualizar PUT /api/medicamentos (id in the body)
func (h *MedicamentosHandler) Actualizar(c *gin.Context) {
	var req dto.MedicamentoRequest
	if !bindJSON(c, &req) {
		return
	}
	resp, err := h.svc.Actualizar(c.Request.Context(), req)
	if err != nil {
		responderError(c, err, "Error al actualizar medicamento")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Eliminar DELETE /api/medicamentos?id=
func (h *MedicamentosHandler) Eliminar(c *gin.Context) {
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
		responderError(c, err, "Error al eliminar medicamento")
		return
	}
	c.JSON(http.StatusOK, resp)
}
