package handler

import (
	"net/http"

	"farmacia/internal/apierror"
	"farmacia/internal/dto"

	"github.com/gin-gonic/gin"
)

const (
	msgJSONInvalido = "JSON inválido"
	msgIDInvalido   = "ID inválido"
	msgIDRequerido  = "ID es requerido y debe ser válido"
)

// bindJSON binds the JSON body. Returns false and writes the error response
// if the body cannot be decoded; the caller should return immediately.
// Field rules are checked by the services so every violation is reported together.
func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(msgJSONInvalido))
		return false
	}
	return true
}

// queryID parses ?id=. present is false when the parameter is absent or empty.
func queryID(c *gin.Context, msg string) (id int64, present bool, err error) {
	raw := c.Query("id")
	if raw == "" {
		return 0, false, nil
	}
	id, ok := dto.ParseIDString(raw)
	if !ok {
		return 0, true, apierror.ArgumentoInvalido(msg)
	}
	return id, true, nil
}

// responderError writes the envelope for err. Unexpected failures are
// attached to the context so the ErrorHandler middleware logs the cause;
// the client only sees the generic message.
func responderError(c *gin.Context, err error, fallback string) {
	e := apierror.From(err, fallback)
	if e.Kind == apierror.KindInesperado {
		_ = c.Error(err)
	}
	c.JSON(apierror.Status(e.Kind), e.Body())
}
