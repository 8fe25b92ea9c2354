package service

import (
	"reflect"
	"strings"
	"time"

	"farmacia/internal/dto"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	"github.com/shopspring/decimal"
)

// modo selects which rule set validarMedicamento applies.
type modo int

const (
	modoCreacion  modo = iota // the expiry date must lie in the future
	modoReemplazo             // full replace; expiry date only has to be present and valid
)

const msgErroresValidacion = "Errores de validación"

var validate = nuevoValidador()

func nuevoValidador() *validator.Validate {
	v := validator.New()
	// Register decimal.Decimal as a numeric type so that validator tags like
	// gt=0 and required work without panicking ("Bad field type decimal.Decimal").
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(err)
	}
	if err := v.RegisterValidation("fecha", func(fl validator.FieldLevel) bool {
		_, ok := parseFecha(fl.Field().String())
		return ok
	}); err != nil {
		panic(err)
	}
	return v
}

// parseFecha accepts a calendar date (what an <input type="date"> posts) or a
// full RFC 3339 timestamp. Calendar dates are midnight UTC.
func parseFecha(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t.UTC(), true
	}
	return time.Time{}, false
}

// Violation messages per struct field and failing tag. The slice fixes the
// order in which violations are reported.
var camposMedicamento = []struct {
	campo    string
	mensajes map[string]string
}{
	{"Nombre", map[string]string{"": "El nombre es requerido"}},
	{"Precio", map[string]string{"": "El precio debe ser mayor a 0"}},
	{"Stock", map[string]string{"required": "El stock es requerido", "": "El stock no puede ser negativo"}},
	{"FechaVencimiento", map[string]string{
		"required": "La fecha de vencimiento es requerida",
		"futura":   "La fecha de vencimiento debe ser posterior a hoy",
		"":         "La fecha de vencimiento no es válida",
	}},
	{"Laboratorio", map[string]string{"": "El laboratorio es requerido"}},
	{"TipoMedicamentoID", map[string]string{"": "El tipo de medicamento es requerido"}},
}

// validarMedicamento checks every field and returns all violations at once,
// in field order. An empty slice means the request is valid.
func validarMedicamento(req *dto.MedicamentoRequest, m modo, ahora time.Time) []string {
	fallas := make(map[string]string)
	if err := validate.Struct(req); err != nil {
		verrs, ok := err.(validator.ValidationErrors)
		if !ok {
			return []string{err.Error()}
		}
		for _, fe := range verrs {
			fallas[fe.StructField()] = fe.Tag()
		}
	}

	// Prices are stored with two decimals; anything that rounds to zero is not positive.
	if _, falla := fallas["Precio"]; !falla && req.Precio != nil && !req.Precio.Round(2).IsPositive() {
		fallas["Precio"] = "gt"
	}
	if _, falla := fallas["FechaVencimiento"]; !falla && m == modoCreacion {
		if fecha, _ := parseFecha(req.FechaVencimiento); !fecha.After(ahora) {
			fallas["FechaVencimiento"] = "futura"
		}
	}

	detalles := make([]string, 0, len(fallas))
	for _, c := range camposMedicamento {
		tag, falla := fallas[c.campo]
		if !falla {
			continue
		}
		msg, ok := c.mensajes[tag]
		if !ok {
			msg = c.mensajes[""]
		}
		detalles = append(detalles, msg)
	}
	return detalles
}

// validarTipoMedicamento returns the single possible violation, if any.
func validarTipoMedicamento(req *dto.TipoMedicamentoRequest) []string {
	if err := validate.Struct(req); err != nil {
		return []string{msgNombreRequerido}
	}
	return nil
}

// recortarOpcional trims s and maps blank to nil.
func recortarOpcional(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	if t == "" {
		return nil
	}
	return &t
}
