package apierror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf_SobreviveAlWrap(t *testing.T) {
	err := fmt.Errorf("vender: %w", StockInsuficiente("faltan %d unidades", 3))

	assert.Equal(t, KindStockInsuficiente, KindOf(err))
	assert.True(t, Is(err, KindStockInsuficiente))
	assert.False(t, Is(err, KindConflicto))
	assert.False(t, Is(nil, KindInesperado))
	assert.Equal(t, KindInesperado, KindOf(errors.New("pq: connection reset")))
}

func TestStatus(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{Validacion("x"), http.StatusBadRequest},
		{FondosInsuficientes("x"), http.StatusBadRequest},
		{Conflicto("x"), http.StatusBadRequest},
		{NoEncontrado("x"), http.StatusNotFound},
		{Prohibido("x"), http.StatusForbidden},
		{Inesperado(errors.New("boom")), http.StatusInternalServerError},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Status(tc.err), tc.err.Error())
	}
}

func TestFromError_NoFiltraDetallesInternos(t *testing.T) {
	resp := FromError(Inesperado(errors.New("password authentication failed for user pos")))
	assert.Equal(t, "Error interno del servidor", resp.Detail)
	assert.NotContains(t, resp.Detail, "password")

	resp = FromError(Conflicto("la unidad %d ya no esta en el area", 7))
	assert.Equal(t, "la unidad 7 ya no esta en el area", resp.Detail)
	assert.Equal(t, "conflicto", resp.Tipo)
}
