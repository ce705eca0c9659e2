package apierror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestStatusMapping(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{NotFound("no existe"), http.StatusNotFound},
		{InvalidState("estado ilegal"), http.StatusBadRequest},
		{Conflict("duplicado"), http.StatusConflict},
		{InsufficientStock("pan", decimal.NewFromInt(3)), http.StatusConflict},
		{Validation("campo inválido"), http.StatusUnprocessableEntity},
		{errors.New("algo explotó"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Status(tc.err), "error: %v", tc.err)
	}
}

func TestKindOf_UnwrapsWrappedErrors(t *testing.T) {
	base := NotFound("evento no encontrado")
	wrapped := fmt.Errorf("consultando evento: %w", base)
	assert.Equal(t, KindNotFound, KindOf(wrapped))
}

func TestInsufficientStock_NamesItemAndAvailability(t *testing.T) {
	err := InsufficientStock("carne", decimal.RequireFromString("1.5"))
	assert.Contains(t, err.Error(), "carne")
	assert.Contains(t, err.Error(), "1.5")
}
