package sunat_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Bazar-api/pkg/sunat"
)

func TestValidateRUC_EmisorPorDefecto(t *testing.T) {
	assert.NoError(t, sunat.ValidateRUC("20000000001"))
}

func TestValidateRUC_RUCReal(t *testing.T) {
	assert.NoError(t, sunat.ValidateRUC("20131312955"))
}

func TestValidateRUC_DigitoIncorrecto(t *testing.T) {
	err := sunat.ValidateRUC("20131312954")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "verificador")
}

func TestValidateRUC_LongitudInvalida(t *testing.T) {
	assert.Error(t, sunat.ValidateRUC("2013131295"))
	assert.Error(t, sunat.ValidateRUC(""))
}

func TestComputeRUCCheckDigit(t *testing.T) {
	d, err := sunat.ComputeRUCCheckDigit("2000000000")
	require.NoError(t, err)
	assert.Equal(t, byte('1'), d)
}
