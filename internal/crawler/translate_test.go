package crawler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KamilKwapisz/car-prices/pkg/errors"
)

func validParams() map[string]string {
	return map[string]string{
		"marka_pojazdu": "volkswagen",
		"model_pojazdu": "golf",
		"rok_produkcji": "2008",
		"przebieg":      "123_456_km",
		"rodzaj_paliwa": "benzyna",
		"typ":           "kompakt",
		"bezwypadkowy":  "tak",
	}
}

func TestTranslate(t *testing.T) {
	record, err := Translate(validParams())
	require.NoError(t, err)

	assert.Equal(t, "volkswagen", record.Make)
	assert.Equal(t, "golf", record.Model)
	assert.Equal(t, "2008", record.Year)
	assert.Equal(t, "123456", record.Mileage)
	assert.Equal(t, "benzyna", record.PetrolType)
	assert.Equal(t, "kompakt", record.BodyType)
	assert.True(t, record.NoAccidents)
}

func TestTranslateNoAccidentsDefaultsToFalse(t *testing.T) {
	// No accident data means assume the car had one
	params := validParams()
	delete(params, "bezwypadkowy")

	record, err := Translate(params)
	require.NoError(t, err)
	assert.False(t, record.NoAccidents)
}

func TestTranslateNoAccidentsOtherValue(t *testing.T) {
	params := validParams()
	params["bezwypadkowy"] = "nie"

	record, err := Translate(params)
	require.NoError(t, err)
	assert.False(t, record.NoAccidents)
}

func TestTranslateRejectsMissingCoreField(t *testing.T) {
	coreFields := []string{
		"marka_pojazdu", "model_pojazdu", "rok_produkcji",
		"przebieg", "rodzaj_paliwa", "typ",
	}

	for _, field := range coreFields {
		params := validParams()
		delete(params, field)

		record, err := Translate(params)
		assert.Nil(t, record, "record should not be produced without %s", field)
		assert.True(t, errors.IsIncomplete(err), "missing %s should reject the record", field)
	}
}

func TestTranslateMissingAccidentFlagNeverRejects(t *testing.T) {
	params := validParams()
	delete(params, "bezwypadkowy")

	_, err := Translate(params)
	assert.NoError(t, err)
}

func TestNormalizeMileage(t *testing.T) {
	assert.Equal(t, "123456", NormalizeMileage("123_456_km"))
	assert.Equal(t, "123456", NormalizeMileage("123456"))
	assert.Equal(t, "123456", NormalizeMileage("123 456 km"))
}
