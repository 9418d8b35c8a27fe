package crawler

import (
	"strings"

	"github.com/KamilKwapisz/car-prices/helpers"
	"github.com/KamilKwapisz/car-prices/pkg/errors"
)

// Source-language labels as they appear on otomoto listing pages, after
// PlainText normalization. Kept as one table so a markup or locale change
// only touches these constants.
const (
	labelMake        = "marka_pojazdu"
	labelModel       = "model_pojazdu"
	labelYear        = "rok_produkcji"
	labelMileage     = "przebieg"
	labelPetrolType  = "rodzaj_paliwa"
	labelBodyType    = "typ"
	labelNoAccidents = "bezwypadkowy"

	// yesToken is the source-language "yes" literal
	yesToken = "tak"
)

// acceptedLabels maps normalized source labels to canonical field names.
// Labels outside this table are dropped during extraction.
var acceptedLabels = map[string]string{
	labelMake:        "make",
	labelModel:       "model",
	labelYear:        "year",
	labelMileage:     "mileage",
	labelPetrolType:  "petrol_type",
	labelBodyType:    "type",
	labelNoAccidents: "no_accidents",
}

// coreLabels must all be present for a listing to be considered genuine.
var coreLabels = []string{
	labelMake, labelModel, labelYear, labelMileage, labelPetrolType, labelBodyType,
}

// Translate converts a raw parameter mapping (normalized source label →
// normalized value) into a CarRecord. A listing missing any core field is
// treated as a fake ad and rejected with an incomplete-record error.
//
// A missing accident-free flag maps to NoAccidents=false: when an ad says
// nothing about accidents, assume it had one.
func Translate(params map[string]string) (*CarRecord, error) {
	var missing []string
	for _, label := range coreLabels {
		if _, ok := params[label]; !ok {
			missing = append(missing, acceptedLabels[label])
		}
	}
	if len(missing) > 0 {
		return nil, errors.NewIncomplete("translate",
			"missing crucial data: "+strings.Join(missing, ", "))
	}

	record := &CarRecord{
		Make:       helpers.PlainText(params[labelMake]),
		Model:      helpers.PlainText(params[labelModel]),
		Year:       helpers.PlainText(params[labelYear]),
		Mileage:    NormalizeMileage(params[labelMileage]),
		PetrolType: helpers.PlainText(params[labelPetrolType]),
		BodyType:   helpers.PlainText(params[labelBodyType]),
	}

	if acc, ok := params[labelNoAccidents]; ok {
		record.NoAccidents = helpers.PlainText(acc) == yesToken
	}

	return record, nil
}

// NormalizeMileage strips internal separators and trailing unit text from
// a mileage value, leaving bare digits: "123_456_km" becomes "123456".
func NormalizeMileage(value string) string {
	return helpers.Digits(helpers.PlainText(value))
}
