package crawler

import "strconv"

// CarRecord is the canonical result of one successfully parsed listing.
// Column order of Fields is the storage contract; the dashboard reads the
// CSV positionally.
type CarRecord struct {
	Make        string `json:"make"`
	Model       string `json:"model"`
	Year        string `json:"year"`
	Mileage     string `json:"mileage"`
	PetrolType  string `json:"petrol_type"`
	BodyType    string `json:"type"`
	NoAccidents bool   `json:"no_accidents"`
	Price       int    `json:"price"`
	Currency    string `json:"currency"`
}

// ColumnNames lists the fixed column order used by every store.
var ColumnNames = []string{
	"make", "model", "year", "mileage", "petrol_type", "type",
	"no_accidents", "price", "currency",
}

// Fields serializes the record in the fixed column order.
func (r CarRecord) Fields() []string {
	return []string{
		r.Make,
		r.Model,
		r.Year,
		r.Mileage,
		r.PetrolType,
		r.BodyType,
		strconv.FormatBool(r.NoAccidents),
		strconv.Itoa(r.Price),
		r.Currency,
	}
}
