package crawler

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/KamilKwapisz/car-prices/helpers"
	"github.com/KamilKwapisz/car-prices/logger"
	"github.com/KamilKwapisz/car-prices/pkg/errors"
)

// CSS classes forming the wire contract with the listing pages
const (
	selectorParams     = "div.offer-params"
	selectorParamItems = "li.offer-params__item"
	selectorPrice      = "span.offer-price__number"
	selectorCurrency   = "span.offer-price__currency"
)

// AdParser extracts a CarRecord from one listing detail page
type AdParser struct {
	log *logger.Logger
}

// NewAdParser creates a new listing parser
func NewAdParser() *AdParser {
	return &AdParser{
		log: logger.ForComponent("parser"),
	}
}

// Parse fetches a listing page and extracts its car record. It returns an
// incomplete-record error for fake ads (missing core fields), a structure
// error when expected markup is absent, and a network error when the fetch
// fails. Callers log the error and continue with the next listing.
func (p *AdParser) Parse(url string) (*CarRecord, error) {
	body, err := helpers.FetchSimply(url)
	if err != nil {
		return nil, errors.NewNetwork("parser", "failed to fetch listing "+url, err)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, errors.NewStructure("parser", "failed to parse listing HTML: "+err.Error())
	}

	return p.parseDocument(doc)
}

// parseDocument extracts and translates a record from an already parsed
// listing document
func (p *AdParser) parseDocument(doc *goquery.Document) (*CarRecord, error) {
	params, err := offerParameters(doc)
	if err != nil {
		return nil, err
	}

	price, currency, err := priceAndCurrency(doc)
	if err != nil {
		return nil, err
	}

	record, err := Translate(params)
	if err != nil {
		return nil, err
	}

	record.Price = price
	record.Currency = currency

	p.log.Debug().
		Str("make", record.Make).
		Str("model", record.Model).
		Int("price", record.Price).
		Msg("Parsed listing")

	return record, nil
}

// offerParameters collects the raw parameter mapping from the listing's
// parameter block. Only labels in the accepted table are kept.
func offerParameters(doc *goquery.Document) (map[string]string, error) {
	container := doc.Find(selectorParams).First()
	if container.Length() == 0 {
		return nil, errors.NewStructure("parser", "offer parameter block not found")
	}

	params := make(map[string]string)
	container.Find(selectorParamItems).Each(func(_ int, item *goquery.Selection) {
		label := helpers.PlainText(item.Find("span").First().Text())
		if _, ok := acceptedLabels[label]; !ok {
			return
		}
		params[label] = helpers.PlainText(item.Find("div").First().Text())
	})

	return params, nil
}

// priceAndCurrency reads the price element and its nested currency element
func priceAndCurrency(doc *goquery.Document) (int, string, error) {
	priceSel := doc.Find(selectorPrice).First()
	if priceSel.Length() == 0 {
		return 0, "", errors.NewStructure("parser", "price element not found")
	}

	currencySel := priceSel.Find(selectorCurrency).First()
	if currencySel.Length() == 0 {
		return 0, "", errors.NewStructure("parser", "currency element not found")
	}
	currency := strings.TrimSpace(currencySel.Text())

	price, err := ParsePrice(priceSel.Text())
	if err != nil {
		return 0, "", err
	}

	return price, currency, nil
}

// ParsePrice parses a locale-formatted price: whitespace is stripped, the
// value is truncated at a decimal comma (cents are discarded, not
// rounded), and the remaining digits are parsed as an integer.
func ParsePrice(text string) (int, error) {
	text = strings.NewReplacer(" ", "", "\u00a0", "").Replace(text)
	if i := strings.Index(text, ","); i >= 0 {
		text = text[:i]
	}

	digits := helpers.Digits(text)
	if digits == "" {
		return 0, errors.NewStructure("parser", "price contains no digits: "+text)
	}

	price, err := strconv.Atoi(digits)
	if err != nil {
		return 0, errors.NewStructure("parser", "price is not numeric: "+digits)
	}

	return price, nil
}
