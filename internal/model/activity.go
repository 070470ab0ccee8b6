package model

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// ActivityType classifies the financial event an Activity describes.
type ActivityType string

const (
	ActivityBuy      ActivityType = "Buy"
	ActivitySell     ActivityType = "Sell"
	ActivityDividend ActivityType = "Dividend"
)

// ValidActivityTypes contains the allowed activity type values.
var ValidActivityTypes = map[ActivityType]bool{
	ActivityBuy: true, ActivitySell: true, ActivityDividend: true,
}

// Activity is the canonical record produced for one parsed broker document.
// Every broker parser emits this exact shape so downstream code stays broker-agnostic.
//
// Amount, Fee and Tax are rounded to two decimals. Shares and Price keep the
// precision they were printed (or derived) with.
type Activity struct {
	Broker  string          `json:"broker"`
	Type    ActivityType    `json:"type"`
	Date    string          `json:"date"` // YYYY-MM-DD
	ISIN    string          `json:"isin"`
	Company string          `json:"company"`
	Shares  decimal.Decimal `json:"shares"`
	Price   decimal.Decimal `json:"price"`
	Amount  decimal.Decimal `json:"amount"`
	Fee     decimal.Decimal `json:"fee"`
	Tax     decimal.Decimal `json:"tax"`
}

// activityJSON mirrors Activity with decimals encoded as JSON numbers
// instead of the quoted strings decimal.Decimal produces by default.
type activityJSON struct {
	Broker  string       `json:"broker"`
	Type    ActivityType `json:"type"`
	Date    string       `json:"date"`
	ISIN    string       `json:"isin"`
	Company string       `json:"company"`
	Shares  json.Number  `json:"shares"`
	Price   json.Number  `json:"price"`
	Amount  json.Number  `json:"amount"`
	Fee     json.Number  `json:"fee"`
	Tax     json.Number  `json:"tax"`
}

// MarshalJSON encodes the monetary fields as plain JSON numbers.
func (a Activity) MarshalJSON() ([]byte, error) {
	return json.Marshal(activityJSON{
		Broker:  a.Broker,
		Type:    a.Type,
		Date:    a.Date,
		ISIN:    a.ISIN,
		Company: a.Company,
		Shares:  json.Number(a.Shares.String()),
		Price:   json.Number(a.Price.String()),
		Amount:  json.Number(a.Amount.String()),
		Fee:     json.Number(a.Fee.String()),
		Tax:     json.Number(a.Tax.String()),
	})
}

// Equal reports whether two activities carry the same field values.
// Decimals are compared numerically, so 768.1 equals 768.10.
func (a Activity) Equal(b Activity) bool {
	return a.Broker == b.Broker &&
		a.Type == b.Type &&
		a.Date == b.Date &&
		a.ISIN == b.ISIN &&
		a.Company == b.Company &&
		a.Shares.Equal(b.Shares) &&
		a.Price.Equal(b.Price) &&
		a.Amount.Equal(b.Amount) &&
		a.Fee.Equal(b.Fee) &&
		a.Tax.Equal(b.Tax)
}
