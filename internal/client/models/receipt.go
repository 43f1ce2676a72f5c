package models

import (
	"time"

	"github.com/dmitrijs2005/chewallet/internal/common"
	"github.com/shopspring/decimal"
	"github.com/tidwall/gjson"
)

// Receipt is the record shown to the user after a transfer or when a
// movement is opened.
type Receipt struct {
	OperationID         string          `json:"operationNumber"`
	OriginName          string          `json:"originName"`
	OriginLastname      string          `json:"originLastname"`
	OriginCVU           string          `json:"originCvu"`
	DestinationName     string          `json:"destinationName"`
	DestinationLastname string          `json:"destinationLastname"`
	DestinationCVU      string          `json:"destinationCvu"`
	Amount              decimal.Decimal `json:"amount"`
	Date                string          `json:"date"`
	Description         string          `json:"description"`
}

// Candidate response paths per receipt field, in priority order.
var (
	operationIDPaths         = []string{"operationNumber", "transactionId", "operationId", "id"}
	originNamePaths          = []string{"originName", "origin_name"}
	originLastnamePaths      = []string{"originLastname", "origin_lastname"}
	originCVUPaths           = []string{"originCvu", "origin_cvu"}
	destinationNamePaths     = []string{"destinationName", "destination_name"}
	destinationLastnamePaths = []string{"destinationLastname", "destination_lastname"}
	destinationCVUPaths      = []string{"destinationCvu", "destination_cvu"}
)

// BuildReceipt fills each receipt field from the first present path of
// body and otherwise keeps the value from fallback. A JSON null counts as
// absent; an empty string does not. A body that is not valid JSON yields
// fallback unchanged.
func BuildReceipt(body []byte, fallback Receipt) Receipt {
	if !gjson.ValidBytes(body) {
		return fallback
	}
	doc := gjson.ParseBytes(body)
	if !doc.IsObject() {
		return fallback
	}

	return Receipt{
		OperationID:         firstString(doc, operationIDPaths, fallback.OperationID),
		OriginName:          firstString(doc, originNamePaths, fallback.OriginName),
		OriginLastname:      firstString(doc, originLastnamePaths, fallback.OriginLastname),
		OriginCVU:           firstString(doc, originCVUPaths, fallback.OriginCVU),
		DestinationName:     firstString(doc, destinationNamePaths, fallback.DestinationName),
		DestinationLastname: firstString(doc, destinationLastnamePaths, fallback.DestinationLastname),
		DestinationCVU:      firstString(doc, destinationCVUPaths, fallback.DestinationCVU),
		Amount:              amountField(doc.Get("amount"), fallback.Amount),
		Date:                firstString(doc, []string{"date"}, fallback.Date),
		Description:         firstString(doc, []string{"description"}, fallback.Description),
	}
}

// DetailFallback is the local default for GET /payments/transactions/{id}.
func DetailFallback(id string, now time.Time) Receipt {
	return Receipt{
		OperationID:         id,
		OriginName:          common.Placeholder,
		OriginLastname:      common.Placeholder,
		OriginCVU:           common.Placeholder,
		DestinationName:     common.Placeholder,
		DestinationLastname: common.Placeholder,
		DestinationCVU:      common.Placeholder,
		Amount:              decimal.Zero,
		Date:                now.UTC().Format(time.RFC3339),
	}
}

func present(r gjson.Result) bool {
	return r.Exists() && r.Type != gjson.Null
}

func firstString(doc gjson.Result, paths []string, fallback string) string {
	for _, p := range paths {
		if r := doc.Get(p); present(r) {
			return r.String()
		}
	}
	return fallback
}

func amountField(r gjson.Result, fallback decimal.Decimal) decimal.Decimal {
	if !present(r) {
		return fallback
	}

	var raw string
	switch r.Type {
	case gjson.Number:
		raw = r.Raw
	case gjson.String:
		raw = r.Str
	default:
		return fallback
	}

	d, err := decimal.NewFromString(raw)
	if err != nil {
		return fallback
	}
	return d
}
