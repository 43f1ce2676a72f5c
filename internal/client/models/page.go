package models

import "encoding/json"

// PageMeta is the pagination envelope of GET /payments/transactions,
// copied verbatim. Page is 0-based as the backend sends it.
type PageMeta struct {
	Page          int   `json:"page"`
	Size          int   `json:"size"`
	TotalElements int64 `json:"totalElements"`
	TotalPages    int   `json:"totalPages"`
	First         bool  `json:"first"`
	Last          bool  `json:"last"`
}

// Page is one decoded page of movements.
type Page struct {
	Items TransactionList
	Meta  PageMeta
}

type wirePage struct {
	Content       TransactionList `json:"content"`
	Page          *int            `json:"page"`
	Size          *int            `json:"size"`
	TotalElements *int64          `json:"totalElements"`
	TotalPages    *int            `json:"totalPages"`
	First         *bool           `json:"first"`
	Last          *bool           `json:"last"`
}

// DecodePage parses a page envelope. Missing metadata fields take the
// defaults page 0, size defaultSize, totalElements 0, totalPages 1,
// first false and last false.
func DecodePage(data []byte, defaultSize int) (Page, error) {
	var w wirePage
	if err := json.Unmarshal(data, &w); err != nil {
		return Page{}, err
	}

	meta := PageMeta{Size: defaultSize, TotalPages: 1}
	if w.Page != nil {
		meta.Page = *w.Page
	}
	if w.Size != nil {
		meta.Size = *w.Size
	}
	if w.TotalElements != nil {
		meta.TotalElements = *w.TotalElements
	}
	if w.TotalPages != nil {
		meta.TotalPages = *w.TotalPages
	}
	if w.First != nil {
		meta.First = *w.First
	}
	if w.Last != nil {
		meta.Last = *w.Last
	}

	items := w.Content
	if items == nil {
		items = TransactionList{}
	}
	return Page{Items: items, Meta: meta}, nil
}
