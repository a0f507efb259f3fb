// Package scraper fetches and parses statistics tables from the vitibrasil
// site. It is the live-fetch collaborator of the cache coordinator: given an
// endpoint and parameters it returns a freshly scraped Record or a typed
// FetchError. The source site is assumed unreliable; fetch failures are
// expected steady-state events for callers.
package scraper

// Record is the structured table scraped from a vitibrasil page: header
// rows, grouped body rows, and footer (totals) rows.
type Record struct {
	Header [][]string  `json:"header"`
	Body   []BodyGroup `json:"body"`
	Footer [][]string  `json:"footer"`
}

// BodyGroup is one item row together with its subordinate rows. Rows outside
// any item group are collected into a group with empty ItemData.
type BodyGroup struct {
	ItemData []string   `json:"item_data"`
	SubItems [][]string `json:"sub_items"`
}

// Empty reports whether the record carries no table data at all.
func (r *Record) Empty() bool {
	return len(r.Header) == 0 && len(r.Body) == 0 && len(r.Footer) == 0
}
