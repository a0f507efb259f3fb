// Package testutil provides testing utilities for the vitibrasil API.
package testutil

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"time"
)

// MockResponse defines the behavior of the mock site for one "opcao" value.
type MockResponse struct {
	StatusCode int
	Body       string
	Delay      time.Duration
}

// MockSite is a configurable stand-in for the vitibrasil statistics site.
// Responses are keyed by the "opcao" query parameter; everything else gets
// the default page. It tracks request counts so tests can assert how often
// the scraper actually hit the network.
type MockSite struct {
	server    *httptest.Server
	mu        sync.RWMutex
	responses map[string]MockResponse
	failures  int

	RequestCount int
	LastQuery    map[string]string
}

// NewMockSite creates a running mock site. Callers own Close.
func NewMockSite() *MockSite {
	mock := &MockSite{
		responses: make(map[string]MockResponse),
	}

	mock.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mock.mu.Lock()
		mock.RequestCount++
		mock.LastQuery = map[string]string{}
		for k := range r.URL.Query() {
			mock.LastQuery[k] = r.URL.Query().Get(k)
		}
		failing := mock.failures > 0
		if failing {
			mock.failures--
		}
		resp, custom := mock.responses[r.URL.Query().Get("opcao")]
		mock.mu.Unlock()

		if failing {
			http.Error(w, "Bad Gateway", http.StatusBadGateway)
			return
		}

		if !custom {
			resp = MockResponse{StatusCode: http.StatusOK, Body: DefaultTablePage()}
		}
		if resp.Delay > 0 {
			time.Sleep(resp.Delay)
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(resp.StatusCode)
		if resp.Body != "" {
			w.Write([]byte(resp.Body))
		}
	}))

	return mock
}

// URL returns the mock server URL, usable as a scraper base URL.
func (m *MockSite) URL() string {
	return m.server.URL
}

// Close shuts down the mock server.
func (m *MockSite) Close() {
	m.server.Close()
}

// Reset clears tracking counters and configured responses.
func (m *MockSite) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RequestCount = 0
	m.LastQuery = nil
	m.failures = 0
	m.responses = make(map[string]MockResponse)
}

// SetResponse configures the response for one "opcao" value.
func (m *MockSite) SetResponse(opcao string, resp MockResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses[opcao] = resp
}

// FailNext makes the next n requests fail with 502 regardless of opcao,
// simulating the site's habitual outages.
func (m *MockSite) FailNext(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failures = n
}

// GetRequestCount returns the number of requests the site has received.
func (m *MockSite) GetRequestCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.RequestCount
}

// TablePage renders a vitibrasil-style statistics page. Each body row is
// given as cells; rows whose first cell is upper case become item rows, the
// rest sub-item rows, mirroring the site's tb_item/tb_subitem markup.
func TablePage(header []string, body [][]string, footer []string) string {
	var b strings.Builder
	b.WriteString(`<html><body><table class="tb_base tb_dados"><thead><tr>`)
	for _, h := range header {
		fmt.Fprintf(&b, "<th>%s</th>", h)
	}
	b.WriteString(`</tr></thead><tbody>`)
	for _, row := range body {
		class := "tb_subitem"
		if len(row) > 0 && row[0] == strings.ToUpper(row[0]) {
			class = "tb_item"
		}
		b.WriteString("<tr>")
		for _, cell := range row {
			fmt.Fprintf(&b, `<td class=%q>%s</td>`, class, cell)
		}
		b.WriteString("</tr>")
	}
	b.WriteString(`</tbody><tfoot><tr>`)
	for _, cell := range footer {
		fmt.Fprintf(&b, "<td>%s</td>", cell)
	}
	b.WriteString(`</tr></tfoot></table></body></html>`)
	return b.String()
}

// DefaultTablePage is a small production-statistics page.
func DefaultTablePage() string {
	return TablePage(
		[]string{"Produto", "Quantidade (L.)"},
		[][]string{
			{"VINHO DE MESA", "169.762.429"},
			{"Tinto", "139.320.884"},
			{"Branco", "27.910.299"},
		},
		[]string{"Total", "169.762.429"},
	)
}

// MaintenancePage is a page without the statistics table, as the site serves
// during maintenance windows.
func MaintenancePage() string {
	return `<html><body><p>Sistema em manutenção</p></body></html>`
}
