package scraper

import (
	"fmt"
	"net/url"
)

// DefaultBaseURL is the vitibrasil statistics page.
const DefaultBaseURL = "http://vitibrasil.cnpuv.embrapa.br/index.php"

// routeOpcao maps each API endpoint to the site's "opcao" query value.
var routeOpcao = map[string]string{
	"producao":        "opt_02",
	"processamento":   "opt_03",
	"comercializacao": "opt_04",
	"importacao":      "opt_05",
	"exportacao":      "opt_06",
}

// BuildURL builds the source page URL for an endpoint, optionally filtered by
// year ("ano") and sub-option ("subopcao").
func BuildURL(baseURL, endpoint, year, subOption string) (string, error) {
	opcao, ok := routeOpcao[endpoint]
	if !ok {
		return "", fmt.Errorf("no opcao mapping for endpoint %q", endpoint)
	}

	q := url.Values{}
	q.Set("opcao", opcao)
	if year != "" {
		q.Set("ano", year)
	}
	if subOption != "" {
		q.Set("subopcao", subOption)
	}

	return baseURL + "?" + q.Encode(), nil
}

// Endpoints returns the endpoint names with a source page mapping.
func Endpoints() []string {
	names := make([]string, 0, len(routeOpcao))
	for name := range routeOpcao {
		names = append(names, name)
	}
	return names
}
