package api

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Year bounds of the published statistics. The site has no data outside this
// window; rejecting early avoids a pointless scrape.
const (
	MinYear = 1970
	MaxYear = 2024
)

// validSubOptions lists the sub-options each endpoint accepts. producao and
// comercializacao accept product filters that the site folds into the default
// page; the other three select distinct site pages.
var validSubOptions = map[string][]string{
	"producao":        {"VINHO DE MESA", "VINHO FINO DE MESA (VINIFERA)", "SUCO DE UVA", "DERIVADOS"},
	"processamento":   {"viniferas", "americanas", "mesa", "semclass"},
	"comercializacao": {"VINHO DE MESA", "ESPUMANTES", "UVAS FRESCAS", "SUCO DE UVA"},
	"importacao":      {"vinhos", "espumantes", "frescas", "passas", "suco"},
	"exportacao":      {"vinho", "uva", "espumantes", "suco"},
}

// validateRequest checks the query parameters of a data request. Both
// parameters are optional; the site serves its default page when they are
// absent. Returned messages are client-facing.
func validateRequest(endpoint, year, subOption string) []string {
	var errs []string

	if year != "" {
		n, err := strconv.Atoi(year)
		if err != nil || n < MinYear || n > MaxYear {
			errs = append(errs, fmt.Sprintf("year must be an integer between %d and %d", MinYear, MaxYear))
		}
	}

	if subOption != "" {
		allowed := validSubOptions[endpoint]
		if len(allowed) > 0 && !contains(allowed, subOption) {
			sorted := append([]string(nil), allowed...)
			sort.Strings(sorted)
			errs = append(errs, fmt.Sprintf("sub_option must be one of: %s", strings.Join(sorted, ", ")))
		}
	}

	return errs
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
