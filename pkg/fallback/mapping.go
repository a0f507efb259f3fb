package fallback

// EndpointMapping describes where an endpoint's snapshot data lives: a
// default CSV file plus optional per-sub-option files.
type EndpointMapping struct {
	// Default is the file served when no sub-option is given or the given
	// sub-option has no dedicated file.
	Default string

	// SubOptions maps a sub-option name to its dedicated file. May be nil.
	SubOptions map[string]string
}

// DefaultMapping mirrors the snapshot inventory shipped alongside the
// service. Endpoints whose site pages differ per sub-option (processamento,
// importacao, exportacao) carry one file per sub-option. producao and
// comercializacao take product-filter sub-options, but the site folds them
// into a single page, so every sub-option resolves to the endpoint's file.
var DefaultMapping = map[string]EndpointMapping{
	"producao": {
		Default: "Producao.csv",
		SubOptions: map[string]string{
			"VINHO DE MESA":                 "Producao.csv",
			"VINHO FINO DE MESA (VINIFERA)": "Producao.csv",
			"SUCO DE UVA":                   "Producao.csv",
			"DERIVADOS":                     "Producao.csv",
		},
	},
	"processamento": {
		Default: "ProcessaViniferas.csv",
		SubOptions: map[string]string{
			"viniferas":  "ProcessaViniferas.csv",
			"americanas": "ProcessaAmericanas.csv",
			"mesa":       "ProcessaMesa.csv",
			"semclass":   "ProcessaSemclass.csv",
		},
	},
	"comercializacao": {
		Default: "Comercio.csv",
		SubOptions: map[string]string{
			"VINHO DE MESA": "Comercio.csv",
			"ESPUMANTES":    "Comercio.csv",
			"UVAS FRESCAS":  "Comercio.csv",
			"SUCO DE UVA":   "Comercio.csv",
		},
	},
	"importacao": {
		Default: "ImpVinhos.csv",
		SubOptions: map[string]string{
			"vinhos":     "ImpVinhos.csv",
			"espumantes": "ImpEspumantes.csv",
			"frescas":    "ImpFrescas.csv",
			"passas":     "ImpPassas.csv",
			"suco":       "ImpSuco.csv",
		},
	},
	"exportacao": {
		Default: "ExpVinho.csv",
		SubOptions: map[string]string{
			"vinho":      "ExpVinho.csv",
			"uva":        "ExpUva.csv",
			"espumantes": "ExpEspumantes.csv",
			"suco":       "ExpSuco.csv",
		},
	},
}

// fileFor resolves the CSV file for an (endpoint, sub-option) pair. Unknown
// sub-options fall back to the endpoint's default file; unknown endpoints
// report false.
func fileFor(mapping map[string]EndpointMapping, endpoint, subOption string) (string, bool) {
	m, ok := mapping[endpoint]
	if !ok {
		return "", false
	}
	if subOption != "" {
		if file, ok := m.SubOptions[subOption]; ok {
			return file, true
		}
	}
	return m.Default, m.Default != ""
}
