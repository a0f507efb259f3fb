package fallback

import "testing"

func TestFileFor_DefaultMapping(t *testing.T) {
	tests := []struct {
		name      string
		endpoint  string
		subOption string
		want      string
	}{
		{"producao default", "producao", "", "Producao.csv"},
		{"producao vinho de mesa", "producao", "VINHO DE MESA", "Producao.csv"},
		{"producao vinifera", "producao", "VINHO FINO DE MESA (VINIFERA)", "Producao.csv"},
		{"producao suco", "producao", "SUCO DE UVA", "Producao.csv"},
		{"producao derivados", "producao", "DERIVADOS", "Producao.csv"},
		{"comercializacao default", "comercializacao", "", "Comercio.csv"},
		{"comercializacao espumantes", "comercializacao", "ESPUMANTES", "Comercio.csv"},
		{"comercializacao uvas frescas", "comercializacao", "UVAS FRESCAS", "Comercio.csv"},
		{"processamento dedicated file", "processamento", "americanas", "ProcessaAmericanas.csv"},
		{"importacao dedicated file", "importacao", "suco", "ImpSuco.csv"},
		{"exportacao default", "exportacao", "", "ExpVinho.csv"},
		{"unknown sub-option falls back", "processamento", "inexistente", "ProcessaViniferas.csv"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := fileFor(DefaultMapping, tt.endpoint, tt.subOption)
			if !ok {
				t.Fatalf("fileFor(%q, %q) miss, want %q", tt.endpoint, tt.subOption, tt.want)
			}
			if got != tt.want {
				t.Errorf("fileFor(%q, %q) = %q, want %q", tt.endpoint, tt.subOption, got, tt.want)
			}
		})
	}
}

func TestFileFor_UnknownEndpoint(t *testing.T) {
	if file, ok := fileFor(DefaultMapping, "inventado", ""); ok {
		t.Errorf("fileFor() = %q, want miss for unknown endpoint", file)
	}
}
