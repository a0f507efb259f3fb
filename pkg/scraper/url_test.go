package scraper

import (
	"strings"
	"testing"
)

func TestBuildURL(t *testing.T) {
	tests := []struct {
		name      string
		endpoint  string
		year      string
		subOption string
		want      []string
		wantErr   bool
	}{
		{
			name:     "producao no params",
			endpoint: "producao",
			want:     []string{"opcao=opt_02"},
		},
		{
			name:     "processamento with year",
			endpoint: "processamento",
			year:     "2023",
			want:     []string{"opcao=opt_03", "ano=2023"},
		},
		{
			name:      "importacao with year and sub option",
			endpoint:  "importacao",
			year:      "2020",
			subOption: "espumantes",
			want:      []string{"opcao=opt_05", "ano=2020", "subopcao=espumantes"},
		},
		{
			name:     "exportacao",
			endpoint: "exportacao",
			want:     []string{"opcao=opt_06"},
		},
		{
			name:     "unknown endpoint",
			endpoint: "inventado",
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := BuildURL(DefaultBaseURL, tt.endpoint, tt.year, tt.subOption)
			if tt.wantErr {
				if err == nil {
					t.Fatal("BuildURL() expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("BuildURL() error = %v", err)
			}
			if !strings.HasPrefix(got, DefaultBaseURL+"?") {
				t.Errorf("BuildURL() = %q, want base URL prefix", got)
			}
			for _, fragment := range tt.want {
				if !strings.Contains(got, fragment) {
					t.Errorf("BuildURL() = %q, missing %q", got, fragment)
				}
			}
		})
	}
}

func TestEndpoints(t *testing.T) {
	names := Endpoints()
	if len(names) != 5 {
		t.Errorf("Endpoints() returned %d names, want 5", len(names))
	}
}
