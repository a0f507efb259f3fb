package cache

import (
	"strings"
	"testing"
)

func TestBuildKey_Format(t *testing.T) {
	key := BuildKey("producao", map[string]string{"year": "2023"})

	if !strings.HasPrefix(key, "producao:") {
		t.Errorf("BuildKey() = %q, want endpoint prefix", key)
	}
	// SHA-256 hex digest after the prefix.
	if got := len(strings.TrimPrefix(key, "producao:")); got != 64 {
		t.Errorf("digest length = %d, want 64", got)
	}
}

func TestBuildKey_Determinism(t *testing.T) {
	tests := []struct {
		name string
		a, b map[string]string
	}{
		{
			name: "identical params",
			a:    map[string]string{"year": "2023", "sub_option": "viniferas"},
			b:    map[string]string{"year": "2023", "sub_option": "viniferas"},
		},
		{
			name: "key casing ignored",
			a:    map[string]string{"Year": "2023", "SUB_OPTION": "viniferas"},
			b:    map[string]string{"year": "2023", "sub_option": "viniferas"},
		},
		{
			name: "unknown params ignored",
			a:    map[string]string{"year": "2023", "debug": "1"},
			b:    map[string]string{"year": "2023"},
		},
		{
			name: "nil equals empty",
			a:    nil,
			b:    map[string]string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ka := BuildKey("processamento", tt.a)
			kb := BuildKey("processamento", tt.b)
			if ka != kb {
				t.Errorf("BuildKey(a) = %q, BuildKey(b) = %q, want equal", ka, kb)
			}
		})
	}
}

func TestBuildKey_Distinct(t *testing.T) {
	tests := []struct {
		name string
		ea   string
		a    map[string]string
		eb   string
		b    map[string]string
	}{
		{
			name: "different year",
			ea:   "producao", a: map[string]string{"year": "2022"},
			eb: "producao", b: map[string]string{"year": "2023"},
		},
		{
			name: "different sub_option",
			ea:   "importacao", a: map[string]string{"sub_option": "vinhos"},
			eb: "importacao", b: map[string]string{"sub_option": "suco"},
		},
		{
			name: "different endpoint same params",
			ea:   "producao", a: map[string]string{"year": "2023"},
			eb: "comercializacao", b: map[string]string{"year": "2023"},
		},
		{
			name: "param present vs absent",
			ea:   "exportacao", a: map[string]string{"year": "2023"},
			eb: "exportacao", b: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ka := BuildKey(tt.ea, tt.a)
			kb := BuildKey(tt.eb, tt.b)
			if ka == kb {
				t.Errorf("BuildKey produced identical keys %q for distinct requests", ka)
			}
		})
	}
}

func TestBuildKey_Stable(t *testing.T) {
	params := map[string]string{"year": "2020", "sub_option": "americanas"}

	first := BuildKey("processamento", params)
	for i := 0; i < 10; i++ {
		if got := BuildKey("processamento", params); got != first {
			t.Fatalf("iteration %d: BuildKey() = %q, want %q (not deterministic)", i, got, first)
		}
	}
}
