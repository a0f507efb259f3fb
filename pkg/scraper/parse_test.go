package scraper

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

const sampleTableHTML = `<!DOCTYPE html>
<html><body>
<table class="tb_base tb_dados">
  <thead>
    <tr><th>Produto</th><th>Quantidade (L.)</th></tr>
  </thead>
  <tbody>
    <tr><td class="tb_item">VINHO DE MESA</td><td class="tb_item">169.762.429</td></tr>
    <tr><td class="tb_subitem">Tinto</td><td class="tb_subitem">139.320.884</td></tr>
    <tr><td class="tb_subitem">Branco</td><td class="tb_subitem">27.910.299</td></tr>
    <tr><td class="tb_item">SUCO DE UVA</td><td class="tb_item">157.633.717</td></tr>
    <tr><td class="tb_subitem">Integral</td><td class="tb_subitem">110.941.058</td></tr>
  </tbody>
  <tfoot>
    <tr><td>Total</td><td>327.396.146</td></tr>
  </tfoot>
</table>
</body></html>`

func TestParseTable_GroupedBody(t *testing.T) {
	rec, err := ParseTable(strings.NewReader(sampleTableHTML))
	if err != nil {
		t.Fatalf("ParseTable() error = %v", err)
	}

	wantHeader := [][]string{{"Produto", "Quantidade (L.)"}}
	if !reflect.DeepEqual(rec.Header, wantHeader) {
		t.Errorf("Header = %v, want %v", rec.Header, wantHeader)
	}

	wantFooter := [][]string{{"Total", "327.396.146"}}
	if !reflect.DeepEqual(rec.Footer, wantFooter) {
		t.Errorf("Footer = %v, want %v", rec.Footer, wantFooter)
	}

	if len(rec.Body) != 2 {
		t.Fatalf("Body groups = %d, want 2", len(rec.Body))
	}

	first := rec.Body[0]
	if !reflect.DeepEqual(first.ItemData, []string{"VINHO DE MESA", "169.762.429"}) {
		t.Errorf("first ItemData = %v", first.ItemData)
	}
	if len(first.SubItems) != 2 {
		t.Errorf("first SubItems = %d, want 2", len(first.SubItems))
	}

	second := rec.Body[1]
	if !reflect.DeepEqual(second.ItemData, []string{"SUCO DE UVA", "157.633.717"}) {
		t.Errorf("second ItemData = %v", second.ItemData)
	}
	if len(second.SubItems) != 1 {
		t.Errorf("second SubItems = %d, want 1", len(second.SubItems))
	}
}

func TestParseTable_UngroupedRowsShareDefaultGroup(t *testing.T) {
	page := `<table class="tb_base tb_dados"><tbody>
	  <tr><td>Países</td><td>100</td></tr>
	  <tr><td>Argentina</td><td>50</td></tr>
	</tbody></table>`

	rec, err := ParseTable(strings.NewReader(page))
	if err != nil {
		t.Fatalf("ParseTable() error = %v", err)
	}
	if len(rec.Body) != 1 {
		t.Fatalf("Body groups = %d, want 1 default group", len(rec.Body))
	}
	if len(rec.Body[0].ItemData) != 0 {
		t.Errorf("default group ItemData = %v, want empty", rec.Body[0].ItemData)
	}
	if len(rec.Body[0].SubItems) != 2 {
		t.Errorf("default group SubItems = %d, want 2", len(rec.Body[0].SubItems))
	}
}

func TestParseTable_NoTbodyFallback(t *testing.T) {
	page := `<table class="tb_base tb_dados">
	  <thead><tr><th>Produto</th></tr></thead>
	  <tr><td>VINHO</td></tr>
	  <tr><td>SUCO</td></tr>
	</table>`

	rec, err := ParseTable(strings.NewReader(page))
	if err != nil {
		t.Fatalf("ParseTable() error = %v", err)
	}
	// html.Parse moves stray table rows into an implicit tbody, so the rows
	// land in the body either way.
	total := 0
	for _, g := range rec.Body {
		total += len(g.SubItems)
	}
	if total != 2 {
		t.Errorf("body rows = %d, want 2", total)
	}
	if len(rec.Header) != 1 {
		t.Errorf("Header rows = %d, want 1", len(rec.Header))
	}
}

func TestParseTable_TableNotFound(t *testing.T) {
	tests := []struct {
		name string
		page string
	}{
		{"no table at all", `<html><body><p>manutenção</p></body></html>`},
		{"wrong table class", `<table class="tb_base"><tr><td>x</td></tr></table>`},
		{"empty page", ``},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseTable(strings.NewReader(tt.page))
			if !errors.Is(err, ErrTableNotFound) {
				t.Errorf("ParseTable() error = %v, want ErrTableNotFound", err)
			}
		})
	}
}

func TestParseTable_WhitespaceNormalized(t *testing.T) {
	page := `<table class="tb_base tb_dados"><tbody>
	  <tr><td>  VINHO
	  DE   MESA </td></tr>
	</tbody></table>`

	rec, err := ParseTable(strings.NewReader(page))
	if err != nil {
		t.Fatalf("ParseTable() error = %v", err)
	}
	got := rec.Body[0].SubItems[0][0]
	if got != "VINHO DE MESA" {
		t.Errorf("cell text = %q, want %q", got, "VINHO DE MESA")
	}
}
