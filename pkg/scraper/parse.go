package scraper

import (
	"io"
	"strings"

	"golang.org/x/net/html"
)

// dataTableClasses identify the statistics table on a vitibrasil page.
var dataTableClasses = []string{"tb_base", "tb_dados"}

// ParseTable extracts the structured Record from a vitibrasil page. The page
// carries one table with classes "tb_base tb_dados"; thead and tfoot map to
// Header and Footer, tbody rows are grouped by the site's tb_item/tb_subitem
// cell classes. Returns ErrTableNotFound when no such table exists.
func ParseTable(r io.Reader) (*Record, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, err
	}

	table := findDataTable(doc)
	if table == nil {
		return nil, ErrTableNotFound
	}

	thead := findChildElement(table, "thead")
	tfoot := findChildElement(table, "tfoot")
	tbody := findChildElement(table, "tbody")

	rec := &Record{
		Header: sectionRows(thead),
		Footer: sectionRows(tfoot),
	}

	if tbody != nil {
		rec.Body = groupedBodyRows(tbody)
	} else {
		// No explicit tbody: take every row that is not part of thead/tfoot.
		rec.Body = fallbackBodyRows(table, thead, tfoot)
	}

	return rec, nil
}

// findDataTable walks the DOM for the first table carrying all data classes.
func findDataTable(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.Data == "table" && hasClasses(n, dataTableClasses...) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findDataTable(c); found != nil {
			return found
		}
	}
	return nil
}

// findChildElement returns the first descendant element with the given tag,
// stopping at nested tables.
func findChildElement(n *html.Node, tag string) *html.Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			if c.Data == tag {
				return c
			}
			if c.Data == "table" {
				continue
			}
			if found := findChildElement(c, tag); found != nil {
				return found
			}
		}
	}
	return nil
}

// sectionRows collects the cell text of every row in a thead/tfoot section.
func sectionRows(section *html.Node) [][]string {
	if section == nil {
		return nil
	}
	var rows [][]string
	for _, tr := range descendantElements(section, "tr") {
		if cells := rowCells(tr); len(cells) > 0 {
			rows = append(rows, cells)
		}
	}
	return rows
}

// groupedBodyRows groups direct tbody rows by the tb_item/tb_subitem classes
// of their first cell. A tb_item row opens a group; following tb_subitem rows
// attach to it. Rows outside any group share a single default group with
// empty item data.
func groupedBodyRows(tbody *html.Node) []BodyGroup {
	var groups []BodyGroup
	var defaultGroup *BodyGroup

	rows := childElements(tbody, "tr")
	for i := 0; i < len(rows); i++ {
		cells := rowCells(rows[i])
		if len(cells) == 0 {
			continue
		}

		if firstCellHasClass(rows[i], "tb_item") {
			group := BodyGroup{ItemData: cells}
			for i+1 < len(rows) && firstCellHasClass(rows[i+1], "tb_subitem") {
				i++
				if sub := rowCells(rows[i]); len(sub) > 0 {
					group.SubItems = append(group.SubItems, sub)
				}
			}
			groups = append(groups, group)
			continue
		}

		if defaultGroup == nil {
			groups = append(groups, BodyGroup{})
			defaultGroup = &groups[len(groups)-1]
		}
		defaultGroup.SubItems = append(defaultGroup.SubItems, cells)
	}

	return groups
}

// fallbackBodyRows collects rows outside thead/tfoot when no tbody exists.
func fallbackBodyRows(table, thead, tfoot *html.Node) []BodyGroup {
	excluded := make(map[*html.Node]bool)
	for _, section := range []*html.Node{thead, tfoot} {
		if section == nil {
			continue
		}
		for _, tr := range descendantElements(section, "tr") {
			excluded[tr] = true
		}
	}

	var group BodyGroup
	for _, tr := range descendantElements(table, "tr") {
		if excluded[tr] {
			continue
		}
		if cells := rowCells(tr); len(cells) > 0 {
			group.SubItems = append(group.SubItems, cells)
		}
	}
	if len(group.SubItems) == 0 {
		return nil
	}
	return []BodyGroup{group}
}

// rowCells extracts the trimmed text of every th/td cell in a row.
func rowCells(tr *html.Node) []string {
	var cells []string
	for c := tr.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && (c.Data == "td" || c.Data == "th") {
			cells = append(cells, nodeText(c))
		}
	}
	return cells
}

// firstCellHasClass reports whether the first td of a row carries the class.
func firstCellHasClass(tr *html.Node, class string) bool {
	for c := tr.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.Data == "td" {
			return hasClasses(c, class)
		}
	}
	return false
}

// childElements returns the direct child elements with the given tag.
func childElements(n *html.Node, tag string) []*html.Node {
	var out []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.Data == tag {
			out = append(out, c)
		}
	}
	return out
}

// descendantElements returns every descendant element with the given tag.
func descendantElements(n *html.Node, tag string) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.ElementNode && c.Data == tag {
				out = append(out, c)
				continue
			}
			walk(c)
		}
	}
	walk(n)
	return out
}

// nodeText collects and normalizes the text content of a node.
func nodeText(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
			b.WriteString(" ")
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.Join(strings.Fields(b.String()), " ")
}

// hasClasses reports whether an element's class attribute contains all of
// the given classes.
func hasClasses(n *html.Node, classes ...string) bool {
	var attr string
	for _, a := range n.Attr {
		if a.Key == "class" {
			attr = a.Val
			break
		}
	}
	have := strings.Fields(attr)
	for _, want := range classes {
		found := false
		for _, c := range have {
			if c == want {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
