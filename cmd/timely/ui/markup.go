package ui

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var blankRuns = regexp.MustCompile(`\n{3,}`)

// NormalizeHTML turns the small HTML fragments some replies carry (<strong>,
// <em>, <br>, <p>, lists) into markdown so glamour can render them. Text
// without tags is returned unchanged.
func NormalizeHTML(s string) string {
	if !strings.Contains(s, "<") {
		return s
	}

	body := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(s), body)
	if err != nil {
		return s
	}

	var sb strings.Builder
	for _, n := range nodes {
		writeMarkdown(&sb, n)
	}
	out := blankRuns.ReplaceAllString(sb.String(), "\n\n")
	return strings.TrimSpace(out)
}

func writeMarkdown(sb *strings.Builder, n *html.Node) {
	switch n.Type {
	case html.TextNode:
		sb.WriteString(n.Data)
		return
	case html.ElementNode:
	default:
		writeChildren(sb, n)
		return
	}

	switch n.DataAtom {
	case atom.Script, atom.Style:
	case atom.Br:
		sb.WriteString("\n")
	case atom.Strong, atom.B:
		wrap(sb, n, "**")
	case atom.Em, atom.I:
		wrap(sb, n, "*")
	case atom.Code:
		wrap(sb, n, "`")
	case atom.H1, atom.H2, atom.H3, atom.H4:
		sb.WriteString("\n### ")
		writeChildren(sb, n)
		sb.WriteString("\n\n")
	case atom.P, atom.Div:
		writeChildren(sb, n)
		sb.WriteString("\n\n")
	case atom.Ul, atom.Ol:
		sb.WriteString("\n")
		writeChildren(sb, n)
		sb.WriteString("\n")
	case atom.Li:
		sb.WriteString("- ")
		writeChildren(sb, n)
		sb.WriteString("\n")
	default:
		writeChildren(sb, n)
	}
}

func writeChildren(sb *strings.Builder, n *html.Node) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		writeMarkdown(sb, c)
	}
}

func wrap(sb *strings.Builder, n *html.Node, marker string) {
	sb.WriteString(marker)
	writeChildren(sb, n)
	sb.WriteString(marker)
}
