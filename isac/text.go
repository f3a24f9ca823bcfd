// This file is Free Software under the MIT License
// without warranty, see README.md and LICENSES/MIT.txt for details.
//
// SPDX-License-Identifier: MIT
//
// SPDX-FileCopyrightText: 2025 The isac_bench Authors <https://github.com/isac-bench/isac_bench>

package isac

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// PlainText converts an HTML description into plain text.
// Block elements are separated by newlines. If the input
// cannot be parsed it is returned unchanged.
func PlainText(s string) string {
	if !strings.ContainsRune(s, '<') {
		return strings.TrimSpace(s)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return s
	}
	var lines []string
	var inline strings.Builder
	flush := func() {
		if line := strings.Join(strings.Fields(inline.String()), " "); line != "" {
			lines = append(lines, line)
		}
		inline.Reset()
	}
	var walk func(*goquery.Selection)
	walk = func(sel *goquery.Selection) {
		sel.Contents().Each(func(_ int, c *goquery.Selection) {
			node := c.Get(0)
			switch node.Type {
			case html.TextNode:
				inline.WriteString(node.Data)
			case html.ElementNode:
				if isBlock(node.Data) {
					flush()
					walk(c)
					flush()
				} else if node.Data == "br" {
					flush()
				} else {
					walk(c)
				}
			}
		})
	}
	walk(doc.Find("body"))
	flush()
	return strings.Join(lines, "\n")
}

func isBlock(tag string) bool {
	switch tag {
	case "p", "div", "li", "ul", "ol", "h1", "h2", "h3", "h4", "h5", "h6",
		"table", "tr", "blockquote", "pre":
		return true
	}
	return false
}
