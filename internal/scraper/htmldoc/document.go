// Package htmldoc answers scraper.Document queries over static HTML, such
// as a page dump captured during a run.
package htmldoc

import (
	"context"
	"fmt"
	"io"
	"strings"

	"go-seasonal-jobs/internal/scraper"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Document wraps a parsed goquery document.
type Document struct {
	doc *goquery.Document
}

var _ scraper.Document = (*Document)(nil)

// Parse reads an HTML document.
func Parse(r io.Reader) (*Document, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return &Document{doc: doc}, nil
}

// ParseString is Parse for an in-memory document.
func ParseString(s string) (*Document, error) {
	return Parse(strings.NewReader(s))
}

func (d *Document) Texts(ctx context.Context, selector string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if strings.HasPrefix(selector, "xpath=") {
		return nil, fmt.Errorf("xpath selectors are not supported: %s", selector)
	}
	var out []string
	d.doc.Find(selector).Each(func(_ int, s *goquery.Selection) {
		out = append(out, strings.TrimSpace(s.Text()))
	})
	return out, nil
}

func (d *Document) TextsContaining(ctx context.Context, tag, substr string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var out []string
	d.doc.Find(tag).Each(func(_ int, s *goquery.Selection) {
		if ownTextContains(s, substr) {
			out = append(out, strings.TrimSpace(s.Text()))
		}
	})
	return out, nil
}

func (d *Document) Definitions(ctx context.Context) ([]scraper.Definition, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var out []scraper.Definition
	d.doc.Find("dt").Each(func(_ int, dt *goquery.Selection) {
		def := scraper.Definition{Label: strings.TrimSpace(dt.Text())}
		if dd := dt.NextAllFiltered("dd").First(); dd.Length() > 0 {
			def.Value = strings.TrimSpace(dd.Text())
			def.HasValue = true
		}
		out = append(out, def)
	})
	return out, nil
}

// ownTextContains checks the element's direct text children only.
func ownTextContains(s *goquery.Selection, substr string) bool {
	for _, n := range s.Nodes {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.TextNode && strings.Contains(c.Data, substr) {
				return true
			}
		}
	}
	return false
}
