// Package htmltext turns crawled job description HTML into plain text.
package htmltext

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-shiori/go-readability"
	"golang.org/x/net/html"
)

// blockSelector lists the elements that become one line of text each.
const blockSelector = "h1,h2,h3,h4,h5,h6,p,li,pre,blockquote,dt,dd,tr"

var (
	tagPattern      = regexp.MustCompile(`(?i)<(p|div|br|li|ul|ol|h[1-6]|span|strong|em|b|i|u|table|tr|td|html|body|section|article)[\s>/]`)
	documentPattern = regexp.MustCompile(`(?i)<(html|body)[\s>]`)

	defaultBase = &url.URL{Scheme: "https", Host: "localhost", Path: "/"}
)

// LooksLikeHTML reports whether s contains common HTML markup.
func LooksLikeHTML(s string) bool {
	return tagPattern.MatchString(s)
}

// Extract converts HTML to text with one block per line.
func Extract(src string) (string, error) {
	return ExtractFrom(src, "")
}

// ExtractFrom is Extract with the URL the HTML came from. Full documents
// are reduced to their main content with readability first; fragments are
// used as they are. Input without markup is only trimmed.
func ExtractFrom(src, pageURL string) (string, error) {
	if !LooksLikeHTML(src) {
		return strings.TrimSpace(src), nil
	}

	content := src
	if documentPattern.MatchString(src) {
		base := defaultBase
		if u, err := url.Parse(pageURL); err == nil && u.Host != "" {
			base = u
		}
		// Let go-readability find the main content
		parser := readability.NewParser()
		article, err := parser.Parse(strings.NewReader(src), base)
		if err == nil && strings.TrimSpace(article.Content) != "" {
			content = article.Content
		}
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return "", err
	}
	doc.Find("script,style,noscript").Remove()
	// Keep words on either side of a <br> apart.
	doc.Find("br").Each(func(_ int, s *goquery.Selection) {
		s.ReplaceWithNodes(&html.Node{Type: html.TextNode, Data: " "})
	})

	var lines []string
	doc.Find(blockSelector).Each(func(_ int, s *goquery.Selection) {
		// Only leaf blocks, so nested lists are not emitted twice.
		if s.Find(blockSelector).Length() > 0 {
			return
		}
		if text := normalizeText(s.Text()); text != "" {
			lines = append(lines, text)
		}
	})

	if len(lines) == 0 {
		return normalizeText(doc.Text()), nil
	}
	return strings.Join(lines, "\n"), nil
}

// normalizeText collapses runs of whitespace, including newlines, into
// single spaces.
func normalizeText(input string) string {
	return strings.Join(strings.Fields(input), " ")
}
