package engine

import (
	"context"
	"net/url"
	"strings"

	readability "codeberg.org/readeck/go-readability/v2"
	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/PuerkitoBio/goquery"
)

// PageFetcher is the page-fetch capability used by the generic-page path.
type PageFetcher interface {
	FetchPage(ctx context.Context, rawURL string) (title, content string, err error)
}

// HTTPPageFetcher fetches pages over HTTP and extracts their visible text.
type HTTPPageFetcher struct{}

func (HTTPPageFetcher) FetchPage(ctx context.Context, rawURL string) (string, string, error) {
	return FetchURLContent(ctx, rawURL)
}

// FetchURLContent extracts the main text content of a URL using go-readability.
// Falls back to goquery, then to strict tag stripping. Plain-text bodies pass through.
func FetchURLContent(ctx context.Context, rawURL string) (title, content string, err error) {
	metrics.FetchRequests.Add(1)
	defer func() {
		if err != nil {
			metrics.FetchErrors.Add(1)
		}
	}()

	ctx, cancel := context.WithTimeout(ctx, cfg.FetchTimeout)
	defer cancel()

	page, err := fetchPage(ctx, rawURL)
	if err != nil {
		return "", "", err
	}
	if !page.isHTML() {
		return "", strings.TrimSpace(string(page.body)), nil
	}
	title, content = ExtractText(rawURL, string(page.body))
	return title, content, nil
}

// ExtractText turns an HTML document into a title and readable text,
// discarding markup, scripts and styling.
func ExtractText(rawURL, html string) (title, content string) {
	if title, content = extractReadable(rawURL, html); content != "" {
		return title, content
	}
	if title, content = extractWithGoquery(html); content != "" {
		return title, content
	}
	return extractStripped(html)
}

// extractReadable runs go-readability and renders the article as markdown so
// paragraph breaks survive for the chunker.
func extractReadable(rawURL, html string) (title, content string) {
	parsedURL, _ := url.Parse(rawURL)
	article, err := readability.FromReader(strings.NewReader(html), parsedURL)
	if err != nil {
		return "", ""
	}

	var htmlBuf strings.Builder
	_ = article.RenderHTML(&htmlBuf)

	md, err := htmltomarkdown.ConvertString(htmlBuf.String())
	if err != nil {
		var textBuf strings.Builder
		_ = article.RenderText(&textBuf)
		md = textBuf.String()
	}
	return strings.TrimSpace(article.Title()), strings.TrimSpace(md)
}

var removeSelectors = []string{
	"script", "style", "noscript", "iframe", "svg", "template",
	"header", "footer", "nav", "aside", "form",
	".advertisement", ".ad", ".sidebar", ".comments",
	"[role=navigation]", "[role=banner]", "[role=contentinfo]",
}

// extractWithGoquery uses goquery for structured HTML parsing when readability fails.
func extractWithGoquery(html string) (title, content string) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", ""
	}

	title = strings.TrimSpace(doc.Find("title").First().Text())
	if title == "" {
		title, _ = doc.Find("meta[property='og:title']").First().Attr("content")
	}

	doc.Find(strings.Join(removeSelectors, ", ")).Remove()

	contentSel := doc.Find("article, main, .content, .post-content, .article-content, #content").First()
	if contentSel.Length() == 0 {
		contentSel = doc.Find("body")
	}

	// keep one paragraph per block element
	var paras []string
	contentSel.Find("h1, h2, h3, h4, p, li, pre, blockquote").Each(func(_ int, s *goquery.Selection) {
		if text := CollapseSpaces(s.Text()); text != "" {
			paras = append(paras, text)
		}
	})
	if len(paras) == 0 {
		return strings.TrimSpace(title), CollapseSpaces(contentSel.Text())
	}
	return strings.TrimSpace(title), strings.Join(paras, "\n\n")
}

// extractStripped is the last resort: drop every tag with bluemonday's strict policy.
func extractStripped(html string) (title, content string) {
	if doc, err := goquery.NewDocumentFromReader(strings.NewReader(html)); err == nil {
		title = strings.TrimSpace(doc.Find("title").First().Text())
		doc.Find("script, style, noscript, head").Remove()
		if h, err := doc.Html(); err == nil {
			html = h
		}
	}
	return title, CollapseSpaces(CleanHTML(html))
}
