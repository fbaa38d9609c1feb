// Package integration handles conversion of external content for the chat interface
package integration

import (
	"fmt"
	"log"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/abelzeko/aquarium-bot/internal/entities"
)

// ArticleRenderer turns the HTML fragments of educational articles into plain chat text
type ArticleRenderer struct {
	headingPrefix string
	bullet        string
}

// NewArticleRenderer creates a renderer using the default decorations
func NewArticleRenderer() *ArticleRenderer {
	return &ArticleRenderer{
		headingPrefix: "▶ ",
		bullet:        "• ",
	}
}

// Render converts an HTML fragment into paragraphs separated by blank lines
func (ar *ArticleRenderer) Render(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("failed to parse article html: %w", err)
	}

	var blocks []string
	doc.Find("body").Contents().Each(func(index int, s *goquery.Selection) {
		switch goquery.NodeName(s) {
		case "h1", "h2", "h3", "h4", "h5", "h6":
			if text := collapseSpaces(s.Text()); text != "" {
				blocks = append(blocks, ar.headingPrefix+text)
			}
		case "ul", "ol":
			var items []string
			s.Find("li").Each(func(_ int, li *goquery.Selection) {
				if text := collapseSpaces(li.Text()); text != "" {
					items = append(items, ar.bullet+text)
				}
			})
			if len(items) > 0 {
				blocks = append(blocks, strings.Join(items, "\n"))
			}
		default:
			// paragraphs and loose text between tags
			if text := collapseSpaces(s.Text()); text != "" {
				blocks = append(blocks, text)
			}
		}
	})

	return strings.Join(blocks, "\n\n"), nil
}

// RenderArticle renders an article with its header, body, tips and warnings
func (ar *ArticleRenderer) RenderArticle(a entities.Article) string {
	body, err := ar.Render(a.Content)
	if err != nil {
		log.Printf("Warning: falling back to raw content for article %d: %v", a.ID, err)
		body = a.Content
	}

	var result strings.Builder
	result.WriteString(fmt.Sprintf("📖 %s\n", a.Title))
	result.WriteString(fmt.Sprintf("🏷️ %s · %s · %d min read\n\n", a.Category, a.Difficulty, a.ReadTime))
	result.WriteString(body)

	if len(a.Tips) > 0 {
		result.WriteString("\n\n💡 Tips:\n")
		for _, tip := range a.Tips {
			result.WriteString(ar.bullet + tip + "\n")
		}
	}
	if len(a.Warnings) > 0 {
		result.WriteString("\n⚠️ Warnings:\n")
		for _, w := range a.Warnings {
			result.WriteString(ar.bullet + w + "\n")
		}
	}

	return strings.TrimRight(result.String(), "\n")
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
