package domain

import "strings"

// AnalyzeResult is the part of a Document Intelligence analyze result the
// pipeline reads.
type AnalyzeResult struct {
	ModelID string `json:"modelId"`
	Content string `json:"content"`
	Pages   []Page `json:"pages"`
}

type Page struct {
	PageNumber int    `json:"pageNumber"`
	Width      float64 `json:"width"`
	Height     float64 `json:"height"`
	Unit       string  `json:"unit"`
	Lines      []Line  `json:"lines"`
}

type Line struct {
	Content string `json:"content"`
}

// Flatten joins the content of every line in reading order, page by page.
// Lines with empty content are skipped.
func Flatten(r *AnalyzeResult) string {
	if r == nil {
		return ""
	}
	var lines []string
	for _, p := range r.Pages {
		for _, l := range p.Lines {
			if l.Content != "" {
				lines = append(lines, l.Content)
			}
		}
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
