// Package seo builds schema.org JSON-LD object graphs for pages. Builders are
// pure; nothing here performs I/O.
package seo

// Context is the JSON-LD vocabulary used by every graph.
const Context = "https://schema.org"

// Ref points at a node defined elsewhere in the graph.
type Ref struct {
	ID string `json:"@id"`
}

type Person struct {
	Type     string   `json:"@type"`
	ID       string   `json:"@id,omitempty"`
	Name     string   `json:"name"`
	URL      string   `json:"url,omitempty"`
	JobTitle string   `json:"jobTitle,omitempty"`
	Image    string   `json:"image,omitempty"`
	SameAs   []string `json:"sameAs,omitempty"`
}

type WebSite struct {
	Type        string `json:"@type"`
	ID          string `json:"@id"`
	URL         string `json:"url"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	InLanguage  string `json:"inLanguage,omitempty"`
	Author      Ref    `json:"author"`
	Publisher   Ref    `json:"publisher"`
}

type WebPage struct {
	Type string `json:"@type"`
	ID   string `json:"@id"`
}

// BlogPosting describes one article.
type BlogPosting struct {
	Type             string   `json:"@type"`
	ID               string   `json:"@id"`
	URL              string   `json:"url"`
	Headline         string   `json:"headline"`
	Description      string   `json:"description,omitempty"`
	DatePublished    string   `json:"datePublished"`
	DateModified     string   `json:"dateModified"`
	WordCount        int      `json:"wordCount"`
	TimeRequired     string   `json:"timeRequired"`
	Keywords         []string `json:"keywords,omitempty"`
	Image            string   `json:"image,omitempty"`
	InLanguage       string   `json:"inLanguage,omitempty"`
	MainEntityOfPage WebPage  `json:"mainEntityOfPage"`
	Author           Ref      `json:"author"`
	Publisher        Ref      `json:"publisher"`
	IsPartOf         Ref      `json:"isPartOf"`
}

type BreadcrumbList struct {
	Type            string     `json:"@type"`
	ID              string     `json:"@id,omitempty"`
	ItemListElement []ListItem `json:"itemListElement"`
}

type ListItem struct {
	Type     string `json:"@type"`
	Position int    `json:"position"`
	Name     string `json:"name"`
	Item     string `json:"item,omitempty"`
}

type FAQPage struct {
	Type       string     `json:"@type"`
	ID         string     `json:"@id,omitempty"`
	MainEntity []Question `json:"mainEntity"`
}

type Question struct {
	Type           string `json:"@type"`
	Name           string `json:"name"`
	AcceptedAnswer Answer `json:"acceptedAnswer"`
}

type Answer struct {
	Type string `json:"@type"`
	Text string `json:"text"`
}

type HowTo struct {
	Type        string      `json:"@type"`
	ID          string      `json:"@id,omitempty"`
	Name        string      `json:"name"`
	Description string      `json:"description,omitempty"`
	TotalTime   string      `json:"totalTime,omitempty"`
	Step        []HowToStep `json:"step"`
}

type HowToStep struct {
	Type     string `json:"@type"`
	Position int    `json:"position"`
	Name     string `json:"name,omitempty"`
	Text     string `json:"text"`
	URL      string `json:"url,omitempty"`
}

// Graph is a JSON-LD document holding several nodes.
type Graph struct {
	Context string `json:"@context"`
	Graph   []any  `json:"@graph"`
}
