// Package page extracts metadata fields from the raw text of an item page.
//
// Every field has its own named pattern and accessor. Accessors never fail:
// they report whether the field was found, and the caller decides which
// fields are mandatory.
package page

import (
	"regexp"
	"strconv"
	"strings"
)

// Patterns of the item page layout.
const (
	// CodePattern finds the item identifier in a page URL. The identifier
	// follows "watch-" and has at most two hyphenated word segments before
	// a digit-terminated word.
	CodePattern = `watch-((?:\w+-){0,2}\w*\d+)`

	// ViewCountPattern finds the view counter block.
	ViewCountPattern = `<div class="film_view_count".*?>(\d*)</div>`

	// ModelsPattern finds the line with associated performers.
	ModelsPattern = `<.*>Models:.*?>.*?>`

	// TitlePattern finds the document title.
	TitlePattern = `<title>(.*)</title>`

	// ImagePattern finds the cover image.
	ImagePattern = `<img itemprop="image" src="(.*?)" title="`

	// GenrePattern finds the list item with genre links.
	GenrePattern = `<li>Genre:\s*(.*?)</li>`

	// AnchorTextPattern finds texts of links inside the genre list item.
	AnchorTextPattern = `<a.*?>(.*?)</a>`

	// MarkupPattern matches any tag.
	MarkupPattern = `<.*?>`
)

// modelsLabel precedes performer names once the markup is removed.
const modelsLabel = "Models: "

var (
	codeRe   = regexp.MustCompile(CodePattern)
	countRe  = regexp.MustCompile(ViewCountPattern)
	modelsRe = regexp.MustCompile(ModelsPattern)
	titleRe  = regexp.MustCompile(TitlePattern)
	imageRe  = regexp.MustCompile(ImagePattern)
	genreRe  = regexp.MustCompile(GenrePattern)
	anchorRe = regexp.MustCompile(AnchorTextPattern)
	markupRe = regexp.MustCompile(MarkupPattern)
)

// Fields are the values found on one item page.
type Fields struct {
	// Code is the upper-cased identifier from the URL.
	Code string

	// Count is the view count.
	Count int

	// Title, Models and ImgURL are nil when the page does not have them.
	Title  *string
	Models *string
	ImgURL *string

	// Tags are raw genre labels in page order. Never nil.
	Tags []string
}

// Parse collects all fields of an item page. It returns false when the
// URL has no identifier, the text is empty, or the view count is missing.
func Parse(url, text string) (Fields, bool) {
	var res Fields
	if text == "" {
		return res, false
	}

	code, ok := Code(url)
	if !ok {
		return res, false
	}
	count, ok := ViewCount(text)
	if !ok {
		return res, false
	}

	res.Code = strings.ToUpper(code)
	res.Count = count
	res.Title = optional(Title(text))
	res.Models = optional(Models(text))
	res.ImgURL = optional(ImageURL(text))
	res.Tags = Tags(text)
	return res, true
}

// Code returns the identifier found in a page URL as is.
func Code(url string) (string, bool) {
	m := codeRe.FindStringSubmatch(url)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// ViewCount returns the number inside the view counter block.
// An empty counter is treated as missing.
func ViewCount(text string) (int, bool) {
	m := countRe.FindStringSubmatch(text)
	if m == nil || m[1] == "" {
		return 0, false
	}
	res, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return res, true
}

// Models returns performer names without markup and label.
func Models(text string) (string, bool) {
	m := modelsRe.FindString(text)
	if m == "" {
		return "", false
	}
	res := stripMarkup(m)
	res = strings.ReplaceAll(res, modelsLabel, "")
	return nonEmpty(strings.TrimSpace(res))
}

// Title returns the text of the title element.
func Title(text string) (string, bool) {
	m := titleRe.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	return nonEmpty(strings.TrimSpace(stripMarkup(m[1])))
}

// ImageURL returns the source of the cover image.
func ImageURL(text string) (string, bool) {
	m := imageRe.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	return nonEmpty(m[1])
}

// Tags returns raw genre labels in page order, duplicates included.
// The result is empty when the page has no genre list.
func Tags(text string) []string {
	res := []string{}
	m := genreRe.FindStringSubmatch(text)
	if m == nil {
		return res
	}
	for _, v := range anchorRe.FindAllStringSubmatch(m[1], -1) {
		res = append(res, v[1])
	}
	return res
}

func stripMarkup(s string) string {
	return markupRe.ReplaceAllString(s, "")
}

func nonEmpty(s string) (string, bool) {
	return s, s != ""
}

func optional(s string, ok bool) *string {
	if !ok {
		return nil
	}
	return &s
}
