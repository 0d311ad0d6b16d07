package scrape

import (
	"github.com/PuerkitoBio/goquery"

	"jobharvest/internal/domain"
	"jobharvest/internal/scrape/types"
	"jobharvest/internal/scrape/util"
)

// Selectors locate the pieces of a search result card and a detail page.
type Selectors struct {
	Card        string
	Title       string
	Company     string
	Location    string
	Description string
}

func DefaultSelectors() Selectors {
	return Selectors{
		Card:        "div.jobsearch-SerpJobCard",
		Title:       "a[data-tn-element=jobTitle]",
		Company:     "span.company",
		Location:    ".location",
		Description: "div.jobsearch-JobComponent-description",
	}
}

// Extraction is either a usable posting or the reason the card was unusable.
type Extraction struct {
	Posting domain.JobPosting
	Skip    types.SkipReason
	Detail  string
}

func (e Extraction) OK() bool { return e.Skip == "" }

// ExtractCandidates reads every result card on a listing page. Cards with a
// missing title link, href, company or location element come back as
// malformed rather than failing the page.
func ExtractCandidates(doc *goquery.Document, sel Selectors, siteURL string) []Extraction {
	var out []Extraction
	doc.Find(sel.Card).Each(func(_ int, card *goquery.Selection) {
		out = append(out, extractCard(card, sel, siteURL))
	})
	return out
}

func extractCard(card *goquery.Selection, sel Selectors, siteURL string) Extraction {
	link := card.Find(sel.Title).First()
	if link.Length() == 0 {
		return Extraction{Skip: types.SkipMalformed, Detail: "no title link"}
	}
	title := util.CleanText(link.Text())
	if title == "" {
		return Extraction{Skip: types.SkipMalformed, Detail: "empty title"}
	}

	malformed := func(detail string) Extraction {
		return Extraction{Posting: domain.JobPosting{Title: title}, Skip: types.SkipMalformed, Detail: detail}
	}

	href, ok := link.Attr("href")
	if !ok || util.CleanText(href) == "" {
		return malformed("no detail href")
	}
	company := card.Find(sel.Company).First()
	if company.Length() == 0 {
		return malformed("no company")
	}
	location := card.Find(sel.Location).First()
	if location.Length() == 0 {
		return malformed("no location")
	}

	return Extraction{Posting: domain.JobPosting{
		Title:        title,
		Company:      util.CleanText(company.Text()),
		LocationText: util.CleanText(location.Text()),
		DetailURL:    util.ResolveURL(siteURL, href),
	}}
}

// Description returns the posting body text of a detail page.
func Description(doc *goquery.Document, sel Selectors) (string, bool) {
	d := doc.Find(sel.Description).First()
	if d.Length() == 0 {
		return "", false
	}
	return d.Text(), true
}
