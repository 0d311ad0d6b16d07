package domain

// JobPosting is one search-result card as scraped, before any enrichment.
type JobPosting struct {
	Title        string
	Company      string
	LocationText string
	DetailURL    string
}

// NormalizedJob is an enriched posting ready for persistence. Title is the
// unique key. Coordinates stay nil until the persistence step geocodes City.
type NormalizedJob struct {
	Title     string
	Company   string
	City      string
	State     string
	Latitude  *float64
	Longitude *float64
	URL       string
	Skills    []string
}

func (j NormalizedJob) HasCoordinates() bool {
	return j.Latitude != nil && j.Longitude != nil
}
