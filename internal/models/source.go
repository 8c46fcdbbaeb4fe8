package models

// Feed kinds a data source can publish.
const (
	FeedSatcat = "satcat"
	FeedTLE    = "tle"
)

// DataSource is a remote feed the fetch command downloads and ingests.
type DataSource struct {
	Name string `yaml:"name" json:"name"`
	Type string `yaml:"type" json:"type"`
	URL  string `yaml:"url" json:"url"`
}
