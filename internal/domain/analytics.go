package domain

import "time"

// UnknownCountry is recorded when a visitor cannot be geolocated.
const UnknownCountry = "Unknown"

// VisitorCountry is a running visit count for one country.
type VisitorCountry struct {
	Country string
	Count   int64
}

// TrelloListStat is the number of cards on one open board list.
type TrelloListStat struct {
	List  string `json:"list" bson:"list"`
	Cards int    `json:"cards" bson:"cards"`
}

// TrelloSnapshot is the latest scraped board summary.
type TrelloSnapshot struct {
	Stats     []TrelloListStat
	UpdatedAt time.Time
}
