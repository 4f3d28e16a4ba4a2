package seatgeek

// wire types for the events endpoint, only the fields we read

type eventsPage struct {
	Events []apiEvent `json:"events"`
}

type apiEvent struct {
	Title       string       `json:"title"`
	ShortTitle  string       `json:"short_title"`
	URL         string       `json:"url"`
	DatetimeUTC string       `json:"datetime_utc"`
	Venue       apiVenue     `json:"venue"`
	Performers  []apiPerform `json:"performers"`
}

type apiVenue struct {
	Name            string      `json:"name"`
	Address         string      `json:"address"`
	ExtendedAddress string      `json:"extended_address"`
	Location        apiLocation `json:"location"`
}

type apiLocation struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type apiPerform struct {
	Image   string `json:"image"`
	Primary bool   `json:"primary"`
}
