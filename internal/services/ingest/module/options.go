package module

import (
	"time"

	"blockparty/internal/platform/config"
)

// Options holds configuration settings for the ingest module
type Options struct {
	RunTimeout time.Duration

	GeocodeBaseURL string
	GeocodeAPIKey  string
	CitySuffix     string

	SeatGeekBaseURL      string
	SeatGeekClientID     string
	SeatGeekClientSecret string
	SeatGeekGeoIP        string
	SeatGeekRange        string

	VisitPhillyURL string

	EventbriteBaseURL string
	EventbritePages   int
	RenderTimeout     time.Duration
}

// FromConfig reads configuration settings from the config.Conf
func FromConfig(cfg config.Conf) Options {
	in := cfg.Prefix("INGEST_")
	return Options{
		RunTimeout: in.MayDuration("RUN_TIMEOUT", 10*time.Minute),

		GeocodeBaseURL: in.MayString("GEOCODE_BASE_URL", ""),
		GeocodeAPIKey:  in.MayString("GEOCODE_API_KEY", ""),
		CitySuffix:     in.MayString("CITY_SUFFIX", "Philadelphia, PA"),

		SeatGeekBaseURL:      in.MayString("SEATGEEK_BASE_URL", ""),
		SeatGeekClientID:     in.MayString("SEATGEEK_CLIENT_ID", ""),
		SeatGeekClientSecret: in.MayString("SEATGEEK_CLIENT_SECRET", ""),
		SeatGeekGeoIP:        in.MayString("SEATGEEK_GEOIP", ""),
		SeatGeekRange:        in.MayString("SEATGEEK_RANGE", ""),

		VisitPhillyURL: in.MayString("VISITPHILLY_URL", ""),

		EventbriteBaseURL: in.MayString("EVENTBRITE_BASE_URL", ""),
		EventbritePages:   in.MayInt("EVENTBRITE_PAGES", 5),
		RenderTimeout:     in.MayDuration("RENDER_TIMEOUT", time.Minute),
	}
}
