package model

// Typed views over Record payloads. The pipeline itself works on generic
// records; these exist for callers that want structured access and for the
// fallback catalog, which is authored in typed form.

// Coordinates is a latitude/longitude pair.
type Coordinates struct {
	Lat float64 `json:"lat" yaml:"lat"`
	Lon float64 `json:"lon" yaml:"lon"`
}

// FestivalRef is a lightweight festival mention attached to a place.
type FestivalRef struct {
	Name      string `json:"name" yaml:"name"`
	DateShort string `json:"date_short,omitempty" yaml:"date_short,omitempty"`
}

// Place is a catalog entry for one tourist place.
type Place struct {
	Name            string        `json:"name" yaml:"name"`
	ShortDesc       string        `json:"short_desc" yaml:"short_desc"`
	Type            string        `json:"type,omitempty" yaml:"type,omitempty"`
	Tags            []string      `json:"tags" yaml:"tags"`
	Coordinates     *Coordinates  `json:"likely_coordinates" yaml:"likely_coordinates"`
	Festivals       []FestivalRef `json:"likely_festivals" yaml:"likely_festivals"`
	ConfidenceScore float64       `json:"confidence_score" yaml:"confidence_score"`
	Images          []string      `json:"images,omitempty" yaml:"images,omitempty"`
}

// Festival is a calendar entry for one festival within a state.
type Festival struct {
	Name          string   `json:"name" yaml:"name"`
	Description   string   `json:"description" yaml:"description"`
	FestivalDate  string   `json:"festival_date,omitempty" yaml:"festival_date,omitempty"`
	DurationDays  int      `json:"duration_days" yaml:"duration_days"`
	Significance  string   `json:"significance" yaml:"significance"`
	Traditions    []string `json:"traditions" yaml:"traditions"`
	EstimatedDate bool     `json:"estimated_date" yaml:"estimated_date"`
}

// ItineraryStop is one timed activity in a suggested itinerary.
type ItineraryStop struct {
	Time     string `json:"time" yaml:"time"`
	Activity string `json:"activity" yaml:"activity"`
}

// PlaceDetail is the enriched long-form record for a single place.
type PlaceDetail struct {
	Name            string          `json:"name" yaml:"name"`
	LongDesc        string          `json:"long_desc" yaml:"long_desc"`
	HistorySummary  string          `json:"history_summary" yaml:"history_summary"`
	VisitingTips    []string        `json:"visiting_tips" yaml:"visiting_tips"`
	BestTimeToVisit string          `json:"best_time_to_visit" yaml:"best_time_to_visit"`
	SafetyNotes     []string        `json:"safety_notes" yaml:"safety_notes"`
	Itinerary       []ItineraryStop `json:"suggested_itinerary_snippet" yaml:"suggested_itinerary_snippet"`
}
