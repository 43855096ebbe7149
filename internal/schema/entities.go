package schema

import (
	"fmt"
	"strings"
	"time"

	"github.com/yatradesk/tourdata/internal/model"
)

// allowedPlaceTypes is the closed set the catalog UI filters on. The first
// matching tag wins; anything else leaves the type unset.
var allowedPlaceTypes = map[string]bool{
	"nature":     true,
	"historical": true,
	"cultural":   true,
}

const placePrompt = `You are a travel-data assistant.
TASK: Return ONLY a JSON array (no prose) of up to 12 notable tourist places for the Indian state "%s".
Each array item MUST strictly be an object with these fields:
{
  "name": string,
  "short_desc": string,         // <= 30 words, plain text
  "tags": string[],             // e.g. ["nature","historical","waterfall"]
  "likely_coordinates": {"lat": number, "lon": number} | null,
  "likely_festivals": [{"name": string, "dateShort"?: string}],
  "confidence_score": number    // 0..1
}
RULES:
- Respond ONLY with a valid JSON array (no markdown, no backticks, no commentary).
- If unsure about coordinates, set likely_coordinates to null.
- Prefer well-known locations in %s.`

const festivalPrompt = `You are a cultural expert specializing in Indian festivals and traditions. Provide a comprehensive list of festivals celebrated in %s, India.

Respond in the following JSON format:
[
  {
    "name": "Festival Name",
    "description": "Brief description of the festival",
    "festival_date": "YYYY-MM-DD",
    "duration_days": 1,
    "significance": "Why this festival is important",
    "traditions": ["tradition1", "tradition2"],
    "estimated_date": false
  }
]

REQUIREMENTS:
1. Include both major and regional festivals specific to %s
2. For festivals with fixed dates, use the actual date for %d
3. For festivals on lunar/religious calendars, provide the estimated date for %d and set "estimated_date": true
4. Sort festivals by proximity to today's date (%s)
5. Include at least 10-15 festivals that are still actively celebrated
6. Include religious, cultural, harvest, and folk festivals
Respond ONLY with the JSON array.`

const placeDetailPrompt = `You are a travel writer and itinerary planner. For the place "%s", "%s", output ONLY valid JSON with fields:
{
  "name": string,
  "long_desc": string,
  "history_summary": string,
  "visiting_tips": string[],
  "best_time_to_visit": string,
  "safety_notes": string[],
  "suggested_itinerary_snippet": [{"time": string, "activity": string}]
}
Constraints: JSON only (no markdown/backticks).`

var placeSchema = Schema{
	Kind: model.KindPlace,
	Fields: []Field{
		{Key: "short_desc", Type: TypeString, Required: true, Aliases: []string{"description"}},
		{Key: "tags", Type: TypeStringList},
		{Key: "likely_coordinates", Type: TypeCoordinates},
		{Key: "likely_festivals", Type: TypeObjectList},
		{Key: "confidence_score", Type: TypeFloat, Default: 0.0, Min: f64(0), Max: f64(1)},
	},
	MaxOutputTokens: 1200,
	Prompt: func(subject model.Subject) string {
		return fmt.Sprintf(placePrompt, subject.State, subject.State)
	},
	Derive: derivePlaceType,
}

var festivalSchema = Schema{
	Kind: model.KindFestival,
	Fields: []Field{
		{Key: "description", Type: TypeString, Required: true, Aliases: []string{"short_desc"}},
		{Key: "festival_date", Type: TypeString},
		{Key: "duration_days", Type: TypeInt, Default: 1, Min: f64(1), Max: f64(60)},
		{Key: "significance", Type: TypeString, Default: ""},
		{Key: "traditions", Type: TypeStringList},
		{Key: "estimated_date", Type: TypeBool},
	},
	MaxOutputTokens: 2048,
	Prompt: func(subject model.Subject) string {
		now := time.Now().UTC()
		return fmt.Sprintf(festivalPrompt,
			subject.State, subject.State,
			now.Year(), now.Year(),
			now.Format("2006-01-02"),
		)
	},
}

var placeDetailSchema = Schema{
	Kind: model.KindPlaceDetail,
	Fields: []Field{
		{Key: "long_desc", Type: TypeString, Required: true, Aliases: []string{"description"}},
		{Key: "history_summary", Type: TypeString, Default: ""},
		{Key: "visiting_tips", Type: TypeStringList},
		{Key: "best_time_to_visit", Type: TypeString, Default: ""},
		{Key: "safety_notes", Type: TypeStringList},
		{Key: "suggested_itinerary_snippet", Type: TypeObjectList},
	},
	MaxOutputTokens: 1600,
	Prompt: func(subject model.Subject) string {
		return fmt.Sprintf(placeDetailPrompt, subject.Place, subject.State)
	},
}

// derivePlaceType maps the first recognized tag onto the closed place-type
// set consumed by the catalog UI.
func derivePlaceType(payload map[string]any) {
	tags, _ := payload["tags"].([]string)
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if allowedPlaceTypes[t] {
			payload["type"] = t
			return
		}
	}
	payload["type"] = nil
}
