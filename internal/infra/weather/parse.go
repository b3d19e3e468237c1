package weather

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"

	"github.com/tutu-network/statbar/internal/domain"
)

// Reading is a temperature in the unit the source reported.
type Reading struct {
	Value float64
	Unit  string // domain.Celsius or domain.Fahrenheit
}

// In converts the reading to unit.
func (r Reading) In(unit string) float64 {
	switch {
	case r.Unit == unit:
		return r.Value
	case r.Unit == domain.Celsius && unit == domain.Fahrenheit:
		return domain.CelsiusToFahrenheit(r.Value)
	case r.Unit == domain.Fahrenheit && unit == domain.Celsius:
		return (r.Value - 32) * 5 / 9
	default:
		return r.Value
	}
}

// nwsObservation is the part of an api.weather.gov observation we read.
type nwsObservation struct {
	Properties struct {
		Temperature *struct {
			UnitCode string   `json:"unitCode"`
			Value    *float64 `json:"value"`
		} `json:"temperature"`
	} `json:"properties"`
}

// ParseNWS extracts properties.temperature from an api.weather.gov
// "observations/latest" document.
func ParseNWS(body []byte) (Reading, error) {
	var obs nwsObservation
	if err := json.Unmarshal(body, &obs); err != nil {
		return Reading{}, &domain.ParseError{Field: "observation", Input: truncate(string(body), 64), Err: err}
	}
	temp := obs.Properties.Temperature
	if temp == nil {
		return Reading{}, domain.Unavailable("temperature", "field missing from observation")
	}
	if temp.Value == nil {
		return Reading{}, domain.Unavailable("temperature", "station reported no value")
	}

	unit := domain.Celsius
	if strings.HasSuffix(temp.UnitCode, "degF") {
		unit = domain.Fahrenheit
	}
	return Reading{Value: *temp.Value, Unit: unit}, nil
}

// metarTempRe matches the temperature/dew-point group, e.g. "12/08",
// "M02/M05" or "05/" when the dew point is missing.
var metarTempRe = regexp.MustCompile(`^(M?\d{2})/(M?\d{2})?$`)

// ParseMETAR finds the station marker token and returns the temperature
// group that follows it. Remarks (after RMK) are not searched.
func ParseMETAR(body []byte, station string) (Reading, error) {
	tokens := strings.Fields(string(body))
	start := -1
	for i, tok := range tokens {
		if strings.EqualFold(tok, station) {
			start = i + 1
			break
		}
	}
	if start < 0 {
		return Reading{}, domain.Unavailable(station, "station marker not in METAR report")
	}

	for _, tok := range tokens[start:] {
		if tok == "RMK" {
			break
		}
		m := metarTempRe.FindStringSubmatch(tok)
		if m == nil {
			continue
		}
		raw := strings.Replace(m[1], "M", "-", 1)
		v, err := strconv.Atoi(raw)
		if err != nil {
			return Reading{}, &domain.ParseError{Field: "METAR temperature", Input: tok, Err: err}
		}
		return Reading{Value: float64(v), Unit: domain.Celsius}, nil
	}
	return Reading{}, domain.Unavailable("temperature", "no temperature group in METAR report")
}

// ParseLine reads the first non-empty line as a number in unit.
func ParseLine(body []byte, unit string) (Reading, error) {
	for _, line := range strings.Split(string(body), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		v, err := strconv.ParseFloat(line, 64)
		if err != nil {
			return Reading{}, &domain.ParseError{Field: "temperature line", Input: truncate(line, 64), Err: err}
		}
		return Reading{Value: v, Unit: unit}, nil
	}
	return Reading{}, domain.Unavailable("temperature", "empty response")
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
