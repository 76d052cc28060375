package overpass

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/ev-spark-hub/internal/domain"
)

type tags map[string]string

// tagRule - одно правило таблицы: extract возвращает значение и признак срабатывания.
// Правила проверяются по порядку, побеждает первое сработавшее.
type tagRule struct {
	name    string
	extract func(t tags) (string, bool)
}

func firstMatch(rules []tagRule, t tags) string {
	for _, r := range rules {
		if v, ok := r.extract(t); ok {
			return v
		}
	}
	return ""
}

func tagValue(key string) tagRule {
	return tagRule{name: key, extract: func(t tags) (string, bool) {
		v := strings.TrimSpace(t[key])
		return v, v != ""
	}}
}

func tagFlag(key, result string) tagRule {
	return tagRule{name: key + "=yes", extract: func(t tags) (string, bool) {
		return result, t[key] == "yes"
	}}
}

func tagFormat(key, format string) tagRule {
	return tagRule{name: key, extract: func(t tags) (string, bool) {
		v := strings.TrimSpace(t[key])
		if v == "" {
			return "", false
		}
		return fmt.Sprintf(format, v), true
	}}
}

func constant(v string) tagRule {
	return tagRule{name: "default", extract: func(tags) (string, bool) { return v, true }}
}

var nameRules = []tagRule{
	tagValue("name"),
	tagValue("name:en"),
	tagFormat("operator", "%s Charging Station"),
	tagFormat("brand", "%s Charging Station"),
	tagFormat("network", "%s Charging Point"),
}

var socketRules = []tagRule{
	tagValue("socket"),
	tagValue("charge:socket"),
	tagFlag("socket:type2", "Type 2"),
	tagFlag("socket:type1", "Type 1"),
	tagFlag("socket:chademo", "CHAdeMO"),
	tagFlag("socket:ccs", "CCS"),
	constant("Standard Socket"),
}

var speedRules = []tagRule{
	tagValue("charge:speed"),
	// заданный charge:output закрывает правило, даже если значение не число
	{name: "charge:output", extract: func(t tags) (string, bool) {
		if t["charge:output"] == "" {
			return "", false
		}
		kw, ok := outputKW(t)
		if !ok {
			return "Standard", true
		}
		return domain.SpeedFromKW(kw), true
	}},
	tagFlag("socket:ccs", "Fast"),
	tagFlag("socket:chademo", "Fast"),
	constant("Standard"),
}

var powerRules = []tagRule{
	{name: "charge:output", extract: func(t tags) (string, bool) {
		kw, ok := outputKW(t)
		if !ok {
			return "", false
		}
		return domain.FormatKW(kw), true
	}},
}

var statusRules = []tagRule{
	tagValue("charge:status"),
	tagValue("operational_status"),
	tagFlag("operational", "operational"),
}

var accessRules = []tagRule{
	tagValue("access"),
	tagValue("charge:access"),
	constant(domain.DefaultAccess),
}

var networkRules = []tagRule{
	tagValue("network"),
	tagValue("brand"),
}

var operatorRules = []tagRule{
	tagValue("operator"),
	tagValue("network"),
	constant("Unknown Operator"),
}

var kwPrefix = regexp.MustCompile(`^\s*([0-9]+(?:[.,][0-9]+)?)`)

// outputKW разбирает числовой префикс charge:output ("22 kW", "7.4")
func outputKW(t tags) (float64, bool) {
	raw := t["charge:output"]
	m := kwPrefix.FindStringSubmatch(raw)
	if m == nil {
		return 0, false
	}
	kw, err := strconv.ParseFloat(strings.Replace(m[1], ",", ".", 1), 64)
	if err != nil {
		return 0, false
	}
	return kw, true
}

func hasFee(t tags) bool {
	return t["fee"] == "yes" || t["charge:fee"] == "yes" || t["payment"] == "yes"
}

func capacity(t tags) *int {
	v, err := strconv.Atoi(strings.TrimSpace(t["capacity"]))
	if err != nil || v <= 0 {
		return nil
	}
	return &v
}

// placeholderName - имя для безымянной станции из первых 5 символов seed
func placeholderName(seed string) string {
	if len(seed) > 5 {
		seed = seed[:5]
	}
	return "EV Charging Station " + seed
}

// mapElement преобразует узел Overpass в StationRecord
func mapElement(el domain.OverpassElement, requestID string, index int) domain.StationRecord {
	t := tags(el.Tags)
	if t == nil {
		t = tags{}
	}

	idSeed := fmt.Sprintf("%d-%s", el.ID, requestID)

	name := firstMatch(nameRules, t)
	if name == "" {
		name = placeholderName(idSeed)
	}

	return domain.StationRecord{
		ID:               fmt.Sprintf("%s%s-%d", domain.OverpassIDPrefix, idSeed, index),
		Coordinates:      domain.Point{Lat: el.Lat, Lon: el.Lon},
		Name:             name,
		Operator:         firstMatch(operatorRules, t),
		Network:          firstMatch(networkRules, t),
		Socket:           firstMatch(socketRules, t),
		Speed:            firstMatch(speedRules, t),
		Power:            firstMatch(powerRules, t),
		Fee:              hasFee(t),
		Access:           firstMatch(accessRules, t),
		Status:           domain.NormalizeStatus(firstMatch(statusRules, t)),
		LastStatusUpdate: strings.TrimSpace(t["check_date:charge"]),
		Source:           domain.SourceOverpass,
		Capacity:         capacity(t),
	}
}
