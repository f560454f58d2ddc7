// Package hazard maps GHS hazard statements to the exposure routes and control
// measures ticked on a COSHH form.
package hazard

import (
	"maps"
	"slices"
	"strconv"
	"strings"
)

// Exposure route positions
const (
	Eye = iota
	Skin
	Inhalation
	Ingestion
)

// Control measure positions. Position 1 is a fixed column of the form that no
// hazard code drives.
const (
	Spill = iota
	_
	PPE
	Flame
	TemperatureControl
	Pregnancy
	WaterReactive
	Dropwise
	AirSensitive
)

// ExposureRoutes holds one 0/1 indicator per exposure route
type ExposureRoutes [4]int

// ControlMeasures holds one 0/1 indicator per control measure column
type ControlMeasures [9]int

// Classify derives both indicator vectors from newline separated hazard
// statements. Empty text, or text starting with "N" (no data / not classified),
// yields two zero vectors without parsing anything.
func Classify(hazardText string) (ExposureRoutes, ControlMeasures) {
	var routes ExposureRoutes
	var measures ControlMeasures

	if hazardText == "" || hazardText[0] == 'N' {
		return routes, measures
	}

	codes := Codes(hazardText)

	measures[PPE] = 1
	for _, c := range controlCategories {
		if c.matches(codes) {
			measures[c.index] = 1
		}
	}
	for _, c := range exposureCategories {
		if c.matches(codes) {
			routes[c.index] = 1
		}
	}

	return routes, measures
}

// Codes extracts the set of hazard codes from newline separated statements.
// Lines that yield no code are dropped.
func Codes(hazardText string) map[int]struct{} {
	codes := make(map[int]struct{})
	for _, line := range strings.Split(hazardText, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if code, ok := ParseCode(line); ok {
			codes[code] = struct{}{}
		}
	}
	return codes
}

// SortedCodes returns the distinct hazard codes in ascending order
func SortedCodes(hazardText string) []int {
	return slices.Sorted(maps.Keys(Codes(hazardText)))
}

// ParseCode reads the numeric part of a hazard statement: either the whole
// trimmed statement ("314") or the three characters after the leading letter
// ("H314: Causes severe skin burns").
func ParseCode(statement string) (int, bool) {
	statement = strings.TrimSpace(statement)
	if code, err := strconv.Atoi(statement); err == nil {
		return code, true
	}

	runes := []rune(statement)
	if len(runes) < 2 {
		return 0, false
	}
	end := min(4, len(runes))
	code, err := strconv.Atoi(string(runes[1:end]))
	if err != nil {
		return 0, false
	}
	return code, true
}

// Matches reports which categories a set of hazard codes falls into, keyed by
// category name. Used for previews; the form itself only needs the vectors.
func Matches(hazardText string) (exposure map[string]bool, control map[string]bool) {
	routes, measures := Classify(hazardText)

	exposure = make(map[string]bool, len(exposureCategories))
	for _, c := range exposureCategories {
		exposure[c.name] = routes[c.index] == 1
	}

	control = make(map[string]bool, len(controlCategories)+1)
	control["ppe"] = measures[PPE] == 1
	for _, c := range controlCategories {
		control[c.name] = measures[c.index] == 1
	}

	return exposure, control
}
