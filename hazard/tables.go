package hazard

import "slices"

// category is one fixed mapping from hazard codes to a vector position
type category struct {
	name  string
	index int
	codes []int
}

func (c category) matches(codes map[int]struct{}) bool {
	for _, code := range c.codes {
		if _, ok := codes[code]; ok {
			return true
		}
	}
	return false
}

// Reference tables for the COSHH form columns. They are not configurable.
var controlCategories = [...]category{
	{"spill", Spill, []int{200, 201, 202, 203, 204, 205, 206, 207, 208, 230, 231, 232, 250, 251, 300, 301, 304, 310, 311, 330, 331, 340}},
	{"flame", Flame, []int{200, 201, 202, 203, 204, 205, 206, 207, 208, 220, 221, 222, 223, 224, 225, 226, 227, 228, 229, 230, 231, 232,
		240, 241, 242, 251, 252, 270, 271, 272}},
	{"temperature_control", TemperatureControl, []int{200, 201, 202, 203, 204, 205, 206, 207, 208, 225, 226, 227, 228, 230, 231, 270, 271, 272, 280}},
	{"pregnancy", Pregnancy, []int{360, 361, 362}},
	{"water_reactive", WaterReactive, []int{261, 262}},
	{"dropwise", Dropwise, []int{261, 262, 270, 271, 272}},
	{"air_sensitive", AirSensitive, []int{230, 231, 232, 250}},
}

var exposureCategories = [...]category{
	{"eye", Eye, []int{314, 318, 319}},
	{"skin", Skin, []int{310, 311, 312, 314, 315, 317}},
	{"inhalation", Inhalation, []int{304, 330, 331, 332, 334, 335, 336}},
	{"ingestion", Ingestion, []int{300, 301, 302, 304}},
}

// Category describes one mapping table entry
type Category struct {
	Name     string `json:"name"`
	Position int    `json:"position"`
	Codes    []int  `json:"codes"`
}

// Categories returns copies of the exposure and control tables
func Categories() (exposure []Category, control []Category) {
	for _, c := range exposureCategories {
		exposure = append(exposure, Category{Name: c.name, Position: c.index, Codes: slices.Clone(c.codes)})
	}
	for _, c := range controlCategories {
		control = append(control, Category{Name: c.name, Position: c.index, Codes: slices.Clone(c.codes)})
	}
	return exposure, control
}
