package models

import "strings"

// DefaultAmenityIcon is used for amenities missing from the icon table.
const DefaultAmenityIcon = "check"

var amenityIcons = map[string]string{
	"gym":          "star",
	"free parking": "local_parking",
	"restaurant":   "restaurant",
	"wifi":         "wifi",
}

// AmenityIcon returns the icon identifier for an amenity name, case-insensitively.
func AmenityIcon(name string) string {
	if icon, ok := amenityIcons[strings.ToLower(strings.TrimSpace(name))]; ok {
		return icon
	}
	return DefaultAmenityIcon
}

// Amenity pairs an amenity name with its icon identifier.
type Amenity struct {
	Name string `json:"name"`
	Icon string `json:"icon"`
}

// Amenities resolves the icons for a list of amenity names, preserving order.
func Amenities(names []string) []Amenity {
	out := make([]Amenity, 0, len(names))
	for _, n := range names {
		out = append(out, Amenity{Name: n, Icon: AmenityIcon(n)})
	}
	return out
}
