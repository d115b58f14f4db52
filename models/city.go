package models

import (
	"fmt"
	"strings"
)

// City is the enumerated set of cities an event can take place in.
type City string

const (
	CityPodgorica  City = "PODGORICA"
	CityNiksic     City = "NIKSIC"
	CityBudva      City = "BUDVA"
	CityKotor      City = "KOTOR"
	CityBar        City = "BAR"
	CityHercegNovi City = "HERCEG_NOVI"
	CityUlcinj     City = "ULCINJ"
)

var cities = map[City]bool{
	CityPodgorica:  true,
	CityNiksic:     true,
	CityBudva:      true,
	CityKotor:      true,
	CityBar:        true,
	CityHercegNovi: true,
	CityUlcinj:     true,
}

// ParseCity matches a city name case-insensitively against the enumeration.
func ParseCity(s string) (City, error) {
	c := City(strings.ToUpper(strings.TrimSpace(s)))
	if !cities[c] {
		return "", fmt.Errorf("unknown city: %s", s)
	}
	return c, nil
}
