package models

import (
	"fmt"
	"strings"
)

// Category classifies an event for the filtered listing.
type Category string

const (
	CategoryConcert    Category = "CONCERT"
	CategoryFestival   Category = "FESTIVAL"
	CategoryParty      Category = "PARTY"
	CategorySport      Category = "SPORT"
	CategoryCulture    Category = "CULTURE"
	CategoryFood       Category = "FOOD"
	CategoryNightlife  Category = "NIGHTLIFE"
	CategoryConference Category = "CONFERENCE"
	CategoryOther      Category = "OTHER"
)

var categories = map[Category]bool{
	CategoryConcert:    true,
	CategoryFestival:   true,
	CategoryParty:      true,
	CategorySport:      true,
	CategoryCulture:    true,
	CategoryFood:       true,
	CategoryNightlife:  true,
	CategoryConference: true,
	CategoryOther:      true,
}

// ParseCategory matches a category name case-insensitively against the enumeration.
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToUpper(strings.TrimSpace(s)))
	if !categories[c] {
		return "", fmt.Errorf("unknown category: %s", s)
	}
	return c, nil
}
