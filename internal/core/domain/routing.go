package domain

import "strings"

// RoutingCategory selects which persisted dataset partition a request operates on.
type RoutingCategory string

// The closed set of routing categories.
const (
	CategoryHospital        RoutingCategory = "hospital"
	CategoryLegalese        RoutingCategory = "legalese"
	CategoryBeautyTreatment RoutingCategory = "beauty-treatment"
	CategoryFunctionalFood  RoutingCategory = "functional-food"
	CategoryStartup         RoutingCategory = "startup"
	CategoryHomeAppliances  RoutingCategory = "home-appliances"
	CategoryOther           RoutingCategory = "other"
)

// FallbackCategory is substituted for any label outside the closed set.
const FallbackCategory = CategoryOther

// RoutingCategories returns the closed set in display order.
func RoutingCategories() []RoutingCategory {
	return []RoutingCategory{
		CategoryHospital,
		CategoryLegalese,
		CategoryBeautyTreatment,
		CategoryFunctionalFood,
		CategoryStartup,
		CategoryHomeAppliances,
		CategoryOther,
	}
}

// IsValid returns true if the category is a member of the closed set.
func (c RoutingCategory) IsValid() bool {
	for _, known := range RoutingCategories() {
		if c == known {
			return true
		}
	}
	return false
}

// String returns the string representation.
func (c RoutingCategory) String() string {
	return string(c)
}

// ParseRoutingCategory normalises label and returns the matching category.
// Labels outside the closed set map to FallbackCategory and ok is false.
func ParseRoutingCategory(label string) (cat RoutingCategory, ok bool) {
	label = strings.ToLower(strings.TrimSpace(label))
	label = strings.Trim(label, "\"'`.")
	c := RoutingCategory(label)
	if c.IsValid() {
		return c, true
	}
	return FallbackCategory, false
}
