package enums

import "strings"

type PropertyType string

const (
	PropertyTypeApartment  PropertyType = "apartment"
	PropertyTypeHouse      PropertyType = "house"
	PropertyTypeVilla      PropertyType = "villa"
	PropertyTypeLand       PropertyType = "land"
	PropertyTypeCommercial PropertyType = "commercial"
)

var propertyTypes = []PropertyType{
	PropertyTypeApartment,
	PropertyTypeHouse,
	PropertyTypeVilla,
	PropertyTypeLand,
	PropertyTypeCommercial,
}

func (t PropertyType) IsValid() bool {
	for _, known := range propertyTypes {
		if t == known {
			return true
		}
	}
	return false
}

func (t PropertyType) String() string {
	return string(t)
}

func ParsePropertyType(value string) (PropertyType, bool) {
	candidate := PropertyType(strings.ToLower(strings.TrimSpace(value)))
	if candidate.IsValid() {
		return candidate, true
	}
	return "", false
}

type PropertyStatus string

const (
	PropertyStatusSale   PropertyStatus = "sale"
	PropertyStatusRent   PropertyStatus = "rent"
	PropertyStatusSold   PropertyStatus = "sold"
	PropertyStatusRented PropertyStatus = "rented"
)

var propertyStatuses = []PropertyStatus{
	PropertyStatusSale,
	PropertyStatusRent,
	PropertyStatusSold,
	PropertyStatusRented,
}

func (s PropertyStatus) IsValid() bool {
	for _, known := range propertyStatuses {
		if s == known {
			return true
		}
	}
	return false
}

func (s PropertyStatus) String() string {
	return string(s)
}

func ParsePropertyStatus(value string) (PropertyStatus, bool) {
	candidate := PropertyStatus(strings.ToLower(strings.TrimSpace(value)))
	if candidate.IsValid() {
		return candidate, true
	}
	return "", false
}
