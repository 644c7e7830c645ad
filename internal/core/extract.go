package core

import (
	"fmt"
	"time"

	"cycledebt/internal/kml"
)

// Placemark schema of location-history exports.
const (
	tagExtendedData = "ExtendedData"
	tagTimeSpan     = "TimeSpan"
	tagBegin        = "begin"
	tagEnd          = "end"
	tagValue        = "value"
	attrName        = "name"
	fieldCategory   = "Category"
	fieldDistance   = "Distance"
)

// FromPlacemark extracts a Record from one placemark.
//
// A placemark that lacks any piece of the expected structure, or whose
// category is neither Driving nor Cycling, yields ok == false and no error.
// An error is returned only when a field is present but unparsable: a
// non-numeric Distance or a begin/end that is not RFC 3339. The distance is
// parsed before the category is looked at, so a corrupt distance is fatal on
// every placemark that has one.
func FromPlacemark(p *kml.Placemark) (rec Record, ok bool, err error) {
	if p == nil {
		return Record{}, false, nil
	}
	ext, found := p.Child(tagExtendedData)
	if !found {
		return Record{}, false, nil
	}
	category, found := dataValue(ext, fieldCategory)
	if !found {
		return Record{}, false, nil
	}
	rawDistance, found := dataValue(ext, fieldDistance)
	if !found {
		return Record{}, false, nil
	}
	distance, err := ParseDistance(rawDistance)
	if err != nil {
		return Record{}, false, err
	}

	span, found := p.Child(tagTimeSpan)
	if !found {
		return Record{}, false, nil
	}
	rawBegin, found := span.ChildText(tagBegin)
	if !found {
		return Record{}, false, nil
	}
	rawEnd, found := span.ChildText(tagEnd)
	if !found {
		return Record{}, false, nil
	}
	start, err := parseTimestamp(tagBegin, rawBegin)
	if err != nil {
		return Record{}, false, err
	}
	end, err := parseTimestamp(tagEnd, rawEnd)
	if err != nil {
		return Record{}, false, err
	}

	kind, found := KindFromCategory(category)
	if !found {
		return Record{}, false, nil
	}
	return Record{Start: start, End: end, Kind: kind, Distance: distance}, true, nil
}

// dataValue reads <Data name="field"><value>...</value></Data>.
func dataValue(ext *kml.Node, field string) (string, bool) {
	data, ok := ext.ChildByAttr(attrName, field)
	if !ok {
		return "", false
	}
	return data.ChildText(tagValue)
}

func parseTimestamp(field, s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s %q", ErrMalformedTimestamp, field, s)
	}
	return t, nil
}
