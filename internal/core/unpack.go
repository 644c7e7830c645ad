package core

import (
	"cycledebt/internal/kml"
)

// Unpack walks a parsed document depth-first and returns every activity
// record found in it, in document order. Containers are descended into,
// placemarks are extracted and every other element is skipped.
func Unpack(e kml.Element) ([]Record, error) {
	var out []Record
	if err := unpackInto(&out, e); err != nil {
		return nil, err
	}
	return out, nil
}

func unpackInto(out *[]Record, e kml.Element) error {
	switch v := e.(type) {
	case *kml.Root:
		return unpackAll(out, v.Elements)
	case *kml.Container:
		return unpackAll(out, v.Elements)
	case *kml.Placemark:
		rec, ok, err := FromPlacemark(v)
		if err != nil {
			return err
		}
		if ok {
			*out = append(*out, rec)
		}
	}
	return nil
}

func unpackAll(out *[]Record, elements []kml.Element) error {
	for _, child := range elements {
		if err := unpackInto(out, child); err != nil {
			return err
		}
	}
	return nil
}
