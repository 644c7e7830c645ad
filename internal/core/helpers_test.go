package core

import (
	"fmt"
	"strings"
	"testing"

	"cycledebt/internal/kml"
	"github.com/stretchr/testify/require"
)

// placemarkXML renders a location-history placemark. Empty arguments leave
// the corresponding element out.
func placemarkXML(category, distance, begin, end string) string {
	var b strings.Builder
	b.WriteString("<Placemark><name>segment</name><ExtendedData>")
	if category != "" {
		fmt.Fprintf(&b, `<Data name="Category"><value>%s</value></Data>`, category)
	}
	if distance != "" {
		fmt.Fprintf(&b, `<Data name="Distance"><value>%s</value></Data>`, distance)
	}
	b.WriteString("</ExtendedData><TimeSpan>")
	if begin != "" {
		fmt.Fprintf(&b, "<begin>%s</begin>", begin)
	}
	if end != "" {
		fmt.Fprintf(&b, "<end>%s</end>", end)
	}
	b.WriteString("</TimeSpan></Placemark>")
	return b.String()
}

func parsePlacemark(t *testing.T, src string) *kml.Placemark {
	t.Helper()
	e, err := kml.Parse(strings.NewReader(src))
	require.NoError(t, err)
	p, ok := e.(*kml.Placemark)
	require.True(t, ok, "expected placemark, got %T", e)
	return p
}

func parseDoc(t *testing.T, src string) kml.Element {
	t.Helper()
	e, err := kml.Parse(strings.NewReader(src))
	require.NoError(t, err)
	return e
}
