package models

import (
	"testing"

	"github.com/homely-dev/homely/internal/apiclient"
)

func TestWidgetTypeWireValues(t *testing.T) {
	// The server and client enums travel over the same JSON field and
	// must agree on every value.
	pairs := []struct {
		server WidgetType
		client apiclient.WidgetType
	}{
		{WidgetText, apiclient.WidgetText},
		{WidgetLink, apiclient.WidgetLink},
		{WidgetImage, apiclient.WidgetImage},
		{WidgetDateTime, apiclient.WidgetDateTime},
		{WidgetWeather, apiclient.WidgetWeather},
		{WidgetWeatherWindow, apiclient.WidgetWeatherWindow},
	}
	for _, p := range pairs {
		if int(p.server) != int(p.client) {
			t.Fatalf("widget type mismatch: server %d, client %d", p.server, p.client)
		}
		if !p.server.Valid() {
			t.Fatalf("widget type %d must be valid", p.server)
		}
	}
}

func TestWidgetTypeValidRejectsUnknown(t *testing.T) {
	for _, v := range []WidgetType{0, 2, 35, 60} {
		if v.Valid() {
			t.Fatalf("widget type %d must be invalid", v)
		}
	}
}
