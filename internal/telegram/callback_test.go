package telegram

import (
	"testing"

	tele "gopkg.in/telebot.v4"
)

func TestParseCallbackData(t *testing.T) {
	cases := []struct {
		name         string
		cb           *tele.Callback
		key, payload string
	}{
		{"nil", nil, "", ""},
		{"unique set", &tele.Callback{Unique: "show_phone", Data: "p1"}, "show_phone", "p1"},
		{"encoded", &tele.Callback{Data: "\fshow_phone|p1"}, "show_phone", "p1"},
		{"encoded no payload", &tele.Callback{Data: "\fshow_phone"}, "show_phone", ""},
		{"raw", &tele.Callback{Data: "show_phone|p1"}, "show_phone", "p1"},
		{"empty", &tele.Callback{}, "", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			key, payload := ParseCallbackData(tc.cb)
			if key != tc.key || payload != tc.payload {
				t.Fatalf("got (%q, %q), want (%q, %q)", key, payload, tc.key, tc.payload)
			}
		})
	}
}
