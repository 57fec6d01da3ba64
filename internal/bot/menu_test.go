package bot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRouteMenu(t *testing.T) {
	cases := []struct {
		text string
		want MenuAction
	}{
		{LabelSubmit, ActionSubmit},
		{"  " + LabelSubmit + "  ", ActionSubmit},
		{LabelAbout, ActionAbout},
		{LabelContacts, ActionContacts},
		{LabelUsers, ActionUsers},
		{"оставить заявку", ActionUnrecognized},
		{"/start", ActionUnrecognized},
		{"", ActionUnrecognized},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, RouteMenu(tc.text), "input %q", tc.text)
	}
}

func TestMenuMarkupTiers(t *testing.T) {
	regular := MenuMarkup(false)
	require.Len(t, regular.ReplyKeyboard, 2)
	assert.Equal(t, LabelSubmit, regular.ReplyKeyboard[0][0].Text)
	assert.Equal(t, LabelAbout, regular.ReplyKeyboard[1][0].Text)
	assert.Equal(t, LabelContacts, regular.ReplyKeyboard[1][1].Text)

	admin := MenuMarkup(true)
	require.Len(t, admin.ReplyKeyboard, 3)
	assert.Equal(t, LabelUsers, admin.ReplyKeyboard[2][0].Text)
}

func TestContactsMarkup(t *testing.T) {
	markup := ContactsMarkup()
	require.Len(t, markup.InlineKeyboard, 1)
	require.Len(t, markup.InlineKeyboard[0], 1)
	assert.Equal(t, showPhoneLabel, markup.InlineKeyboard[0][0].Text)
	assert.Equal(t, showPhoneUnique, markup.InlineKeyboard[0][0].Unique)
}
