package bot

import (
	"strings"

	"github.com/m3rciful/tradeinbot/internal/telegram"

	tele "gopkg.in/telebot.v4"
)

// MenuAction is the routing decision for a free-text menu selection.
type MenuAction int

const (
	ActionUnrecognized MenuAction = iota
	ActionSubmit
	ActionAbout
	ActionContacts
	ActionUsers
)

// RouteMenu maps exact-text menu input to an action. The intake entry
// trigger wins over the catch-all; unknown input maps to ActionUnrecognized.
func RouteMenu(text string) MenuAction {
	switch strings.TrimSpace(text) {
	case LabelSubmit:
		return ActionSubmit
	case LabelAbout:
		return ActionAbout
	case LabelContacts:
		return ActionContacts
	case LabelUsers:
		return ActionUsers
	default:
		return ActionUnrecognized
	}
}

// MenuMarkup renders the root reply keyboard for the caller's privilege tier.
func MenuMarkup(isAdmin bool) *tele.ReplyMarkup {
	rows := [][]string{
		{LabelSubmit},
		{LabelAbout, LabelContacts},
	}
	if isAdmin {
		rows = append(rows, []string{LabelUsers})
	}
	return telegram.ReplyButtons(rows...)
}

// ContactsMarkup renders the inline show-phone action under the contacts reply.
func ContactsMarkup() *tele.ReplyMarkup {
	return telegram.InlineButtons([]telegram.InlineBtn{
		{Text: showPhoneLabel, Unique: showPhoneUnique},
	})
}
