// Package intake implements the multi-step trade-in request conversation:
// a linear finite-state machine that collects the device model, its
// condition, the accessory kit, the pickup district, and a phone contact.
package intake

import "fmt"

// State identifies a step of the intake conversation.
type State string

const (
	// StateIdle indicates there is no active conversation.
	StateIdle State = "idle"

	StateAwaitingModel     State = "awaiting_model"
	StateAwaitingCondition State = "awaiting_condition"
	StateAwaitingKit       State = "awaiting_kit"
	StateAwaitingDistrict  State = "awaiting_district"
	StateAwaitingPhone     State = "awaiting_phone"
)

// Draft accumulates form fields while the conversation is in progress.
// Text fields store user input verbatim; no validation is applied.
type Draft struct {
	Model     string
	Condition string
	Kit       string
	District  string
	Phone     string
}

// Contact is a structured contact-share payload. The phone step accepts
// only this; free text never advances it.
type Contact struct {
	PhoneNumber string
}

// Input is one inbound turn of the conversation.
type Input struct {
	Text    string
	Contact *Contact
}

// Submitter identifies the user who filled the form.
type Submitter struct {
	ID          int64
	Username    string
	DisplayName string
}

// Lead is the finalized draft plus submitter identity, ready for
// notification. It is immutable once constructed and never persisted.
type Lead struct {
	Submitter Submitter
	Draft     Draft
}

// Reply is a message the bot should send back for the current turn.
type Reply struct {
	Text string
	// RequestContact asks the transport to render a contact-share keyboard.
	RequestContact bool
	// RemoveKeyboard hides any custom keyboard.
	RemoveKeyboard bool
}

// Outcome describes the effect of one turn: messages to send, an optional
// completed lead, and whether the session reached a terminal transition.
type Outcome struct {
	Replies []Reply
	Lead    *Lead
	Done    bool
}

const (
	promptModel   = "Вы выбрали оставить заявку. Укажите модель устройства:"
	promptPhone   = "Отправьте номер телефона кнопкой ниже:"
	contactButton = "📞 Отправить номер"
	textThanks    = "Спасибо! Ваш телефон: %s. Заявка принята."
	textCancelled = "Отмена заявки."
)

// ContactButtonLabel is the caption of the contact-share keyboard button.
func ContactButtonLabel() string { return contactButton }

// Begin moves a fresh session to the first step and returns its prompt.
func (s *Session) Begin() Outcome {
	s.State = StateAwaitingModel
	s.Draft = Draft{}
	return Outcome{Replies: []Reply{{Text: promptModel, RemoveKeyboard: true}}}
}

// Cancel aborts the conversation from any non-terminal state, discarding
// the accumulated draft.
func (s *Session) Cancel() Outcome {
	s.State = StateIdle
	s.Draft = Draft{}
	return Outcome{
		Replies: []Reply{{Text: textCancelled, RemoveKeyboard: true}},
		Done:    true,
	}
}

// Advance feeds one inbound turn to the machine. Text states store the
// input verbatim and emit the next prompt; the phone state requires a
// contact payload and re-prompts without advancing on anything else.
// On completion the outcome carries the assembled Lead.
func (s *Session) Advance(sub Submitter, in Input) Outcome {
	switch s.State {
	case StateAwaitingModel:
		s.Draft.Model = in.Text
		s.State = StateAwaitingCondition
		return prompt(fmt.Sprintf("Вы выбрали модель: %s. Теперь укажите состояние устройства:", in.Text))

	case StateAwaitingCondition:
		s.Draft.Condition = in.Text
		s.State = StateAwaitingKit
		return prompt(fmt.Sprintf("Состояние: %s. Теперь укажите комплект:", in.Text))

	case StateAwaitingKit:
		s.Draft.Kit = in.Text
		s.State = StateAwaitingDistrict
		return prompt(fmt.Sprintf("Комплект: %s. Теперь укажите район:", in.Text))

	case StateAwaitingDistrict:
		s.Draft.District = in.Text
		s.State = StateAwaitingPhone
		return Outcome{Replies: []Reply{{
			Text:           fmt.Sprintf("Район: %s. %s", in.Text, promptPhone),
			RequestContact: true,
		}}}

	case StateAwaitingPhone:
		if in.Contact == nil {
			// Recoverable, user-correctable: same prompt, no transition.
			return Outcome{Replies: []Reply{{Text: promptPhone, RequestContact: true}}}
		}
		s.Draft.Phone = in.Contact.PhoneNumber
		lead := &Lead{Submitter: sub, Draft: s.Draft}
		s.State = StateIdle
		return Outcome{
			Replies: []Reply{{
				Text:           fmt.Sprintf(textThanks, lead.Draft.Phone),
				RemoveKeyboard: true,
			}},
			Lead: lead,
			Done: true,
		}
	}

	return Outcome{}
}

func prompt(text string) Outcome {
	return Outcome{Replies: []Reply{{Text: text}}}
}
