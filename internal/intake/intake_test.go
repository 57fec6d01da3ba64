package intake

import "testing"

func advanceText(t *testing.T, s *Session, text string) Outcome {
	t.Helper()
	return s.Advance(Submitter{ID: 1}, Input{Text: text})
}

func TestLinearFlowStoresInputsVerbatim(t *testing.T) {
	inputs := []string{"iPhone 12", "", "🔌 charger only", "  downtown  "}

	s := &Session{}
	out := s.Begin()
	if s.State != StateAwaitingModel {
		t.Fatalf("state after Begin = %s", s.State)
	}
	if len(out.Replies) != 1 {
		t.Fatalf("expected one prompt, got %d", len(out.Replies))
	}

	expectedStates := []State{
		StateAwaitingCondition,
		StateAwaitingKit,
		StateAwaitingDistrict,
		StateAwaitingPhone,
	}
	for i, in := range inputs {
		out = advanceText(t, s, in)
		if s.State != expectedStates[i] {
			t.Fatalf("after input %d state = %s, expected %s", i, s.State, expectedStates[i])
		}
		if out.Done || out.Lead != nil {
			t.Fatalf("unexpected terminal outcome after input %d", i)
		}
	}

	out = s.Advance(Submitter{ID: 1, Username: "bob", DisplayName: "Bob B"}, Input{
		Contact: &Contact{PhoneNumber: "+79990001111"},
	})
	if !out.Done {
		t.Fatal("expected terminal outcome after contact share")
	}
	if out.Lead == nil {
		t.Fatal("expected a lead after contact share")
	}

	d := out.Lead.Draft
	// Text fields are taken verbatim, including empty strings, emoji, and whitespace.
	if d.Model != inputs[0] || d.Condition != inputs[1] || d.Kit != inputs[2] || d.District != inputs[3] {
		t.Fatalf("draft fields differ from inputs: %+v", d)
	}
	if d.Phone != "+79990001111" {
		t.Fatalf("phone = %q", d.Phone)
	}
	if out.Lead.Submitter.Username != "bob" || out.Lead.Submitter.DisplayName != "Bob B" {
		t.Fatalf("submitter = %+v", out.Lead.Submitter)
	}
}

func TestPhoneStateRejectsFreeText(t *testing.T) {
	s := &Session{}
	s.Begin()
	for _, in := range []string{"model", "cond", "kit", "district"} {
		advanceText(t, s, in)
	}
	if s.State != StateAwaitingPhone {
		t.Fatalf("state = %s", s.State)
	}

	out := advanceText(t, s, "+79990001111")
	if s.State != StateAwaitingPhone {
		t.Fatalf("free text advanced the phone state to %s", s.State)
	}
	if out.Lead != nil || out.Done {
		t.Fatal("free text must not construct a lead")
	}
	if len(out.Replies) != 1 || !out.Replies[0].RequestContact {
		t.Fatalf("expected contact re-prompt, got %+v", out.Replies)
	}
}

func TestCancelFromEveryState(t *testing.T) {
	steps := []string{"", "m", "c", "k", "d"}
	for n := range steps {
		s := &Session{}
		s.Begin()
		for _, in := range steps[1 : n+1] {
			advanceText(t, s, in)
		}

		out := s.Cancel()
		if !out.Done {
			t.Fatalf("cancel after %d steps not terminal", n)
		}
		if s.State != StateIdle {
			t.Fatalf("cancel after %d steps left state %s", n, s.State)
		}
		if s.Draft != (Draft{}) {
			t.Fatalf("cancel after %d steps leaked draft %+v", n, s.Draft)
		}
	}
}

func TestManagerLifecycle(t *testing.T) {
	m := NewManager()
	k := Key{UserID: 1, ChatID: 2}

	if m.InProgress(k) {
		t.Fatal("fresh manager reports progress")
	}

	s := m.Start(k)
	if m.InProgress(k) {
		t.Fatal("idle session reports progress")
	}
	s.Begin()
	if !m.InProgress(k) {
		t.Fatal("started session not in progress")
	}

	// Same user in another chat is an independent conversation.
	if m.InProgress(Key{UserID: 1, ChatID: 3}) {
		t.Fatal("session leaked across chats")
	}

	m.End(k)
	if m.InProgress(k) {
		t.Fatal("ended session still in progress")
	}
	if _, ok := m.Lookup(k); ok {
		t.Fatal("ended session still present")
	}
}
