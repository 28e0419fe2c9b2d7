package compose

import (
	"strings"
	"testing"
)

func TestComposeWithBothCallsToAction(t *testing.T) {
	msg, err := Compose(Input{
		BusinessName: "Acme Plumbing",
		LogoRef:      "https://cdn.example.com/acme.png",
		ExternalLink: "https://reviews.example.com/acme",
		InternalLink: "https://app.example.com/reviews/submit?token=abc",
	})
	if err != nil {
		t.Fatalf("compose: %v", err)
	}

	if !strings.Contains(msg.EmailHTML, `href="https://reviews.example.com/acme"`) {
		t.Fatal("email missing external review link")
	}
	if !strings.Contains(msg.EmailHTML, "https://app.example.com/reviews/submit?token=abc") {
		t.Fatal("email missing internal review link")
	}
	if !strings.Contains(msg.EmailHTML, "Acme Plumbing") {
		t.Fatal("email missing business name")
	}
	if !strings.Contains(msg.EmailHTML, "acme.png") {
		t.Fatal("email missing logo")
	}
	if !strings.Contains(msg.SMSText, "https://reviews.example.com/acme") {
		t.Fatal("sms missing external review link")
	}
	if !strings.Contains(msg.SMSText, "https://app.example.com/reviews/submit?token=abc") {
		t.Fatal("sms missing internal review link")
	}
	if !strings.Contains(msg.Subject, "Acme Plumbing") {
		t.Fatalf("unexpected subject %q", msg.Subject)
	}
}

func TestComposeExternalOnly(t *testing.T) {
	msg, err := Compose(Input{
		BusinessName: "Acme",
		ExternalLink: "https://reviews.example.com/acme",
	})
	if err != nil {
		t.Fatalf("compose: %v", err)
	}
	if !strings.Contains(msg.EmailHTML, "https://reviews.example.com/acme") {
		t.Fatal("email missing external review link")
	}
	if strings.Contains(msg.EmailHTML, "Tell us about your experience") {
		t.Fatal("email contains internal block without internal link")
	}
	if strings.Contains(msg.SMSText, "Tell us how we did") {
		t.Fatal("sms contains internal call-to-action without internal link")
	}
}

func TestComposeWithoutCallsToAction(t *testing.T) {
	msg, err := Compose(Input{BusinessName: "Acme"})
	if err != nil {
		t.Fatalf("compose: %v", err)
	}
	if msg.EmailHTML == "" || msg.SMSText == "" {
		t.Fatal("expected valid bodies even with no call-to-action")
	}
	if strings.Contains(msg.EmailHTML, "<a href") {
		t.Fatal("email contains a link with no call-to-action configured")
	}
}

func TestComposeEscapesBusinessName(t *testing.T) {
	msg, err := Compose(Input{BusinessName: `Bob's <Diner> & Grill`})
	if err != nil {
		t.Fatalf("compose: %v", err)
	}
	if strings.Contains(msg.EmailHTML, "<Diner>") {
		t.Fatal("business name not HTML-escaped")
	}
}
