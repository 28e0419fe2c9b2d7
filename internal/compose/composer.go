package compose

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
)

// Input is everything the composer needs to render one review request.
// Callers resolve the conditional pieces: ExternalLink is set only when
// external reviews are enabled and a link is configured, InternalLink
// only when internal reviews are enabled.
type Input struct {
	BusinessName string
	LogoRef      string
	ExternalLink string
	InternalLink string
}

// Message holds the rendered bodies for both channels. SMS length
// handling is the channel's concern, not the composer's.
type Message struct {
	Subject   string
	EmailHTML string
	SMSText   string
}

var emailTemplate = template.Must(template.New("review_email").Parse(`<!DOCTYPE html>
<html>
  <body style="font-family: Arial, sans-serif; color: #333;">
    {{if .LogoRef}}<img src="{{.LogoRef}}" alt="{{.BusinessName}}" style="max-height: 64px;"/>{{end}}
    <h2>Thanks for reaching out to {{.BusinessName}}!</h2>
    <p>Your support request has been resolved. We would love to hear how we did.</p>
    {{if .ExternalLink}}<p><a href="{{.ExternalLink}}">Leave us a public review</a></p>{{end}}
    {{if .InternalLink}}<p><a href="{{.InternalLink}}">Tell us about your experience</a></p>{{end}}
    <p>— The {{.BusinessName}} team</p>
  </body>
</html>
`))

// Compose renders the branded email body and the plain-text SMS body.
// With no call-to-action enabled both bodies are still valid; whether
// anything is sent at all is decided by the per-channel settings flags.
func Compose(in Input) (Message, error) {
	var buf bytes.Buffer
	if err := emailTemplate.Execute(&buf, in); err != nil {
		return Message{}, fmt.Errorf("compose email: %w", err)
	}

	parts := []string{fmt.Sprintf("Thanks for reaching out to %s! Your request has been resolved.", in.BusinessName)}
	if in.ExternalLink != "" {
		parts = append(parts, "Leave us a review: "+in.ExternalLink)
	}
	if in.InternalLink != "" {
		parts = append(parts, "Tell us how we did: "+in.InternalLink)
	}

	return Message{
		Subject:   fmt.Sprintf("How was your experience with %s?", in.BusinessName),
		EmailHTML: buf.String(),
		SMSText:   strings.Join(parts, " "),
	}, nil
}
