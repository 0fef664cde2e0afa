package bookconsultation

import (
	"bytes"
	htmltemplate "html/template"
	"io"
	"text/template"

	"driveup-workers/internal/models"
)

const (
	expertSubject   = "New Consultation Request on DriveUp"
	customerSubject = "Thanks for reaching out to DriveUp"
)

var expertTemplate = template.Must(template.New("expert").Parse(`A new consultation request was received.

Name: {{.Name}}
Email: {{.Email}}
Phone: {{or .Phone "-"}}
Mode: {{.Mode}}
Payment: {{.PaymentStatus}}
Budget: {{or .Budget "-"}}
Preferred brands: {{or .Brands "-"}}
Usage: {{or .Usage "-"}}
Timeline: {{or .Timeline "-"}}
Transmission: {{or .Transmission "-"}}

Concern:
{{.Concern}}

Consultation ID: {{.ID}}
`))

var customerTemplate = htmltemplate.Must(htmltemplate.New("customer").Parse(`<html>
<body style="font-family: Arial, sans-serif; color: #1f2933;">
<h2>Hi {{.Name}},</h2>
<p>Thanks for reaching out to DriveUp. We have received your consultation request.</p>
{{if eq .Mode "call"}}<p>You'll be redirected to schedule your call shortly.</p>
{{else}}<p>You'll hear back from our expert within 24 hours.</p>
{{end}}<p><strong>Your concern:</strong><br>{{.Concern}}</p>
<p>Reference: {{.ID}}</p>
<p>Team DriveUp</p>
</body>
</html>
`))

var smsTemplate = template.Must(template.New("sms").Parse(
	`DriveUp: Hi {{.Name}}, your expert call request is confirmed. Ref {{.ID}}. We'll reach you on this number shortly.`))

type executor interface {
	Execute(w io.Writer, data interface{}) error
}

func render(t executor, c *models.Consultation) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, c); err != nil {
		return "", err
	}
	return buf.String(), nil
}
