package notify

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"strings"

	"github.com/resend/resend-go/v2"
)

// ResendMailer sends the completion notice through the Resend API.
// One attempt per report, no retry.
type ResendMailer struct {
	client *resend.Client
	from   string
	to     string
}

func NewResendMailer(apiKey, from, to string) *ResendMailer {
	return &ResendMailer{
		client: resend.NewClient(apiKey),
		from:   from,
		to:     to,
	}
}

func (m *ResendMailer) SendCallReport(ctx context.Context, r CallReport) error {
	html, err := renderReport(r)
	if err != nil {
		return fmt.Errorf("notify: render report: %w", err)
	}

	subject := fmt.Sprintf("Training call completed: %s — %s", r.Context.EmployeeName, r.Context.Scenario.Title)
	_, err = m.client.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    m.from,
		To:      []string{m.to},
		Subject: subject,
		Html:    html,
	})
	if err != nil {
		return fmt.Errorf("notify: resend send: %w", err)
	}
	return nil
}

var reportTmpl = template.Must(template.New("report").Parse(`<h2>Phishing training call completed</h2>
<p>The simulated attack call has ended. Summary below.</p>
<table cellpadding="4">
  <tr><td><b>Employee</b></td><td>{{.Context.EmployeeName}} ({{.Context.EmployeeEmail}})</td></tr>
  <tr><td><b>Phone</b></td><td>{{.Context.PhoneNumber}}</td></tr>
  <tr><td><b>Scenario</b></td><td>{{.Context.Scenario.Title}}</td></tr>
  <tr><td><b>Attack vectors</b></td><td>{{.Vectors}}</td></tr>
  <tr><td><b>Started</b></td><td>{{.Started}}</td></tr>
  <tr><td><b>Ended</b></td><td>{{.Ended}}</td></tr>
  <tr><td><b>Duration</b></td><td>{{.Duration}}</td></tr>
  <tr><td><b>Final status</b></td><td>{{.Status}}</td></tr>
</table>`))

func renderReport(r CallReport) (string, error) {
	data := struct {
		Context  any
		Vectors  string
		Started  string
		Ended    string
		Duration string
		Status   string
	}{
		Context:  r.Context,
		Vectors:  strings.Join(r.Context.Vectors, ", "),
		Started:  r.Context.StartedAt.Format("2006-01-02 15:04:05 MST"),
		Ended:    r.EndedAt,
		Duration: fmt.Sprintf("%.0fs", r.DurationSeconds),
		Status:   r.Status,
	}
	if data.Ended == "" {
		data.Ended = "unknown"
	}
	if data.Status == "" {
		data.Status = "ended"
	}

	var buf bytes.Buffer
	if err := reportTmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
