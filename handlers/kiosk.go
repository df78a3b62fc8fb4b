// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/danielhkuo/ballot-station/ballot"
	"github.com/danielhkuo/ballot-station/metrics"
)

type KioskHandler struct {
	reg     Register
	metrics *metrics.StationMetrics
	title   string
}

func NewKioskHandler(reg Register, m *metrics.StationMetrics) *KioskHandler {
	return &KioskHandler{reg: reg, metrics: m, title: "The Ultimate Voting System"}
}

type kioskPage struct {
	Title      string
	Candidates []string
	Results    ballot.Tally
	Total      int
	Message    string
	Outcome    string
	ReceiptID  string
	CastAt     time.Time
}

// ShowForm handles GET /
func (h *KioskHandler) ShowForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, http.StatusOK, kioskPage{})
}

// SubmitForm handles POST /
// The page is always re-rendered with empty fields, whatever the outcome.
func (h *KioskHandler) SubmitForm(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.render(w, http.StatusBadRequest, kioskPage{Message: "The form could not be read.", Outcome: "invalid_input"})
		return
	}

	d := submit(r.Context(), h.reg, h.metrics, ballot.Submission{
		Candidate:   r.PostForm.Get("candidate"),
		Name:        r.PostForm.Get("name"),
		ReferenceID: r.PostForm.Get("reference_id"),
	})

	h.render(w, statusFor(d.Outcome), kioskPage{
		Message:   d.Message(),
		Outcome:   d.Outcome.String(),
		ReceiptID: d.ReceiptID,
		CastAt:    d.CastAt,
	})
}

func (h *KioskHandler) render(w http.ResponseWriter, status int, page kioskPage) {
	page.Title = h.title
	page.Candidates = h.reg.Candidates()
	page.Results = h.reg.Results()
	page.Total = page.Results.Total()

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := kioskTemplate.Execute(w, page); err != nil {
		slog.Error("failed to render kiosk page", "error", err)
	}
}

var kioskTemplate = template.Must(template.New("kiosk").Funcs(template.FuncMap{
	"comma": func(n int) string { return humanize.Comma(int64(n)) },
	"since": humanize.Time,
}).Parse(kioskHTML))

// The form's first submit button is disabled, so pressing Enter in a text
// field submits nothing. Only a candidate's Vote button casts a vote.
const kioskHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { background: skyblue; font-family: Arial, sans-serif; text-align: center; }
.message { font-weight: bold; margin: 1em; }
.accepted { color: darkgreen; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
{{if .Message}}<p class="message {{.Outcome}}" role="status">{{.Message}}
{{if .ReceiptID}}<br>Receipt {{.ReceiptID}}, recorded {{since .CastAt}}.{{end}}</p>{{end}}
<form method="post" action="/" autocomplete="off">
<button type="submit" class="default" disabled hidden aria-hidden="true" tabindex="-1"></button>
<p><label>Name:<br><input name="name" value=""></label></p>
<p><label>Reference ID:<br><input name="reference_id" value=""></label></p>
{{range .Candidates}}
<p>{{.}}<br><button type="submit" name="candidate" value="{{.}}">Vote</button></p>
{{end}}
</form>
<h2>Results:</h2>
<ul id="results">
{{range .Results}}<li>{{.Candidate}}: {{comma .Votes}}</li>
{{end}}</ul>
<p>Total votes: {{comma .Total}}</p>
</body>
</html>
`
