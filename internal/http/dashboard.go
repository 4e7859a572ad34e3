package http

import (
	"html/template"
	"net/http"

	"github.com/labstack/echo/v4"
)

// dashboardData feeds the dashboard template.
type dashboardData struct {
	Service  string
	Sessions []dashboardSession
}

type dashboardSession struct {
	SessionSummary
	Branches map[string]int
	Tail     []dashboardRecord
}

type dashboardRecord struct {
	SequenceNumber int
	Text           string
	Terminal       bool
	BranchID       string
}

// dashboardTailLimit bounds how much history the dashboard renders per
// session.
const dashboardTailLimit = 20

var dashboardTmpl = template.Must(template.New("dashboard").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Service}} dashboard</title>
<style>
body { font-family: ui-monospace, monospace; margin: 2rem; color: #222; }
h1 { font-size: 1.3rem; }
h2 { font-size: 1rem; margin-bottom: 0.2rem; }
table { border-collapse: collapse; margin: 0.5rem 0 1.5rem; }
th, td { border: 1px solid #ccc; padding: 0.25rem 0.6rem; text-align: left; }
th { background: #f3f3f3; }
.terminal { color: #0a6; }
.muted { color: #888; }
</style>
</head>
<body>
<h1>{{.Service}} · live reasoning traces</h1>
{{if not .Sessions}}<p class="muted">No live sessions.</p>{{end}}
{{range .Sessions}}
<h2>session {{.ID}}</h2>
<p class="muted">history {{.HistoryLength}} · branches {{.BranchCount}} ·
evicted {{.EvictedRecords}} records / {{.EvictedChains}} chains / {{.EvictedBranches}} branches</p>
{{if .Branches}}
<table>
<tr><th>branch</th><th>records</th></tr>
{{range $id, $n := .Branches}}<tr><td>{{$id}}</td><td>{{$n}}</td></tr>
{{end}}
</table>
{{end}}
{{if .Tail}}
<table>
<tr><th>#</th><th>thought</th><th></th></tr>
{{range .Tail}}<tr><td>{{.SequenceNumber}}</td><td>{{.Text}}</td><td>{{if .Terminal}}<span class="terminal">done</span>{{end}}</td></tr>
{{end}}
</table>
{{end}}
{{end}}
</body>
</html>
`))

// handleDashboard renders the HTML view over live sessions.
func (s *Server) handleDashboard(c echo.Context) error {
	data := dashboardData{Service: s.config.ServiceName}

	for _, sess := range s.sessions.List() {
		sum := sess.Summary()
		ds := dashboardSession{
			SessionSummary: SessionSummary{
				ID:              sess.ID,
				CreatedAt:       sess.CreatedAt,
				HistoryLength:   sum.HistoryLength,
				BranchCount:     sum.BranchCount,
				EvictedChains:   sum.EvictedChains,
				EvictedRecords:  sum.EvictedRecords,
				EvictedBranches: sum.EvictedBranches,
			},
			Branches: sum.BranchLengths,
		}
		for _, rec := range sess.History(dashboardTailLimit) {
			ds.Tail = append(ds.Tail, dashboardRecord{
				SequenceNumber: rec.SequenceNumber,
				Text:           rec.Text,
				Terminal:       rec.Terminal(),
				BranchID:       rec.BranchID,
			})
		}
		data.Sessions = append(data.Sessions, ds)
	}

	c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
	c.Response().WriteHeader(http.StatusOK)
	return dashboardTmpl.Execute(c.Response(), data)
}
