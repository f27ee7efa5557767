package httpserver

import (
	"encoding/csv"
	"fmt"
	"html/template"
	"net/http"
	"strconv"
	"time"
)

var reportTmpl = template.Must(template.New("report").Parse(`<html><body><h1>Usage Report</h1><table>
<tr><th>Hashed User Token</th><th>User</th><th>Article Title</th><th>Word Count</th><th>Overall Assessment</th><th>Date and Time</th><th>Count of Analysis</th></tr>
{{range .}}<tr><td>{{.HashedToken}}</td><td>{{.User}}</td><td>{{.ArticleTitle}}</td><td>{{.WordCount}}</td><td>{{.Assessment}}</td><td>{{.Date.Format "2006-01-02 15:04:05"}}</td><td>{{.AnalysisCount}}</td></tr>
{{end}}</table></body></html>`))

// GET /admin/usage-report?format=csv|html
// One row per analysis record across every account; read-only over the
// usage logs.
func (r *Router) handleUsageReport(w http.ResponseWriter, req *http.Request) error {
	rows, err := r.accountsSvc.UsageReport(req.Context())
	if err != nil {
		return err
	}

	switch req.URL.Query().Get("format") {
	case "html":
		w.Header().Set("Content-Type", "text/html")
		return reportTmpl.Execute(w, rows)
	default: // csv
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", `attachment; filename="usage-report.csv"`)
		cw := csv.NewWriter(w)
		if err := cw.Write([]string{
			"hashed_user_token", "user", "article_title", "word_count",
			"overall_assessment", "date_and_time", "count_of_analysis",
		}); err != nil {
			return fmt.Errorf("writing report header: %w", err)
		}
		for _, row := range rows {
			if err := cw.Write([]string{
				row.HashedToken,
				row.User,
				row.ArticleTitle,
				strconv.Itoa(row.WordCount),
				row.Assessment,
				row.Date.UTC().Format(time.RFC3339),
				strconv.Itoa(row.AnalysisCount),
			}); err != nil {
				return fmt.Errorf("writing report row: %w", err)
			}
		}
		cw.Flush()
		return cw.Error()
	}
}
