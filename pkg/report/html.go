package report

import (
	"fmt"
	"html"
	"io"
	"time"
)

// WriteHTML renders the report as a standalone HTML page.
func WriteHTML(w io.Writer, report *Report) error {
	writeHTMLHeader(w, "Aifeels Conformance Report")

	fmt.Fprintln(w, "<h1>Aifeels Conformance Report</h1>")
	fmt.Fprintf(
		w,
		"<p><strong>Implementation:</strong> %s %s (%s)</p>\n",
		html.EscapeString(report.Implementation.Name),
		html.EscapeString(report.Implementation.Version),
		html.EscapeString(report.Implementation.Language),
	)
	fmt.Fprintf(
		w,
		"<p><strong>Run ID:</strong> <code>%s</code></p>\n",
		html.EscapeString(report.RunID),
	)
	fmt.Fprintf(
		w,
		"<p><strong>Generated:</strong> %s</p>\n",
		report.GeneratedAt.Format(time.RFC3339),
	)

	writeHTMLVerdict(w, report)
	writeHTMLResults(w, report)
	writeHTMLStats(w, report)

	writeHTMLFooter(w)
	return nil
}

func writeHTMLVerdict(w io.Writer, report *Report) {
	cls := "status-passed"
	if !report.Conformant() {
		cls = "status-failed"
	}
	fmt.Fprintf(
		w,
		"<p class=\"%s\">%s</p>\n",
		cls, html.EscapeString(report.ConformanceStatement),
	)
}

func writeHTMLResults(w io.Writer, report *Report) {
	if len(report.TestDetails) == 0 {
		return
	}

	fmt.Fprintln(w, "<h2>Results</h2>")
	fmt.Fprintln(w, "<table>")
	fmt.Fprintln(
		w,
		"<tr><th>Test</th><th>Name</th><th>Status</th></tr>",
	)

	for _, d := range report.TestDetails {
		cls := "status-passed"
		if d.Status != "PASSED" {
			cls = "status-failed"
		}
		fmt.Fprintf(
			w,
			"<tr><td>%s</td><td>%s</td>"+
				"<td class=\"%s\">%s</td></tr>\n",
			html.EscapeString(d.ID),
			html.EscapeString(d.Name),
			cls, d.Status,
		)
	}

	fmt.Fprintln(w, "</table>")
}

func writeHTMLStats(w io.Writer, report *Report) {
	fmt.Fprintln(w, "<h2>Statistics</h2>")
	fmt.Fprintln(w, "<table>")
	fmt.Fprintln(w, "<tr><th>Metric</th><th>Value</th></tr>")
	fmt.Fprintf(
		w,
		"<tr><td>Total Tests</td><td>%d</td></tr>\n",
		report.TestResults.Total,
	)
	fmt.Fprintf(
		w,
		"<tr><td>Passed</td><td>%d</td></tr>\n",
		report.TestResults.Passed,
	)
	fmt.Fprintf(
		w,
		"<tr><td>Failed</td><td>%d</td></tr>\n",
		report.TestResults.Failed,
	)
	fmt.Fprintf(
		w,
		"<tr><td>Pass Rate</td><td>%.1f%%</td></tr>\n",
		report.TestResults.PassRate,
	)
	fmt.Fprintln(w, "</table>")
}

func writeHTMLHeader(w io.Writer, title string) {
	fmt.Fprintf(w, `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>%s</title>
<style>
body {
  font-family: -apple-system, BlinkMacSystemFont,
    "Segoe UI", Roboto, sans-serif;
  max-width: 960px;
  margin: 0 auto;
  padding: 20px;
  color: #333;
  background: #f9f9f9;
}
h1 { color: #2c3e50; border-bottom: 2px solid #3498db; padding-bottom: 10px; }
h2 { color: #2c3e50; margin-top: 30px; }
table {
  border-collapse: collapse;
  width: 100%%;
  margin: 10px 0;
  background: #fff;
}
th, td {
  border: 1px solid #ddd;
  padding: 8px 12px;
  text-align: left;
}
th { background: #3498db; color: #fff; }
tr:nth-child(even) { background: #f2f2f2; }
.status-passed { color: #27ae60; font-weight: bold; }
.status-failed { color: #e74c3c; font-weight: bold; }
code {
  background: #ecf0f1;
  padding: 2px 6px;
  border-radius: 3px;
  font-size: 0.9em;
}
footer {
  margin-top: 40px;
  padding-top: 10px;
  border-top: 1px solid #ddd;
  color: #7f8c8d;
  font-size: 0.9em;
}
</style>
</head>
<body>
`, html.EscapeString(title))
}

func writeHTMLFooter(w io.Writer) {
	fmt.Fprintln(w, "<footer>")
	fmt.Fprintln(
		w, "<p>Generated by the Aifeels Conformance Suite</p>",
	)
	fmt.Fprintln(w, "</footer>")
	fmt.Fprintln(w, "</body>")
	fmt.Fprintln(w, "</html>")
}
