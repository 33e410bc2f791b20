package hermes

import "strings"

const (
	SubjectSessionStats = "valuecharts.sessions.stats"
	SubjectChartUpdates = "valuecharts.chart.*.updated"

	StreamName   = "VALUECHARTS_EVENTS"
	StreamMaxAge = "720h" // 30 days
)

// StreamSubjects are captured by the event stream.
var StreamSubjects = []string{"valuecharts.chart.>", "valuecharts.sessions.>"}

var tokenReplacer = strings.NewReplacer(".", "_", "*", "_", ">", "_", " ", "_")

// token makes s safe to use as a single subject token.
func token(s string) string { return tokenReplacer.Replace(s) }

func SubjectChartCreated(chartID string) string { return "valuecharts.chart." + token(chartID) + ".created" }
func SubjectChartUpdated(chartID string) string { return "valuecharts.chart." + token(chartID) + ".updated" }

func userSubject(chartID, username, event string) string {
	return "valuecharts.chart." + token(chartID) + ".user." + token(username) + "." + event
}

func SubjectUndo(chartID, username string) string      { return userSubject(chartID, username, "undo") }
func SubjectRedo(chartID, username string) string      { return userSubject(chartID, username, "redo") }
func SubjectCommitted(chartID, username string) string { return userSubject(chartID, username, "committed") }

// ChartIDFromSubject extracts the chart id token from a chart subject.
func ChartIDFromSubject(subject string) string {
	parts := strings.Split(subject, ".")
	if len(parts) < 3 || parts[0] != "valuecharts" || parts[1] != "chart" {
		return ""
	}
	return parts[2]
}
