package observer

import (
	"regexp"
	"strings"
)

var lifecycleKeywords = []string{
	"starting up",
	"started successfully",
	"shutting down",
	"shutdown complete",
	"graceful shutdown",
	"received sigterm",
	"received sigint",
	"health check",
	"healthcheck",
	"listening on",
	"ready to accept connections",
}

var errorKeywords = []string{
	"error",
	"fatal",
	"panic",
	"exception",
	"failed",
	"timeout",
	"refused",
	"unreachable",
	"oomkilled",
	"crash",
}

var (
	httpStatusRe = regexp.MustCompile(`\b[45]\d{2}\b`)
	logLevelRe   = regexp.MustCompile(`(?i)\b(error|fatal|critical|panic)\b`)
)

// Include reports whether a log line is worth surfacing: lifecycle noise
// is dropped first; after that, all stderr passes; everything else must
// match a known error keyword or one of the status/log-level regexes.
func Include(e LogEvent) bool {
	lower := strings.ToLower(e.Message)

	for _, kw := range lifecycleKeywords {
		if strings.Contains(lower, kw) {
			return false
		}
	}

	if e.Stream == "stderr" {
		return true
	}

	for _, kw := range errorKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	if httpStatusRe.MatchString(e.Message) || logLevelRe.MatchString(e.Message) {
		return true
	}
	return false
}
