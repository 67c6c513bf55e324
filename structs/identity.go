package structs

import (
	"fmt"
	"regexp"
	"strconv"
)

// retrySuffix matches a trailing "-retry<N>" attempt tag, anchored at the
// end of the string. Centralizing this pattern here (rather than letting
// every caller split on "-") is deliberate: a uuid or a task name may
// itself contain dashes, so a naive strings.Split on "-" mis-parses them.
var retrySuffix = regexp.MustCompile(`^(.*)-retry(\d+)$`)

// FormatTaskID joins a task name and uuid into the composite task_id.
func FormatTaskID(name, uuid string) string {
	return name + "." + uuid
}

// FormatRetryUUID tags a base uuid with a retry attempt number.
func FormatRetryUUID(baseUUID string, attempt int) string {
	return fmt.Sprintf("%s-retry%d", baseUUID, attempt)
}

// SplitRetryAttempt strips a trailing "-retry<N>" suffix from s, returning
// the base string, the parsed attempt number, and whether a suffix was
// present at all. Callers that expect every identity to carry a suffix
// should treat ok==false as a programming error upstream.
func SplitRetryAttempt(s string) (base string, attempt int, ok bool) {
	m := retrySuffix.FindStringSubmatch(s)
	if m == nil {
		return s, 0, false
	}
	n, err := strconv.Atoi(m[2])
	if err != nil {
		return s, 0, false
	}
	return m[1], n, true
}
