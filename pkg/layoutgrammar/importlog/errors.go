package importlog

import "fmt"

// AbortError is returned when an import stops because an Error message was
// recorded. Log holds every message emitted up to that point, warnings
// included.
type AbortError struct {
	Log *Log
}

func (e *AbortError) Error() string {
	if e.Log != nil {
		for _, m := range e.Log.messages {
			if m.Severity < Error {
				continue
			}
			if m.LayoutID != "" {
				return fmt.Sprintf("import aborted: %s: %s: %s", m.LayoutID, m.Type, m.Text())
			}
			return fmt.Sprintf("import aborted: %s: %s", m.Type, m.Text())
		}
	}
	return "import aborted"
}
