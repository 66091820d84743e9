package plugin

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/xuenqlve/checkkit/transform"
)

// Perfdata renders one performance data item:
//
//	'label'=value[UOM];[warn];[crit];[min];[max]
//
// nil fields stay empty. Items are separated by a trailing space so several
// can be concatenated.
func Perfdata(label string, value any, uom string, warn, crit, min, max *string) string {
	var b strings.Builder
	b.WriteString("'")
	b.WriteString(label)
	b.WriteString("'=")
	b.WriteString(transform.ToString(value))
	b.WriteString(uom)
	for _, field := range []*string{warn, crit, min, max} {
		b.WriteString(";")
		if field != nil {
			b.WriteString(*field)
		}
	}
	b.WriteString(" ")
	return b.String()
}

// Result is what a check reports back to the monitoring core.
type Result struct {
	Message  string
	Perfdata string
	State    State
}

// Write prints the trimmed message and, if present, "|perfdata".
func (r Result) Write(w io.Writer) error {
	line := strings.TrimSpace(r.Message)
	if perf := strings.TrimSpace(r.Perfdata); perf != "" {
		line += "|" + perf
	}
	_, err := fmt.Fprintln(w, line)
	return err
}

// Exit writes r to stdout and terminates the process with r.State, or with
// StateOK when alwaysOK is set.
func Exit(r Result, alwaysOK bool) {
	_ = r.Write(os.Stdout)
	if alwaysOK {
		os.Exit(int(StateOK))
	}
	os.Exit(int(r.State))
}
