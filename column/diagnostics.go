package column

import (
	"io"
	"os"
	"sync"

	"github.com/go-logfmt/logfmt"
)

// Diagnostics receives query-level no-op notices (§7): unsupported LIKE,
// a sorted-fastpath fallthrough on a type mismatch. These are never
// errors — callers that want silence can use NoopDiagnostics.
type Diagnostics interface {
	Warnf(event string, keyvals ...any)
}

// NoopDiagnostics discards every diagnostic. It is the zero-value default
// so the column engine never performs I/O unless a caller opts in (§5).
var NoopDiagnostics Diagnostics = noopDiagnostics{}

type noopDiagnostics struct{}

func (noopDiagnostics) Warnf(string, ...any) {}

// LogfmtDiagnostics writes each diagnostic as a single logfmt record to
// an underlying writer. It is safe for concurrent use.
type LogfmtDiagnostics struct {
	mu  sync.Mutex
	enc *logfmt.Encoder
}

// NewLogfmtDiagnostics returns a Diagnostics sink writing to w. A nil w
// defaults to os.Stderr.
func NewLogfmtDiagnostics(w io.Writer) *LogfmtDiagnostics {
	if w == nil {
		w = os.Stderr
	}
	return &LogfmtDiagnostics{enc: logfmt.NewEncoder(w)}
}

func (d *LogfmtDiagnostics) Warnf(event string, keyvals ...any) {
	d.mu.Lock()
	defer d.mu.Unlock()

	kv := append([]any{"event", event}, keyvals...)
	if err := d.enc.EncodeKeyvals(kv...); err != nil {
		return
	}
	_ = d.enc.EndRecord()
}
