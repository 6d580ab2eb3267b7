package session

import "net/http"

// hookWriter is the response wrapper the middleware installs. It invokes
// beforeHeaders exactly once: on the first WriteHeader (informational codes
// excluded), Write or Flush, or from finish when the handler wrote nothing.
type hookWriter struct {
	http.ResponseWriter
	beforeHeaders func(http.Header)
	hooked        bool
	wroteHeader   bool
}

func newHookWriter(w http.ResponseWriter, beforeHeaders func(http.Header)) *hookWriter {
	return &hookWriter{ResponseWriter: w, beforeHeaders: beforeHeaders}
}

func (w *hookWriter) runBeforeHeaders() {
	if w.hooked {
		return
	}
	w.hooked = true
	if w.beforeHeaders != nil {
		w.beforeHeaders(w.ResponseWriter.Header())
	}
}

func (w *hookWriter) WriteHeader(code int) {
	if code >= 100 && code <= 199 && code != http.StatusSwitchingProtocols {
		w.ResponseWriter.WriteHeader(code)
		return
	}
	if !w.wroteHeader {
		w.runBeforeHeaders()
		w.wroteHeader = true
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *hookWriter) Write(b []byte) (int, error) {
	if !w.wroteHeader {
		w.runBeforeHeaders()
		w.wroteHeader = true
	}
	return w.ResponseWriter.Write(b)
}

// Flush sends buffered data; headers go out with it.
func (w *hookWriter) Flush() {
	if !w.wroteHeader {
		w.runBeforeHeaders()
		w.wroteHeader = true
	}
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (w *hookWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}

// finish runs the header hook if the handler never wrote anything and
// reports whether headers had already been sent.
func (w *hookWriter) finish() (headersSent bool) {
	headersSent = w.wroteHeader
	w.runBeforeHeaders()
	return headersSent
}
