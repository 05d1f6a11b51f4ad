package httpx

import (
	"bytes"
	"net/http"
)

// ResponseBuffer captures a handler's response so a caller can inspect
// the status before deciding whether to forward it. Used by the auth
// flows that replay requests against the bearer server.
type ResponseBuffer struct {
	status int
	header http.Header
	body   bytes.Buffer
}

func NewResponseBuffer() *ResponseBuffer {
	return &ResponseBuffer{header: http.Header{}}
}

func (b *ResponseBuffer) Header() http.Header { return b.header }

func (b *ResponseBuffer) Write(p []byte) (int, error) { return b.body.Write(p) }

func (b *ResponseBuffer) WriteHeader(statusCode int) { b.status = statusCode }

func (b *ResponseBuffer) Status() int { return b.status }

func (b *ResponseBuffer) Body() []byte { return b.body.Bytes() }

// Flush replays the captured response onto a real writer.
func (b *ResponseBuffer) Flush(w http.ResponseWriter) error {
	header := w.Header()
	for key, value := range b.header {
		header[key] = value
	}
	if b.status != 0 {
		w.WriteHeader(b.status)
	}
	_, err := w.Write(b.body.Bytes())
	return err
}
