package stream

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-contrib/sse"
	"github.com/gorilla/websocket"
)

type writerSink struct {
	w io.Writer
}

// NewWriterSink encodes events in the text/event-stream format and flushes
// after each one when w supports it.
func NewWriterSink(w io.Writer) Sink {
	return &writerSink{w: w}
}

func (s *writerSink) Send(ev sse.Event) error {
	if err := sse.Encode(s.w, ev); err != nil {
		return err
	}
	if f, ok := s.w.(http.Flusher); ok {
		f.Flush()
	}
	return nil
}

const wsWriteWait = 10 * time.Second

// WireEvent is the JSON frame written to websocket clients.
type WireEvent struct {
	ID    string `json:"id,omitempty"`
	Event string `json:"event"`
	Data  string `json:"data"`
}

type webSocketSink struct {
	conn *websocket.Conn
}

// NewWebSocketSink writes each event as a JSON text frame. The caller owns
// the connection and must not write to it concurrently.
func NewWebSocketSink(conn *websocket.Conn) Sink {
	return &webSocketSink{conn: conn}
}

func (s *webSocketSink) Send(ev sse.Event) error {
	data, ok := ev.Data.(string)
	if !ok {
		data = fmt.Sprint(ev.Data)
	}
	if err := s.conn.SetWriteDeadline(time.Now().Add(wsWriteWait)); err != nil {
		return err
	}
	return s.conn.WriteJSON(WireEvent{ID: ev.Id, Event: ev.Event, Data: data})
}
