package handlers

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"time"

	qt "github.com/frankban/quicktest"
	"github.com/gin-gonic/gin"

	"github.com/birlikkoshan/todo-live/internal/broadcast"
	"github.com/birlikkoshan/todo-live/internal/render"
	"github.com/birlikkoshan/todo-live/internal/repo"
	"github.com/birlikkoshan/todo-live/internal/service"
	"github.com/birlikkoshan/todo-live/internal/stream"
)

const longWait = 5 * time.Second

type testServer struct {
	*httptest.Server
	bus      *broadcast.Bus
	shutdown context.CancelFunc
}

// newTestServer serves the todo and stream routes over an in-memory SQLite
// store. Streams ping every keepAlive.
func newTestServer(c *qt.C, keepAlive time.Duration) *testServer {
	gin.SetMode(gin.TestMode)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	db, err := repo.OpenSQLite(context.Background(), ":memory:")
	c.Assert(err, qt.IsNil)
	c.Assert(repo.Migrate(db, repo.DialectSQLite, logger), qt.IsNil)

	bus := broadcast.NewBus(broadcast.Options{})
	svc := service.NewTodoService(repo.NewSQLiteTodoRepo(db), nil, broadcast.NewPublisher(bus, logger, nil), logger)
	renderer, err := render.New()
	c.Assert(err, qt.IsNil)

	shutdown, cancel := context.WithCancel(context.Background())
	todos := NewTodoHandler(svc, renderer, logger)
	streams := NewStreamHandler(shutdown, bus, renderer, stream.Options{KeepAlive: keepAlive, Logger: logger})

	r := gin.New()
	r.GET("/", todos.Index)
	r.GET("/todos", todos.List)
	r.POST("/todos", todos.Create)
	r.GET("/todos/stream", streams.Events)
	r.GET("/todos/ws", streams.WebSocket)
	r.GET("/todos/:id", todos.GetByID)
	r.PUT("/todos/:id", todos.Update)
	r.DELETE("/todos/:id", todos.Delete)

	srv := &testServer{Server: httptest.NewServer(r), bus: bus, shutdown: cancel}
	c.Cleanup(func() {
		cancel()
		srv.Close()
		bus.Close()
		db.Close()
	})
	return srv
}

type response struct {
	status      int
	contentType string
	body        string
}

func (s *testServer) do(c *qt.C, method, path, contentType, body string) response {
	req, err := http.NewRequest(method, s.URL+path, strings.NewReader(body))
	c.Assert(err, qt.IsNil)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	return s.send(c, req)
}

func (s *testServer) send(c *qt.C, req *http.Request) response {
	resp, err := s.Client().Do(req)
	c.Assert(err, qt.IsNil)
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	c.Assert(err, qt.IsNil)
	return response{status: resp.StatusCode, contentType: resp.Header.Get("Content-Type"), body: string(b)}
}

func (s *testServer) postJSON(c *qt.C, path, body string) response {
	return s.do(c, http.MethodPost, path, gin.MIMEJSON, body)
}

func (s *testServer) putJSON(c *qt.C, path, body string) response {
	return s.do(c, http.MethodPut, path, gin.MIMEJSON, body)
}

func (s *testServer) postForm(c *qt.C, path string, form url.Values) response {
	return s.do(c, http.MethodPost, path, gin.MIMEPOSTForm, form.Encode())
}

// event is one parsed text/event-stream message.
type event struct {
	id, name, data string
}

type eventReader struct {
	body io.Closer
	r    *bufio.Reader
}

func (s *testServer) openStream(c *qt.C) *eventReader {
	ctx, cancel := context.WithCancel(context.Background())
	c.Cleanup(cancel)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL+"/todos/stream", nil)
	c.Assert(err, qt.IsNil)
	resp, err := s.Client().Do(req)
	c.Assert(err, qt.IsNil)
	c.Cleanup(func() { resp.Body.Close() })
	c.Assert(resp.StatusCode, qt.Equals, http.StatusOK)
	c.Assert(resp.Header.Get("Content-Type"), qt.Equals, "text/event-stream")
	return &eventReader{body: resp.Body, r: bufio.NewReader(resp.Body)}
}

// next reads one event. It fails the test if none arrives within longWait.
func (er *eventReader) next(c *qt.C) event {
	type result struct {
		ev  event
		err error
	}
	done := make(chan result, 1)
	go func() {
		ev, err := er.read()
		done <- result{ev, err}
	}()
	select {
	case res := <-done:
		c.Assert(res.err, qt.IsNil)
		return res.ev
	case <-time.After(longWait):
		er.body.Close()
		c.Fatalf("timed out waiting for an event")
	}
	panic("unreachable")
}

func (er *eventReader) read() (event, error) {
	var (
		ev   event
		data []string
	)
	for {
		line, err := er.r.ReadString('\n')
		if err != nil {
			return event{}, err
		}
		line = strings.TrimSuffix(line, "\n")
		if line == "" {
			if ev.name == "" && data == nil {
				continue
			}
			ev.data = strings.Join(data, "\n")
			return ev, nil
		}
		field, value, _ := strings.Cut(line, ":")
		switch field {
		case "id":
			ev.id = value
		case "event":
			ev.name = value
		case "data":
			data = append(data, value)
		}
	}
}

func decode[T any](c *qt.C, body string) T {
	var v T
	c.Assert(json.Unmarshal([]byte(body), &v), qt.IsNil, qt.Commentf("body %q", body))
	return v
}
