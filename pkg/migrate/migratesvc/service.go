// Package migratesvc exposes a DynamicMigration over NATS request/reply,
// so a migration can run as a long-lived service other processes call
// into instead of being re-parsed and re-applied per invocation.
package migratesvc

import (
	"fmt"

	"github.com/nats-io/nats.go"

	"github.com/wayneeseguin/migrate/log"
	"github.com/wayneeseguin/migrate/pkg/migrate"
	"github.com/wayneeseguin/migrate/pkg/migrate/codec"
)

// Request is the wire payload a client sends: the Value to migrate,
// JSON-encoded via codec.EncodeJSON, plus which direction to run.
type Request struct {
	Value   []byte `json:"value"`
	Reverse bool   `json:"reverse,omitempty"`
}

// Response carries either the migrated Value or an error string; exactly
// one of the two is populated.
type Response struct {
	Value []byte `json:"value,omitempty"`
	Error string `json:"error,omitempty"`
}

// Server answers Apply requests for one migration on a NATS subject.
type Server struct {
	conn      *nats.Conn
	subject   string
	migration migrate.DynamicMigration
	sub       *nats.Subscription
}

// NewServer connects to url and serves migration on subject. Connection
// setup mirrors the teacher's NATS operator: a bare nats.Connect with the
// caller supplying any TLS/auth options via opts.
func NewServer(url, subject string, migration migrate.DynamicMigration, opts ...nats.Option) (*Server, error) {
	conn, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, fmt.Errorf("connect to nats: %w", err)
	}
	return &Server{conn: conn, subject: subject, migration: migration}, nil
}

// Start begins answering requests on the server's subject.
func (s *Server) Start() error {
	sub, err := s.conn.Subscribe(s.subject, s.handle)
	if err != nil {
		return fmt.Errorf("subscribe %s: %w", s.subject, err)
	}
	s.sub = sub
	log.Printf("migratesvc: serving %s\n", s.subject)
	return nil
}

// Stop unsubscribes and closes the underlying connection.
func (s *Server) Stop() {
	if s.sub != nil {
		_ = s.sub.Unsubscribe()
	}
	s.conn.Close()
}

func (s *Server) handle(msg *nats.Msg) {
	var req Request
	if err := decodeRequest(msg.Data, &req); err != nil {
		s.reply(msg, Response{Error: err.Error()})
		return
	}

	v, err := codec.DecodeJSON(req.Value)
	if err != nil {
		s.reply(msg, Response{Error: fmt.Sprintf("decode value: %v", err)})
		return
	}

	m := s.migration
	if req.Reverse {
		rev, ok := m.Reverse()
		if !ok {
			s.reply(msg, Response{Error: "migration has no reverse"})
			return
		}
		m = rev
	}

	out, err := m.Apply(v)
	if err != nil {
		s.reply(msg, Response{Error: err.Error()})
		return
	}

	encoded, err := codec.EncodeJSON(out)
	if err != nil {
		s.reply(msg, Response{Error: fmt.Sprintf("encode result: %v", err)})
		return
	}
	s.reply(msg, Response{Value: encoded})
}

func (s *Server) reply(msg *nats.Msg, resp Response) {
	data, err := encodeResponse(resp)
	if err != nil {
		log.PrintfStdErr("migratesvc: encode response: %v\n", err)
		return
	}
	if err := msg.Respond(data); err != nil {
		log.PrintfStdErr("migratesvc: respond: %v\n", err)
	}
}

// Client issues Apply requests against a running Server.
type Client struct {
	conn    *nats.Conn
	subject string
}

// NewClient connects to url for use against subject.
func NewClient(url, subject string, opts ...nats.Option) (*Client, error) {
	conn, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, fmt.Errorf("connect to nats: %w", err)
	}
	return &Client{conn: conn, subject: subject}, nil
}

// Close closes the client's connection.
func (c *Client) Close() { c.conn.Close() }

// Apply encodes v, sends it to the server, and decodes the reply.
func (c *Client) Apply(v migrate.Value, reverse bool) (migrate.Value, error) {
	encoded, err := codec.EncodeJSON(v)
	if err != nil {
		return migrate.Value{}, fmt.Errorf("encode value: %w", err)
	}

	reqData, err := encodeRequest(Request{Value: encoded, Reverse: reverse})
	if err != nil {
		return migrate.Value{}, err
	}

	msg, err := c.conn.Request(c.subject, reqData, defaultTimeout)
	if err != nil {
		return migrate.Value{}, fmt.Errorf("nats request: %w", err)
	}

	var resp Response
	if err := decodeResponse(msg.Data, &resp); err != nil {
		return migrate.Value{}, err
	}
	if resp.Error != "" {
		return migrate.Value{}, fmt.Errorf("migratesvc: %s", resp.Error)
	}
	return codec.DecodeJSON(resp.Value)
}
