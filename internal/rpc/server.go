package rpc

import (
	"net"

	"github.com/apache/thrift/lib/go/thrift"
	"github.com/rs/zerolog"
)

// Server exposes the language model service over framed binary thrift.
type Server struct {
	addr   string
	log    zerolog.Logger
	sock   *thrift.TServerSocket
	server *thrift.TSimpleServer
}

// NewServer wires a service implementation into a thrift simple server
// listening on addr. The wire format is a framed transport carrying the
// binary protocol, so every message goes out length-prefixed.
func NewServer(addr string, svc LanguageModelService, log zerolog.Logger) (*Server, error) {
	sock, err := thrift.NewTServerSocket(addr)
	if err != nil {
		return nil, err
	}
	srv := thrift.NewTSimpleServer4(
		NewLanguageModelServiceProcessor(svc),
		sock,
		thrift.NewTFramedTransportFactoryConf(thrift.NewTTransportFactory(), nil),
		thrift.NewTBinaryProtocolFactoryConf(nil),
	)
	return &Server{addr: addr, log: log, sock: sock, server: srv}, nil
}

// Listen binds the server socket. Serve binds implicitly, but binding early
// surfaces address errors before the accept loop starts and makes Addr
// usable, which matters when addr is ":0".
func (s *Server) Listen() error {
	return s.sock.Listen()
}

// Addr reports the bound listener address. Only meaningful after Listen.
func (s *Server) Addr() net.Addr {
	return s.sock.Addr()
}

// Serve accepts connections until Stop is called.
func (s *Server) Serve() error {
	s.log.Info().Str("addr", s.addr).Msg("rpc server listening")
	return s.server.Serve()
}

// Stop shuts down the accept loop and closes the listener.
func (s *Server) Stop() error {
	return s.server.Stop()
}
