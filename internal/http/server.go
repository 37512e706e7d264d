package http

import "github.com/gin-gonic/gin"

// Server owns the configured gin engine. Route wiring lives in NewRouter so
// tests can drive the engine directly without binding a port.
type Server struct {
	Engine *gin.Engine
}

func NewServer(cfg RouterConfig) *Server {
	return &Server{Engine: NewRouter(cfg)}
}

// Run serves HTTP on address and blocks until the listener fails.
func (s *Server) Run(address string) error {
	return s.Engine.Run(address)
}
