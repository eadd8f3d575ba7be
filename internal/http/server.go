package http

import (
	"github.com/gin-gonic/gin"
)

// Server owns the wired gin engine and its listen loop.
type Server struct {
	Engine *gin.Engine
}

func NewServer(cfg RouterConfig) *Server {
	return &Server{Engine: NewRouter(cfg)}
}

func (s *Server) Run(address string) error {
	return s.Engine.Run(address)
}
