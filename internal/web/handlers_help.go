package web

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// handleHelp shows the usage guide. It reads no session state.
func (s *Server) handleHelp(c *gin.Context) {
	s.render(c, http.StatusOK, view{Page: "help"})
}
