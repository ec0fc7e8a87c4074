package delivery

import (
	"errors"
	"log"
	"net/http"

	"daystart-backend/internal/auth/usecase"

	"github.com/gin-gonic/gin"
)

// callbackPage tells the opener window that the account was connected and closes the popup.
const callbackPage = `<html>
  <body style="background: transparent;">
    <script>
      if (window.opener) {
        window.opener.postMessage({ type: 'OAUTH_AUTH_SUCCESS' }, '*');
      }
      window.close();
    </script>
  </body>
</html>`

// ConnectionHandler handles Google account connection requests
type ConnectionHandler struct {
	connUsecase usecase.ConnectionUsecase
}

// NewConnectionHandler creates a new ConnectionHandler
func NewConnectionHandler(connUsecase usecase.ConnectionUsecase) *ConnectionHandler {
	return &ConnectionHandler{connUsecase: connUsecase}
}

// GetAuthURL returns the Google consent URL
// GET /api/auth/google/url
func (h *ConnectionHandler) GetAuthURL(c *gin.Context) {
	url, err := h.connUsecase.AuthURL()
	if err != nil {
		writeAuthError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": url})
}

// Callback completes the OAuth flow
// GET /auth/callback?code=...&state=...
func (h *ConnectionHandler) Callback(c *gin.Context) {
	_, err := h.connUsecase.HandleCallback(c.Request.Context(), c.Query("code"), c.Query("state"))
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrMissingCode):
			c.String(http.StatusBadRequest, "No code provided")
		case errors.Is(err, usecase.ErrInvalidState):
			c.String(http.StatusBadRequest, "Invalid or expired state")
		default:
			log.Printf("[Auth] Error exchanging code: %v", err)
			c.String(http.StatusInternalServerError, "Authentication failed")
		}
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(callbackPage))
}

// GetStatus reports whether any account is connected
// GET /api/auth/status
func (h *ConnectionHandler) GetStatus(c *gin.Context) {
	ok, err := h.connUsecase.IsAuthenticated()
	if err != nil {
		log.Printf("[Auth] Auth status error: %v", err)
		c.JSON(http.StatusOK, gin.H{"isAuthenticated": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{"isAuthenticated": ok})
}

// ListConnections returns the connected accounts
// GET /api/auth/connections
func (h *ConnectionHandler) ListConnections(c *gin.Context) {
	conns, err := h.connUsecase.ListConnections()
	if err != nil {
		writeAuthError(c, err)
		return
	}
	c.JSON(http.StatusOK, conns)
}

// DeleteConnection disconnects one account
// DELETE /api/auth/connections/:email
func (h *ConnectionHandler) DeleteConnection(c *gin.Context) {
	if err := h.connUsecase.Disconnect(c.Param("email")); err != nil {
		writeAuthError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Logout disconnects every account
// POST /api/auth/logout
func (h *ConnectionHandler) Logout(c *gin.Context) {
	if err := h.connUsecase.DisconnectAll(); err != nil {
		writeAuthError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func writeAuthError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, usecase.ErrConnectionNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, usecase.ErrOAuthNotConfigured):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
