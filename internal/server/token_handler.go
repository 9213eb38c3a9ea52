package server

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ivylabs/mediatoken_backend/internal/logger"
	"github.com/ivylabs/mediatoken_backend/internal/token"
)

const apiKeyHeader = "X-API-Key"

// tokenHandler issues a media room access token for a validated caller.
func (s *Server) tokenHandler(c *gin.Context) {
	// Parse request
	var req struct {
		Customer *struct {
			Name  string `json:"name" binding:"required"`
			Email string `json:"email" binding:"required"`
		} `json:"customer"`
		AgentName string `json:"agent_name"`
	}

	// An absent body is treated as an empty request
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"detail": fmt.Sprintf("Invalid request body: %v", err)})
		return
	}

	issueReq := token.Request{AgentName: req.AgentName}
	if req.Customer != nil {
		issueReq.Customer = &token.CustomerInfo{
			Name:  req.Customer.Name,
			Email: req.Customer.Email,
		}
	}

	issued, err := s.issuer.Issue(c.GetHeader(apiKeyHeader), issueReq)
	if err != nil {
		s.writeIssueError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":       issued.Token,
		"room_name":   issued.RoomName,
		"participant": issued.ParticipantIdentity,
		"agent":       issued.AgentName,
	})
}

// writeIssueError maps issuance errors onto HTTP statuses and the response
// messages existing clients match on.
func (s *Server) writeIssueError(c *gin.Context, err error) {
	var issuanceErr *token.IssuanceError

	switch {
	case errors.Is(err, token.ErrAPIKeyMissing):
		c.JSON(http.StatusForbidden, gin.H{"detail": "API key is missing in the request header"})
	case errors.Is(err, token.ErrAPIKeyInvalid):
		c.JSON(http.StatusForbidden, gin.H{"detail": "Invalid API key"})
	case errors.Is(err, token.ErrServiceMisconfigured):
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Server configuration error: Missing Media Server credentials"})
	case errors.As(err, &issuanceErr):
		c.JSON(http.StatusInternalServerError, gin.H{"detail": fmt.Sprintf("Error generating token: %v", issuanceErr.Err)})
	default:
		logger.FromContext(c.Request.Context()).Error().Err(err).Msg("unexpected issuance failure")
		c.JSON(http.StatusInternalServerError, gin.H{"detail": fmt.Sprintf("Error generating token: %v", err)})
	}
}
