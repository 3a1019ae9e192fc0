package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/custodia-labs/quill-cli/internal/core/domain"
	"github.com/custodia-labs/quill-cli/internal/logger"
)

// GenerateRequest is the body of POST /generate.
type GenerateRequest struct {
	// Service names the AI provider. Empty means the configured one.
	Service string `json:"service"`

	// Keyword is categorised to pick the dataset and passed as instructions.
	Keyword string `json:"keyword"`
}

// ListResponse is the body of GET /manuscripts.
type ListResponse struct {
	Category    string              `json:"category"`
	Manuscripts []domain.Manuscript `json:"manuscripts"`
	Count       int                 `json:"count"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

// serviceAliases maps request service names to providers.
var serviceAliases = map[string]domain.AIProvider{
	"gpt":    domain.AIProviderOpenAI,
	"claude": domain.AIProviderAnthropic,
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) generate(c *gin.Context) {
	var req GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err))
		return
	}

	keyword := strings.TrimSpace(req.Keyword)
	if keyword == "" {
		writeError(c, fmt.Errorf("%w: keyword is required", domain.ErrInvalidInput))
		return
	}
	if err := s.checkService(req.Service); err != nil {
		writeError(c, err)
		return
	}

	m, err := s.cfg.Manuscripts.GenerateForKeyword(c.Request.Context(), keyword)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, m)
}

func (s *Server) listManuscripts(c *gin.Context) {
	label := c.Query("category")
	category, ok := domain.ParseRoutingCategory(label)
	if !ok {
		writeError(c, fmt.Errorf("%w: unknown category %q", domain.ErrInvalidInput, label))
		return
	}

	manuscripts, err := s.cfg.Manuscripts.List(c.Request.Context(), category)
	if err != nil {
		writeError(c, err)
		return
	}
	if manuscripts == nil {
		manuscripts = []domain.Manuscript{}
	}
	c.JSON(http.StatusOK, ListResponse{
		Category:    category.String(),
		Manuscripts: manuscripts,
		Count:       len(manuscripts),
	})
}

// checkService accepts an empty service or one resolving to the configured provider.
func (s *Server) checkService(service string) error {
	name := strings.ToLower(strings.TrimSpace(service))
	if name == "" {
		return nil
	}

	provider, ok := serviceAliases[name]
	if !ok {
		provider = domain.AIProvider(name)
	}
	if !provider.IsValid() {
		return fmt.Errorf("%w: unknown service %q", domain.ErrInvalidInput, service)
	}
	if provider != s.cfg.Provider {
		return fmt.Errorf("%w: service %q is not configured (using %s)",
			domain.ErrConfiguration, service, s.cfg.Provider)
	}
	return nil
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInsufficientData):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrConfiguration):
		return http.StatusServiceUnavailable
	case errors.Is(err, domain.ErrExternalService), errors.Is(err, domain.ErrParse):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeError(c *gin.Context, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		logger.Error("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	}
	c.AbortWithStatusJSON(status, ErrorResponse{Error: err.Error()})
}
