package web

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hance08/txgate/internal/auth"
	"github.com/hance08/txgate/internal/constants"
)

const principalKey = "principal"

// basicAuth resolves the caller from HTTP basic credentials. Requests without
// credentials are rejected before reaching a handler.
func (s *Server) basicAuth(c *gin.Context) {
	username, password, ok := c.Request.BasicAuth()
	if !ok {
		c.Header("WWW-Authenticate", `Basic realm="txgate"`)
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	p, err := s.authn.Authenticate(username, password)
	if err != nil {
		c.Header("WWW-Authenticate", `Basic realm="txgate"`)
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	c.Set(principalKey, p)
	c.Next()
}

func principal(c *gin.Context) auth.Principal {
	if v, ok := c.Get(principalKey); ok {
		if p, ok := v.(auth.Principal); ok {
			return p
		}
	}
	return auth.Principal{}
}

// canView reports whether the caller may read requester's records: either
// everything, or their own.
func (s *Server) canView(c *gin.Context, requester string) error {
	p := principal(c)
	ctx := c.Request.Context()

	if err := s.authz.Authorize(ctx, p, constants.CapViewAll); err == nil {
		return nil
	}
	if p.Name == requester {
		return s.authz.Authorize(ctx, p, constants.CapViewOwn)
	}
	return auth.ErrForbidden
}
