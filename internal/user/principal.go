package user

import "github.com/gin-gonic/gin"

// ContextPrincipalKey is the key under which the authenticated Principal is
// stored in the Gin context.
const ContextPrincipalKey = "principal"

// Principal is the caller identity established by the authorization gate.
// UserID is the tenant key for every data access made on the caller's behalf;
// it comes only from a verified access token, never from a request body.
type Principal struct {
	UserID   uint
	Username string
	Email    string
	TokenID  string
}

// PrincipalFrom returns the principal set by the authorization gate.
func PrincipalFrom(c *gin.Context) (Principal, bool) {
	raw, exists := c.Get(ContextPrincipalKey)
	if !exists {
		return Principal{}, false
	}
	p, ok := raw.(Principal)
	return p, ok
}
