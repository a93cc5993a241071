package middleware

import (
	"github.com/gin-gonic/gin"

	"HospitalCare/policy"
	"HospitalCare/util"
)

const (
	principalKey = "principal"
	requestIDKey = "requestId"
)

// Principal returns the caller stored by Authenticate, or nil.
func Principal(c *gin.Context) *policy.Principal {
	v, ok := c.Get(principalKey)
	if !ok {
		return nil
	}
	p, _ := v.(*policy.Principal)
	return p
}

func SetPrincipal(c *gin.Context, p *policy.Principal) {
	c.Set(principalKey, p)
}

func RequestID(c *gin.Context) string {
	return c.GetString(requestIDKey)
}

// Abort writes the error envelope and stops the chain.
func Abort(c *gin.Context, err error) {
	appErr := util.AsAppError(err)
	c.AbortWithStatusJSON(util.StatusCode(appErr.Kind), util.FailedResponse(appErr))
}
