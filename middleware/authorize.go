package middleware

import (
	"github.com/gin-gonic/gin"

	"HospitalCare/policy"
	"HospitalCare/util"
)

// Authorize refuses the request before the handler runs when the caller's
// role has no capability for the action. Ownership is checked later by the
// services.
func Authorize(res policy.Resource, act policy.Action) gin.HandlerFunc {
	return func(c *gin.Context) {
		p := Principal(c)
		if p == nil {
			Abort(c, util.Unauthorized(util.AUTHORIZATION_HEADER_MISSING))
			return
		}
		if p.ScopeFor(res, act) == policy.ScopeNone {
			Abort(c, util.Forbidden(util.ROLE_NOT_PERMITTED))
			return
		}
		c.Next()
	}
}
