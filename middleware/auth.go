package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"HospitalCare/policy"
	"HospitalCare/token"
	"HospitalCare/util"
)

type TokenParser interface {
	Parse(raw string) (primitive.ObjectID, error)
}

type PrincipalResolver interface {
	Resolve(ctx context.Context, userID primitive.ObjectID) (*policy.Principal, error)
}

/*
* Read the bearer token from the Authorization header
* Parse it down to the user id
* Load the user and its role profile fresh from storage
 */
func Authenticate(tokens TokenParser, resolver PrincipalResolver, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		raw, found := strings.CutPrefix(header, "Bearer ")
		if !found || strings.TrimSpace(raw) == "" {
			Abort(c, util.Unauthorized(util.AUTHORIZATION_HEADER_MISSING))
			return
		}

		userID, err := tokens.Parse(strings.TrimSpace(raw))
		if err != nil {
			if !errors.Is(err, token.ErrExpired) {
				log.Info("rejected bearer token", zap.String("requestId", RequestID(c)), zap.Error(err))
			}
			Abort(c, util.Unauthorized(util.INVALID_TOKEN))
			return
		}

		p, err := resolver.Resolve(c.Request.Context(), userID)
		if err != nil {
			if !util.IsKind(err, util.KindUnauthorized) {
				log.Error("resolving caller failed", zap.String("requestId", RequestID(c)), zap.Error(err))
			}
			Abort(c, err)
			return
		}
		SetPrincipal(c, p)
		c.Next()
	}
}
