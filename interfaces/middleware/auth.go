package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt"

	"video-digest/domain/apperror"
	"video-digest/domain/model"
	"video-digest/infrastructure/utils"
	"video-digest/interfaces/respond"
	"video-digest/usecase"
)

// UserKey matches the key handlers read the caller from.
const UserKey = "user"

// Auth verifies the bearer token minted by the identity provider and loads
// (or creates) the matching user.
func Auth(userUsecase usecase.IUserUsecase, secretKey, issuer string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		authorization := ctx.Request.Header.Get("Authorization")
		raw, found := strings.CutPrefix(authorization, "Bearer ")
		if !found || strings.TrimSpace(raw) == "" || secretKey == "" {
			respond.Error(ctx, apperror.New(apperror.KindUnauthorized, "missing bearer token"))
			return
		}

		var claims model.UserClaims
		if err := utils.ParseToken(strings.TrimSpace(raw), secretKey, &claims); err != nil {
			respond.Error(ctx, apperror.Wrap(apperror.KindUnauthorized, tokenMessage(err), err))
			return
		}
		if issuer != "" && !claims.VerifyIssuer(issuer, true) {
			respond.Error(ctx, apperror.New(apperror.KindUnauthorized, "token was issued by someone else"))
			return
		}

		user, err := userUsecase.EnsureUser(ctx.Request.Context(), claims.Subject, claims.Email)
		if err != nil {
			respond.Error(ctx, err)
			return
		}
		ctx.Set(UserKey, user)
		ctx.Next()
	}
}

func tokenMessage(err error) string {
	var ve *jwt.ValidationError
	if errors.As(err, &ve) {
		switch {
		case ve.Errors&jwt.ValidationErrorMalformed != 0:
			return "malformed token"
		case ve.Errors&(jwt.ValidationErrorExpired|jwt.ValidationErrorNotValidYet) != 0:
			return "token expired or not yet valid"
		}
	}
	return "invalid token"
}
