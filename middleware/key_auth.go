package middleware

import (
	"errors"
	"slices"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/keyauth"
	"github.com/golang-jwt/jwt/v5"
	"github.com/roysitumorang/raket/helper"
	"github.com/roysitumorang/raket/keys"
	"github.com/roysitumorang/raket/models"
	jwtModel "github.com/roysitumorang/raket/modules/jwt/model"
	jwtUseCase "github.com/roysitumorang/raket/modules/jwt/usecase"
	userModel "github.com/roysitumorang/raket/modules/user/model"
	userUseCase "github.com/roysitumorang/raket/modules/user/usecase"
)

var (
	publicKey = keys.InitPublicKey
)

// KeyAuth accepts a bearer JWT that is still registered and whose user
// exists, the user and token are stored in locals.
func KeyAuth(
	jwtUseCase jwtUseCase.JwtUseCase,
	userUseCase userUseCase.UserUseCase,
) func(c *fiber.Ctx) error {
	var builder strings.Builder
	_, _ = builder.WriteString("header:")
	_, _ = builder.WriteString(fiber.HeaderAuthorization)
	return keyauth.New(keyauth.Config{
		SuccessHandler: func(c *fiber.Ctx) error {
			return c.Next()
		},
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if err == nil {
				err = keyauth.ErrMissingOrMalformedAPIKey
			}
			return helper.NewResponse(fiber.StatusUnauthorized).SetMessage(err.Error()).WriteResponse(c)
		},
		KeyLookup:  builder.String(),
		AuthScheme: "Bearer",
		Validator: func(c *fiber.Ctx, token string) (bool, error) {
			claims, err := bearerVerify(token)
			if err != nil {
				return false, err
			}
			ctx := c.UserContext()
			jsonWebTokens, _, err := jwtUseCase.FindJWTs(ctx, jwtModel.NewFilter(jwtModel.WithTokens(claims.Subject)))
			if err != nil || len(jsonWebTokens) == 0 {
				return false, err
			}
			jsonWebToken := jsonWebTokens[0]
			if !slices.Contains(claims.Audience, jsonWebToken.UserID) {
				return false, nil
			}
			user, err := userUseCase.FindUserByID(ctx, nil, jsonWebToken.UserID)
			if err != nil || user == nil {
				return false, err
			}
			c.Locals(models.CurrentUser, user)
			c.Locals(models.CurrentJwt, jsonWebToken)
			return true, nil
		},
		ContextKey: "token",
	})
}

// CurrentIdentity is the authenticated user, or the null identity.
func CurrentIdentity(c *fiber.Ctx) models.Identity {
	user, ok := c.Locals(models.CurrentUser).(*userModel.User)
	if !ok || user == nil {
		return models.NullIdentity
	}
	return models.NewIdentity(user.ID)
}

func bearerVerify(tokenString string) (*jwt.RegisteredClaims, error) {
	var claimsStruct jwt.RegisteredClaims
	token, err := jwt.ParseWithClaims(
		tokenString,
		&claimsStruct,
		func(_ *jwt.Token) (any, error) {
			return publicKey()
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
	)
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid JWT")
	}
	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok {
		return nil, errors.New("invalid JWT")
	}
	if claims.Issuer != helper.GetJwtIssuer() {
		return nil, errors.New("iss is invalid")
	}
	if claims.ExpiresAt == nil || claims.ExpiresAt.Before(time.Now()) {
		return nil, errors.New("JWT is expired")
	}
	return claims, nil
}
