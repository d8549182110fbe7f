package security

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type JwtClient struct {
	secret     []byte
	expireTime time.Duration
}

func NewJwtClient(secret []byte, expireTime time.Duration) *JwtClient {
	if expireTime <= 0 {
		expireTime = 24 * time.Hour
	}
	return &JwtClient{
		secret:     secret,
		expireTime: expireTime,
	}
}

func (c *JwtClient) CreateToken(claims *AdminClaims) (string, int64, error) {
	now := time.Now()
	claims.ID = uuid.NewString()
	claims.ExpiresAt = jwt.NewNumericDate(now.Add(c.expireTime))
	claims.IssuedAt = jwt.NewNumericDate(now)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedString, err := token.SignedString(c.secret)
	return signedString, claims.ExpiresAt.Unix(), err
}

func (c *JwtClient) ParseToken(tokenString string) (*AdminClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &AdminClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return c.secret, nil
	})
	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*AdminClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, errors.New("invalid token")
}

func (c *JwtClient) SaveToContext(ctx *fiber.Ctx, claims *AdminClaims) {
	ctx.Locals("account", claims.Account)
	ctx.Locals(AdminKey, claims)

	userCtx := context.WithValue(ctx.UserContext(), AdminKey, claims)
	ctx.SetUserContext(userCtx)
}
