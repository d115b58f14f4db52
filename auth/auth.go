package auth

import (
	"errors"
	"fmt"
	"neoevents/models"
	"net/http"
	"strings"
	"time"

	restful "github.com/emicklei/go-restful/v3"
	"github.com/golang-jwt/jwt/v4"
)

// mySigningKey should be a strong, randomly generated secret key,
// and it should be stored securely (e.g., in environment variables,
// a key management service, etc.), NOT hardcoded in your source code.
var mySigningKey = []byte("mySigningKey")

// SetSigningKey allows setting the key from outside the package.
func SetSigningKey(key []byte) {
	if len(key) > 0 {
		mySigningKey = key
	}
}

// CustomClaims represents the custom claims included in the JWT.
type CustomClaims struct {
	UserID  uint   `json:"user_id"`
	Email   string `json:"email"`
	IsAdmin bool   `json:"is_admin"`
	jwt.RegisteredClaims
}

// GenerateToken creates a new JWT for the given user.
func GenerateToken(user *models.User) (string, error) {
	expirationTime := time.Now().Add(24 * time.Hour)
	claims := &CustomClaims{
		UserID:  user.ID,
		Email:   user.Email,
		IsAdmin: user.IsAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expirationTime),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
			Issuer:    "neoevents",
			Subject:   "user-auth",
			Audience:  []string{"neoevents-users"},
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(mySigningKey)
	if err != nil {
		return "", err
	}
	return tokenString, nil
}

// ParseAndValidateToken checks the signature and expiry and returns the claims.
func ParseAndValidateToken(tokenString string) (*CustomClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &CustomClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return mySigningKey, nil
	})

	if err != nil {
		if ve, ok := err.(*jwt.ValidationError); ok {
			if ve.Errors&jwt.ValidationErrorMalformed != 0 {
				return nil, errors.New("malformed token")
			} else if ve.Errors&(jwt.ValidationErrorExpired|jwt.ValidationErrorNotValidYet) != 0 {
				return nil, errors.New("token is either expired or not active yet")
			} else if ve.Errors&jwt.ValidationErrorSignatureInvalid != 0 {
				return nil, errors.New("invalid token signature")
			}
		}
		return nil, fmt.Errorf("couldn't handle this token: %w", err)
	}

	if claims, ok := token.Claims.(*CustomClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, errors.New("invalid token")
}

// Request attribute keys set by AuthFilter.
const (
	AttributeUserID  = "user_id"
	AttributeEmail   = "user_email"
	AttributeIsAdmin = "is_admin"
)

// AuthFilter creates a go-restful FilterFunction for JWT authentication.
func AuthFilter() restful.FilterFunction {
	return func(req *restful.Request, resp *restful.Response, chain *restful.FilterChain) {
		authHeader := req.HeaderParameter("Authorization")
		if authHeader == "" {
			_ = resp.WriteHeaderAndJson(http.StatusUnauthorized, map[string]string{"message": "Authorization header required"}, restful.MIME_JSON)
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			_ = resp.WriteHeaderAndJson(http.StatusUnauthorized, map[string]string{"message": "Invalid authorization header format"}, restful.MIME_JSON)
			return
		}
		tokenString := parts[1]

		claims, err := ParseAndValidateToken(tokenString)
		if err != nil {
			_ = resp.WriteHeaderAndJson(http.StatusUnauthorized, map[string]string{"message": err.Error()}, restful.MIME_JSON)
			return
		}

		// Store user information in request attributes for use by handlers
		req.SetAttribute(AttributeUserID, claims.UserID)
		req.SetAttribute(AttributeEmail, claims.Email)
		req.SetAttribute(AttributeIsAdmin, claims.IsAdmin)

		chain.ProcessFilter(req, resp)
	}
}

// AdminFilter rejects requests whose token does not carry the admin flag.
// It must run after AuthFilter.
func AdminFilter() restful.FilterFunction {
	return func(req *restful.Request, resp *restful.Response, chain *restful.FilterChain) {
		isAdmin, _ := req.Attribute(AttributeIsAdmin).(bool)
		if !isAdmin {
			_ = resp.WriteHeaderAndJson(http.StatusForbidden, map[string]string{"message": "Forbidden"}, restful.MIME_JSON)
			return
		}
		chain.ProcessFilter(req, resp)
	}
}

// RequestingEmail extracts the authenticated email set by AuthFilter.
func RequestingEmail(req *restful.Request) (string, bool) {
	email, ok := req.Attribute(AttributeEmail).(string)
	return email, ok && email != ""
}

// RequestingUserID extracts the authenticated user id set by AuthFilter.
func RequestingUserID(req *restful.Request) (uint, bool) {
	id, ok := req.Attribute(AttributeUserID).(uint)
	return id, ok
}

// IsAdminRequest reports whether the authenticated user is an admin.
func IsAdminRequest(req *restful.Request) bool {
	isAdmin, _ := req.Attribute(AttributeIsAdmin).(bool)
	return isAdmin
}
