// utils/auth.go
package utils

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// Generate JWT secret key (run once initially)
func GenerateJWTSecret() string {
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		panic("failed to generate JWT secret")
	}
	return base64.StdEncoding.EncodeToString(key)
}

// Generate JWT token carrying the member identity and role
func GenerateToken(memberID, email, role string) (string, error) {
	expiryHours := 24 // default
	if env := os.Getenv("JWT_EXPIRY_HOURS"); env != "" {
		if h, err := strconv.Atoi(env); err == nil {
			expiryHours = h
		}
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   memberID,
		"email": email,
		"role":  role,
		"exp":   time.Now().Add(time.Duration(expiryHours) * time.Hour).Unix(),
		"iat":   time.Now().Unix(),
	})

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return "", errors.New("JWT_SECRET not set")
	}

	return token.SignedString([]byte(secret))
}

// Auth middleware
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := c.GetHeader("Authorization")
		if tokenString == "" {
			c.AbortWithStatusJSON(401, gin.H{"error": "Authorization header required"})
			return
		}

		if len(tokenString) > 7 && strings.ToUpper(tokenString[0:6]) == "BEARER" {
			tokenString = tokenString[7:]
		}

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errors.New("unexpected signing method")
			}
			return []byte(os.Getenv("JWT_SECRET")), nil
		})

		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(401, gin.H{"error": "Invalid token"})
			return
		}

		if claims, ok := token.Claims.(jwt.MapClaims); ok {
			c.Set("memberId", claims["sub"])
			c.Set("memberEmail", claims["email"])
			c.Set("memberRole", claims["role"])
		} else {
			c.AbortWithStatusJSON(401, gin.H{"error": "Invalid token claims"})
			return
		}

		c.Next()
	}
}

// AdminRequired gates member management behind the admin role. Must run
// after AuthMiddleware.
func AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get("memberRole")
		if !exists || role != "admin" {
			c.AbortWithStatusJSON(403, gin.H{"error": "Admin access required"})
			return
		}
		c.Next()
	}
}
