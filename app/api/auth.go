package api

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/rbhz/wr-dictionary/app/db"
	"github.com/rs/zerolog/log"
)

const tokenTTL = 24 * time.Hour

// JWTClaims custom claims with user id
type JWTClaims struct {
	User *int64 `json:"user"`
	jwt.StandardClaims
}

// AuthResponse response for authentication
type AuthResponse struct {
	Token string `json:"token"`
}

// authService implements methods for API authentication
type authService struct {
	telegramToken string
	jwtSecret     []byte
}

// createToken creates JWT token
func (s *authService) createToken(userID int64) (string, error) {
	now := time.Now().UTC()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, JWTClaims{
		User: &userID,
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: now.Add(tokenTTL).Unix(),
			NotBefore: now.Unix(),
		},
	})
	tokenStr, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return tokenStr, nil
}

// telegramHash signs login widget data as described in
// https://core.telegram.org/widgets/login#checking-authorization
func (s *authService) telegramHash(query url.Values) string {
	keys := make([]string, 0, len(query))
	for key := range query {
		if key != "hash" {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	lines := make([]string, 0, len(keys))
	for _, key := range keys {
		lines = append(lines, key+"="+query.Get(key))
	}
	secretKey := sha256.Sum256([]byte(s.telegramToken))
	h := hmac.New(sha256.New, secretKey[:])
	h.Write([]byte(strings.Join(lines, "\n")))
	return hex.EncodeToString(h.Sum(nil))
}

// TelegramRedirectHandler handles authentication after Telegram redirect
func (s *authService) TelegramRedirectHandler(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	if !hmac.Equal([]byte(s.telegramHash(query)), []byte(query.Get("hash"))) {
		writeText(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	userID, err := strconv.ParseInt(query.Get("id"), 10, 64)
	if err != nil {
		log.Error().Err(err).Str("userID", query.Get("id")).Msg("failed to parse user id")
		writeText(w, http.StatusBadRequest, "invalid ID")
		return
	}

	token, err := s.createToken(userID)
	if err != nil {
		log.Error().Err(err).Msg("failed to create token")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, AuthResponse{Token: token})
}

// UserCtx checks authorization token and adds user to context
func (s *authService) UserCtx(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestToken, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || requestToken == "" {
			writeText(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		token, err := jwt.ParseWithClaims(requestToken, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
			}
			return s.jwtSecret, nil
		})
		if err != nil {
			writeText(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		claims, ok := token.Claims.(*JWTClaims)
		if !ok || claims.User == nil {
			writeText(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		ctx := context.WithValue(r.Context(), ctxUserIDKey, db.UserID(*claims.User))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
