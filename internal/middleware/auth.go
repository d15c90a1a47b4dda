// internal/middleware/auth.go
package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"go_eng_voca/internal/config"
	"go_eng_voca/internal/model"
	"go_eng_voca/internal/webutil"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// JWTAuthMiddleware は Authorization ヘッダーの Bearer トークンを検証するミドルウェア
func JWTAuthMiddleware(cfg *config.Config) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logger := GetLogger(r.Context())

			userID, err := userIDFromAuthHeader(r, cfg)
			if err != nil {
				logger.Warn("JWT auth failed", "error", err)
				webutil.HandleError(w, logger, err)
				return
			}

			// リクエストコンテキストにユーザーIDをセット
			ctx := context.WithValue(r.Context(), model.UserIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalJWTAuthMiddleware はトークンがあれば検証してユーザーIDをセットし、
// なければゲストとしてそのまま通すミドルウェアです (練習セット取得用)。
// 不正なトークンはゲスト扱いせずエラーにします。
func OptionalJWTAuthMiddleware(cfg *config.Config) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logger := GetLogger(r.Context())

			if r.Header.Get("Authorization") == "" {
				next.ServeHTTP(w, r)
				return
			}

			userID, err := userIDFromAuthHeader(r, cfg)
			if err != nil {
				logger.Warn("JWT auth failed on optional route", "error", err)
				webutil.HandleError(w, logger, err)
				return
			}

			ctx := context.WithValue(r.Context(), model.UserIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// userIDFromAuthHeader は Authorization ヘッダーを検証し、subject のユーザーIDを返します
func userIDFromAuthHeader(r *http.Request, cfg *config.Config) (uuid.UUID, error) {
	// 1. Authorization ヘッダーからトークンを取得
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return uuid.Nil, model.NewAppError("UNAUTHORIZED", "Authorizationヘッダーが必要です。", "", model.ErrUnauthorized)
	}

	// "Bearer {token}" の形式を検証
	headerParts := strings.Split(authHeader, " ")
	if len(headerParts) != 2 || strings.ToLower(headerParts[0]) != "bearer" {
		return uuid.Nil, model.NewAppError("UNAUTHORIZED", "Authorizationヘッダーの形式が正しくありません。", "", model.ErrUnauthorized)
	}
	tokenString := headerParts[1]

	// 2. JWTをパースし、署名と有効期限を検証
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		// 署名アルゴリズムが期待通り(HS256)かチェック
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(cfg.JWT.SecretKey), nil
	})
	if err != nil || !token.Valid {
		return uuid.Nil, model.NewAppError("INVALID_TOKEN", "トークンが無効です。", "", model.ErrUnauthorized)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return uuid.Nil, model.NewAppError("INVALID_TOKEN", "トークンが無効です。", "", model.ErrUnauthorized)
	}

	// 3. ペイロードから subject (ユーザーID) を取得
	subject, err := claims.GetSubject()
	if err != nil {
		return uuid.Nil, model.NewAppError("INVALID_TOKEN", "トークンにユーザー情報が含まれていません。", "", model.ErrUnauthorized)
	}

	userID, err := uuid.Parse(subject)
	if err != nil {
		return uuid.Nil, model.NewAppError("INVALID_TOKEN", "トークンのユーザー情報が不正です。", "", model.ErrUnauthorized)
	}

	return userID, nil
}

// GetUserIDFromContext はコンテキストから認証済みユーザーIDを取得します
func GetUserIDFromContext(ctx context.Context) (uuid.UUID, error) {
	value, ok := ctx.Value(model.UserIDKey).(uuid.UUID)
	if !ok {
		// コンテキストにユーザーIDが見つからない (未認証、またはミドルウェア未適用)
		return uuid.Nil, model.NewAppError("UNAUTHORIZED", "認証情報が見つかりません。", "", model.ErrUnauthorized)
	}
	return value, nil
}
