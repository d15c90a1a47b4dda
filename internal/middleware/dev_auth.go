// internal/middleware/dev_auth.go
package middleware

import (
	"context"
	"log"
	"net/http"

	"go_eng_voca/internal/model"
	"go_eng_voca/internal/webutil"

	"github.com/google/uuid"
)

// DevUserContextMiddleware は開発時用ミドルウェアです。
// X-User-ID ヘッダーからUUIDを抽出し、コンテキストに設定します。
// DBでのユーザー存在チェックは行いません。
func DevUserContextMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userIDStr := r.Header.Get("X-User-ID")
		if userIDStr == "" {
			// 開発時でも User ID は必須とする (API利用のために)
			log.Println("[DEV AUTH] Failed: X-User-ID header missing")
			appErr := model.NewAppError("UNAUTHORIZED", "[DEV] X-User-IDヘッダーがありません。", "", model.ErrUnauthorized)
			webutil.HandleError(w, GetLogger(r.Context()), appErr)
			return
		}

		userID, err := uuid.Parse(userIDStr)
		if err != nil {
			log.Printf("[DEV AUTH] Failed: Invalid X-User-ID format: %s", userIDStr)
			appErr := model.NewAppError("UNAUTHORIZED", "[DEV] X-User-IDの形式が正しくありません。", "", model.ErrUnauthorized)
			webutil.HandleError(w, GetLogger(r.Context()), appErr)
			return
		}

		// コンテキストにユーザーIDをセット (DB検証はスキップ)
		ctx := context.WithValue(r.Context(), model.UserIDKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
