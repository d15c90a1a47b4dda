// internal/service/auth_service.go
package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"go_eng_voca/internal/config"
	"go_eng_voca/internal/middleware"
	"go_eng_voca/internal/model"
	"go_eng_voca/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AuthService はアカウント登録・認証とJWT発行を提供します。
type AuthService interface {
	Register(ctx context.Context, req *model.RegisterRequest) (*model.User, error)
	VerifyAccount(ctx context.Context, tokenString string) error
	Login(ctx context.Context, req *model.LoginRequest) (*model.LoginResponse, error)
	GoogleSignIn(ctx context.Context, req *model.GoogleSignInRequest) (*model.LoginResponse, error)
}

type authService struct {
	db        *gorm.DB
	userRepo  repository.UserRepository
	tokenRepo repository.TokenRepository
	mailer    Mailer
	cfg       *config.Config
}

func NewAuthService(db *gorm.DB, userRepo repository.UserRepository, tokenRepo repository.TokenRepository, mailer Mailer, cfg *config.Config) AuthService {
	return &authService{
		db:        db,
		userRepo:  userRepo,
		tokenRepo: tokenRepo,
		mailer:    mailer,
		cfg:       cfg,
	}
}

// Register は新しいユーザーを登録し、有効化メールを送信します
func (s *authService) Register(ctx context.Context, req *model.RegisterRequest) (*model.User, error) {
	logger := middleware.GetLogger(ctx)
	var newUser *model.User

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Emailでの重複チェック
		_, err := s.userRepo.FindByEmail(ctx, tx, req.Email)
		if err == nil {
			logger.Warn("Email already exists", "email", req.Email)
			return model.NewAppError("DUPLICATE_EMAIL", "このメールアドレスは既に使用されています。", "email", model.ErrConflict)
		}
		if !errors.Is(err, model.ErrNotFound) {
			logger.Error("Failed to check email existence", "error", err)
			return model.NewAppError("INTERNAL_SERVER_ERROR", "サーバー内部でエラーが発生しました。", "", err)
		}

		// パスワードのハッシュ化
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			logger.Error("Failed to hash password", "error", err)
			return model.NewAppError("INTERNAL_SERVER_ERROR", "パスワードの処理中にエラーが発生しました。", "", err)
		}
		hash := string(hashedPassword)

		user := &model.User{
			UserID:       uuid.New(),
			Name:         req.Name,
			Email:        req.Email,
			PasswordHash: &hash,
			IsActive:     false,
		}

		if err := s.userRepo.Create(ctx, tx, user); err != nil {
			// レースコンディションでユニーク制約に当たった場合
			if errors.Is(err, model.ErrConflict) {
				logger.Warn("Conflict during user creation (race condition)", "error", err)
				return model.NewAppError("DUPLICATE_EMAIL", "このメールアドレスは既に使用されています。", "email", model.ErrConflict)
			}
			logger.Error("Failed to create user in DB", "error", err)
			return model.NewAppError("INTERNAL_SERVER_ERROR", "ユーザーの作成に失敗しました。", "", err)
		}
		newUser = user

		tokenString, err := s.generateAndSaveVerificationToken(ctx, tx, newUser.UserID)
		if err != nil {
			return err
		}

		if err := s.sendVerificationEmail(ctx, newUser.Email, tokenString); err != nil {
			return model.NewAppError("EMAIL_SEND_FAILED", "確認メールの送信に失敗しました。時間をおいて再度お試しください。", "", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("User registered and verification email sent", "user_id", newUser.UserID, "email", newUser.Email)
	return newUser, nil
}

// VerifyAccount は提供されたトークンを検証し、アカウントを有効化します
func (s *authService) VerifyAccount(ctx context.Context, tokenString string) error {
	logger := middleware.GetLogger(ctx)

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		token, err := s.tokenRepo.FindByToken(ctx, tx, tokenString)
		if err != nil {
			if errors.Is(err, model.ErrNotFound) {
				logger.Warn("Verification token not found", "token", tokenString)
				return model.NewAppError("INVALID_TOKEN", "このリンクは無効か、既に使用されています。", "token", model.ErrInvalidInput)
			}
			logger.Error("Error finding verification token", "error", err)
			return model.NewAppError("INTERNAL_SERVER_ERROR", "エラーが発生しました。", "", err)
		}

		if time.Now().After(token.ExpiresAt) {
			logger.Warn("Verification token expired", "token", tokenString, "expires_at", token.ExpiresAt)
			_ = s.tokenRepo.Delete(ctx, tx, tokenString) // 期限切れトークンは削除
			return model.NewAppError("INVALID_TOKEN", "このリンクの有効期限が切れています。", "token", model.ErrInvalidInput)
		}

		updateResult := tx.Model(&model.User{}).Where("user_id = ?", token.UserID).Update("is_active", true)
		if updateResult.Error != nil {
			logger.Error("Failed to activate user account", "error", updateResult.Error, "user_id", token.UserID)
			return model.NewAppError("INTERNAL_SERVER_ERROR", "アカウントの有効化に失敗しました。", "", updateResult.Error)
		}
		if updateResult.RowsAffected == 0 {
			logger.Error("User not found during activation", "user_id", token.UserID)
			return model.NewAppError("NOT_FOUND", "アカウントが見つかりません。", "", model.ErrNotFound)
		}

		if err := s.tokenRepo.Delete(ctx, tx, tokenString); err != nil {
			logger.Error("Failed to delete used verification token", "error", err, "token", tokenString)
			// トークン削除エラーは致命的ではないので、処理は続行する
		}

		logger.Info("Account verified successfully", "user_id", token.UserID)
		return nil
	})
}

// Login はメールアドレスとパスワードでユーザーを認証し、JWTを返します
func (s *authService) Login(ctx context.Context, req *model.LoginRequest) (*model.LoginResponse, error) {
	logger := middleware.GetLogger(ctx).With("email", req.Email)

	user, err := s.userRepo.FindByEmail(ctx, s.db, req.Email)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			logger.Warn("Login failed: user not found")
			return nil, model.NewAppError("AUTHENTICATION_FAILED", "メールアドレスまたはパスワードが正しくありません。", "", model.ErrInvalidInput)
		}
		logger.Error("Login failed: db error on FindByEmail", "error", err)
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "サーバー内部エラー", "", err)
	}

	// Googleサインイン専用のアカウントにはパスワードが設定されていない
	if user.PasswordHash == nil {
		logger.Warn("Login failed: password not set (google account)", "user_id", user.UserID)
		return nil, model.NewAppError("AUTHENTICATION_FAILED", "メールアドレスまたはパスワードが正しくありません。", "", model.ErrInvalidInput)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(req.Password)); err != nil {
		logger.Warn("Login failed: password mismatch", "user_id", user.UserID)
		return nil, model.NewAppError("AUTHENTICATION_FAILED", "メールアドレスまたはパスワードが正しくありません。", "", model.ErrInvalidInput)
	}

	if !user.IsActive {
		logger.Warn("Login failed: account not active", "user_id", user.UserID)
		return nil, model.NewAppError("ACCOUNT_NOT_ACTIVE", "アカウントが有効化されていません。登録時に送信されたメールをご確認ください。", "", model.ErrForbidden)
	}

	resp, err := s.issueToken(user.UserID)
	if err != nil {
		logger.Error("Failed to sign JWT", "error", err, "user_id", user.UserID)
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "トークンの生成に失敗しました。", "", err)
	}

	logger.Info("Login successful", "user_id", user.UserID)
	return resp, nil
}

// GoogleSignIn は検証済みのGoogleアカウント情報を受け取り、ユーザーの作成
// または更新を行ってJWTを返します。
func (s *authService) GoogleSignIn(ctx context.Context, req *model.GoogleSignInRequest) (*model.LoginResponse, error) {
	logger := middleware.GetLogger(ctx).With("email", req.Email)

	var userID uuid.UUID
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		user, err := s.userRepo.FindByGoogleID(ctx, tx, req.GoogleID)
		if err == nil {
			// 既存ユーザー: Google側のプロフィール変更を追従する
			user.Email = req.Email
			user.GoogleImage = req.Image
			if user.Image == "" {
				user.Image = req.Image
			}
			if err := s.userRepo.Save(ctx, tx, user); err != nil {
				logger.Error("Failed to refresh google user", "error", err)
				return model.NewAppError("INTERNAL_SERVER_ERROR", "ユーザー情報の更新に失敗しました。", "", err)
			}
			userID = user.UserID
			return nil
		}
		if !errors.Is(err, model.ErrNotFound) {
			logger.Error("Failed to look up user by google id", "error", err)
			return model.NewAppError("INTERNAL_SERVER_ERROR", "サーバー内部エラー", "", err)
		}

		// 同じメールアドレスのローカルアカウントがあればGoogleアカウントを紐付ける
		user, err = s.userRepo.FindByEmail(ctx, tx, req.Email)
		if err == nil {
			googleID := req.GoogleID
			user.GoogleID = &googleID
			user.GoogleImage = req.Image
			user.IsActive = true // Googleで本人確認済みとみなす
			if user.Image == "" {
				user.Image = req.Image
			}
			if err := s.userRepo.Save(ctx, tx, user); err != nil {
				logger.Error("Failed to link google account", "error", err)
				return model.NewAppError("INTERNAL_SERVER_ERROR", "アカウントの紐付けに失敗しました。", "", err)
			}
			userID = user.UserID
			logger.Info("Linked google account to existing user", "user_id", user.UserID)
			return nil
		}
		if !errors.Is(err, model.ErrNotFound) {
			logger.Error("Failed to look up user by email", "error", err)
			return model.NewAppError("INTERNAL_SERVER_ERROR", "サーバー内部エラー", "", err)
		}

		// 新規ユーザー作成。Googleサインインはメール認証不要
		googleID := req.GoogleID
		newUser := &model.User{
			UserID:      uuid.New(),
			GoogleID:    &googleID,
			Email:       req.Email,
			Name:        req.Name,
			Image:       req.Image,
			GoogleImage: req.Image,
			IsActive:    true,
		}
		if err := s.userRepo.Create(ctx, tx, newUser); err != nil {
			if errors.Is(err, model.ErrConflict) {
				return model.NewAppError("DUPLICATE_EMAIL", "このメールアドレスは既に使用されています。", "email", model.ErrConflict)
			}
			logger.Error("Failed to create google user", "error", err)
			return model.NewAppError("INTERNAL_SERVER_ERROR", "ユーザーの作成に失敗しました。", "", err)
		}
		userID = newUser.UserID
		logger.Info("New user created via google sign-in", "user_id", newUser.UserID)
		return nil
	})
	if err != nil {
		return nil, err
	}

	resp, err := s.issueToken(userID)
	if err != nil {
		logger.Error("Failed to sign JWT", "error", err, "user_id", userID)
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "トークンの生成に失敗しました。", "", err)
	}
	return resp, nil
}

// --- ヘルパー関数 ---

func (s *authService) issueToken(userID uuid.UUID) (*model.LoginResponse, error) {
	claims := &jwt.RegisteredClaims{
		Issuer:    config.AppName,
		Subject:   userID.String(),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Duration(s.cfg.JWT.ExpiryHours) * time.Hour)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString([]byte(s.cfg.JWT.SecretKey))
	if err != nil {
		return nil, err
	}
	return &model.LoginResponse{AccessToken: signedToken}, nil
}

func (s *authService) generateAndSaveVerificationToken(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (string, error) {
	logger := middleware.GetLogger(ctx)
	tokenBytes := make([]byte, 32)
	if _, err := rand.Read(tokenBytes); err != nil {
		logger.Error("Failed to generate random bytes for token", "error", err)
		return "", model.NewAppError("INTERNAL_SERVER_ERROR", "トークンの生成に失敗しました。", "", err)
	}
	tokenString := hex.EncodeToString(tokenBytes)

	verificationToken := &model.UserVerificationToken{
		Token:     tokenString,
		UserID:    userID,
		ExpiresAt: time.Now().Add(24 * time.Hour),
	}
	if err := s.tokenRepo.Create(ctx, tx, verificationToken); err != nil {
		return "", model.NewAppError("INTERNAL_SERVER_ERROR", "トークンの保存に失敗しました。", "", err)
	}
	return tokenString, nil
}

func (s *authService) sendVerificationEmail(ctx context.Context, email, token string) error {
	logger := middleware.GetLogger(ctx)
	verifyURL := fmt.Sprintf("%s/verify-email?token=%s", s.cfg.App.FrontendURL, token)
	subject := "【EngVoca】アカウントの有効化をお願いします"
	body := fmt.Sprintf("EngVocaにご登録いただきありがとうございます。\n\n以下のリンクをクリックしてアカウントを有効化してください:\n%s\n\nこのリンクの有効期限は24時間です。", verifyURL)

	logger.Info("Sending verification email", "to", email)
	return s.mailer.Send(ctx, email, subject, body)
}
