package common

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// SignedToken represents a presigned download token
type SignedToken struct {
	UserID    string
	EbookID   string
	TokenID   string
	ExpiresAt time.Time
}

// URLSignerService generates and validates presigned ebook download links.
// Tokens are single-use: the jti is recorded in Redis on redemption.
type URLSignerService struct {
	secretKey []byte
	redis     *redis.Client
}

// NewURLSignerService creates a new URL signer service
func NewURLSignerService(secretKey []byte, redis *redis.Client) *URLSignerService {
	return &URLSignerService{
		secretKey: secretKey,
		redis:     redis,
	}
}

// GeneratePresignedURL generates a single-use presigned download token
func (s *URLSignerService) GeneratePresignedURL(userID, ebookID string, ttl time.Duration) (string, error) {
	tokenID := uuid.New().String()
	expiresAt := time.Now().Add(ttl)

	claims := jwt.MapClaims{
		"user_id":  userID,
		"ebook_id": ebookID,
		"jti":      tokenID,
		"exp":      expiresAt.Unix(),
		"iat":      time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.secretKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, nil
}

// ValidateToken validates a presigned download token
func (s *URLSignerService) ValidateToken(ctx context.Context, tokenString string) (*SignedToken, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.MapClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secretKey, nil
	})

	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := token.Claims.(*jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}

	c := *claims
	userID, _ := c["user_id"].(string)
	ebookID, _ := c["ebook_id"].(string)
	tokenID, _ := c["jti"].(string)
	exp, _ := c["exp"].(float64)

	if userID == "" || ebookID == "" || tokenID == "" {
		return nil, errors.New("token missing required claims")
	}

	return &SignedToken{
		UserID:    userID,
		EbookID:   ebookID,
		TokenID:   tokenID,
		ExpiresAt: time.Unix(int64(exp), 0),
	}, nil
}

// MarkTokenAsUsed enforces single use. Returns an error if the token was
// already redeemed.
func (s *URLSignerService) MarkTokenAsUsed(ctx context.Context, tokenID string, ttl time.Duration) error {
	set, err := s.redis.SetNX(ctx, "dl_token_used:"+tokenID, "1", ttl).Result()
	if err != nil {
		return fmt.Errorf("failed to record token use: %w", err)
	}
	if !set {
		return errors.New("token already used")
	}
	return nil
}
