package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/contoso/university/internal/config"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const antiForgerySubject = "antiforgery"

// TokenStore remembers issued token ids until they are used or expire.
type TokenStore interface {
	Remember(ctx context.Context, id string, ttl time.Duration) error
	// Consume forgets id and reports whether it was still remembered.
	Consume(ctx context.Context, id string) (bool, error)
}

// AntiForgeryService issues single-use signed tokens for forms and checks
// them on submission.
type AntiForgeryService struct {
	secret []byte
	ttl    time.Duration
	store  TokenStore
}

// NewAntiForgeryService creates a new AntiForgeryService.
func NewAntiForgeryService(cfg *config.Config, store TokenStore) *AntiForgeryService {
	return &AntiForgeryService{
		secret: []byte(cfg.AntiForgerySecret),
		ttl:    cfg.AntiForgeryTTL,
		store:  store,
	}
}

// Issue creates a token and registers its id.
func (s *AntiForgeryService) Issue(ctx context.Context) (string, error) {
	jti := uuid.New().String()
	now := time.Now()

	claims := jwt.RegisteredClaims{
		ID:        jti,
		Subject:   antiForgerySubject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign anti-forgery token: %w", err)
	}

	if err := s.store.Remember(ctx, jti, s.ttl); err != nil {
		return "", fmt.Errorf("store anti-forgery token: %w", err)
	}
	return signed, nil
}

// Validate checks signature, expiry and subject, then consumes the token id.
// Any rejection wraps ErrAntiForgeryInvalid; store failures are returned as is.
func (s *AntiForgeryService) Validate(ctx context.Context, tokenStr string) error {
	if tokenStr == "" {
		return ErrAntiForgeryInvalid
	}

	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithSubject(antiForgerySubject), jwt.WithExpirationRequired())
	if err != nil || !token.Valid || claims.ID == "" {
		return fmt.Errorf("%w: %v", ErrAntiForgeryInvalid, err)
	}

	ok, err := s.store.Consume(ctx, claims.ID)
	if err != nil {
		return fmt.Errorf("consume anti-forgery token: %w", err)
	}
	if !ok {
		return fmt.Errorf("%w: token already used", ErrAntiForgeryInvalid)
	}
	return nil
}

// RedisTokenStore keeps issued token ids in Redis with a TTL.
type RedisTokenStore struct {
	rdb *redis.Client
}

// NewRedisTokenStore creates a new RedisTokenStore.
func NewRedisTokenStore(rdb *redis.Client) *RedisTokenStore {
	return &RedisTokenStore{rdb: rdb}
}

func (s *RedisTokenStore) Remember(ctx context.Context, id string, ttl time.Duration) error {
	return s.rdb.Set(ctx, config.CacheKey.AntiForgeryTokenKey(id), 1, ttl).Err()
}

// Consume deletes the key; DEL is atomic so a token passes at most once.
func (s *RedisTokenStore) Consume(ctx context.Context, id string) (bool, error) {
	n, err := s.rdb.Del(ctx, config.CacheKey.AntiForgeryTokenKey(id)).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return false, err
	}
	return n == 1, nil
}
