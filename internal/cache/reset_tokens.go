package cache

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
)

const (
	keyResetToken = "reset:token:"
	keyResetUser  = "reset:user:"
)

// ResetTokenStore keeps password reset tokens by digest. A user has at most
// one live token; issuing a new one revokes the previous.
type ResetTokenStore struct {
	client *redis.Client
}

func NewResetTokenStore(client *redis.Client) *ResetTokenStore {
	return &ResetTokenStore{client: client}
}

func (s *ResetTokenStore) Save(ctx context.Context, userID uint, digest string, ttl time.Duration) error {
	userKey := keyResetUser + strconv.FormatUint(uint64(userID), 10)

	prev, err := s.client.Get(ctx, userKey).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return err
	}

	_, err = s.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		if prev != "" {
			p.Del(ctx, keyResetToken+prev)
		}
		p.Set(ctx, keyResetToken+digest, userID, ttl)
		p.Set(ctx, userKey, digest, ttl)
		return nil
	})
	return err
}

// Consume returns the owner of digest and deletes the token. ok is false
// when the token is unknown or expired.
func (s *ResetTokenStore) Consume(ctx context.Context, digest string) (userID uint, ok bool, err error) {
	val, err := s.client.GetDel(ctx, keyResetToken+digest).Result()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}

	id, err := strconv.ParseUint(val, 10, 64)
	if err != nil {
		return 0, false, nil
	}

	s.client.Del(ctx, keyResetUser+val)
	return uint(id), true, nil
}
