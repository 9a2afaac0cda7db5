// Copyright (c) 2026 Critika. All rights reserved.
// Author: dev@critika.app

package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/critika-app/critika/internal/platform/apperr"
	"github.com/critika-app/critika/internal/platform/constants"
)

// RedisConfirmationCodeRepository implements ConfirmationCodeRepository using Redis.
//
// Codes are stored plaintext: re-registration must be able to re-send the
// SAME outstanding code, which rules out hashing at rest. The TTL bounds the
// exposure window.
type RedisConfirmationCodeRepository struct {
	client *redis.Client
}

// NewConfirmationCodeRepository creates a new Redis-backed ConfirmationCodeRepository.
func NewConfirmationCodeRepository(client *redis.Client) *RedisConfirmationCodeRepository {
	return &RedisConfirmationCodeRepository{client: client}
}

/*
FetchOrStore atomically stores the candidate code unless one exists,
then reads back the live value.

Description: SET NX claims the key for the candidate; the follow-up GET
returns whichever code won, so concurrent issuers converge on one code.

Parameters:
  - context: context.Context
  - userID: string
  - candidate: string
  - ttl: time.Duration

Returns:
  - string: The live code
  - error: Execution errors
*/
func (repository *RedisConfirmationCodeRepository) FetchOrStore(context context.Context, userID, candidate string, ttl time.Duration) (string, error) {

	// Use constants for key prefix
	key := fmt.Sprintf("%s%s", constants.RedisPrefixConfirmationCode, userID)

	// Claim the key only if no code is outstanding
	if err := repository.client.SetNX(context, key, candidate, ttl).Err(); err != nil {
		return "", fmt.Errorf("redis_confirmation_code_setnx_failed: %w", err)
	}

	// Read back the winner (ours or a pre-existing one)
	code, err := repository.client.Get(context, key).Result()
	if err != nil {
		// The key can only vanish here if it expired between the two calls;
		// the caller simply retries on the next signup.
		return "", fmt.Errorf("redis_confirmation_code_readback_failed: %w", err)
	}

	return code, nil
}

/*
Get retrieves the outstanding code for a given user.

Description: Returns apperr.NotFound if no code is outstanding or it expired.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - string: The live code
  - error: apperr.NotFound or connectivity errors
*/
func (repository *RedisConfirmationCodeRepository) Get(context context.Context, userID string) (string, error) {

	// Use constants for key prefix
	key := fmt.Sprintf("%s%s", constants.RedisPrefixConfirmationCode, userID)

	// Get the code from Redis
	code, err := repository.client.Get(context, key).Result()

	// Handle errors
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", apperr.NotFound("Confirmation code")
		}
		return "", fmt.Errorf("redis_confirmation_code_get_failed: %w", err)
	}

	// Return the code
	return code, nil
}

/*
Delete removes the code from Redis after a successful exchange.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - error: Deletion failures
*/
func (repository *RedisConfirmationCodeRepository) Delete(context context.Context, userID string) error {

	// Use constants for key prefix
	key := fmt.Sprintf("%s%s", constants.RedisPrefixConfirmationCode, userID)

	// Delete the code from Redis
	if err := repository.client.Del(context, key).Err(); err != nil {
		return fmt.Errorf("redis_confirmation_code_delete_failed: %w", err)
	}

	// Return nil on success
	return nil
}
