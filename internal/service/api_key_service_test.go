package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"simvado-be/internal/dto"
	"simvado-be/internal/pkg/apperr"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateApiKey(t *testing.T) {
	key, hash, prefix, err := GenerateApiKey()
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(key, ApiKeyPrefix))
	assert.Len(t, key, len(ApiKeyPrefix)+64)
	assert.Len(t, hash, 64)
	assert.Equal(t, key[:15], prefix)
	assert.Equal(t, HashApiKey(key), hash)

	other, _, _, err := GenerateApiKey()
	require.NoError(t, err)
	assert.NotEqual(t, key, other)
}

func TestApiKey_IssueVerifyRevoke(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := NewApiKeyService(f.uowFactory, nil)

	issued, err := svc.IssueKey(ctx, &dto.IssueApiKeyRequest{Name: "unreal build"})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(issued.Key, issued.KeyPrefix))

	record, err := svc.VerifyKey(ctx, issued.Key)
	require.NoError(t, err)
	require.NotNil(t, record)
	assert.Equal(t, issued.Id, record.Id)
	assert.NotNil(t, record.LastUsedAt)
	assert.NotEqual(t, issued.Key, record.KeyHash, "plaintext is never stored")

	for _, bad := range []string{"", "sk_live_abc", ApiKeyPrefix + "deadbeef"} {
		record, err = svc.VerifyKey(ctx, bad)
		require.NoError(t, err)
		assert.Nil(t, record, bad)
	}

	require.NoError(t, svc.RevokeKey(ctx, issued.Id))
	record, err = svc.VerifyKey(ctx, issued.Key)
	require.NoError(t, err)
	assert.Nil(t, record, "revoked keys are rejected")

	assert.True(t, apperr.IsNotFound(svc.RevokeKey(ctx, uuid.New())))
}

func TestApiKey_Expired(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := NewApiKeyService(f.uowFactory, nil).(*apiKeyService)

	expires := time.Now().Add(time.Hour)
	issued, err := svc.IssueKey(ctx, &dto.IssueApiKeyRequest{Name: "short lived", ExpiresAt: &expires})
	require.NoError(t, err)

	record, err := svc.VerifyKey(ctx, issued.Key)
	require.NoError(t, err)
	assert.NotNil(t, record)

	svc.now = func() time.Time { return expires.Add(time.Second) }
	record, err = svc.VerifyKey(ctx, issued.Key)
	require.NoError(t, err)
	assert.Nil(t, record)
}
