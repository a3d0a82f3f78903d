package helper

import (
	"errors"
	"net/url"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeUUID(t *testing.T) {
	t.Run("canonical form", func(t *testing.T) {
		id, err := NormalizeUUID(" 0190F3A2-7C1E-7B3D-9A6B-2B1C3D4E5F60 ")
		require.NoError(t, err)
		assert.Equal(t, "0190f3a2-7c1e-7b3d-9a6b-2b1c3d4e5f60", id)
	})
	t.Run("rejects garbage", func(t *testing.T) {
		_, err := NormalizeUUID("not-a-uuid")
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrInvalidIdentifier))
	})
	t.Run("rejects empty", func(t *testing.T) {
		_, err := NormalizeUUID("")
		assert.ErrorIs(t, err, ErrInvalidIdentifier)
	})
}

func TestGenerateUniqueID(t *testing.T) {
	uniqueID, sqID, uuID, err := GenerateUniqueID()
	require.NoError(t, err)
	assert.Positive(t, uniqueID)
	assert.NotEmpty(t, sqID)
	parsed, err := uuid.Parse(uuID)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), parsed.Version())
}

func TestCountPages(t *testing.T) {
	testCases := []struct {
		name         string
		total, limit int64
		expected     int64
	}{
		{"unbounded", 42, 0, 1},
		{"exact", 20, 10, 2},
		{"remainder", 21, 10, 3},
		{"empty", 0, 10, 0},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			pages, err := CountPages(tc.total, tc.limit)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, pages)
		})
	}
}

func TestSetPagination(t *testing.T) {
	baseURL := "http://localhost:8080/v1/transactions"
	t.Run("first page", func(t *testing.T) {
		pagination, err := SetPagination(25, 3, 10, 0, baseURL, url.Values{"limit": {"10"}})
		require.NoError(t, err)
		assert.Equal(t, baseURL+"?limit=10", pagination.Links.First)
		assert.Equal(t, baseURL+"?limit=10", pagination.Links.Current)
		assert.Equal(t, baseURL+"?limit=10&page=1", pagination.Links.Next)
		assert.Empty(t, pagination.Links.Previous)
		assert.Equal(t, int64(25), pagination.Info.Total)
		assert.Equal(t, int64(3), pagination.Info.Pages)
	})
	t.Run("middle page", func(t *testing.T) {
		pagination, err := SetPagination(25, 3, 10, 1, baseURL, url.Values{"limit": {"10"}, "page": {"1"}})
		require.NoError(t, err)
		assert.Equal(t, baseURL+"?limit=10", pagination.Links.First)
		assert.Equal(t, baseURL+"?limit=10&page=1", pagination.Links.Current)
		assert.Equal(t, baseURL+"?limit=10&page=2", pagination.Links.Next)
		assert.Equal(t, baseURL+"?limit=10", pagination.Links.Previous)
	})
	t.Run("last page", func(t *testing.T) {
		pagination, err := SetPagination(25, 3, 10, 2, baseURL, url.Values{"limit": {"10"}})
		require.NoError(t, err)
		assert.Empty(t, pagination.Links.Next)
		assert.Equal(t, baseURL+"?limit=10&page=1", pagination.Links.Previous)
	})
	t.Run("no query string", func(t *testing.T) {
		pagination, err := SetPagination(1, 1, 0, 0, baseURL, nil)
		require.NoError(t, err)
		assert.Equal(t, baseURL, pagination.Links.First)
		assert.Equal(t, baseURL, pagination.Links.Current)
	})
}

func TestParseRedisTTL(t *testing.T) {
	ttl, err := parseRedisTTL("")
	require.NoError(t, err)
	assert.Equal(t, DefaultRedisTTL, ttl)

	ttl, err = parseRedisTTL("90s")
	require.NoError(t, err)
	assert.Equal(t, 90*time.Second, ttl)

	for _, value := range []string{"0", "-1m", "soon"} {
		_, err = parseRedisTTL(value)
		assert.Error(t, err, value)
	}
}
