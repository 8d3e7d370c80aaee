package keycache

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHash(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "Empty",
			input: "",
			want:  "0",
		},
		{
			name:  "SingleCharacter",
			input: "a",
			want:  "97",
		},
		{
			name:  "TwoCharacters",
			input: "ab",
			want:  "3105", // 97*31 + 98
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Hash(tt.input); got != tt.want {
				t.Errorf("Hash() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestHashDeterministic(t *testing.T) {
	input := "sk-secret-0.7-describe the shot"
	first := Hash(input)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Hash(input))
	}
}

func TestHashWrapsToSigned32Bit(t *testing.T) {
	// Long inputs overflow 32 bits; the hash must stay a valid signed
	// 32-bit value rather than growing without bound.
	long := ""
	for i := 0; i < 100; i++ {
		long += "openbid"
	}
	got := Hash(long)
	require.NotEmpty(t, got)
	assert.NotEqual(t, "0", got)
}

func TestCacheDo(t *testing.T) {
	c := NewCache()
	calls := 0
	producer := func() (string, error) {
		calls++
		return "value", nil
	}

	v, err := c.Do("k", time.Minute, producer)
	require.NoError(t, err)
	assert.Equal(t, "value", v)
	assert.Equal(t, 1, calls)

	// Second call is served from the cache.
	v, err = c.Do("k", time.Minute, producer)
	require.NoError(t, err)
	assert.Equal(t, "value", v)
	assert.Equal(t, 1, calls)
}

func TestCacheDoProducerError(t *testing.T) {
	c := NewCache()
	wantErr := errors.New("quota exceeded")
	_, err := c.Do("k", time.Minute, func() (string, error) {
		return "", wantErr
	})
	assert.ErrorIs(t, err, wantErr)

	// The failure is not cached; the next producer runs.
	v, err := c.Do("k", time.Minute, func() (string, error) {
		return "recovered", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "recovered", v)
}

func TestCacheDoExpiry(t *testing.T) {
	c := NewCache()
	_, err := c.Do("k", 10*time.Millisecond, func() (string, error) {
		return "first", nil
	})
	require.NoError(t, err)

	time.Sleep(20 * time.Millisecond)

	v, err := c.Do("k", time.Minute, func() (string, error) {
		return "second", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "second", v)
}
