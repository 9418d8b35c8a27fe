package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMemcacheService(t *testing.T) {
	svc := NewMemcacheService("localhost:11211")

	// Probe availability first
	if err := svc.Set("car_prices_test_probe", []byte("1"), time.Minute); err != nil {
		t.Skip("Memcache is not available, skipping test")
	}

	err := svc.Set("car_prices_test_key", []byte("cooldown"), time.Minute)
	assert.NoError(t, err)

	value, err := svc.Get("car_prices_test_key")
	assert.NoError(t, err)
	assert.Equal(t, []byte("cooldown"), value)

	err = svc.Delete("car_prices_test_key")
	assert.NoError(t, err)

	_, err = svc.Get("car_prices_test_key")
	assert.Error(t, err)
}
