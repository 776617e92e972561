package portalloc

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllocatorSequence(t *testing.T) {
	a := NewAllocator(9000, 10)

	assert.Equal(t, uint16(9000), a.Next())
	assert.Equal(t, uint16(9010), a.Next())
	assert.Equal(t, uint16(9020), a.Next())
}

func TestAllocatorConcurrentUnique(t *testing.T) {
	a := NewAllocator(9000, 10)

	const n = 64
	ports := make(chan uint16, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ports <- a.Next()
		}()
	}
	wg.Wait()
	close(ports)

	seen := make(map[uint16]struct{}, n)
	for p := range ports {
		_, dup := seen[p]
		require.False(t, dup, "port %d handed out twice", p)
		seen[p] = struct{}{}
	}
	assert.Len(t, seen, n)
}

func TestPackageAllocatorAdvances(t *testing.T) {
	first := Next()
	second := Next()

	assert.Equal(t, first+DefaultStep, second)
	assert.GreaterOrEqual(t, first, uint16(DefaultBase))
}
