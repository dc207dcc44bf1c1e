package services

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/branch-resolver/app/models"
)

// Get được gọi song song từ các gin handler, counter phải lên đúng
// tổng và không làm race detector kêu.
func TestMongoCacheConcurrentL1Stats(t *testing.T) {
	l1, err := lru.New[string, *models.MatchResult](16)
	require.NoError(t, err)

	mcs := &MongoCacheService{l1Cache: l1, logger: zap.NewNop()}

	result := &models.MatchResult{BranchID: "br-lc", BranchName: "Kho Liên Chiểu"}
	l1.Add("duong nguyen sinh sac da nang", result)

	const workers = 8
	const perWorker = 200

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perWorker; j++ {
				got, found, err := mcs.Get(context.Background(), "duong nguyen sinh sac da nang")
				assert.NoError(t, err)
				assert.True(t, found)
				assert.Equal(t, "br-lc", got.BranchID)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(workers*perWorker), atomic.LoadInt64(&mcs.totalHits))
	assert.Equal(t, int64(workers*perWorker), atomic.LoadInt64(&mcs.l1Hits))
	assert.Zero(t, atomic.LoadInt64(&mcs.totalMiss))
}
