package crawl_test

import (
	"testing"

	"github.com/fwojciec/wxrport/crawl"
	"github.com/stretchr/testify/assert"
)

func TestNewSession(t *testing.T) {
	t.Parallel()

	s := crawl.NewSession()

	assert.Equal(t, crawl.StateSeeding, s.State)
	assert.Equal(t, 0, s.Frontier.Len())
	assert.Empty(t, s.Items)
	assert.Zero(t, s.Stats)
}

func TestState_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "seeding", crawl.StateSeeding.String())
	assert.Equal(t, "crawling", crawl.StateCrawling.String())
	assert.Equal(t, "done", crawl.StateDone.String())
	assert.Equal(t, "unknown", crawl.State(42).String())
}
