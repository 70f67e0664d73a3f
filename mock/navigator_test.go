package mock_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fwojciec/wxrport"
	"github.com/fwojciec/wxrport/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNavigator_ImplementsInterface(t *testing.T) {
	t.Parallel()

	var _ wxrport.Navigator = &mock.Navigator{}
	var _ wxrport.Element = &mock.Element{}
}

func TestNavigator_Load(t *testing.T) {
	t.Parallel()

	t.Run("delegates to LoadFn", func(t *testing.T) {
		t.Parallel()

		var calledWith string
		n := &mock.Navigator{
			LoadFn: func(_ context.Context, url string) error {
				calledWith = url
				return nil
			},
		}

		err := n.Load(context.Background(), "https://example.com/post/a")

		require.NoError(t, err)
		assert.Equal(t, "https://example.com/post/a", calledWith)
	})

	t.Run("returns error from LoadFn", func(t *testing.T) {
		t.Parallel()

		want := errors.New("timeout")
		n := &mock.Navigator{
			LoadFn: func(context.Context, string) error { return want },
		}

		err := n.Load(context.Background(), "https://example.com")

		assert.ErrorIs(t, err, want)
	})
}

func TestElement_Click(t *testing.T) {
	t.Parallel()

	var got time.Duration
	el := &mock.Element{
		ClickFn: func(_ context.Context, timeout time.Duration) error {
			got = timeout
			return nil
		},
	}

	require.NoError(t, el.Click(context.Background(), 2*time.Second))
	assert.Equal(t, 2*time.Second, got)
}
