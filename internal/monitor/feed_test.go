package monitor

import (
	"testing"

	"github.com/growmonitor/growdash/internal/dashboard"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStateFeed_KeepsNewest(t *testing.T) {
	f := newStateFeed()
	defer f.close()

	f.push(dashboard.State{Range: 1})
	f.push(dashboard.State{Range: 7})
	f.push(dashboard.State{Range: 30})

	msg := f.next()()
	require.IsType(t, stateMsg{}, msg)
	assert.Equal(t, 30, dashboard.State(msg.(stateMsg)).Range)
}

func TestStateFeed_Close(t *testing.T) {
	f := newStateFeed()
	f.close()
	f.close()

	// Neither blocks once closed
	f.push(dashboard.State{Range: 7})
	f.push(dashboard.State{Range: 30})

	msg := f.next()()
	if msg != nil {
		// A snapshot buffered before close may still be delivered
		assert.IsType(t, stateMsg{}, msg)
	}
}

func TestStateFeed_NextAfterCloseYieldsNil(t *testing.T) {
	f := newStateFeed()
	f.close()
	assert.Nil(t, f.next()())
}
