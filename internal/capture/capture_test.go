package capture

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davenwood/prism/internal/event"
	"github.com/davenwood/prism/internal/kernel"
	"github.com/davenwood/prism/internal/testutil"
)

func TestLoad_ValidFile(t *testing.T) {
	c, err := Load("testdata/checkout.yaml")
	require.NoError(t, err)

	assert.Equal(t, "checkout-flow", c.Name)
	require.Len(t, c.Events, 5)

	assert.Equal(t, event.KindMount, c.Events[0].Kind)
	assert.Equal(t, "cart-1", c.Events[0].ComponentID)
	assert.Equal(t, time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC), c.Events[0].Time)

	require.NotNil(t, c.Events[1].State)
	assert.Equal(t, 0, c.Events[1].State.Hook)

	require.NotNil(t, c.Events[3].Props)
	require.Len(t, c.Events[3].Props.Changes, 1)
	assert.Equal(t, "count", c.Events[3].Props.Changes[0].Key)
	assert.Equal(t, []string{"onClick"}, c.Events[3].Props.Unstable)

	require.NotNil(t, c.Events[4].Error)
	assert.Equal(t, "count exceeded badge limit", c.Events[4].Error.Message)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("testdata/does-not-exist.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read capture file")
}

func TestParse_RejectsUnknownKind(t *testing.T) {
	_, err := Parse([]byte(`
name: bad
events:
  - kind: teleport
    component_id: c1
    component_name: Cart
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid capture")
}

func TestParse_RejectsMissingComponentID(t *testing.T) {
	_, err := Parse([]byte(`
name: bad
events:
  - kind: mount
    component_name: Cart
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid capture")
}

func TestParse_RejectsUnknownField(t *testing.T) {
	_, err := Parse([]byte(`
name: bad
event:
  - kind: mount
    component_id: c1
    component_name: Cart
`))
	require.Error(t, err)
}

func TestParse_RejectsBackwardsTimestamps(t *testing.T) {
	_, err := Parse([]byte(`
name: bad
events:
  - kind: mount
    component_id: c1
    component_name: Cart
    time: 2024-03-01T12:00:01Z
  - kind: update
    component_id: c1
    component_name: Cart
    time: 2024-03-01T12:00:00Z
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "precedes")
}

func TestParse_RejectsEmptyEvents(t *testing.T) {
	_, err := Parse([]byte("name: empty\nevents: []\n"))
	require.Error(t, err)
}

func TestParse_RejectsMismatchedPayload(t *testing.T) {
	// Shape-valid per the schema, semantically wrong: a mount event must
	// not carry a state payload.
	_, err := Parse([]byte(`
name: bad
events:
  - kind: mount
    component_id: c1
    component_name: Cart
    state:
      hook: 0
      prev: 1
      next: 2
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "event 0")
}

func TestReplay_FeedsKernelInOrder(t *testing.T) {
	c, err := Load("testdata/checkout.yaml")
	require.NoError(t, err)

	clock := testutil.NewManualClock(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))
	k := kernel.New(
		kernel.WithClock(clock),
		kernel.WithIDGenerator(testutil.NewSeqIDs("entry")),
	)
	defer k.Destroy()

	n := Replay(c, k)
	assert.Equal(t, 5, n)

	snap := k.Logs()
	require.Len(t, snap.Entries, 5)
	assert.Equal(t, event.KindMount, snap.Entries[0].Event.Kind)
	assert.Equal(t, event.KindError, snap.Entries[4].Event.Kind)
	// Recorded timestamps survive replay.
	assert.Equal(t, c.Events[4].Time, snap.Entries[4].Time)
}
