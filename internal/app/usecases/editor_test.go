package usecases

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Apoorv-2711/bitespeed/internal/adapters/repository/flowrepo"
	"github.com/Apoorv-2711/bitespeed/internal/app/dto"
	"github.com/Apoorv-2711/bitespeed/internal/config"
	"github.com/Apoorv-2711/bitespeed/internal/core/flow"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.UnixMilli(1700000000000)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func newTestEditor(t *testing.T, opts ...EditorOption) (*Editor, *fakeClock) {
	t.Helper()
	clock := newFakeClock()
	opts = append([]EditorOption{WithClock(clock.Now)}, opts...)
	return NewEditor(config.Default(), nil, opts...), clock
}

// addMessage adds a text node and fills in its message.
func addMessage(t *testing.T, e *Editor, text string) flow.Node {
	t.Helper()
	n, err := e.AddNode(flow.NodeTypeTextMessage, flow.Position{})
	require.NoError(t, err)
	require.NoError(t, e.UpdateNode(n.ID, n.Data.Label, text))
	return n
}

func TestEditor_AddNode(t *testing.T) {
	e, _ := newTestEditor(t)

	n, err := e.AddNode("", flow.Position{X: 5, Y: 7})
	require.NoError(t, err)
	assert.Regexp(t, `^textNode_1700000000000_[0-9a-f]{9}$`, n.ID)
	assert.Equal(t, "Text Message", n.Data.Label)
	assert.Empty(t, n.Data.Text)
	assert.Equal(t, flow.Position{X: 5, Y: 7}, n.Position)

	_, err = e.AddNode("imageNode", flow.Position{})
	assert.ErrorIs(t, err, flow.ErrUnknownNodeType)

	assert.Len(t, e.Snapshot().Nodes, 1)
}

func TestEditor_Connect(t *testing.T) {
	e, _ := newTestEditor(t)
	a := addMessage(t, e, "a")
	b := addMessage(t, e, "b")
	c := addMessage(t, e, "c")

	edge, err := e.Connect(dto.ConnectRequest{Source: a.ID, Target: b.ID})
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("edge_%s_%s_1700000000000", a.ID, b.ID), edge.ID)
	_, shown := e.Notice()
	assert.False(t, shown)

	tests := []struct {
		name   string
		req    dto.ConnectRequest
		reason error
	}{
		{name: "occupied port", req: dto.ConnectRequest{Source: a.ID, Target: c.ID}, reason: flow.ErrSourcePortInUse},
		{name: "exact duplicate", req: dto.ConnectRequest{Source: a.ID, Target: b.ID}, reason: flow.ErrSourcePortInUse},
		{name: "self loop", req: dto.ConnectRequest{Source: c.ID, Target: c.ID}, reason: flow.ErrSelfLoop},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.Connect(tt.req)
			assert.ErrorIs(t, err, dto.ErrConnectionRejected)
			assert.ErrorIs(t, err, tt.reason)

			notice, shown := e.Notice()
			require.True(t, shown)
			assert.Equal(t, dto.NoticeError, notice.Kind)
			assert.Equal(t, NoticeConnectRejected, notice.Message)
		})
	}

	t.Run("other handle of the same node", func(t *testing.T) {
		_, err := e.Connect(dto.ConnectRequest{Source: a.ID, SourceHandle: "b", Target: c.ID})
		assert.NoError(t, err)
	})

	t.Run("unknown endpoint", func(t *testing.T) {
		_, err := e.Connect(dto.ConnectRequest{Source: b.ID, Target: "ghost"})
		assert.ErrorIs(t, err, flow.ErrTargetNodeNotFound)
	})

	assert.Len(t, e.Snapshot().Edges, 2)
}

func TestEditor_SaveInvalid(t *testing.T) {
	e, _ := newTestEditor(t)
	_, err := e.AddNode(flow.NodeTypeTextMessage, flow.Position{})
	require.NoError(t, err)
	_, err = e.AddNode(flow.NodeTypeTextMessage, flow.Position{})
	require.NoError(t, err)

	hookCalled := false
	e.hooks = append(e.hooks, SaveHookFunc(func(context.Context, flow.Graph, []byte) error {
		hookCalled = true
		return nil
	}))

	res := e.Save(context.Background())
	assert.False(t, res.Saved)
	assert.False(t, hookCalled)
	assert.Equal(t, []string{
		"Flow has 2 nodes with no incoming connections. Only one starting node is allowed.",
		"2 node(s) have empty message text. Please fill in all messages before saving.",
		"2 node(s) are not connected to the flow. Please connect or remove them.",
	}, res.Errors)
	assert.Equal(t, dto.NoticeError, res.Notice.Kind)
	assert.Contains(t, res.Notice.Message, "Only one starting node is allowed.")
}

func TestEditor_SaveValid(t *testing.T) {
	var got flow.Graph
	var encoded []byte
	e, clock := newTestEditor(t, WithSaveHook(SaveHookFunc(func(_ context.Context, g flow.Graph, data []byte) error {
		got, encoded = g, data
		return nil
	})))

	a := addMessage(t, e, "Hello")
	b := addMessage(t, e, "How can I help?")
	_, err := e.Connect(dto.ConnectRequest{Source: a.ID, Target: b.ID})
	require.NoError(t, err)

	res := e.Save(context.Background())
	require.True(t, res.Saved)
	assert.Empty(t, res.Errors)
	assert.Equal(t, 2, res.Nodes)
	assert.Equal(t, 1, res.Edges)
	assert.Equal(t, clock.Now(), res.SavedAt)
	assert.Equal(t, NoticeSaved, res.Notice.Message)

	assert.Equal(t, e.Snapshot(), got)
	var decoded flow.Graph
	require.NoError(t, json.Unmarshal(encoded, &decoded))
	assert.Equal(t, got, decoded)

	notice, shown := e.Notice()
	require.True(t, shown)
	assert.Equal(t, dto.NoticeSuccess, notice.Kind)

	clock.Advance(2999 * time.Millisecond)
	_, shown = e.Notice()
	assert.True(t, shown)

	clock.Advance(time.Millisecond)
	_, shown = e.Notice()
	assert.False(t, shown, "notice expires after the configured duration")
}

func TestEditor_SaveToRepository(t *testing.T) {
	repo := flowrepo.NewInMemoryFlowRepository()
	e, _ := newTestEditor(t, WithSaveHook(repo))

	a := addMessage(t, e, "one")
	require.True(t, e.Save(context.Background()).Saved)

	b := addMessage(t, e, "two")
	_, err := e.Connect(dto.ConnectRequest{Source: a.ID, Target: b.ID})
	require.NoError(t, err)
	require.True(t, e.Save(context.Background()).Saved)

	history, err := repo.History(context.Background(), flowrepo.DefaultFlowID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Len(t, history[0].Flow.Nodes, 1)
	assert.Len(t, history[1].Flow.Nodes, 2)
}

func TestEditor_SaveAllowsCycles(t *testing.T) {
	e, _ := newTestEditor(t)
	a := addMessage(t, e, "ping")
	b := addMessage(t, e, "pong")
	_, err := e.Connect(dto.ConnectRequest{Source: a.ID, Target: b.ID})
	require.NoError(t, err)
	_, err = e.Connect(dto.ConnectRequest{Source: b.ID, Target: a.ID})
	require.NoError(t, err)

	assert.True(t, e.Save(context.Background()).Saved)
}

func TestEditor_SaveHookError(t *testing.T) {
	e, _ := newTestEditor(t, WithSaveHook(SaveHookFunc(func(context.Context, flow.Graph, []byte) error {
		return errors.New("sink unavailable")
	})))
	addMessage(t, e, "only node")

	res := e.Save(context.Background())
	assert.False(t, res.Saved)
	assert.Equal(t, []string{"sink unavailable"}, res.Errors)
	assert.Equal(t, dto.NoticeError, res.Notice.Kind)
}

func TestEditor_SaveEncodeError(t *testing.T) {
	repo := flowrepo.NewInMemoryFlowRepository()
	e, _ := newTestEditor(t, WithSaveHook(repo))
	n := addMessage(t, e, "only node")

	// JSON has no encoding for NaN.
	require.NoError(t, e.MoveNode(n.ID, flow.Position{X: math.NaN()}))

	res := e.Save(context.Background())
	assert.False(t, res.Saved)
	assert.True(t, res.SavedAt.IsZero())
	require.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0], "encode flow")
	assert.Equal(t, dto.NoticeError, res.Notice.Kind)

	notice, shown := e.Notice()
	require.True(t, shown)
	assert.NotEqual(t, NoticeSaved, notice.Message)

	_, err := repo.Latest(context.Background(), flowrepo.DefaultFlowID)
	assert.ErrorIs(t, err, flowrepo.ErrFlowNotFound, "hooks are skipped")
}

func TestEditor_Selection(t *testing.T) {
	e, _ := newTestEditor(t)
	a := addMessage(t, e, "a")
	b := addMessage(t, e, "b")
	_, err := e.Connect(dto.ConnectRequest{Source: a.ID, Target: b.ID})
	require.NoError(t, err)

	assert.ErrorIs(t, e.UpdateSelected("x", "y"), dto.ErrNothingSelected)
	assert.ErrorIs(t, e.SelectNode("ghost"), flow.ErrNodeNotFound)

	require.NoError(t, e.SelectNode(a.ID))
	require.NoError(t, e.UpdateSelected("Greeting", "Hi!"))
	sel, ok := e.Selected()
	require.True(t, ok)
	assert.Equal(t, "Greeting", sel.Data.Label)
	assert.Equal(t, "Hi!", sel.Data.Text)

	require.NoError(t, e.RemoveNode(a.ID))
	_, ok = e.Selected()
	assert.False(t, ok, "removing the selected node clears the selection")
	assert.Empty(t, e.Snapshot().Edges, "incident edges go with the node")

	require.NoError(t, e.SelectNode(b.ID))
	e.ClearSelection()
	_, ok = e.Selected()
	assert.False(t, ok)
}

func TestEditor_RemoveEdgeAndMove(t *testing.T) {
	e, _ := newTestEditor(t)
	a := addMessage(t, e, "a")
	b := addMessage(t, e, "b")
	edge, err := e.Connect(dto.ConnectRequest{Source: a.ID, Target: b.ID})
	require.NoError(t, err)

	require.NoError(t, e.RemoveEdge(edge.ID))
	assert.ErrorIs(t, e.RemoveEdge(edge.ID), flow.ErrEdgeNotFound)

	_, err = e.Connect(dto.ConnectRequest{Source: a.ID, Target: b.ID})
	assert.NoError(t, err, "the port is free again")

	require.NoError(t, e.MoveNode(b.ID, flow.Position{X: 100, Y: 40}))
	moved := e.Snapshot()
	n, ok := moved.Node(b.ID)
	require.True(t, ok)
	assert.Equal(t, flow.Position{X: 100, Y: 40}, n.Position)
}

func TestEditor_Load(t *testing.T) {
	e, _ := newTestEditor(t)

	doc := flow.Graph{
		ID: "welcome",
		Nodes: []flow.Node{
			{ID: "a", Data: flow.NodeData{Text: "hi", Type: flow.NodeTypeTextMessage}},
			{ID: "b", Data: flow.NodeData{Text: "there", Type: flow.NodeTypeTextMessage}},
		},
		Edges: []flow.Edge{{ID: "e1", Source: "a", Target: "b"}},
	}
	require.NoError(t, e.Load(doc))
	snap := e.Snapshot()
	assert.Equal(t, "Untitled flow", snap.Name)
	assert.Len(t, snap.Nodes, 2)

	doc.Nodes = append(doc.Nodes, doc.Nodes[0])
	assert.Error(t, e.Load(doc))
	assert.Len(t, e.Snapshot().Nodes, 2, "a rejected document leaves the editor untouched")
}

func TestEditor_SnapshotIsIndependent(t *testing.T) {
	e, _ := newTestEditor(t)
	a := addMessage(t, e, "a")

	snap := e.Snapshot()
	snap.Nodes[0].Data.Text = "changed"

	fresh := e.Snapshot()
	n, ok := fresh.Node(a.ID)
	require.True(t, ok)
	assert.Equal(t, "a", n.Data.Text)
}

func TestEditor_ConcurrentMutations(t *testing.T) {
	e := NewEditor(nil, nil)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := e.AddNode(flow.NodeTypeTextMessage, flow.Position{})
			assert.NoError(t, err)
			_ = e.Save(context.Background())
		}()
	}
	wg.Wait()

	assert.Len(t, e.Snapshot().Nodes, 20)
}
