package usecases

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Apoorv-2711/bitespeed/internal/app/dto"
	"github.com/Apoorv-2711/bitespeed/internal/config"
	"github.com/Apoorv-2711/bitespeed/internal/core/flow"
	"github.com/Apoorv-2711/bitespeed/internal/infrastructure/logging"
	"github.com/Apoorv-2711/bitespeed/internal/infrastructure/metrics"
	"github.com/Apoorv-2711/bitespeed/pkg/serialization"
	"github.com/Apoorv-2711/bitespeed/pkg/validation"
)

// User-facing notices.
const (
	NoticeConnectRejected = "Cannot connect: each source handle can only have one outgoing connection."
	NoticeSaved           = "Flow saved successfully!"
)

// Editor is the headless state of the flow builder: the live graph, the
// selected node and the transient notice banner. All methods are safe for
// concurrent use; each mutation is atomic relative to the others.
// PRINCIPLES:
// - SRP: Owns editor state, delegates rules to pkg/validation
// - DIP: Clock, ids, serializer and save hooks are injected
type Editor struct {
	mu       sync.RWMutex
	graph    flow.Graph
	selected string
	notice   dto.Notice

	cfg        *config.Config
	logger     *zap.Logger
	now        Clock
	ids        *flow.IDGenerator
	serializer *serialization.Serializer
	hooks      []SaveHook
}

// EditorOption customizes an Editor.
type EditorOption func(*Editor)

// WithClock replaces time.Now for notice expiry and id generation.
func WithClock(now Clock) EditorOption {
	return func(e *Editor) { e.now = now }
}

// WithSerializer sets the encoding used for save snapshots.
func WithSerializer(s *serialization.Serializer) EditorOption {
	return func(e *Editor) { e.serializer = s }
}

// WithSaveHook registers a hook run after every successful save.
func WithSaveHook(h SaveHook) EditorOption {
	return func(e *Editor) { e.hooks = append(e.hooks, h) }
}

// NewEditor creates an empty editor. A nil cfg uses config.Default and a
// nil logger discards output.
func NewEditor(cfg *config.Config, logger *zap.Logger, opts ...EditorOption) *Editor {
	if cfg == nil {
		cfg = config.Default()
	}
	e := &Editor{
		graph:  flow.Graph{Name: cfg.FlowName, Nodes: []flow.Node{}, Edges: []flow.Edge{}},
		cfg:    cfg,
		logger: logging.OrNop(logger),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.serializer == nil {
		e.serializer = serialization.DefaultSerializer()
	}
	e.ids = flow.NewIDGenerator(e.now)
	return e
}

// Load replaces the live graph with g after a structural check.
func (e *Editor) Load(g flow.Graph) error {
	if err := validation.ValidateDocument(&g, nil); err != nil {
		return fmt.Errorf("load flow: %w", err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.graph = g.Clone()
	if e.graph.Name == "" {
		e.graph.Name = e.cfg.FlowName
	}
	e.selected = ""
	e.logger.Debug("flow loaded",
		zap.String("flow_id", g.ID),
		zap.Int("node_count", len(g.Nodes)),
		zap.Int("edge_count", len(g.Edges)))
	return nil
}

// AddNode drops a new node of type t at pos. An empty t means the
// configured default node type.
func (e *Editor) AddNode(t flow.NodeType, pos flow.Position) (flow.Node, error) {
	if t == "" {
		t = e.cfg.DefaultNodeType
	}
	node, err := flow.NewNode(t, pos, e.ids)
	if err != nil {
		return flow.Node{}, fmt.Errorf("add node of type %q: %w", t, err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.graph.AddNode(node); err != nil {
		return flow.Node{}, err
	}
	metrics.IncNodesCreated()
	e.logger.Debug("node added", zap.String("node_id", node.ID), zap.String("type", t.String()))
	return node, nil
}

// UpdateNode sets the label and message text of a node.
func (e *Editor) UpdateNode(id, label, text string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.graph.UpdateNode(id, label, text)
}

// UpdateSelected edits the selected node, as the settings panel does.
func (e *Editor) UpdateSelected(label, text string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.selected == "" {
		return dto.ErrNothingSelected
	}
	return e.graph.UpdateNode(e.selected, label, text)
}

// MoveNode sets a node's canvas position.
func (e *Editor) MoveNode(id string, pos flow.Position) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.graph.MoveNode(id, pos)
}

// SelectNode makes id the selected node.
func (e *Editor) SelectNode(id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.graph.HasNode(id) {
		return flow.ErrNodeNotFound
	}
	e.selected = id
	return nil
}

// ClearSelection deselects any node.
func (e *Editor) ClearSelection() {
	e.mu.Lock()
	e.selected = ""
	e.mu.Unlock()
}

// Selected returns the selected node, if any.
func (e *Editor) Selected() (flow.Node, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.selected == "" {
		return flow.Node{}, false
	}
	return e.graph.Node(e.selected)
}

// RemoveNode deletes a node and every edge touching it.
func (e *Editor) RemoveNode(id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.graph.RemoveNode(id); err != nil {
		return err
	}
	if e.selected == id {
		e.selected = ""
	}
	return nil
}

// RemoveEdge deletes one edge.
func (e *Editor) RemoveEdge(id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.graph.RemoveEdge(id)
}

// Connect adds the edge drawn by req if the connection policy allows it.
// A rejection publishes one fixed notice whichever rule fired and returns
// an error matching both dto.ErrConnectionRejected and the rule's reason.
func (e *Editor) Connect(req dto.ConnectRequest) (flow.Edge, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if reason := validation.CheckConnection(req.Source, req.SourceHandle, req.Target, req.TargetHandle, e.graph.Edges); reason != nil {
		metrics.ConnectionAttempt(metrics.OutcomeRejected)
		e.setNotice(dto.NoticeError, NoticeConnectRejected)
		e.logger.Debug("connection rejected",
			zap.String("source", req.Source),
			zap.String("source_handle", req.SourceHandle),
			zap.String("target", req.Target),
			zap.Error(reason))
		return flow.Edge{}, fmt.Errorf("%w: %w", dto.ErrConnectionRejected, reason)
	}

	edge := flow.Edge{
		ID:           e.ids.GenerateEdgeID(req.Source, req.Target),
		Source:       req.Source,
		Target:       req.Target,
		SourceHandle: req.SourceHandle,
		TargetHandle: req.TargetHandle,
	}
	if err := e.graph.AddEdge(edge); err != nil {
		return flow.Edge{}, err
	}
	metrics.ConnectionAttempt(metrics.OutcomeAccepted)
	return edge, nil
}

// Save validates a snapshot of the flow. A valid flow is encoded, logged
// and handed to the save hooks; an invalid one publishes every diagnostic
// as an error notice. Cycles are allowed.
func (e *Editor) Save(ctx context.Context) dto.SaveResult {
	snapshot := e.Snapshot()
	res := validation.ValidateGraph(&snapshot)
	metrics.IncValidations()

	result := dto.SaveResult{
		FlowID: snapshot.ID,
		Errors: res.Errors,
		Nodes:  len(snapshot.Nodes),
		Edges:  len(snapshot.Edges),
	}

	if !res.IsValid {
		metrics.ValidationFailed("save")
		metrics.SaveAttempt(metrics.OutcomeRejected)
		result.Notice = e.publish(dto.NoticeError, strings.Join(res.Errors, "\n"))
		e.logger.Info("flow not saved", zap.Strings("errors", res.Errors))
		return result
	}

	encoded, err := e.serializer.Serialize(snapshot)
	if err != nil {
		err = fmt.Errorf("encode flow: %w", err)
		metrics.SaveAttempt(metrics.OutcomeRejected)
		result.Errors = []string{err.Error()}
		result.Notice = e.publish(dto.NoticeError, err.Error())
		e.logger.Error("encode flow snapshot", zap.String("encoding", e.serializer.Name()), zap.Error(err))
		return result
	}

	var hookErrs []error
	for _, h := range e.hooks {
		if err := h.OnSave(ctx, snapshot, encoded); err != nil {
			hookErrs = append(hookErrs, err)
		}
	}
	if err := errors.Join(hookErrs...); err != nil {
		metrics.SaveAttempt(metrics.OutcomeRejected)
		result.Errors = []string{err.Error()}
		result.Notice = e.publish(dto.NoticeError, err.Error())
		e.logger.Warn("save hook failed", zap.Error(err))
		return result
	}

	metrics.SaveAttempt(metrics.OutcomeAccepted)
	result.Saved = true
	result.SavedAt = e.now()
	result.Notice = e.publish(dto.NoticeSuccess, NoticeSaved)
	e.logger.Info("flow saved",
		zap.String("flow_id", snapshot.ID),
		zap.String("encoding", e.serializer.Name()),
		zap.Int("node_count", result.Nodes),
		zap.Int("edge_count", result.Edges),
		zap.ByteString("snapshot", encoded))
	return result
}

// Notice returns the current notice while it has not expired.
func (e *Editor) Notice() (dto.Notice, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if !e.notice.Active(e.now()) {
		return dto.Notice{}, false
	}
	return e.notice, true
}

// Snapshot returns a copy of the live graph that shares no memory with it.
func (e *Editor) Snapshot() flow.Graph {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.graph.Clone()
}

func (e *Editor) publish(kind dto.NoticeKind, msg string) dto.Notice {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.setNotice(kind, msg)
}

// setNotice requires e.mu held for writing.
func (e *Editor) setNotice(kind dto.NoticeKind, msg string) dto.Notice {
	e.notice = dto.Notice{
		Kind:      kind,
		Message:   msg,
		ExpiresAt: e.now().Add(e.cfg.NoticeDuration),
	}
	return e.notice
}
