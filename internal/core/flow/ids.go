package flow

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	edgeIDPrefix = "edge"
	idSuffixLen  = 9
)

// IDGenerator builds node and edge ids from a millisecond timestamp plus,
// for nodes, a short random suffix. Uniqueness is probabilistic and scoped
// to one session; nothing checks for collisions.
type IDGenerator struct {
	now    func() time.Time
	suffix func() string
}

var defaultIDs = NewIDGenerator(nil)

// NewIDGenerator returns a generator reading time from now. A nil clock
// means time.Now.
func NewIDGenerator(now func() time.Time) *IDGenerator {
	if now == nil {
		now = time.Now
	}
	return &IDGenerator{now: now, suffix: randomSuffix}
}

// GenerateNodeID returns "<type>_<unix-ms>_<suffix>".
func (g *IDGenerator) GenerateNodeID(t NodeType) string {
	return fmt.Sprintf("%s_%d_%s", t, g.now().UnixMilli(), g.suffix())
}

// GenerateEdgeID returns "edge_<source>_<target>_<unix-ms>".
func (g *IDGenerator) GenerateEdgeID(source, target string) string {
	return fmt.Sprintf("%s_%s_%s_%d", edgeIDPrefix, source, target, g.now().UnixMilli())
}

// GenerateNodeID uses the package default generator.
func GenerateNodeID(t NodeType) string {
	return defaultIDs.GenerateNodeID(t)
}

// GenerateEdgeID uses the package default generator.
func GenerateEdgeID(source, target string) string {
	return defaultIDs.GenerateEdgeID(source, target)
}

// randomSuffix takes lowercase hex characters from a random UUID.
func randomSuffix() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:idSuffixLen]
}
