package causality

import (
	"sort"

	"github.com/WuKongIM/zdb/pkg/journal"
	"github.com/WuKongIM/zdb/pkg/zberr"
	"github.com/WuKongIM/zdb/pkg/zblog"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
)

// DanglingPolicy decides what a source position missing from the log turns into.
type DanglingPolicy int

const (
	// DanglingFail aborts the build with a dangling reference error.
	DanglingFail DanglingPolicy = iota
	// DanglingWarn keeps the edge to a placeholder node and records it.
	DanglingWarn
)

func (d DanglingPolicy) String() string {
	if d == DanglingWarn {
		return "warn"
	}
	return "fail"
}

type Options struct {
	Dangling DanglingPolicy
}

type Option func(*Options)

func WithDanglingPolicy(p DanglingPolicy) Option {
	return func(o *Options) {
		o.Dangling = p
	}
}

// Node is one log entry. Placeholder nodes stand for parents outside the inspected log and
// only carry their position.
type Node struct {
	Position             int64
	RecordType           string
	ValueType            string
	Intent               string
	Key                  int64
	ElementType          *string
	ProcessInstanceKey   *int64
	ProcessDefinitionKey *int64
	Placeholder          bool
}

// ID implements graph.Node.
func (n *Node) ID() int64 {
	return n.Position
}

// Edge points from a child entry to the entry that caused it.
type Edge struct {
	Child  int64
	Parent int64
}

// Graph is the causality graph of a log. Edges run child to parent, so every node has at most
// one outgoing edge.
type Graph struct {
	g        *simple.DirectedGraph
	nodes    map[int64]*Node
	entries  []int64 // 日志顺序的entry位置
	edges    []Edge
	dangling []Edge
}

// Build creates the graph of every application entry in content.
func Build(content *journal.LogContent, opt ...Option) (*Graph, error) {
	return BuildEntries(content.Entries(), opt...)
}

// BuildEntries creates the graph of entries given in log order.
func BuildEntries(entries []journal.Entry, opt ...Option) (*Graph, error) {
	opts := &Options{}
	for _, f := range opt {
		f(opts)
	}
	log := zblog.NewZBLog("causality")
	gr := &Graph{
		g:       simple.NewDirectedGraph(),
		nodes:   make(map[int64]*Node, len(entries)),
		entries: make([]int64, 0, len(entries)),
	}
	for i := range entries {
		n := newNode(&entries[i])
		if _, ok := gr.nodes[n.Position]; ok {
			return nil, zberr.CorruptAt("", n.Position, "duplicate position")
		}
		gr.nodes[n.Position] = n
		gr.entries = append(gr.entries, n.Position)
		gr.g.AddNode(n)
	}
	for i := range entries {
		e := &entries[i]
		if !e.HasSource() {
			continue
		}
		if e.SourceRecordPosition >= e.Position {
			return nil, zberr.CorruptAt("", e.Position, "source position %d not below entry position", e.SourceRecordPosition)
		}
		edge := Edge{Child: e.Position, Parent: e.SourceRecordPosition}
		parent, ok := gr.nodes[e.SourceRecordPosition]
		if !ok {
			if opts.Dangling == DanglingFail {
				return nil, zberr.DanglingReference(e.Position, e.SourceRecordPosition)
			}
			log.Warn("source position missing from log", zap.Int64("position", e.Position), zap.Int64("source", e.SourceRecordPosition))
			parent = &Node{Position: e.SourceRecordPosition, Placeholder: true}
			gr.nodes[parent.Position] = parent
			gr.g.AddNode(parent)
			gr.dangling = append(gr.dangling, edge)
		}
		gr.g.SetEdge(gr.g.NewEdge(gr.nodes[e.Position], parent))
		gr.edges = append(gr.edges, edge)
	}
	return gr, nil
}

func newNode(e *journal.Entry) *Node {
	n := &Node{
		Position:   e.Position,
		RecordType: e.RecordType.String(),
		ValueType:  e.ValueType.String(),
		Intent:     e.Intent,
		Key:        e.Key,
	}
	if e.ValueType == journal.ValueTypeProcessInstance {
		related := e.Value.ProcessInstanceRelated()
		n.ElementType = related.BpmnElementType
		n.ProcessInstanceKey = related.ProcessInstanceKey
		n.ProcessDefinitionKey = related.ProcessDefinitionKey
	}
	return n
}

func (gr *Graph) Node(position int64) (*Node, bool) {
	n, ok := gr.nodes[position]
	return n, ok
}

// Parent returns the node that caused the entry at position.
func (gr *Graph) Parent(position int64) (*Node, bool) {
	it := gr.g.From(position)
	if it.Next() {
		return it.Node().(*Node), true
	}
	return nil, false
}

// Children returns the entries caused by position in position order.
func (gr *Graph) Children(position int64) []*Node {
	var children []*Node
	it := gr.g.To(position)
	for it.Next() {
		children = append(children, it.Node().(*Node))
	}
	sortNodes(children)
	return children
}

// Ancestors returns the causal chain of position, nearest parent first.
func (gr *Graph) Ancestors(position int64) []*Node {
	var ancestors []*Node
	for {
		parent, ok := gr.Parent(position)
		if !ok {
			return ancestors
		}
		ancestors = append(ancestors, parent)
		position = parent.Position
	}
}

// Caused reports whether the entry at position descends from ancestor.
func (gr *Graph) Caused(ancestor, position int64) bool {
	if gr.g.Node(ancestor) == nil || gr.g.Node(position) == nil || ancestor == position {
		return false
	}
	return topo.PathExistsIn(gr.g, gr.g.Node(position), gr.g.Node(ancestor))
}

// Roots returns the nodes without a parent in position order.
func (gr *Graph) Roots() []*Node {
	var roots []*Node
	for _, n := range gr.Nodes() {
		if gr.g.From(n.Position).Len() == 0 {
			roots = append(roots, n)
		}
	}
	return roots
}

// Nodes returns every node, placeholders included, in position order.
func (gr *Graph) Nodes() []*Node {
	nodes := make([]*Node, 0, len(gr.nodes))
	for _, n := range gr.nodes {
		nodes = append(nodes, n)
	}
	sortNodes(nodes)
	return nodes
}

// Edges returns the edges in log order of their child.
func (gr *Graph) Edges() []Edge {
	return gr.edges
}

// Dangling returns the edges whose parent is a placeholder.
func (gr *Graph) Dangling() []Edge {
	return gr.dangling
}

func sortNodes(nodes []*Node) {
	sort.Slice(nodes, func(i, j int) bool {
		return nodes[i].Position < nodes[j].Position
	})
}
