package layout

import (
	"github.com/charmbracelet/log"

	"github.com/sruja-ai/sruja-sub008/pkg/geom"
	"github.com/sruja-ai/sruja-sub008/pkg/hierarchy"
	"github.com/sruja-ai/sruja-sub008/pkg/model"
	"github.com/sruja-ai/sruja-sub008/pkg/sizing"
)

// rootGroup is the group key of the top-level elements.
const rootGroup = -1

// scene is the mutable state of one layout run, indexed like the tree.
type scene struct {
	tree  *hierarchy.Tree
	sized []sizing.SizedNode

	size     []geom.Size
	origin   []geom.Point
	visible  []bool
	expanded []bool // visible, not collapsed, with visible children

	// groups holds the arrangement of each expanded parent's children,
	// keyed by tree index (rootGroup for the top level).
	groups map[int]arrangement
	// rels holds relationships lifted to sibling pairs, keyed like groups.
	rels     map[int][]model.Relationship
	links    []link
	backward map[[2]model.NodeID]bool
}

// link is an input relationship resolved against the tree.
type link struct {
	rel      model.Relationship
	from, to int
	// a and b are the sibling ancestors the relationship was lifted to;
	// lifted is false when one endpoint contains the other.
	a, b   int
	lifted bool
}

func newScene(tree *hierarchy.Tree, sized []sizing.SizedNode, rels []model.Relationship, logger *log.Logger) *scene {
	n := tree.Len()
	s := &scene{
		tree:     tree,
		sized:    sized,
		size:     make([]geom.Size, n),
		origin:   make([]geom.Point, n),
		visible:  make([]bool, n),
		expanded: make([]bool, n),
		groups:   make(map[int]arrangement),
		rels:     make(map[int][]model.Relationship),
		backward: make(map[[2]model.NodeID]bool),
	}

	// parents precede children in pre-order
	for i := range tree.Nodes {
		node := &tree.Nodes[i]
		s.size[i] = sized[i].Size
		s.visible[i] = !node.Element.Hidden
		if p := node.Parent; p >= 0 {
			s.visible[i] = s.visible[i] && s.visible[p] && !tree.Nodes[p].Element.Collapsed
		}
	}
	for i := range tree.Nodes {
		if p := tree.Nodes[i].Parent; p >= 0 && s.visible[i] {
			s.expanded[p] = true
		}
	}

	seen := make(map[[2]int]bool)
	for _, r := range rels {
		from, ok1 := tree.Lookup(r.From)
		to, ok2 := tree.Lookup(r.To)
		if !ok1 || !ok2 {
			logger.Warn("skipping relationship with unknown element", "from", r.From, "to", r.To)
			continue
		}
		if from == to {
			continue
		}
		l := link{rel: r, from: from, to: to}
		l.a, l.b, l.lifted = lift(tree, from, to)
		s.links = append(s.links, l)
		if !l.lifted || seen[[2]int{l.a, l.b}] {
			continue
		}
		seen[[2]int{l.a, l.b}] = true
		key := tree.Nodes[l.a].Parent
		s.rels[key] = append(s.rels[key], model.Relationship{From: tree.Nodes[l.a].ID, To: tree.Nodes[l.b].ID, Label: r.Label})
	}
	return s
}

// lift climbs from a and b to the pair of siblings below their lowest
// common ancestor. It reports false when one contains the other.
func lift(t *hierarchy.Tree, a, b int) (int, int, bool) {
	for t.Nodes[a].Depth > t.Nodes[b].Depth {
		a = t.Nodes[a].Parent
	}
	for t.Nodes[b].Depth > t.Nodes[a].Depth {
		b = t.Nodes[b].Parent
	}
	if a == b {
		return 0, 0, false
	}
	for t.Nodes[a].Parent != t.Nodes[b].Parent {
		a, b = t.Nodes[a].Parent, t.Nodes[b].Parent
	}
	return a, b, true
}

// members returns the visible children of parent, or the visible roots.
func (s *scene) members(parent int) []int {
	candidates := s.tree.Roots
	if parent != rootGroup {
		candidates = s.tree.Nodes[parent].Children
	}
	var out []int
	for _, c := range candidates {
		if s.visible[c] {
			out = append(out, c)
		}
	}
	return out
}

// name returns the id of a group's parent for logging.
func (s *scene) name(parent int) string {
	if parent == rootGroup {
		return "(root)"
	}
	return s.tree.Nodes[parent].ID.String()
}

// place converts group-relative positions to absolute origins. Children
// sit inside their parent at the parent's inset; hidden children collapse
// onto the parent's content corner.
func (s *scene) place(inset func(model.Level) float64) {
	roots := s.groups[rootGroup]
	for _, r := range s.tree.Roots {
		s.origin[r] = roots.pos[s.tree.Nodes[r].ID]
	}
	s.tree.Walk(func(i int, n *hierarchy.Node) bool {
		in := inset(n.Level)
		base := s.origin[i].Add(geom.Point{X: in, Y: in})
		g := s.groups[i]
		for _, c := range n.Children {
			s.origin[c] = base.Add(g.pos[s.tree.Nodes[c].ID])
		}
		return true
	})
}

// visibleEnd returns the element drawn for i: i itself, or the nearest
// collapsed ancestor. Hidden elements yield -1.
func (s *scene) visibleEnd(i int) int {
	for ; i >= 0; i = s.tree.Nodes[i].Parent {
		if s.visible[i] {
			return i
		}
		if s.tree.Nodes[i].Element.Hidden {
			return -1
		}
	}
	return -1
}

// edgeHints returns one hint per drawable relationship in input order.
func (s *scene) edgeHints(routing string) []EdgeHint {
	hints := make([]EdgeHint, 0, len(s.links))
	for _, l := range s.links {
		src, dst := s.visibleEnd(l.from), s.visibleEnd(l.to)
		if src < 0 || dst < 0 || src == dst {
			continue
		}
		h := EdgeHint{
			From:    l.rel.From,
			To:      l.rel.To,
			Label:   l.rel.Label,
			Source:  s.tree.Nodes[src].ID,
			Target:  s.tree.Nodes[dst].ID,
			Routing: routing,
		}
		if l.lifted {
			h.Backward = s.backward[[2]model.NodeID{s.tree.Nodes[l.a].ID, s.tree.Nodes[l.b].ID}]
		}
		hints = append(hints, h)
	}
	return hints
}
