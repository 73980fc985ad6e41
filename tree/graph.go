package tree

// Graph is the node/edge form of a tree, consumed by graph viewers
type Graph struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// Node is a tree node keyed by its path
type Node struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// Edge links a parent directory to a child
type Edge struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// ToGraph flattens root into nodes and parent-to-child edges.
// A nil root yields an empty graph.
func ToGraph(root *TreeNode) Graph {
	g := Graph{Nodes: []Node{}, Edges: []Edge{}}
	if root == nil {
		return g
	}

	root.Walk(func(n *TreeNode) {
		g.Nodes = append(g.Nodes, Node{ID: n.Data.Path, Label: n.Data.Name})
		for _, c := range n.Children {
			g.Edges = append(g.Edges, Edge{From: n.Data.Path, To: c.Data.Path})
		}
	})
	return g
}
