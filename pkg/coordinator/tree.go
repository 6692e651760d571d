package coordinator

// Chain lists root and its active descendants, root first.
func Chain(root Node) []Node {
	var chain []Node
	for n := root; n != nil; n = n.Child() {
		chain = append(chain, n)
	}
	return chain
}

// Info is a serializable view of one coordinator.
type Info struct {
	Name  string `json:"name"`
	Phase string `json:"phase"`
}

// Describe summarizes the active coordinator chain under root.
func Describe(root Node) []Info {
	chain := Chain(root)
	infos := make([]Info, len(chain))
	for i, n := range chain {
		infos[i] = Info{Name: n.Name(), Phase: n.Phase().String()}
	}
	return infos
}
