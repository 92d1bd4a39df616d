package onnxgraph

// consumerIndex maps a value name to the nodes that read it as an input,
// plus a reverse index from a value name to the node that produces it. Both
// are built once at load time the way onnx-gomlx's BuildConsumerMap walks
// every node's inputs, since zmf carries no such index on the wire.
type consumerIndex struct {
	consumers map[string][]*node
	producers map[string]*node
}

func buildConsumerIndex(nodes []*node) *consumerIndex {
	idx := &consumerIndex{
		consumers: make(map[string][]*node),
		producers: make(map[string]*node),
	}
	for _, n := range nodes {
		for _, in := range n.Inputs() {
			if in == "" {
				continue
			}
			idx.consumers[in] = append(idx.consumers[in], n)
		}
		for _, out := range n.Outputs() {
			if out == "" {
				continue
			}
			idx.producers[out] = n
		}
	}
	return idx
}

func (idx *consumerIndex) rebuild(nodes []*node) {
	idx.consumers = make(map[string][]*node)
	idx.producers = make(map[string]*node)
	for _, n := range nodes {
		for _, in := range n.Inputs() {
			if in == "" {
				continue
			}
			idx.consumers[in] = append(idx.consumers[in], n)
		}
		for _, out := range n.Outputs() {
			if out == "" {
				continue
			}
			idx.producers[out] = n
		}
	}
}
