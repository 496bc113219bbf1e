// Package huffman builds static, order-0 Huffman trees from byte frequency
// tables and serializes/deserializes them bit-for-bit over a bitio stream.
package huffman

import (
	"container/heap"

	"huffarc/pkg/bitio"
)

// FrequencyMap counts occurrences of each byte value 0..255 in an input.
type FrequencyMap struct {
	counts [256]uint64
	total  uint64
}

// NewFrequencyMap returns an empty map.
func NewFrequencyMap() *FrequencyMap {
	return &FrequencyMap{}
}

// Add records n additional occurrences of byte b.
func (f *FrequencyMap) Add(b byte, n uint64) {
	f.counts[b] += n
	f.total += n
}

// Count returns the observed occurrences of byte b.
func (f *FrequencyMap) Count(b byte) uint64 {
	return f.counts[b]
}

// Total returns the total number of bytes tabulated.
func (f *FrequencyMap) Total() uint64 {
	return f.total
}

// Distinct returns the number of distinct byte values with a non-zero
// count.
func (f *FrequencyMap) Distinct() int {
	n := 0
	for _, c := range f.counts {
		if c > 0 {
			n++
		}
	}
	return n
}

// Node is a binary tree node: either a Leaf holding a byte value, or an
// Internal node with two children. Represented as a single tagged struct
// rather than an interface hierarchy, since the only polymorphic decision
// callers ever make is "is this a leaf".
type Node struct {
	Leaf  bool
	Byte  byte
	Freq  uint64
	Left  *Node
	Right *Node
}

// IsLeaf reports whether n is a leaf node.
func (n *Node) IsLeaf() bool {
	return n.Leaf
}

// Tree is a single-use Huffman tree plus its derived code table.
type Tree struct {
	Root  *Node
	Codes CodeTable
}

// CodeTable maps a byte value to its Huffman bit string (a sequence of '0'
// and '1' characters, MSB-first / root-to-leaf order).
type CodeTable map[byte]string

// pqItem is one entry in the build-time priority queue.
type pqItem struct {
	node *Node
	seq  int // insertion order, breaks frequency ties so Pop is stable; it shapes the tree (and so the codes), but decoding never depends on it since the tree is written out
}

type nodeQueue []*pqItem

func (q nodeQueue) Len() int { return len(q) }

func (q nodeQueue) Less(i, j int) bool {
	if q[i].node.Freq != q[j].node.Freq {
		return q[i].node.Freq < q[j].node.Freq
	}
	return q[i].seq < q[j].seq
}

func (q nodeQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *nodeQueue) Push(x any) {
	*q = append(*q, x.(*pqItem))
}

func (q *nodeQueue) Pop() any {
	old := *q
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*q = old[:n-1]
	return item
}

// Build constructs a Huffman tree from freq. It returns a nil Tree if freq
// has no observed bytes (callers must reject empty input before this
// point; FileCodec does so with FileEmpty).
func Build(freq *FrequencyMap) *Tree {
	pq := make(nodeQueue, 0, 256)
	seq := 0
	for b := 0; b < 256; b++ {
		c := freq.counts[b]
		if c == 0 {
			continue
		}
		pq = append(pq, &pqItem{node: &Node{Leaf: true, Byte: byte(b), Freq: c}, seq: seq})
		seq++
	}
	if len(pq) == 0 {
		return nil
	}
	heap.Init(&pq)

	for pq.Len() > 1 {
		left := heap.Pop(&pq).(*pqItem).node
		right := heap.Pop(&pq).(*pqItem).node
		merged := &Node{Left: left, Right: right, Freq: left.Freq + right.Freq}
		heap.Push(&pq, &pqItem{node: merged, seq: seq})
		seq++
	}

	root := pq[0].node
	root = extendSingleSymbol(root)

	t := &Tree{Root: root}
	t.Codes = t.generateCodes()
	return t
}

// extendSingleSymbol handles the single-distinct-byte edge case: a
// one-node tree (a bare leaf) cannot produce a non-empty code. It is
// rewritten into a two-leaf tree with a sentinel right child so the real
// byte gets the one-bit code "0".
func extendSingleSymbol(root *Node) *Node {
	if !root.IsLeaf() {
		return root
	}
	sentinel := &Node{Leaf: true, Byte: root.Byte, Freq: 0}
	return &Node{Left: root, Right: sentinel, Freq: root.Freq}
}

// generateCodes performs a single pre-order traversal, assigning '0' on
// left descent and '1' on right descent. The first leaf reached for a byte
// keeps its code, so the single-symbol sentinel (which repeats the real
// byte on the right) does not overwrite the real byte's "0".
func (t *Tree) generateCodes() CodeTable {
	codes := make(CodeTable)
	var walk func(n *Node, prefix string)
	walk = func(n *Node, prefix string) {
		if n == nil {
			return
		}
		if n.IsLeaf() {
			if prefix == "" {
				prefix = "0" // only reachable for a true single-node root, which extendSingleSymbol prevents
			}
			if _, seen := codes[n.Byte]; !seen {
				codes[n.Byte] = prefix
			}
			return
		}
		walk(n.Left, prefix+"0")
		walk(n.Right, prefix+"1")
	}
	walk(t.Root, "")
	return codes
}

// SerializeTree writes the tree shape in pre-order: a leaf is a '1' bit
// followed by its byte value as eight individual bits; an internal node is
// a '0' bit followed by its left then right subtrees.
func SerializeTree(w *bitio.Writer, root *Node) {
	if root.IsLeaf() {
		w.WriteBit(1)
		w.WriteBits(byteBits(root.Byte))
		return
	}
	w.WriteBit(0)
	SerializeTree(w, root.Left)
	SerializeTree(w, root.Right)
}

// byteBits renders b as an 8-character '0'/'1' string, MSB-first.
func byteBits(b byte) string {
	buf := make([]byte, 8)
	for i := 0; i < 8; i++ {
		if (b>>uint(7-i))&1 == 1 {
			buf[i] = '1'
		} else {
			buf[i] = '0'
		}
	}
	return string(buf)
}

// DeserializeTree reconstructs a tree from its pre-order bit encoding. It
// returns ok=false on a truncated or malformed stream; callers surface
// that as TreeDeserializationError.
func DeserializeTree(r *bitio.Reader) (*Node, bool) {
	bit, ok := r.ReadBit()
	if !ok {
		return nil, false
	}
	if bit == 1 {
		b, ok := r.ReadByte()
		if !ok {
			return nil, false
		}
		return &Node{Leaf: true, Byte: b}, true
	}
	left, ok := DeserializeTree(r)
	if !ok {
		return nil, false
	}
	right, ok := DeserializeTree(r)
	if !ok {
		return nil, false
	}
	return &Node{Left: left, Right: right}, true
}

// Kraft returns the Kraft sum, Σ 2^-|c|, over every code in the table. It
// should equal 1.0 for any tree with two or more distinct leaves.
func Kraft(codes CodeTable) float64 {
	var sum float64
	for _, c := range codes {
		sum += 1.0 / float64(uint64(1)<<uint(len(c)))
	}
	return sum
}
