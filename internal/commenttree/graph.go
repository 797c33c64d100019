// Package commenttree turns the flat comment list of one thread into a
// navigable reply tree.
package commenttree

import (
	"sort"

	"github.com/studychannel/studychannel/internal/model"
)

// MaxDepth bounds traversal depth so corrupt parent links can never recurse
// without end, even before the visited set catches a cycle.
const MaxDepth = 256

// Graph holds O(1) lookups by id and by parent id. It is immutable once built.
// Top-level comments are kept apart from the parent buckets, so no parent id
// value can promote a reply to the top level.
type Graph struct {
	byID     map[string]model.Comment
	roots    []model.Comment
	children map[string][]model.Comment
}

// Node is one comment placed in the tree. Depth is the number of hops from
// the root the tree was built from.
type Node struct {
	Comment  model.Comment
	Depth    int
	Children []*Node
}

// Build indexes comments in any order. Soft-deleted rows are dropped before
// indexing, so replies to them become unreachable. Duplicate ids resolve to
// the last occurrence in chronological order.
func Build(comments []model.Comment) *Graph {
	live := make([]model.Comment, 0, len(comments))
	for _, c := range comments {
		if c.IsDeleted {
			continue
		}
		live = append(live, c)
	}

	sort.SliceStable(live, func(i, j int) bool {
		return less(live[i], live[j])
	})

	g := &Graph{
		byID:     make(map[string]model.Comment, len(live)),
		roots:    []model.Comment{},
		children: make(map[string][]model.Comment),
	}

	for _, c := range live {
		g.byID[c.Id] = c

		if c.ParentCommentId == nil {
			g.roots = append(g.roots, c)
			continue
		}
		parent := *c.ParentCommentId
		g.children[parent] = append(g.children[parent], c)
	}

	return g
}

func less(a, b model.Comment) bool {
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.Before(b.CreatedAt)
	}
	if a.CommentNumber != b.CommentNumber {
		return a.CommentNumber < b.CommentNumber
	}
	return a.Id < b.Id
}

// Get returns the comment with the given id.
func (g *Graph) Get(id string) (model.Comment, bool) {
	c, ok := g.byID[id]
	return c, ok
}

// Len is the number of indexed comments, orphans included.
func (g *Graph) Len() int {
	return len(g.byID)
}

// ChildrenOf returns the direct children of parentID in chronological order.
// The result is never nil and must not be modified.
func (g *Graph) ChildrenOf(parentID string) []model.Comment {
	if c, ok := g.children[parentID]; ok {
		return c
	}
	return []model.Comment{}
}

// ReplyCountOf counts direct replies only; grandchildren are not included.
func (g *Graph) ReplyCountOf(commentID string) int {
	return len(g.children[commentID])
}

// Roots returns the comments with no parent id, in chronological order.
// The result is never nil and must not be modified.
func (g *Graph) Roots() []model.Comment {
	return g.roots
}

// Tree builds the forest reachable from the top-level comments. Comments whose
// parent is absent from the graph are never part of it.
func (g *Graph) Tree() []*Node {
	visited := make(map[string]bool, len(g.byID))
	roots := g.Roots()

	forest := make([]*Node, 0, len(roots))
	for _, c := range roots {
		if visited[c.Id] {
			continue
		}
		forest = append(forest, g.grow(c, visited))
	}

	return forest
}

// Subtree builds the tree under a single comment, which gets depth 0.
func (g *Graph) Subtree(id string) (*Node, bool) {
	c, ok := g.byID[id]
	if !ok {
		return nil, false
	}

	return g.grow(c, make(map[string]bool)), true
}

// grow expands root breadth-first with an explicit queue. A comment already
// placed is skipped, which guarantees termination on cyclic parent links.
func (g *Graph) grow(root model.Comment, visited map[string]bool) *Node {
	top := &Node{Comment: root}
	visited[root.Id] = true

	queue := []*Node{top}
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]

		if n.Depth >= MaxDepth {
			continue
		}

		for _, c := range g.children[n.Comment.Id] {
			if visited[c.Id] {
				continue
			}
			visited[c.Id] = true

			child := &Node{Comment: c, Depth: n.Depth + 1}
			n.Children = append(n.Children, child)
			queue = append(queue, child)
		}
	}

	return top
}

// Walk visits nodes depth-first in display order. Returning false from fn
// skips the node's children.
func Walk(nodes []*Node, fn func(n *Node) bool) {
	stack := make([]*Node, 0, len(nodes))
	for i := len(nodes) - 1; i >= 0; i-- {
		stack = append(stack, nodes[i])
	}

	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if !fn(n) {
			continue
		}

		for i := len(n.Children) - 1; i >= 0; i-- {
			stack = append(stack, n.Children[i])
		}
	}
}
