package app

import (
	"strings"

	"github.com/chmouel/lazychanges/internal/tree"
)

// rebuildRows recomputes the visible rows from the forest, honoring the
// collapse state. Roots always show; children hide under a collapsed
// folder.
func (m *Model) rebuildRows() {
	m.rows = m.rows[:0]
	for _, root := range m.forest {
		m.appendRows(root, 0)
	}
	m.clampCursor()
}

func (m *Model) appendRows(node *tree.Node, depth int) {
	m.rows = append(m.rows, row{node: node, depth: depth})
	if !node.IsDir() || m.collapsed[node] {
		return
	}
	for _, child := range node.Children() {
		m.appendRows(child, depth+1)
	}
}

func (m *Model) selectedNode() *tree.Node {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return nil
	}
	return m.rows[m.cursor].node
}

func (m *Model) moveCursor(delta int) {
	m.cursor += delta
	m.clampCursor()
	m.ensureVisible()
}

func (m *Model) clampCursor() {
	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	if m.scroll > m.cursor {
		m.scroll = m.cursor
	}
}

// pageSize is the number of tree rows that fit in the window.
func (m *Model) pageSize() int {
	reserved := 4 // title, stats, status, footer
	if m.showingFilter || m.showingSearch {
		reserved++
	}
	size := m.height - reserved
	if size < 1 {
		size = 1
	}
	return size
}

func (m *Model) ensureVisible() {
	page := m.pageSize()
	if m.cursor < m.scroll {
		m.scroll = m.cursor
	}
	if m.cursor >= m.scroll+page {
		m.scroll = m.cursor - page + 1
	}
}

// rowName returns the bare name used for search matching: the last path
// segment for files and folders, the label for roots.
func rowName(r row) string {
	if r.node.IsRoot {
		return r.node.Label
	}
	segments := tree.SplitSegments(r.node.Path)
	if len(segments) == 0 {
		return r.node.Label
	}
	return segments[len(segments)-1]
}

// searchNext moves the cursor to the next row matching the search query,
// wrapping around in either direction.
func (m *Model) searchNext(forward bool) {
	if strings.TrimSpace(m.filter.SearchQuery) == "" || len(m.rows) == 0 {
		return
	}

	n := len(m.rows)
	for i := 1; i <= n; i++ {
		var idx int
		if forward {
			idx = (m.cursor + i) % n
		} else {
			idx = (m.cursor - i + n) % n
		}
		if m.filter.MatchesSearch(rowName(m.rows[idx])) {
			m.cursor = idx
			m.ensureVisible()
			return
		}
	}
}
