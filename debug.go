package skiplist

import (
	"bufio"
	"fmt"
	"io"
)

// DebugDump writes every node reachable on level 0, marked ones included,
// with the state of each of its links. The output is meant for people and
// its format is not stable. Concurrent writers make the dump inconsistent.
func (m *SkipListMap[K, V]) DebugDump(w io.Writer) error {
	bw := bufio.NewWriter(w)
	s := m.Stats()
	fmt.Fprintf(bw, "level_max=%d size=%d insert_cas_retries=%d find_restarts=%d snips=%d\n",
		m.levelMax, s.Size, s.InsertCASRetries, s.FindRestarts, s.Snips)

	for n := m.head; n != nil; n = n.links[0].Reference() {
		fmt.Fprintf(bw, "\nnode %p key=%s toplevel=%d", n, n.key, n.toplevel)
		if v, ok := n.value(); ok {
			fmt.Fprintf(bw, " value=%v", v)
		}
		bw.WriteByte('\n')
		for level := range n.links {
			ref, mark := n.links[level].Get()
			if ref == nil {
				fmt.Fprintf(bw, "  [%d] -> nil mark=%t\n", level, mark)
				continue
			}
			fmt.Fprintf(bw, "  [%d] -> %p (%s) mark=%t\n", level, ref, ref.key, mark)
		}
	}
	return bw.Flush()
}
