package dialog

import (
	"fmt"
	"testing"
)

type fakeHost struct {
	mounted  []*Dialog
	detached []*Dialog
}

func (h *fakeHost) Mount(d *Dialog)  { h.mounted = append(h.mounted, d) }
func (h *fakeHost) Detach(d *Dialog) { h.detached = append(h.detached, d) }

func (h *fakeHost) detachCount(d *Dialog) int {
	n := 0
	for _, x := range h.detached {
		if x == d {
			n++
		}
	}
	return n
}

func newTestManager(t *testing.T, opts ...Option) (*Manager, *fakeHost) {
	t.Helper()
	host := &fakeHost{}
	seq := 0
	opts = append([]Option{withIDs(func() string {
		seq++
		return fmt.Sprintf("d%d", seq)
	})}, opts...)
	return NewManager(host, opts...), host
}
