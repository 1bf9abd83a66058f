package ui

import "sync/atomic"

// Progress counts finished tasks of a parallel step.
type Progress struct {
	c         *Console
	total     int
	completed atomic.Int32
}

// Progress returns a tracker for total tasks printing through c.
func (c *Console) Progress(total int) *Progress {
	return &Progress{c: c, total: total}
}

// Done marks one task as completed and prints "[n/total] label".
func (p *Progress) Done(label string) {
	n := int(p.completed.Add(1))
	p.c.Printf("[%d/%d] %s", n, p.total, label)
}
