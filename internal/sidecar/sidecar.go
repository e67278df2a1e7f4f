// Package sidecar tracks per-path atime/mtime/ctime independently of the
// JSON payload, mirroring file_time.c/file_time.h from the original
// jsonfs: a singly linked list rooted at the mount's head record, which
// always exists and covers path "/".
package sidecar

import "time"

// Flags selects which timestamps a new Record should stamp with the
// current time rather than inherit from the list head, matching
// enum set_time in file_time.h.
type Flags int

const (
	SetAtime Flags = 1 << iota
	SetMtime
	SetCtime
)

// Record is one node of the metadata list: a path and its three POSIX
// timestamps.
type Record struct {
	Path  string
	Atime time.Time
	Mtime time.Time
	Ctime time.Time

	next *Record
}

// List is the metadata sidecar: a singly linked list of Records headed
// by a record for "/" that is never removed. The zero List is not
// valid; use New.
type List struct {
	head *Record
}

// New creates the sidecar with its permanent head record for "/",
// stamping all three times to now.
func New(now time.Time) *List {
	head := &Record{Path: "/", Atime: now, Mtime: now, Ctime: now}
	return &List{head: head}
}

// Head returns the list's permanent "/" record, whose times double as
// the default for any path lacking its own record.
func (l *List) Head() *Record { return l.head }

// Add inserts a new record for path, appending it at the tail. If path
// already has a record, Add does nothing and returns nil, matching
// add_node_to_list_ft's "return NULL if already present" behavior.
// Each of atime/mtime/ctime is set to now when its Flags bit is set (or
// unconditionally, the list being otherwise empty can't happen since
// the head always exists); otherwise it's inherited from the head.
func (l *List) Add(path string, flags Flags, now time.Time) *Record {
	if l.Find(path) != nil {
		return nil
	}

	rec := &Record{Path: path}
	if flags&SetAtime != 0 {
		rec.Atime = now
	} else {
		rec.Atime = l.head.Atime
	}
	if flags&SetMtime != 0 {
		rec.Mtime = now
	} else {
		rec.Mtime = l.head.Mtime
	}
	if flags&SetCtime != 0 {
		rec.Ctime = now
	} else {
		rec.Ctime = l.head.Ctime
	}

	last := l.head
	for last.next != nil {
		last = last.next
	}
	last.next = rec
	return rec
}

// Find performs a linear scan by exact path equality.
func (l *List) Find(path string) *Record {
	for cur := l.head; cur != nil; cur = cur.next {
		if cur.Path == path {
			return cur
		}
	}
	return nil
}

// Remove splices the record for path out of the list. The head ("/")
// can never be removed through this call. Returns false if no record
// for path exists.
//
// Unlike remove_node_to_list_ft, which locates the predecessor by
// re-deriving the path's *directory* parent and looking that up in the
// list (correct only when insertion order happens to match tree
// hierarchy), this tracks the true list predecessor while scanning, so
// removal is correct regardless of insertion order.
func (l *List) Remove(path string) bool {
	if path == l.head.Path {
		return false
	}
	prev := l.head
	for cur := l.head.next; cur != nil; cur = cur.next {
		if cur.Path == path {
			prev.next = cur.next
			return true
		}
		prev = cur
	}
	return false
}
