/*
Package queue provides unbounded, goroutine-safe blocking queues.

Two orderings share one API:

	q := queue.New[string]()              // FIFO
	pq := queue.NewOrdered[int]()         // largest first
	minq := queue.NewPriority(queue.Greater[int]) // smallest first

Producers call Push, which never blocks. Consumers choose how long to wait:

	v, ok := q.TryPop()                         // never blocks
	v, ok = q.WaitPopFor(100 * time.Millisecond) // bounded
	v, ok = q.WaitPopContext(ctx)               // until ctx ends
	v, ok = q.WaitPop()                         // until an element arrives or Stop

An empty result is a normal outcome, reported as ok == false rather than an error.

Stop releases every blocked consumer. A stopped queue still accepts pushes and
still hands out buffered elements; only consumers that would have to wait return
ok == false. Reset restores a freshly constructed queue.

Every operation takes the queue's single mutex, so Len and Empty are consistent
snapshots and elements come out of a FIFO queue in the order their Push calls
acquired the lock. Blocked consumers re-check for an element after every wake-up.

Priority queues order by a caller-supplied less function. With Less the greatest
element pops first; with Greater the smallest does. Equal elements pop in
unspecified order.
*/
package queue
