// Package slot provides a single-value mailbox with cooperative cancellation.
//
// A Slot holds at most one unread value. Producers overwrite freely (last
// write wins); consumers either poll with TryGet or block with WaitAndGet and
// its bounded variants until a value arrives or the slot is stopped:
//
//	latest := slot.New[Frame]()
//
//	go func() {
//		for {
//			frame, ok := latest.WaitAndGet()
//			if !ok {
//				return // stopped with nothing pending
//			}
//			render(frame)
//		}
//	}()
//
//	latest.Set(frame)
//	latest.Stop()
//
// Stop is a broadcast that lasts until Reset. It never discards a pending
// value: a Set followed by Stop still delivers the value to the next reader.
package slot
