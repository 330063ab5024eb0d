package queue_test

import (
	"fmt"
	"time"

	"github.com/vnykmshr/syncflow/pkg/container/queue"
)

func ExampleQueue() {
	q := queue.New[string]()
	q.Push("first")
	q.Push("second")

	v, _ := q.WaitPop()
	fmt.Println(v)
	v, _ = q.WaitPopFor(10 * time.Millisecond)
	fmt.Println(v)

	_, ok := q.TryPop()
	fmt.Println(ok)

	// Output:
	// first
	// second
	// false
}

func ExamplePriorityQueue() {
	maxq := queue.NewOrdered[int]()
	minq := queue.NewPriority(queue.Greater[int])
	for _, v := range []int{1, 3, 2} {
		maxq.Push(v)
		minq.Push(v)
	}

	for !maxq.Empty() {
		v, _ := maxq.TryPop()
		fmt.Print(v, " ")
	}
	fmt.Println()
	for !minq.Empty() {
		v, _ := minq.TryPop()
		fmt.Print(v, " ")
	}
	fmt.Println()

	// Output:
	// 3 2 1
	// 1 2 3
}

func ExampleQueue_Stop() {
	q := queue.New[int]()
	done := make(chan struct{})

	go func() {
		defer close(done)
		for {
			v, ok := q.WaitPop()
			if !ok {
				fmt.Println("consumer released")
				return
			}
			fmt.Println("got", v)
		}
	}()

	q.Push(1)
	q.Push(2)
	for !q.Empty() {
		time.Sleep(time.Millisecond)
	}
	q.Stop()
	<-done

	// Output:
	// got 1
	// got 2
	// consumer released
}
