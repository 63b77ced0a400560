// Copyright 2026 the blockbuster authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build !race

// This file contains examples that exercise the lock-free structures from
// multiple goroutines. They trigger false positives with Go's race
// detector because the synchronization happens through atomic memory
// orderings it cannot observe. The examples are correct; they're excluded
// from race testing.

package blockbuster_test

import (
	"fmt"
	"sync"

	"code.hybscloud.com/iox"
	"github.com/smercer10/blockbuster"
)

// ExampleNewSPSC demonstrates a basic SPSC queue for pipeline stages.
func ExampleNewSPSC() {
	// Create a single-producer single-consumer queue
	q := blockbuster.NewSPSC[int](8)

	// Producer sends 5 values
	for i := 1; i <= 5; i++ {
		v := i * 10
		q.Enqueue(&v)
	}

	// Consumer receives values
	for range 5 {
		v, _ := q.Dequeue()
		fmt.Println(v)
	}

	// Output:
	// 10
	// 20
	// 30
	// 40
	// 50
}

// ExampleNewMPMC demonstrates a multi-producer multi-consumer queue.
func ExampleNewMPMC() {
	q := blockbuster.NewMPMC[string](16)

	// Producers
	var wg sync.WaitGroup
	for p := range 3 {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			backoff := iox.Backoff{}
			msg := fmt.Sprintf("msg from producer %d", id)
			for q.Enqueue(&msg) != nil {
				backoff.Wait()
			}
		}(p)
	}

	// Wait for producers then consume
	wg.Wait()

	for {
		msg, err := q.Dequeue()
		if err != nil {
			break
		}
		fmt.Println(msg)
	}

	// Unordered output:
	// msg from producer 0
	// msg from producer 1
	// msg from producer 2
}

// ExampleNewMap demonstrates concurrent inserts into the hash map.
func ExampleNewMap() {
	m := blockbuster.NewMap[string, int](8)

	// Writers insert disjoint keys
	var wg sync.WaitGroup
	for w := range 4 {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			m.Insert(fmt.Sprintf("worker-%d", id), id*100)
		}(w)
	}
	wg.Wait()

	// Insert-if-absent: duplicates are rejected
	fmt.Println(m.Insert("worker-0", 999))

	for w := range 4 {
		v, _ := m.Get(fmt.Sprintf("worker-%d", w))
		fmt.Println(v)
	}

	// Output:
	// false
	// 0
	// 100
	// 200
	// 300
}
