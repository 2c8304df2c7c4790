package main

import (
	"context"
	"log"
	"sync"

	"gitlab.com/gomidi/midi/v2/smf"

	"midifilter/pkg/midirep"
)

type result struct {
	name string
	rep  *midirep.Representation
	err  error
}

func decodeFile(name string) *result {
	out := &result{name: name}

	s, err := smf.ReadFile(name)
	if err != nil {
		out.err = err
		return out
	}

	rep, err := midirep.FromSMF(s)
	if err != nil {
		out.err = err
		return out
	}

	out.rep = rep
	return out
}

func decodeWorker(ctx context.Context, paths <-chan string, cntRoutines int) (<-chan *result, <-chan struct{}) {
	out := make(chan *result)
	done := make(chan struct{}, 1)

	go func() {
		var wg sync.WaitGroup
		goroutines := make(chan struct{}, cntRoutines)

	loop:
		for path := range paths {
			select {
			case goroutines <- struct{}{}:
			case <-ctx.Done():
				log.Println("decodeWorker context done")
				break loop
			}
			wg.Add(1)
			go func(ctx context.Context, path string, goroutines <-chan struct{}, out chan<- *result, wg *sync.WaitGroup) {
				defer wg.Done()

				select {
				case out <- decodeFile(path):
				case <-ctx.Done():
					log.Printf("decodeFile %s context done\n", path)
				}
				<-goroutines

			}(ctx, path, goroutines, out, &wg)
		}

		wg.Wait()
		close(goroutines)
		close(out)

		done <- struct{}{}
		close(done)
	}()

	return out, done
}
