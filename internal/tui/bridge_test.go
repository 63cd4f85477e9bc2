package tui

import (
	"sync"
	"testing"
	"time"

	"github.com/agbru/fibseq/internal/generator"
)

func TestProgramRef_Send_NilProgram(t *testing.T) {
	ref := &programRef{}
	// Must not panic without a program.
	ref.Send(TickMsg(time.Now()))
}

func TestProgramRef_Send_Concurrent(t *testing.T) {
	ref := &programRef{}
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ref.Send(ProbeMsg{Usage: 1})
		}()
	}
	wg.Wait()
}

func TestForwardProgress_DrainsChannel(t *testing.T) {
	ref := &programRef{}
	ch := make(chan generator.ProgressUpdate, 4)
	for i := uint64(0); i < 4; i++ {
		ch <- generator.ProgressUpdate{Index: i, Done: i + 1, Total: 4}
	}
	close(ch)

	done := make(chan struct{})
	go func() {
		forwardProgress(ref, ch, 0)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("forwardProgress did not return after the channel was closed")
	}
}
