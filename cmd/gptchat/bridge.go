package main

import (
	"context"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/germanamz/gptchat/pkg/engine"
)

// sender is the part of *tea.Program the bridge needs.
type sender interface {
	Send(msg tea.Msg)
}

// startBridge launches the event watcher goroutine. It only calls p.Send and
// never touches model state directly. The returned cancel function stops the
// watcher and waits for it to exit, so no stale messages are sent after
// return.
func startBridge(ctx context.Context, p sender, sess *engine.Session, events *engine.EventBus) context.CancelFunc {
	bridgeCtx, cancel := context.WithCancel(ctx)

	var wg sync.WaitGroup
	sub := events.Subscribe(64)
	cursor := sess.Len()

	wg.Go(func() {
		defer events.Unsubscribe(sub)
		for {
			select {
			case <-bridgeCtx.Done():
				return
			case ev, ok := <-sub.C:
				if !ok {
					return
				}
				if ev.SessionID != sess.ID() {
					continue
				}
				cursor = forward(p, sess, ev, cursor)
			}
		}
	})

	return func() {
		cancel()
		wg.Wait()
	}
}

// forward converts one session event into bubbletea messages and returns the
// updated conversation cursor.
func forward(p sender, sess *engine.Session, ev engine.Event, cursor int) int {
	switch ev.Kind {
	case engine.EventSubmitStart:
		text, _ := ev.Data.(string)
		p.Send(submitStartMsg{text: text})

	case engine.EventChanged:
		for _, msg := range sess.Since(cursor) {
			p.Send(chatMessageMsg{msg: msg})
			cursor++
		}

	case engine.EventRejected:
		if n, ok := ev.Data.(*engine.Notice); ok {
			p.Send(rejectedMsg{notice: n})
		}

	case engine.EventReset:
		cursor = 0
		p.Send(resetMsg{})

	case engine.EventModelSelected:
		key, _ := ev.Data.(string)
		p.Send(modelSelectedMsg{key: key})
	}

	return cursor
}
