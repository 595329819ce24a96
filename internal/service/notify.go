package service

import (
	"sync"

	"clickwin_backend/internal/model"
)

// WithdrawalNotifier fans newly created withdrawal requests out to admin
// websocket subscribers. Slow subscribers are skipped, not waited on.
type WithdrawalNotifier struct {
	mu          sync.Mutex
	subscribers map[chan *model.WithdrawalRequest]struct{}
}

func NewWithdrawalNotifier() *WithdrawalNotifier {
	return &WithdrawalNotifier{
		subscribers: make(map[chan *model.WithdrawalRequest]struct{}),
	}
}

func (n *WithdrawalNotifier) Subscribe() chan *model.WithdrawalRequest {
	ch := make(chan *model.WithdrawalRequest, 16)

	n.mu.Lock()
	n.subscribers[ch] = struct{}{}
	n.mu.Unlock()

	return ch
}

func (n *WithdrawalNotifier) Unsubscribe(ch chan *model.WithdrawalRequest) {
	n.mu.Lock()
	if _, ok := n.subscribers[ch]; ok {
		delete(n.subscribers, ch)
		close(ch)
	}
	n.mu.Unlock()
}

func (n *WithdrawalNotifier) Publish(request *model.WithdrawalRequest) {
	n.mu.Lock()
	defer n.mu.Unlock()

	for ch := range n.subscribers {
		select {
		case ch <- request:
		default:
		}
	}
}
