// Package poller implements the client side of the unread-count loop: a
// Go consumer of the /unread-count endpoints for bots, TUIs and tests. It
// mirrors what the web client does between websocket pushes, so a consumer
// that misses a push still converges on the right badge numbers.
package poller

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"
)

// Kind identifies one of the two polled counters.
type Kind string

const (
	KindNotifications Kind = "notifications"
	KindMessages      Kind = "messages"
)

// DefaultInterval is how often the counters are refreshed.
const DefaultInterval = 15 * time.Second

// Counts is a snapshot of both unread counters.
type Counts struct {
	Notifications int64
	Messages      int64
}

// Poller periodically fetches both unread counters and reports changes.
// Counters start at zero and only move when a poll succeeds; a failed poll
// is logged and the previous snapshot stands until the next tick.
type Poller struct {
	baseURL  string
	token    string
	client   *http.Client
	interval time.Duration

	// OnChange is called with the current snapshot after every poll cycle.
	// OnAlert fires at most once per cycle, when either counter grew since
	// the previous snapshot. Both may be nil.
	OnChange func(Counts)
	OnAlert  func(Counts)

	mu     sync.Mutex
	counts Counts

	stopOnce sync.Once
	done     chan struct{}
}

// New creates a Poller for the API at baseURL authenticating with token.
func New(baseURL, token string) *Poller {
	return &Poller{
		baseURL:  baseURL,
		token:    token,
		client:   &http.Client{Timeout: 10 * time.Second},
		interval: DefaultInterval,
		done:     make(chan struct{}),
	}
}

// SetInterval overrides the poll interval. Call before Start.
func (p *Poller) SetInterval(d time.Duration) {
	if d > 0 {
		p.interval = d
	}
}

// Start begins the polling loop in its own goroutine. The first poll runs
// immediately; until it completes both counters read zero.
func (p *Poller) Start() {
	go p.run()
}

// Stop tears the loop down. Safe to call more than once.
func (p *Poller) Stop() {
	p.stopOnce.Do(func() { close(p.done) })
}

// Counts returns the latest snapshot.
func (p *Poller) Counts() Counts {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.counts
}

// Zero optimistically clears one counter, the way a client zeroes its badge
// the moment the user opens the notification panel or a conversation. The
// next successful poll replaces the optimistic value with the server's.
func (p *Poller) Zero(kind Kind) {
	p.mu.Lock()
	defer p.mu.Unlock()
	switch kind {
	case KindNotifications:
		p.counts.Notifications = 0
	case KindMessages:
		p.counts.Messages = 0
	}
}

func (p *Poller) run() {
	p.poll()
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			p.poll()
		case <-p.done:
			return
		}
	}
}

// poll refreshes both counters. Each endpoint is fetched independently; if
// one fails its previous value is kept so a partial outage doesn't zero a
// badge the user hasn't seen yet.
func (p *Poller) poll() {
	p.mu.Lock()
	previous := p.counts
	fresh := previous
	p.mu.Unlock()

	if n, err := p.fetchCount("/api/v1/notifications/unread-count"); err != nil {
		log.Printf("poller: notifications unread-count: %v", err)
	} else {
		fresh.Notifications = n
	}
	if n, err := p.fetchCount("/api/v1/messages/unread-count"); err != nil {
		log.Printf("poller: messages unread-count: %v", err)
	} else {
		fresh.Messages = n
	}

	p.mu.Lock()
	p.counts = fresh
	p.mu.Unlock()

	if p.OnChange != nil {
		p.OnChange(fresh)
	}
	if p.OnAlert != nil &&
		(fresh.Notifications > previous.Notifications || fresh.Messages > previous.Messages) {
		p.OnAlert(fresh)
	}
}

func (p *Poller) fetchCount(path string) (int64, error) {
	req, err := http.NewRequest(http.MethodGet, p.baseURL+path, nil)
	if err != nil {
		return 0, err
	}
	if p.token != "" {
		req.Header.Set("Authorization", "Bearer "+p.token)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var body struct {
		Count int64 `json:"count"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return 0, err
	}
	return body.Count, nil
}
