package wishlist

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront/internal/infrastructure/storage"
)

// persister writes wishlist snapshots from a single goroutine. Only the most
// recent snapshot is kept; older unwritten ones are superseded.
type persister struct {
	store   storage.Store
	key     string
	timeout time.Duration
	log     logrus.FieldLogger
	onWrite func(error)

	mu     sync.Mutex
	latest []byte
	closed bool

	signal chan struct{}
	stop   chan struct{}
	done   chan struct{}
	once   sync.Once
}

func newPersister(store storage.Store, key string, timeout time.Duration, log logrus.FieldLogger, onWrite func(error)) *persister {
	p := &persister{
		store:   store,
		key:     key,
		timeout: timeout,
		log:     log,
		onWrite: onWrite,
		signal:  make(chan struct{}, 1),
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
	go p.run()
	return p
}

// enqueue replaces the pending snapshot. It never blocks on storage.
func (p *persister) enqueue(data []byte) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.latest = data
	p.mu.Unlock()

	select {
	case p.signal <- struct{}{}:
	default:
	}
}

func (p *persister) run() {
	defer close(p.done)
	for {
		select {
		case <-p.signal:
			p.flush()
		case <-p.stop:
			p.flush()
			return
		}
	}
}

func (p *persister) flush() {
	p.mu.Lock()
	data := p.latest
	p.latest = nil
	p.mu.Unlock()

	if data == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()

	err := p.store.Set(ctx, p.key, data)
	if err != nil {
		p.log.WithError(err).WithField("key", p.key).Warn("failed to persist wishlist")
	} else {
		p.log.WithFields(logrus.Fields{
			"key":   p.key,
			"bytes": len(data),
		}).Debug("wishlist persisted")
	}
	if p.onWrite != nil {
		p.onWrite(err)
	}
}

// close stops accepting snapshots, writes the pending one and waits for the
// writer to exit or ctx to end.
func (p *persister) close(ctx context.Context) error {
	p.once.Do(func() {
		p.mu.Lock()
		p.closed = true
		p.mu.Unlock()
		close(p.stop)
	})

	select {
	case <-p.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
