// ABOUTME: Persister that rehydrates the ledger and saves it after each change
// ABOUTME: Saves run off the mutation path and coalesce bursts of changes
package storage

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/harperreed/daftar/ledger"
)

// Source is the store being persisted. *ledger.Store satisfies it.
type Source interface {
	Snapshot() ledger.State
	Subscribe(fn func(ledger.Change)) func()
}

type Persister struct {
	kv     KV
	logger *log.Logger

	saveMu sync.Mutex

	mu          sync.Mutex
	source      Source
	unsubscribe func()
	signal      chan struct{}
	stop        chan struct{}
	done        chan struct{}
}

func NewPersister(kv KV, logger *log.Logger) *Persister {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Persister{kv: kv, logger: logger}
}

// Load returns the persisted state, or a fresh state when nothing was saved.
func (p *Persister) Load() (ledger.State, error) {
	data, err := p.kv.Get([]byte(StateKey))
	if errors.Is(err, ErrNotFound) {
		return ledger.NewState(), nil
	}
	if err != nil {
		return ledger.State{}, fmt.Errorf("failed to read state: %w", err)
	}
	return Decode(data)
}

// Start saves the source after every change until Close. Changes arriving
// while a save is running collapse into one follow-up save.
func (p *Persister) Start(source Source) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.source != nil {
		return
	}

	p.source = source
	p.signal = make(chan struct{}, 1)
	p.stop = make(chan struct{})
	p.done = make(chan struct{})
	p.unsubscribe = source.Subscribe(func(ledger.Change) {
		select {
		case p.signal <- struct{}{}:
		default:
		}
	})

	go p.loop()
}

func (p *Persister) loop() {
	defer close(p.done)
	for {
		select {
		case <-p.stop:
			return
		case <-p.signal:
			if err := p.Flush(); err != nil {
				p.logger.Error("failed to persist ledger", "err", err)
			}
		}
	}
}

// Flush writes the current snapshot synchronously.
func (p *Persister) Flush() error {
	p.mu.Lock()
	source := p.source
	p.mu.Unlock()
	if source == nil {
		return nil
	}

	// Snapshot under saveMu so an older snapshot never overwrites a newer one.
	p.saveMu.Lock()
	defer p.saveMu.Unlock()
	return p.write(source.Snapshot())
}

// Save writes state under StateKey.
func (p *Persister) Save(state ledger.State) error {
	p.saveMu.Lock()
	defer p.saveMu.Unlock()
	return p.write(state)
}

func (p *Persister) write(state ledger.State) error {
	data, err := Encode(state)
	if err != nil {
		return err
	}
	if err := p.kv.Set([]byte(StateKey), data); err != nil {
		return fmt.Errorf("failed to write state: %w", err)
	}
	p.logger.Debug("ledger persisted", "bytes", len(data))
	return nil
}

// Close stops saving in the background and writes a final snapshot.
func (p *Persister) Close() error {
	p.mu.Lock()
	if p.source == nil {
		p.mu.Unlock()
		return nil
	}
	p.unsubscribe()
	close(p.stop)
	done := p.done
	p.mu.Unlock()

	<-done
	err := p.Flush()

	p.mu.Lock()
	p.source = nil
	p.mu.Unlock()
	return err
}
