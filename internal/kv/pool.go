package kv

import (
	"context"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"
)

// Pool is a round-robin connection pool for edgekv with auto-reconnect.
// It implements Store.
type Pool struct {
	host    string
	port    int
	ns      string
	clients []*Client
	mu      []sync.Mutex
	idx     uint64
	stop    chan struct{}
}

// NewPool creates a pool of n edgekv connections.
func NewPool(host string, port int, namespace string, size int) (*Pool, error) {
	p := &Pool{
		host:    host,
		port:    port,
		ns:      namespace,
		clients: make([]*Client, size),
		mu:      make([]sync.Mutex, size),
		stop:    make(chan struct{}),
	}
	for i := 0; i < size; i++ {
		c, err := Connect(host, port, namespace, 5*time.Second)
		if err != nil {
			p.Close()
			return nil, fmt.Errorf("pool: connect client %d: %w", i, err)
		}
		p.clients[i] = c
	}
	// Keepalive pings every 10 seconds to prevent idle timeout.
	go p.keepalive()
	return p, nil
}

// get returns the next client in round-robin order.
func (p *Pool) get() *Client {
	n := atomic.AddUint64(&p.idx, 1)
	i := n % uint64(len(p.clients))
	return p.clients[i]
}

// reconnect replaces a broken client at index i.
func (p *Pool) reconnect(i int) {
	p.mu[i].Lock()
	defer p.mu[i].Unlock()
	if p.clients[i] != nil {
		p.clients[i].Close()
	}
	c, err := Connect(p.host, p.port, p.ns, 5*time.Second)
	if err != nil {
		log.Printf("pool: reconnect client %d failed: %v", i, err)
		return
	}
	p.clients[i] = c
}

func (p *Pool) keepalive() {
	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-p.stop:
			return
		case <-ticker.C:
			for i := range p.clients {
				if _, err := p.clients[i].Ping(); err != nil {
					log.Printf("pool: client %d ping failed, reconnecting: %v", i, err)
					p.reconnect(i)
				}
			}
		}
	}
}

// Close closes all connections.
func (p *Pool) Close() {
	close(p.stop)
	for _, c := range p.clients {
		if c != nil {
			c.Close()
		}
	}
}

func (p *Pool) Get(ctx context.Context, key string) ([]byte, error) {
	return p.get().Get(ctx, key)
}

func (p *Pool) Put(ctx context.Context, key string, value []byte) error {
	return p.get().Put(ctx, key, value)
}

func (p *Pool) Delete(ctx context.Context, key string) error {
	return p.get().Delete(ctx, key)
}
