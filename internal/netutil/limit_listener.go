package netutil

import (
	"errors"
	"net"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var errKeepaliveNotSupported = errors.New("keepalive not supported")

// Limiter is a pool of connection slots. Use NewLimiter to create an instance
type Limiter struct {
	sem                  chan struct{}
	concurrentConnsCount prometheus.Gauge
	waitingConnsCount    prometheus.Gauge
}

// NewLimiter creates a Limiter of n slots reporting to the given gauges
func NewLimiter(n int, maxConnsCount, concurrentConnsCount, waitingConnsCount prometheus.Gauge) *Limiter {
	maxConnsCount.Set(float64(n))

	return &Limiter{
		sem:                  make(chan struct{}, n),
		concurrentConnsCount: concurrentConnsCount,
		waitingConnsCount:    waitingConnsCount,
	}
}

// LimitListener returns a Listener that accepts connections from listener
// only while limiter has a free slot. Based on https://godoc.org/golang.org/x/net/netutil
func LimitListener(listener net.Listener, limiter *Limiter) net.Listener {
	return &limitListener{
		Listener: listener,
		limiter:  limiter,
		done:     make(chan struct{}),
	}
}

type limitListener struct {
	net.Listener
	closeOnce sync.Once     // ensures the done chan is only closed once
	limiter   *Limiter      // pool of connection slots
	done      chan struct{} // no values sent; closed when Close is called
}

// acquire returns true when a slot was taken, false if the listener was
// closed while waiting
func (l *limitListener) acquire() bool {
	l.limiter.waitingConnsCount.Inc()
	defer l.limiter.waitingConnsCount.Dec()

	select {
	case <-l.done:
		return false
	case l.limiter.sem <- struct{}{}:
		l.limiter.concurrentConnsCount.Inc()
		return true
	}
}

func (l *limitListener) release() {
	<-l.limiter.sem
	l.limiter.concurrentConnsCount.Dec()
}

func (l *limitListener) Accept() (net.Conn, error) {
	acquired := l.acquire()
	// If the semaphore isn't acquired because the listener was closed, expect
	// that this call to accept won't block, but immediately return an error.
	c, err := l.Listener.Accept()
	if err != nil {
		if acquired {
			l.release()
		}
		return nil, err
	}

	// Support TCP Keepalive operations if possible
	tcpConn, _ := c.(*net.TCPConn)

	return &limitListenerConn{
		Conn:    c,
		tcpConn: tcpConn,
		release: l.release,
	}, nil
}

func (l *limitListener) Close() error {
	err := l.Listener.Close()
	l.closeOnce.Do(func() { close(l.done) })
	return err
}

type limitListenerConn struct {
	net.Conn
	tcpConn     *net.TCPConn
	releaseOnce sync.Once
	release     func()
}

func (c *limitListenerConn) Close() error {
	err := c.Conn.Close()
	c.releaseOnce.Do(c.release)
	return err
}

func (c *limitListenerConn) SetKeepAlive(enabled bool) error {
	if c.tcpConn == nil {
		return errKeepaliveNotSupported
	}

	return c.tcpConn.SetKeepAlive(enabled)
}

func (c *limitListenerConn) SetKeepAlivePeriod(period time.Duration) error {
	if c.tcpConn == nil {
		return errKeepaliveNotSupported
	}

	return c.tcpConn.SetKeepAlivePeriod(period)
}
