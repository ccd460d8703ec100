package netutil

import (
	"net"
	"time"

	log "github.com/sirupsen/logrus"
)

type keepAliveSetter interface {
	SetKeepAlive(bool) error
	SetKeepAlivePeriod(time.Duration) error
}

// KeepAliveListener enables TCP keep-alive with the given period on every
// accepted connection. A zero period keeps the operating system default,
// a negative one disables keep-alive.
func KeepAliveListener(listener net.Listener, period time.Duration) net.Listener {
	return &keepAliveListener{Listener: listener, period: period}
}

type keepAliveListener struct {
	net.Listener
	period time.Duration
}

func (ln *keepAliveListener) Accept() (net.Conn, error) {
	conn, err := ln.Listener.Accept()
	if err != nil {
		return nil, err
	}

	kc, ok := conn.(keepAliveSetter)
	if !ok {
		return conn, nil
	}

	if err := ln.configure(kc); err != nil {
		log.WithError(err).Debug("could not configure keep-alive")
	}

	return conn, nil
}

func (ln *keepAliveListener) configure(kc keepAliveSetter) error {
	if ln.period < 0 {
		return kc.SetKeepAlive(false)
	}

	if err := kc.SetKeepAlive(true); err != nil {
		return err
	}

	if ln.period == 0 {
		return nil
	}

	return kc.SetKeepAlivePeriod(ln.period)
}
