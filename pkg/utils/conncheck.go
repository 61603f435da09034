package utils

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"strings"
	"time"

	"github.com/mpapenbr/racereplay/log"
)

const defaultNatsPort = "4222"

// WaitForTCP tries to connect to addr until it succeeds, timeout is reached
// or ctx is done.
func WaitForTCP(ctx context.Context, addr string, timeout time.Duration) error {
	timeoutReached := time.Now().Add(timeout)
	start := time.Now()
	log.Debug("wait for tcp connection",
		log.String("addr", addr),
		log.String("timeout", timeout.String()))
	var d net.Dialer
	for time.Now().Before(timeoutReached) {
		conn, err := d.DialContext(ctx, "tcp", addr)
		if err == nil {
			conn.Close()

			log.Debug("tcp connection successful",
				log.String("addr", addr),
				log.String("duration", time.Since(start).String()))
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(200 * time.Millisecond):
		}
	}
	return fmt.Errorf("%s could not be reached after %v", addr, timeout)
}

// ExtractFromNatsURL returns host:port of the first server in a NATS url list.
// Urls without port use the NATS default port.
func ExtractFromNatsURL(natsURL string) (string, error) {
	first, _, _ := strings.Cut(natsURL, ",")
	u, err := url.Parse(first)
	if err != nil {
		return "", fmt.Errorf("invalid nats url %q: %w", natsURL, err)
	}
	if u.Host == "" {
		return "", fmt.Errorf("invalid nats url %q: missing host", natsURL)
	}
	if u.Port() == "" {
		return net.JoinHostPort(u.Hostname(), defaultNatsPort), nil
	}
	return u.Host, nil
}
