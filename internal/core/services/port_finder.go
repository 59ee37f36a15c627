package services

import (
	"errors"
	"fmt"
	"net"
	"strconv"

	"github.com/learningequality/alignpro/internal/core/domain"
)

// FindAvailablePort returns the first port in [startPort, endPort] that
// can be bound on the loopback interface. The probe listener is closed
// before returning, so the port is free but not reserved.
func FindAvailablePort(startPort, endPort int) (int, error) {
	if startPort < 1 || endPort > 65535 || endPort < startPort {
		return 0, errors.Join(domain.ErrInvalidInput,
			fmt.Errorf("invalid port range %d-%d", startPort, endPort))
	}
	for port := startPort; port <= endPort; port++ {
		l, err := net.Listen("tcp", net.JoinHostPort("127.0.0.1", strconv.Itoa(port)))
		if err != nil {
			continue
		}
		if err := l.Close(); err != nil {
			return 0, fmt.Errorf("releasing port %d: %w", port, err)
		}
		return port, nil
	}
	return 0, fmt.Errorf("no available port in range %d-%d", startPort, endPort)
}
