// internal/publisher/builder.go
package publisher

import (
	"time"

	cfg "github.com/tamzrod/spi-handler/internal/config"
)

// Build connects to the status endpoint.
// If sc is nil, publication is disabled and enabled is false.
func Build(sc *cfg.StatusConfig) (p *Publisher, closeFn func() error, enabled bool, err error) {
	if sc == nil {
		return nil, func() error { return nil }, false, nil
	}

	cli, err := DialEndpoint(ClientConfig{
		Endpoint: sc.Endpoint,
		Timeout:  time.Duration(sc.TimeoutMs) * time.Millisecond,
	})
	if err != nil {
		return nil, nil, false, err
	}

	p, err = New(Config{SlaveID: sc.SlaveID, BaseAddress: sc.BaseAddress}, cli)
	if err != nil {
		_ = cli.Close()
		return nil, nil, false, err
	}

	return p, cli.Close, true, nil
}
