package wompi

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/jmcastano/payflow/internal/config"
)

// Module exposes the gateway client implementation to the fx graph.
var Module = fx.Provide(newClient)

type clientParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

func newClient(p clientParams) (Client, error) {
	return NewHTTPClient(Config{
		BaseURL:      p.Config.Wompi.BaseURL,
		PublicKey:    p.Config.Wompi.PublicKey,
		PrivateKey:   p.Config.Wompi.PrivateKey,
		IntegrityKey: p.Config.Wompi.IntegrityKey,
		Currency:     p.Config.Wompi.Currency,
	}, p.Logger)
}
