package signing

import (
	"go.uber.org/fx"

	"github.com/bob1127/eSIM-pwa-sub000/internal/config"
)

// Module provides the vendor request signer via fx.
var Module = fx.Provide(newSigner)

type signerParams struct {
	fx.In

	Config *config.Config
}

func newSigner(p signerParams) (*Signer, error) {
	return NewSigner(p.Config.VendorAccountID, p.Config.VendorSecret, p.Config.VendorSalt)
}
