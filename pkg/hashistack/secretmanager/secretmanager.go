package secretmanager

import (
	"os"

	vault "github.com/hashicorp/vault-client-go"
	"go.uber.org/fx"
)

var Module = fx.Module("secretmanager", fx.Provide(ProvideVault))

// Enabled reports whether a vault address is present in the environment.
func Enabled() bool {
	return os.Getenv("VAULT_ADDR") != ""
}

// Optional returns Module when VAULT_ADDR is set and an empty option
// otherwise, so config loading falls back to the environment.
func Optional() fx.Option {
	if !Enabled() {
		return fx.Options()
	}
	return Module
}

func ProvideVault() (*vault.Client, error) {
	client, err := vault.New(
		vault.WithEnvironment(),
	)
	if err != nil {
		return nil, err
	}

	return client, nil
}
