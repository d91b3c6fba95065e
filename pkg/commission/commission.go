package commission

import (
	"math"
	"math/big"

	"worker-finder/pkg/config"
	"worker-finder/pkg/money"

	"go.uber.org/fx"
)

var Module = fx.Module("commission", fx.Provide(NewFromConfig))

// Breakdown is the split of a gross amount between the platform, the trust
// and safety fund and the worker.
type Breakdown struct {
	Amount     money.Amount `json:"amount"`
	Commission money.Amount `json:"commission"`
	TrustFee   money.Amount `json:"trustFee"`
	NetAmount  money.Amount `json:"netAmount"`
}

// Calculator holds the commission and trust fee rates in basis points
// (hundredths of a percent).
type Calculator struct {
	commissionBP int64
	trustFeeBP   int64
}

// New takes the rates as percentages, e.g. 18 and 7.
func New(commissionPercent, trustFeePercent float64) *Calculator {
	return &Calculator{
		commissionBP: int64(math.Round(commissionPercent * 100)),
		trustFeeBP:   int64(math.Round(trustFeePercent * 100)),
	}
}

func NewFromConfig(cfg *config.Config) *Calculator {
	return New(cfg.Marketplace.CommissionRate, cfg.Marketplace.TrustFeeRate)
}

var bpDenominator = big.NewInt(10000)

// Calculate splits amount. Each component is computed exactly and rounded
// half-up to the cent once, so commission+trustFee+net stays within one cent
// of amount. The products are taken in big.Int so no amount can overflow.
func (c *Calculator) Calculate(amount money.Amount) Breakdown {
	a := big.NewInt(int64(amount))
	commission := new(big.Int).Mul(a, big.NewInt(c.commissionBP))
	trustFee := new(big.Int).Mul(a, big.NewInt(c.trustFeeBP))
	net := new(big.Int).Mul(a, bpDenominator)
	net.Sub(net, commission).Sub(net, trustFee)

	return Breakdown{
		Amount:     amount,
		Commission: money.Amount(roundHalfUp(commission, bpDenominator)),
		TrustFee:   money.Amount(roundHalfUp(trustFee, bpDenominator)),
		NetAmount:  money.Amount(roundHalfUp(net, bpDenominator)),
	}
}

// roundHalfUp divides n by d rounding halves away from zero.
func roundHalfUp(n, d *big.Int) int64 {
	half := new(big.Int).Rsh(d, 1)
	q := new(big.Int).Abs(n)
	q.Add(q, half).Quo(q, d)
	if n.Sign() < 0 {
		q.Neg(q)
	}
	return q.Int64()
}
