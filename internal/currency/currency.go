package currency

import (
	"errors"
	"fmt"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/ksred/auction-api/pkg/response"
	"github.com/shopspring/decimal"
)

// Supported currencies
const (
	NGN = "NGN"
	USD = "USD"
)

var ErrUnsupportedConversion = errors.New("unsupported currency conversion")

// Rates would come from a market-data feed in production; these match the
// fixed table the platform launched with.
var (
	rateMu sync.RWMutex
	rates  = map[string]decimal.Decimal{
		"NGN_TO_USD": decimal.NewFromFloat(0.0012),
		"USD_TO_NGN": decimal.NewFromFloat(833.33),
	}
)

// Convert converts an amount between supported currencies. Conversions are
// computed on decimals to avoid drift on repeated round trips.
func Convert(amount float64, from, to string) (float64, error) {
	if from == to {
		return amount, nil
	}

	rateMu.RLock()
	rate, ok := rates[from+"_TO_"+to]
	rateMu.RUnlock()
	if !ok {
		return 0, fmt.Errorf("%w: %s to %s", ErrUnsupportedConversion, from, to)
	}

	converted := decimal.NewFromFloat(amount).Mul(rate)
	result, _ := converted.Round(2).Float64()
	return result, nil
}

// Format renders an amount with its currency symbol and two decimal places.
func Format(amount float64, code string) string {
	value := decimal.NewFromFloat(amount).Round(2).StringFixed(2)
	switch code {
	case NGN:
		return "₦" + value
	case USD:
		return "$" + value
	default:
		return value + " " + code
	}
}

// Rates returns a snapshot of the current exchange-rate table.
func Rates() map[string]float64 {
	rateMu.RLock()
	defer rateMu.RUnlock()

	out := make(map[string]float64, len(rates))
	for k, v := range rates {
		f, _ := v.Float64()
		out[k] = f
	}
	return out
}

// UpdateRate replaces a conversion rate, for a future market-data feed.
func UpdateRate(pair string, rate float64) {
	rateMu.Lock()
	defer rateMu.Unlock()
	rates[pair] = decimal.NewFromFloat(rate)
}

// GinHandlers contains HTTP handlers for currency endpoints
type GinHandlers struct{}

func NewGinHandlers() *GinHandlers {
	return &GinHandlers{}
}

// RatesHandler handles GET requests for the exchange-rate table
func (h *GinHandlers) RatesHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		response.Success(c, Rates())
	}
}

// ConvertHandler handles GET requests to convert an amount between currencies
func (h *GinHandlers) ConvertHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var query struct {
			Amount float64 `form:"amount" binding:"required"`
			From   string  `form:"from" binding:"required"`
			To     string  `form:"to" binding:"required"`
		}
		if err := c.ShouldBindQuery(&query); err != nil {
			response.BadRequest(c, err.Error())
			return
		}

		converted, err := Convert(query.Amount, query.From, query.To)
		if err != nil {
			response.BadRequest(c, err.Error())
			return
		}

		response.Success(c, gin.H{
			"amount":    query.Amount,
			"from":      query.From,
			"to":        query.To,
			"converted": converted,
			"formatted": Format(converted, query.To),
		})
	}
}
