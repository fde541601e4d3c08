package marketdata

import (
	"time"

	"RateWatch/internal/domain/models"
)

// ContractMonth identifies one fed-funds futures contract by delivery month.
type ContractMonth struct {
	Month  int
	Year   int
	Ticker string
}

// ContractMonths lists contracts from the month before start (needed to
// anchor the pre-meeting rate) through monthsAhead months out.
func ContractMonths(start time.Time, monthsAhead int) []ContractMonth {
	first := time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -1, 0)
	out := make([]ContractMonth, 0, monthsAhead+2)
	for i := 0; i <= monthsAhead+1; i++ {
		m := first.AddDate(0, i, 0)
		out = append(out, ContractMonth{
			Month:  int(m.Month()),
			Year:   m.Year(),
			Ticker: models.ContractTicker(int(m.Month()), m.Year()),
		})
	}
	return out
}
