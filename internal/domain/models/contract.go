package models

import "fmt"

// CME month codes for fed funds futures contracts.
var monthCodes = [13]string{"", "F", "G", "H", "J", "K", "M", "N", "Q", "U", "V", "X", "Z"}

// ContractTicker returns the ZQ contract symbol for a month key,
// e.g. (3, 2026) -> "ZQH26.CBT".
func ContractTicker(month, year int) string {
	if month < 1 || month > 12 {
		return ""
	}
	return fmt.Sprintf("ZQ%s%02d.CBT", monthCodes[month], year%100)
}
