package util

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

const localNumberDigits = 10

// FormatSessionDuration formats how long a table has been occupied, e.g.
// "1 minute", "45 minutes", "2 hours 5 minutes".
func FormatSessionDuration(duration time.Duration) string {
	minutes := max(int(duration/time.Minute), 0)
	if minutes < 60 {
		return plural(minutes, "minute")
	}

	return plural(minutes/60, "hour") + " " + plural(minutes%60, "minute")
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, unit)
	}

	return fmt.Sprintf("%d %ss", n, unit)
}

// FormatPhoneForDisplay splits the last ten digits into two groups of five
// and keeps anything before them as the country code: "+91 98765 43210".
func FormatPhoneForDisplay(phone string) string {
	if phone == "" {
		return ""
	}

	if len(phone) > localNumberDigits {
		cut := len(phone) - localNumberDigits
		number := phone[cut:]

		return fmt.Sprintf("%s %s %s", phone[:cut], number[:5], number[5:])
	}

	if len(phone) <= 5 {
		return phone
	}

	return phone[:5] + " " + phone[5:]
}

// FormatMoney renders an amount with two decimals.
func FormatMoney(amount decimal.Decimal) string {
	return amount.StringFixed(2)
}
