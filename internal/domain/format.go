package domain

import (
	"fmt"
	"strconv"
	"time"
)

// Display currency is fixed for the whole storefront; the backend sends raw
// integer cents with no currency information.
const currencyCode = "USD"

// FormatMoney renders integer cents as "USD 1,234.56" with thousands
// grouping. Negative amounts keep the sign ahead of the grouped digits.
func FormatMoney(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}

	units := strconv.FormatInt(cents/100, 10)
	grouped := make([]byte, 0, len(units)+len(units)/3)
	for i, digit := range []byte(units) {
		if i > 0 && (len(units)-i)%3 == 0 {
			grouped = append(grouped, ',')
		}
		grouped = append(grouped, digit)
	}

	return fmt.Sprintf("%s %s%s.%02d", currencyCode, sign, grouped, cents%100)
}

// FormatDate renders a backend timestamp in the storefront's long display
// form, e.g. "January 2, 2006 at 3:04 PM".
func FormatDate(t time.Time) string {
	return t.Format("January 2, 2006 at 3:04 PM")
}
