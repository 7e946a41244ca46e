package formatting

import (
	"fmt"
	"strings"
)

// FormatPrice форматирует цену в реалах: "R$ 1.250,50"
func FormatPrice(value float64) string {
	cents := int64(value*100 + 0.5)
	if value < 0 {
		cents = int64(value*100 - 0.5)
	}

	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}

	integer := fmt.Sprintf("%d", cents/100)
	var grouped strings.Builder
	for i, r := range integer {
		if i > 0 && (len(integer)-i)%3 == 0 {
			grouped.WriteByte('.')
		}
		grouped.WriteRune(r)
	}

	return fmt.Sprintf("%sR$ %s,%02d", sign, grouped.String(), cents%100)
}
