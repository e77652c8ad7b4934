package consignment

import (
	"fmt"
	"strconv"
	"strings"
)

// NumberPrefix antecede el consecutivo visible de cada consignación.
const NumberPrefix = "CON-"

// NextNumber devuelve el consecutivo siguiente al mayor existente ("" si no hay ninguno).
func NextNumber(highest string) string {
	n := 0
	if v, err := strconv.Atoi(strings.TrimPrefix(highest, NumberPrefix)); err == nil {
		n = v
	}
	return fmt.Sprintf("%s%03d", NumberPrefix, n+1)
}
