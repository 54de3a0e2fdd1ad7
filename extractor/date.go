package extractor

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// months is the locale vocabulary: Cyrillic genitive month names as
// the widget renders them, mapped to two-digit month codes. Loaded
// once; never mutated.
var months = map[string]string{
	"января":   "01",
	"февраля":  "02",
	"марта":    "03",
	"апреля":   "04",
	"мая":      "05",
	"июня":     "06",
	"июля":     "07",
	"августа":  "08",
	"сентября": "09",
	"октября":  "10",
	"ноября":   "11",
	"декабря":  "12",
}

// NormalizeDate converts a widget-rendered date ("5 мая 2023" or
// "5 мая") into canonical YYYY-MM-DD form. A 2-token input has no
// year and defaults to now's calendar year.
//
// An unrecognized month name normalizes to "01" but is reported via
// monthKnown=false so callers can surface the fallback instead of
// mistaking a parse bug for a January review. Any token count other
// than 2 or 3 is an error.
func NormalizeDate(dateStr string, now time.Time) (iso string, monthKnown bool, err error) {
	parts := strings.Fields(dateStr)

	var day, monthName, year string
	switch len(parts) {
	case 3:
		day, monthName, year = parts[0], parts[1], parts[2]
	case 2:
		day, monthName = parts[0], parts[1]
		year = strconv.Itoa(now.Year())
	default:
		return "", false, fmt.Errorf("unsupported date shape %q: %d tokens", dateStr, len(parts))
	}

	month, known := months[monthName]
	if !known {
		month = "01"
	}
	if len(day) == 1 {
		day = "0" + day
	}

	return fmt.Sprintf("%s-%s-%s", year, month, day), known, nil
}
