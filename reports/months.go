// ABOUTME: Localized month names for payment trends
// ABOUTME: Maghreb and Mashriq Arabic month names with an English fallback
package reports

import (
	"time"

	"golang.org/x/text/language"
)

var maghrebMonths = [12]string{
	"جانفي", "فيفري", "مارس", "أفريل", "ماي", "جوان",
	"جويلية", "أوت", "سبتمبر", "أكتوبر", "نوفمبر", "ديسمبر",
}

var arabicMonths = [12]string{
	"يناير", "فبراير", "مارس", "أبريل", "مايو", "يونيو",
	"يوليو", "أغسطس", "سبتمبر", "أكتوبر", "نوفمبر", "ديسمبر",
}

// MonthName returns the long month name for tag. Algeria and Tunisia use the
// French-derived names.
func MonthName(tag language.Tag, m time.Month) string {
	if m < time.January || m > time.December {
		return ""
	}
	base, _ := tag.Base()
	if base.String() != "ar" {
		return m.String()
	}
	region, conf := tag.Region()
	if conf == language.Exact {
		switch region.String() {
		case "DZ", "TN":
			return maghrebMonths[m-1]
		}
	}
	return arabicMonths[m-1]
}
