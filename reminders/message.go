// ABOUTME: Reminder text built from the shop's message template
// ABOUTME: Formats amounts in Algerian dinars with locale-aware grouping

package reminders

import (
	"net/url"
	"strings"

	"github.com/harperreed/daftar/ledger"
	"github.com/harperreed/daftar/models"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

const CurrencySuffix = "دج"

// FormatAmount renders an amount as "<grouped number> دج" for tag.
func FormatAmount(tag language.Tag, amount decimal.Decimal) string {
	p := message.NewPrinter(tag)
	return p.Sprintf("%v", number.Decimal(amount.InexactFloat64())) + " " + CurrencySuffix
}

// BuildReminder fills the settings template for a customer. Each placeholder
// is replaced once, in name, shop name, amount order.
func BuildReminder(tag language.Tag, settings models.ReminderSettings, customer models.Customer, remaining decimal.Decimal) models.ReminderData {
	msg := settings.ReminderMessage
	msg = strings.Replace(msg, models.PlaceholderName, customer.Name, 1)
	msg = strings.Replace(msg, models.PlaceholderShopName, settings.ShopName, 1)
	msg = strings.Replace(msg, models.PlaceholderAmount, FormatAmount(tag, remaining), 1)

	return models.ReminderData{
		CustomerName:  customer.Name,
		CustomerPhone: customer.Phone,
		TotalDebt:     remaining,
		ShopName:      settings.ShopName,
		Message:       msg,
	}
}

// CustomerRemaining sums the remaining amount over a customer's active debts.
func CustomerRemaining(st ledger.State, customerID string) decimal.Decimal {
	total := decimal.Zero
	for _, d := range st.CustomerDebts(customerID) {
		total = total.Add(st.RemainingAmount(d))
	}
	return total
}

// SMSLink builds an sms: URI that opens the messaging app with the text
// filled in. Whitespace is stripped from the phone number.
func SMSLink(phone, message string) string {
	phone = strings.Join(strings.Fields(phone), "")
	return "sms:" + phone + "?body=" + url.PathEscape(message)
}
