package export

import (
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var DefaultLocale = language.MustParse("es-MX")

// MoneyFormatter prints amounts with two decimals and the locale's digit
// grouping. Digits come from the decimal itself, so any magnitude prints
// exactly.
type MoneyFormatter struct {
	symbol  string
	group   string
	decimal string
}

func NewMoneyFormatter(tag language.Tag, symbol string) *MoneyFormatter {
	group, dec := separators(message.NewPrinter(tag))
	return &MoneyFormatter{symbol: symbol, group: group, decimal: dec}
}

// separators reads the locale's grouping and decimal marks off a sample
// large enough to be grouped under every locale's minimum grouping rule.
func separators(p *message.Printer) (string, string) {
	sample := []rune(p.Sprint(number.Decimal(1234567.5, number.Scale(2))))
	if len(sample) < 10 || sample[0] != '1' {
		return ",", "."
	}

	dec := string(sample[len(sample)-3])
	group := ""
	for i, r := range sample[1:] {
		if r == '2' {
			group = string(sample[1 : i+1])
			break
		}
	}
	return group, dec
}

func (m *MoneyFormatter) Format(v decimal.Decimal) string {
	v = v.Round(2)

	sign := ""
	if v.IsNegative() {
		sign = "-"
		v = v.Neg()
	}

	digits := v.StringFixed(2)
	intPart, frac := digits[:len(digits)-3], digits[len(digits)-2:]

	return sign + m.symbol + m.groupDigits(intPart) + m.decimal + frac
}

func (m *MoneyFormatter) groupDigits(s string) string {
	if m.group == "" || len(s) <= 3 {
		return s
	}

	var b strings.Builder
	head := len(s) % 3
	if head > 0 {
		b.WriteString(s[:head])
	}
	for i := head; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteString(m.group)
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}

// Percent renders the rate as a whole-number percentage, e.g. 0.16 -> "16%".
func Percent(rate decimal.Decimal) string {
	return rate.Shift(2).String() + "%"
}
