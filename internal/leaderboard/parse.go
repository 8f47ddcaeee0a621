package leaderboard

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	leadingInt    = regexp.MustCompile(`^[+-]?\d+`)
	leadingNumber = regexp.MustCompile(`^([+-]?)(\d*)(\.\d+)?([eE][+-]?\d+)?`)
)

// WalletID derives the wallet identifier a player pays from.
// It is the only link between the play and transaction datasets.
func WalletID(msisdn string) string {
	return "0" + msisdn
}

// ParseInt parses a count or duration field from its leading digits, so
// "10s" is 10 and "3.9" is 3. Text without leading digits yields 0, as does
// a value that overflows.
func ParseInt(s string) int {
	m := leadingInt.FindString(strings.TrimSpace(s))
	if m == "" {
		return 0
	}
	n, err := strconv.ParseInt(m, 10, 32)
	if err != nil {
		return 0
	}
	return int(n)
}

// ParseAmount parses a money amount such as "1,250.75" or "100.50 BDT".
// Thousands separators are stripped and the longest leading number is kept;
// text that does not start with a number yields zero.
func ParseAmount(s string) decimal.Decimal {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	m := leadingNumber.FindStringSubmatch(s)
	if m == nil || (m[2] == "" && m[3] == "") {
		return decimal.Zero
	}

	whole := m[2]
	if whole == "" {
		whole = "0"
	}
	d, err := decimal.NewFromString(m[1] + whole + m[3] + m[4])
	if err != nil {
		return decimal.Zero
	}
	return d
}
