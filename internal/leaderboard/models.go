package leaderboard

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// NotAvailable is the sentinel the play dataset uses for a missing service channel.
const NotAvailable = "N/A"

// Text is a string field decoded leniently from JSON.
// Strings are kept as-is, numbers and booleans keep their literal text and null becomes "".
type Text string

// UnmarshalJSON implements json.Unmarshaler.
func (t *Text) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case len(b) == 0 || bytes.Equal(b, []byte("null")):
		*t = ""
		return nil
	case b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return fmt.Errorf("text field: %w", err)
		}
		*t = Text(s)
		return nil
	case bytes.Equal(b, []byte("true")) || bytes.Equal(b, []byte("false")):
		*t = Text(b)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("text field: %w", err)
	}
	*t = Text(n.String())
	return nil
}

// String returns the raw text.
func (t Text) String() string {
	return string(t)
}

// TransactionRecord is one row of the payment charging dataset.
type TransactionRecord struct {
	Date                      Text `json:"date"`
	FromWallet                Text `json:"from_wallet"`
	ToWallet                  Text `json:"to_wallet"`
	TransactionType           Text `json:"transaction_type"`
	Channel                   Text `json:"channel"`
	TransactionAmount         Text `json:"transaction_amount"`
	AmountCredited            Text `json:"amount_credited"`
	Charges                   Text `json:"charges"`
	TransactionID             Text `json:"transaction_ID"`
	TransactionReference      Text `json:"transaction_reference"`
	CouponAmount              Text `json:"coupon_amount"`
	AmountAfterCouponDiscount Text `json:"amount_after_coupon_discount"`
	CashbackAmount            Text `json:"cashback_amount"`
	TransactionStatus         Text `json:"transaction_status"`
}

// PlayRecord is one completed quiz round from the player dataset.
type PlayRecord struct {
	ID             Text `json:"id"`
	MSISDN         Text `json:"msisdn"`
	TimeTaken      Text `json:"time_taken"`
	RoundNumber    Text `json:"round_number"`
	RightCount     Text `json:"right_count"`
	EventID        Text `json:"event_id"`
	Date           Text `json:"date"`
	CreatedAt      Text `json:"created_at"`
	Sync           Text `json:"sync"`
	UpdatedAt      Text `json:"updated_at"`
	QuestionCount  Text `json:"question_count"`
	RoundQuestions Text `json:"round_questions"`
	PaymentStatus  Text `json:"paymentStatus"`
	Amount         Text `json:"amount"`
	Payer          Text `json:"payer"`
	ServiceType    Text `json:"serviceType"`
	PortalID       Text `json:"portal_id"`
}

// WalletAggregate holds the financial totals of one paying wallet.
type WalletAggregate struct {
	Wallet       string
	TotalAmount  decimal.Decimal
	Transactions int
	// LastActivity is the greatest transaction date seen, compared as text.
	LastActivity string
}

// MatchedUser is a player whose derived wallet has at least one transaction.
type MatchedUser struct {
	MSISDN            string  `json:"msisdn"`
	Wallet            string  `json:"wallet"`
	TotalAmount       float64 `json:"totalAmount"`
	TotalTransactions int     `json:"totalTransactions"`
	RightAnswers      int     `json:"rightAnswers"`
	TotalQuestions    int     `json:"totalQuestions"`
	Accuracy          float64 `json:"accuracy"`
	TimeTaken         int     `json:"timeTaken"`
	LastActivity      string  `json:"lastActivity"`
	ServiceType       string  `json:"serviceType"`
	EventID           string  `json:"eventId,omitempty"`

	// ExactAmount is TotalAmount before conversion to float64.
	ExactAmount decimal.Decimal `json:"-"`
}
