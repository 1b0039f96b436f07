// Package payment provides payment gateway adapters.
package payment

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/roamsim/storefront/domain/order"
	"github.com/roamsim/storefront/ports"
)

// robokassaBaseURL is the hosted payment page.
const robokassaBaseURL = "https://auth.robokassa.ru/Merchant/Index.aspx"

// ErrBadSignature is returned when a result callback fails
// verification.
var ErrBadSignature = errors.New("robokassa: bad signature")

// RobokassaConfig holds merchant credentials. Password1 signs outgoing
// payment links, Password2 verifies result callbacks.
type RobokassaConfig struct {
	Login     string
	Password1 string
	Password2 string
	Test      bool
}

// RobokassaProvider implements ports.PaymentProvider for Robokassa.
type RobokassaProvider struct {
	config RobokassaConfig
}

// NewRobokassaProvider creates a new Robokassa payment provider.
func NewRobokassaProvider(config RobokassaConfig) *RobokassaProvider {
	return &RobokassaProvider{config: config}
}

// Name returns the provider name.
func (p *RobokassaProvider) Name() string {
	return "robokassa"
}

// CheckoutURL builds the signed redirect to the Robokassa payment
// page. The signature covers login, amount and invoice id with
// Password1.
func (p *RobokassaProvider) CheckoutURL(ctx context.Context, o order.Order) (string, error) {
	if o.Amount <= 0 {
		return "", fmt.Errorf("robokassa: non-positive amount %v", o.Amount)
	}
	outSum := formatAmount(o.Amount)
	invID := strconv.FormatInt(o.InvID, 10)

	signature := md5Hex(strings.Join([]string{
		p.config.Login, outSum, invID, p.config.Password1,
	}, ":"))

	q := url.Values{}
	q.Set("MerchantLogin", p.config.Login)
	q.Set("OutSum", outSum)
	q.Set("InvId", invID)
	q.Set("Description", "eSIM "+o.PackageSlug)
	q.Set("SignatureValue", signature)
	if o.Email != "" {
		q.Set("Email", o.Email)
	}
	if p.config.Test {
		q.Set("IsTest", "1")
	}
	return robokassaBaseURL + "?" + q.Encode(), nil
}

// VerifyResult checks a result-URL callback. The callback signature
// covers amount and invoice id with Password2. Returns the invoice id
// and paid amount on success.
func (p *RobokassaProvider) VerifyResult(values url.Values) (int64, float64, error) {
	outSum := values.Get("OutSum")
	invID := values.Get("InvId")
	got := values.Get("SignatureValue")
	if outSum == "" || invID == "" || got == "" {
		return 0, 0, fmt.Errorf("robokassa: missing result fields")
	}

	want := md5Hex(strings.Join([]string{outSum, invID, p.config.Password2}, ":"))
	if !strings.EqualFold(got, want) {
		return 0, 0, ErrBadSignature
	}

	id, err := strconv.ParseInt(invID, 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("robokassa: bad InvId %q: %w", invID, err)
	}
	amount, err := strconv.ParseFloat(outSum, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("robokassa: bad OutSum %q: %w", outSum, err)
	}
	return id, amount, nil
}

// ResultAck is the body Robokassa expects from a successful result
// callback.
func ResultAck(invID int64) string {
	return "OK" + strconv.FormatInt(invID, 10)
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func md5Hex(s string) string {
	sum := md5.Sum([]byte(s))
	return hex.EncodeToString(sum[:])
}

// Ensure interface compliance.
var _ ports.PaymentProvider = (*RobokassaProvider)(nil)
