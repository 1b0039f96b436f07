package payment

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"net/url"
	"strings"
	"testing"

	"github.com/roamsim/storefront/domain/order"
	"github.com/roamsim/storefront/domain/pricing"
)

func testRobokassa() *RobokassaProvider {
	return NewRobokassaProvider(RobokassaConfig{
		Login:     "demo",
		Password1: "pass1",
		Password2: "pass2",
		Test:      true,
	})
}

func TestRobokassaCheckoutURL(t *testing.T) {
	p := testRobokassa()
	o := order.Order{
		ID:          "ord1",
		InvID:       42,
		PackageSlug: "france-5gb-30d",
		Email:       "buyer@example.com",
		Currency:    pricing.RUB,
		Amount:      720,
	}

	raw, err := p.CheckoutURL(context.Background(), o)
	if err != nil {
		t.Fatalf("CheckoutURL: %v", err)
	}

	u, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("parse url: %v", err)
	}
	q := u.Query()
	if q.Get("MerchantLogin") != "demo" || q.Get("InvId") != "42" {
		t.Errorf("query = %v", q)
	}
	if q.Get("OutSum") != "720.00" {
		t.Errorf("OutSum = %q, want 720.00", q.Get("OutSum"))
	}
	if q.Get("IsTest") != "1" {
		t.Errorf("IsTest = %q, want 1", q.Get("IsTest"))
	}

	sum := md5.Sum([]byte("demo:720.00:42:pass1"))
	if want := hex.EncodeToString(sum[:]); q.Get("SignatureValue") != want {
		t.Errorf("SignatureValue = %q, want %q", q.Get("SignatureValue"), want)
	}
}

func TestRobokassaCheckoutURL_RejectsNonPositive(t *testing.T) {
	if _, err := testRobokassa().CheckoutURL(context.Background(), order.Order{InvID: 1}); err == nil {
		t.Fatal("want error for zero amount")
	}
}

func TestRobokassaVerifyResult(t *testing.T) {
	p := testRobokassa()

	sum := md5.Sum([]byte("720.00:42:pass2"))
	sig := hex.EncodeToString(sum[:])

	values := url.Values{}
	values.Set("OutSum", "720.00")
	values.Set("InvId", "42")
	values.Set("SignatureValue", strings.ToUpper(sig)) // robokassa sends uppercase

	invID, amount, err := p.VerifyResult(values)
	if err != nil {
		t.Fatalf("VerifyResult: %v", err)
	}
	if invID != 42 || amount != 720 {
		t.Errorf("got inv=%d amount=%v", invID, amount)
	}
}

func TestRobokassaVerifyResult_BadSignature(t *testing.T) {
	p := testRobokassa()

	values := url.Values{}
	values.Set("OutSum", "720.00")
	values.Set("InvId", "42")
	values.Set("SignatureValue", "deadbeef")

	if _, _, err := p.VerifyResult(values); err != ErrBadSignature {
		t.Errorf("err = %v, want ErrBadSignature", err)
	}
}

func TestResultAck(t *testing.T) {
	if got := ResultAck(42); got != "OK42" {
		t.Errorf("ResultAck = %q, want OK42", got)
	}
}
