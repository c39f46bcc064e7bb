package entities

import (
	"testing"
)

func TestExtractAccountNumber(t *testing.T) {
	s := Extract("My account number 123456789 was charged twice")
	if len(s.AccountNumbers) != 1 || s.AccountNumbers[0] != "123456789" {
		t.Errorf("expected account 123456789, got %v", s.AccountNumbers)
	}
}

func TestExtractAccountHashForm(t *testing.T) {
	s := Extract("please check account #887766554")
	if len(s.AccountNumbers) != 1 || s.AccountNumbers[0] != "887766554" {
		t.Errorf("expected account 887766554, got %v", s.AccountNumbers)
	}
}

func TestExtractProductName(t *testing.T) {
	s := Extract("I'm having trouble with WidgetPro")
	if len(s.ProductNames) != 1 || s.ProductNames[0] != "WidgetPro" {
		t.Errorf("expected product WidgetPro, got %v", s.ProductNames)
	}
}

func TestProductIgnoresSupportVocabulary(t *testing.T) {
	s := Extract("I need help with billing")
	if len(s.ProductNames) != 0 {
		t.Errorf("expected no products, got %v", s.ProductNames)
	}
}

func TestExtractOrderNumber(t *testing.T) {
	s := Extract("where is order #ABC12345")
	if len(s.OrderNumbers) != 1 || s.OrderNumbers[0] != "ABC12345" {
		t.Errorf("expected order ABC12345, got %v", s.OrderNumbers)
	}
}

func TestExtractDateAndAmount(t *testing.T) {
	s := Extract("I was charged $49.99 yesterday")

	if len(s.Dates) != 1 || s.Dates[0].Text != "yesterday" {
		t.Errorf("expected date yesterday, got %v", s.Dates)
	}
	if len(s.Amounts) != 1 {
		t.Fatalf("expected one amount, got %v", s.Amounts)
	}
	if s.Amounts[0].Text != "$49.99" || s.Amounts[0].Value != 49.99 {
		t.Errorf("unexpected amount: %+v", s.Amounts[0])
	}
}

func TestExtractDedupes(t *testing.T) {
	s := Extract("account 123456789, yes account 123456789")
	if len(s.AccountNumbers) != 1 {
		t.Errorf("expected deduplicated account, got %v", s.AccountNumbers)
	}
}

func TestSummary(t *testing.T) {
	s := Extract("My account number 123456789 was charged $49.99")
	got := s.Summary()
	want := "Account: 123456789 | Amount: $49.99"
	if got != want {
		t.Errorf("Summary: got %q, want %q", got, want)
	}
}

func TestSummaryEmpty(t *testing.T) {
	s := Extract("hello")
	if !s.Empty() {
		t.Errorf("expected empty set, got %+v", s)
	}
	if got := s.Summary(); got != "No entities found" {
		t.Errorf("Summary: got %q", got)
	}
}
