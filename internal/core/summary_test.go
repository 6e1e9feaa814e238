package core

import (
	"math"
	"testing"
	"time"
)

func expense(amount float64, paidBy string) Expense {
	return Expense{
		ID:          paidBy + "-" + time.Now().Format("150405.000"),
		Description: "gasto",
		AmountBRL:   amount,
		PaidBy:      paidBy,
		Category:    CategoryGeneral,
	}
}

func TestComputeSummaryEmpty(t *testing.T) {
	s := ComputeSummary(nil, nil)
	if s.TotalBRL != 0 || s.PerHeadBRL != 0 {
		t.Fatalf("expected zero totals, got %+v", s)
	}
	if len(s.Balances) != 0 {
		t.Fatalf("expected empty balance map, got %v", s.Balances)
	}
}

func TestComputeSummaryNoPersons(t *testing.T) {
	// Division guard: expenses without persons must not produce NaN.
	s := ComputeSummary(nil, []Expense{expense(100, "ghost")})
	if s.TotalBRL != 100 {
		t.Fatalf("total = %v, want 100", s.TotalBRL)
	}
	if s.PerHeadBRL != 0 || math.IsNaN(s.PerHeadBRL) {
		t.Fatalf("perHead = %v, want 0", s.PerHeadBRL)
	}
}

func TestComputeSummaryTwoPersons(t *testing.T) {
	persons := []Person{{ID: "a", Name: "A"}, {ID: "b", Name: "B"}}
	s := ComputeSummary(persons, []Expense{expense(100, "a")})

	if s.TotalBRL != 100 {
		t.Fatalf("total = %v, want 100", s.TotalBRL)
	}
	if s.PerHeadBRL != 50 {
		t.Fatalf("perHead = %v, want 50", s.PerHeadBRL)
	}
	// balance = perHead - paid: A overpaid (negative, is owed), B owes.
	if s.Balances["a"] != -50 {
		t.Fatalf("balance[a] = %v, want -50", s.Balances["a"])
	}
	if s.Balances["b"] != 50 {
		t.Fatalf("balance[b] = %v, want 50", s.Balances["b"])
	}
}

func TestBalancesSumToZero(t *testing.T) {
	persons := []Person{{ID: "a"}, {ID: "b"}, {ID: "c"}}
	expenses := []Expense{
		expense(123.45, "a"),
		expense(10, "b"),
		expense(0.07, "b"),
		expense(999.99, "c"),
	}
	s := ComputeSummary(persons, expenses)

	var sum float64
	for _, b := range s.Balances {
		sum += b
	}
	if math.Abs(sum) > 1e-9 {
		t.Fatalf("balances sum = %v, want ~0", sum)
	}
}

func TestDeletedPayerCountsTowardTotalOnly(t *testing.T) {
	persons := []Person{{ID: "a"}, {ID: "b"}}
	expenses := []Expense{
		expense(60, "a"),
		expense(40, "gone"), // payer deleted after paying
	}
	s := ComputeSummary(persons, expenses)

	if s.TotalBRL != 100 {
		t.Fatalf("total = %v, want 100", s.TotalBRL)
	}
	if s.PerHeadBRL != 50 {
		t.Fatalf("perHead = %v, want 50", s.PerHeadBRL)
	}
	if _, ok := s.Balances["gone"]; ok {
		t.Fatalf("balance map must only hold current persons")
	}
	if s.Balances["a"] != -10 || s.Balances["b"] != 50 {
		t.Fatalf("balances = %v", s.Balances)
	}
}

func TestConvert(t *testing.T) {
	rates := ExchangeRates{USD: 0.2, ARS: 250}
	c := Convert(10, rates)
	if c.USD != 2 || c.ARS != 2500 {
		t.Fatalf("converted = %+v", c)
	}
}
