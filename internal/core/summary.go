package core

// Summary is the even-split settlement view over the current persons and
// expenses. Balances follow the convention balance = perHead - paidTotal:
// a negative balance means the person paid more than their share and is
// owed money back; a positive balance means they still owe.
type Summary struct {
	TotalBRL   float64            `json:"totalBRL"`
	PerHeadBRL float64            `json:"perHeadBRL"`
	Balances   map[string]float64 `json:"balances"`
}

// Converted is an amount projected into the two secondary currencies.
type Converted struct {
	USD float64 `json:"USD"`
	ARS float64 `json:"ARS"`
}

// ComputeSummary computes total spend, the even per-head split, and each
// person's signed balance. Pure function, no I/O.
//
// The balance map holds entries only for the persons passed in. An expense
// paid by someone no longer in the list still counts toward the total but
// contributes no balance entry; that payer may have been deleted after
// paying.
func ComputeSummary(persons []Person, expenses []Expense) Summary {
	var total float64
	for _, e := range expenses {
		total += e.AmountBRL
	}

	perHead := 0.0
	if len(persons) > 0 {
		perHead = total / float64(len(persons))
	}

	balances := make(map[string]float64, len(persons))
	for _, p := range persons {
		balances[p.ID] = perHead
	}
	for _, e := range expenses {
		if _, ok := balances[e.PaidBy]; ok {
			balances[e.PaidBy] -= e.AmountBRL
		}
	}

	return Summary{
		TotalBRL:   total,
		PerHeadBRL: perHead,
		Balances:   balances,
	}
}

// Convert projects a BRL amount through a rate snapshot. Linear scaling
// only; rounding is left to the presentation layer.
func Convert(amountBRL float64, rates ExchangeRates) Converted {
	return Converted{
		USD: amountBRL * rates.USD,
		ARS: amountBRL * rates.ARS,
	}
}
