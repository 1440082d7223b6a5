package policy

import "fmt"

// PricePairInput carries the raw payload values of a (total, paid) pair with
// the persisted current values (in cents) used as fallback on updates.
type PricePairInput struct {
	Total *string
	Paid  *string

	CurrentTotal *int64
	CurrentPaid  *int64
}

// PricePairOpts configures the price-pair assertion.
type PricePairOpts struct {
	TotalField string
	PaidField  string
	Require    Presence
}

// CheckPricePair asserts presence and validity of a monetary pair and the
// invariant paid <= total.  Absent payload fields fall back to the persisted
// current values before the pair check runs.
func CheckPricePair(in PricePairInput, opts PricePairOpts) error {
	if err := checkPresence(opts.Require, in.Total != nil, in.Paid != nil, opts.TotalField, opts.PaidField); err != nil {
		return err
	}

	total := in.CurrentTotal
	if in.Total != nil {
		cents, err := ParseAmount(opts.TotalField, *in.Total)
		if err != nil {
			return err
		}
		total = &cents
	}
	paid := in.CurrentPaid
	if in.Paid != nil {
		cents, err := ParseAmount(opts.PaidField, *in.Paid)
		if err != nil {
			return err
		}
		paid = &cents
	}

	if total != nil && paid != nil && *paid > *total {
		return violation(fmt.Sprintf("%s must not exceed %s", opts.PaidField, opts.TotalField), opts.TotalField, opts.PaidField)
	}
	return nil
}
