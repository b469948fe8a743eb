package finance

import "FintechAgent/pkg/response"

var (
	ErrInvalidTransactions = response.NewError(400, "invalid transactions")
	ErrInvalidProfile      = response.NewError(400, "invalid investment profile")
	ErrInvalidInterest     = response.NewError(400, "invalid compound interest input")
	ErrInvalidTerm         = response.NewError(400, "invalid financial term")
)
