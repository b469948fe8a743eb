package entity

import "time"

// BillState is the step a bill payment conversation is waiting on.
type BillState string

const (
	BillStateType                BillState = "bill_type"
	BillStateNumber              BillState = "bill_number"
	BillStatePaymentConfirmation BillState = "payment_confirmation"
)

type BillType string

const (
	BillTypeElectricity BillType = "electricity"
	BillTypeWater       BillType = "water"
	BillTypeInternet    BillType = "internet"
)

// BillTypes lists the payable bill types in detection order.
var BillTypes = []BillType{BillTypeElectricity, BillTypeWater, BillTypeInternet}

func IsValidBillType(s string) bool {
	for _, t := range BillTypes {
		if string(t) == s {
			return true
		}
	}
	return false
}

// BillSession is one user's in-progress bill payment.
type BillSession struct {
	UserID     string
	State      BillState
	BillType   BillType
	BillNumber string
	AmountPKR  int
	LastActive time.Time
}

// Valid reports whether the session fields agree with its state.
func (s BillSession) Valid() bool {
	switch s.State {
	case BillStateType:
		return s.AmountPKR == 0
	case BillStateNumber:
		return IsValidBillType(string(s.BillType)) && s.AmountPKR == 0
	case BillStatePaymentConfirmation:
		return IsValidBillType(string(s.BillType)) && s.BillNumber != "" && s.AmountPKR > 0
	default:
		return false
	}
}

// IdleFor returns how long the session has been untouched at now.
func (s BillSession) IdleFor(now time.Time) time.Duration {
	return now.Sub(s.LastActive)
}
