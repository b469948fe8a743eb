package chatService

import (
	"context"
	"fmt"
	"strings"

	"FintechAgent/internal/api/chat"
	"FintechAgent/internal/entity"
	contextPkg "FintechAgent/pkg/context"
	"FintechAgent/pkg/metrics"
	"FintechAgent/pkg/utils"
	"github.com/sirupsen/logrus"
)

const (
	ReplyInvalidBillType     = "Invalid bill type. Type 'stop' to cancel or choose from electricity, water, or internet."
	ReplyInvalidBillNumber   = "Invalid bill number. Type 'stop' to cancel or enter a valid numeric bill number."
	ReplyInvalidConfirmation = "Invalid response. Type 'stop' to cancel or confirm with 'yes' or 'no'."
	ReplyPaymentCanceled     = "Payment canceled."

	MinAmountPKR = 500
	MaxAmountPKR = 5000
)

// advance applies one message to an active bill session.
func (s *chatService) advance(ctx context.Context, session entity.BillSession, input string) (string, error) {
	if !session.Valid() {
		s.sessions.Delete(session.UserID)
		return "", fmt.Errorf("%w: user %s in state %q", chat.ErrSessionStateCorrupted, session.UserID, session.State)
	}

	switch session.State {
	case entity.BillStateType:
		if !entity.IsValidBillType(input) {
			return ReplyInvalidBillType, nil
		}
		session.BillType = entity.BillType(input)
		session.State = entity.BillStateNumber
		s.sessions.Put(session)
		return askBillNumber(session.BillType), nil

	case entity.BillStateNumber:
		digits := strings.ReplaceAll(input, " ", "")
		if !utils.IsDigits(digits) {
			return ReplyInvalidBillNumber, nil
		}
		// Simulated billing lookup.
		session.AmountPKR = s.utils.RandomIntInclusive(MinAmountPKR, MaxAmountPKR)
		session.BillNumber = input
		session.State = entity.BillStatePaymentConfirmation
		s.sessions.Put(session)
		return fmt.Sprintf("Confirm payment of %d PKR for bill number %s? (yes/no)", session.AmountPKR, digits), nil

	case entity.BillStatePaymentConfirmation:
		switch input {
		case "yes", "y":
			s.sessions.Delete(session.UserID)
			metrics.BillPayments.WithLabelValues(string(session.BillType), "submitted").Inc()
			s.log.WithFields(logrus.Fields{
				"request_id":  contextPkg.GetRequestID(ctx),
				"user_id":     session.UserID,
				"bill_type":   session.BillType,
				"bill_number": session.BillNumber,
				"amount_pkr":  session.AmountPKR,
			}).Info("Bill payment submitted")
			return fmt.Sprintf("Payment of %d PKR for %s bill (Bill No: %s) has been successfully submitted.",
				session.AmountPKR, session.BillType, session.BillNumber), nil
		case "no", "n":
			s.sessions.Delete(session.UserID)
			metrics.BillPayments.WithLabelValues(string(session.BillType), "canceled").Inc()
			return ReplyPaymentCanceled, nil
		default:
			return ReplyInvalidConfirmation, nil
		}
	}

	return "", fmt.Errorf("%w: unhandled state %q", chat.ErrSessionStateCorrupted, session.State)
}

func askBillNumber(billType entity.BillType) string {
	return fmt.Sprintf("Please enter your %s bill number.", billType)
}
