package service

import (
	"errors"
	"fmt"
	"strings"

	"connectrpc.com/connect"
	"github.com/go-playground/validator/v10"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/mmynk/tripledger/internal/calculator"
	"github.com/mmynk/tripledger/internal/storage"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// validateMessage checks the validate tags of a request message.
func validateMessage(msg any) error {
	err := validate.Struct(msg)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return connect.NewError(connect.CodeInvalidArgument, err)
	}
	msgs := make([]string, len(verrs))
	for i, fe := range verrs {
		msgs[i] = fmt.Sprintf("%s failed %q", fe.Field(), fe.Tag())
	}
	return connect.NewError(connect.CodeInvalidArgument, errors.New(strings.Join(msgs, "; ")))
}

// toConnectError maps domain and storage errors onto Connect codes.
func toConnectError(err error) error {
	var mismatch *calculator.SplitMismatchError
	switch {
	case errors.As(err, &mismatch):
		cerr := connect.NewError(connect.CodeInvalidArgument, err)
		detail, derr := structpb.NewStruct(map[string]any{
			"sum":    mismatch.Sum,
			"amount": mismatch.Amount,
		})
		if derr == nil {
			if d, derr := connect.NewErrorDetail(detail); derr == nil {
				cerr.AddDetail(d)
			}
		}
		return cerr
	case errors.Is(err, calculator.ErrInvalidAmount),
		errors.Is(err, calculator.ErrMissingField),
		errors.Is(err, calculator.ErrNoParticipants),
		errors.Is(err, calculator.ErrUnknownParticipant),
		errors.Is(err, calculator.ErrDuplicateParticipant),
		errors.Is(err, calculator.ErrInvalidCategory),
		errors.Is(err, calculator.ErrInvalidDate),
		errors.Is(err, calculator.ErrInvalidSplitType):
		return connect.NewError(connect.CodeInvalidArgument, err)
	case errors.Is(err, storage.ErrNotFound):
		return connect.NewError(connect.CodeNotFound, err)
	default:
		return connect.NewError(connect.CodeInternal, err)
	}
}

// SplitMismatchDetail extracts the {sum, amount} detail from a mismatch error
// returned by CreateExpense.
func SplitMismatchDetail(err error) (sum, amount float64, ok bool) {
	var cerr *connect.Error
	if !errors.As(err, &cerr) {
		return 0, 0, false
	}
	for _, d := range cerr.Details() {
		msg, verr := d.Value()
		if verr != nil {
			continue
		}
		st, isStruct := msg.(*structpb.Struct)
		if !isStruct {
			continue
		}
		fields := st.GetFields()
		if _, has := fields["sum"]; !has {
			continue
		}
		return fields["sum"].GetNumberValue(), fields["amount"].GetNumberValue(), true
	}
	return 0, 0, false
}
