package api

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

func TestCodec_PlainStruct(t *testing.T) {
	partial := 2500.0
	req := UpdatePaymentStatusRequest{ExpenseID: "e1", ParticipantID: "2", PartialAmount: &partial}

	b, err := Codec{}.Marshal(&req)
	require.NoError(t, err)
	assert.JSONEq(t, `{"expenseId":"e1","participantId":"2","paid":false,"partialAmount":2500}`, string(b))

	var got UpdatePaymentStatusRequest
	require.NoError(t, Codec{}.Unmarshal(b, &got))
	assert.Equal(t, req.ExpenseID, got.ExpenseID)
	require.NotNil(t, got.PartialAmount)
	assert.Equal(t, partial, *got.PartialAmount)
}

func TestCodec_ProtoMessages(t *testing.T) {
	b, err := Codec{}.Marshal(&emptypb.Empty{})
	require.NoError(t, err)
	assert.JSONEq(t, `{}`, string(b))

	detail, err := structpb.NewStruct(map[string]any{"sum": 99000.0, "amount": 100000.0})
	require.NoError(t, err)
	b, err = Codec{}.Marshal(detail)
	require.NoError(t, err)
	assert.JSONEq(t, `{"sum":99000,"amount":100000}`, string(b))

	var empty emptypb.Empty
	assert.NoError(t, Codec{}.Unmarshal(nil, &empty))
	assert.NoError(t, Codec{}.Unmarshal([]byte(`{"unknown":1}`), &empty))
}

func TestCodec_EmptyBody(t *testing.T) {
	var req GetExpenseRequest
	require.NoError(t, Codec{}.Unmarshal(nil, &req))
	assert.Empty(t, req.ID)
}

func TestCodec_Malformed(t *testing.T) {
	var req GetExpenseRequest
	assert.Error(t, Codec{}.Unmarshal([]byte(`{"id":`), &req))
}
