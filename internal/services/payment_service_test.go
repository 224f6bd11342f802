package services

import (
	"context"
	"fmt"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/payalife/lms-backend/internal/gateway"
	"github.com/payalife/lms-backend/internal/models"
)

const (
	frontendURL = "https://payalife.test"
	callbackURL = "https://payalife.test/api/v1/payment/callback"
)

func newPaymentFixture() (*PaymentService, *fakeTransactions, *fakeEnrollments, *fakeGateway) {
	enrollments := &fakeEnrollments{}
	txns := newFakeTransactions(enrollments)
	gw := &fakeGateway{authority: "A0001", refID: 424242}
	svc := NewPaymentService(txns, gw, frontendURL, callbackURL, slog.Default())
	return svc, txns, enrollments, gw
}

func paidCourse() models.Course {
	return models.Course{ID: "course-1", Title: "Go Deep", Price: 500000, IsPublished: true}
}

func TestInitiateRecordsPendingTransaction(t *testing.T) {
	svc, txns, _, _ := newPaymentFixture()

	authority, payURL, err := svc.Initiate(context.Background(), "user-1", paidCourse())
	require.NoError(t, err)
	assert.Equal(t, "A0001", authority)
	assert.Equal(t, "https://gateway.test/start/A0001", payURL)

	txn, err := txns.GetPendingByAuthority(context.Background(), "A0001")
	require.NoError(t, err)
	assert.Equal(t, int64(500000), txn.Amount)
	assert.Equal(t, "user-1", txn.UserID)
	assert.Equal(t, models.TxnPending, txn.Status)
}

func TestInitiateGatewayFailure(t *testing.T) {
	svc, _, _, gw := newPaymentFixture()
	gw.requestErr = fmt.Errorf("gateway down")

	_, _, err := svc.Initiate(context.Background(), "user-1", paidCourse())
	assert.Error(t, err)
}

func TestCallbackSuccessEnrollsOnce(t *testing.T) {
	svc, txns, enrollments, _ := newPaymentFixture()
	ctx := context.Background()
	_, _, err := svc.Initiate(ctx, "user-1", paidCourse())
	require.NoError(t, err)

	redirect := svc.HandleCallback(ctx, "A0001", "OK")
	assert.Equal(t, frontendURL+"/payment/success?refId=424242", redirect)

	list, _ := enrollments.ListByUser(ctx, "user-1")
	require.Len(t, list, 1)
	assert.Equal(t, "course-1", list[0].CourseID)
	assert.Equal(t, int64(500000), list[0].PricePaid)

	// The transaction left PENDING.
	_, err = txns.GetPendingByAuthority(ctx, "A0001")
	assert.Error(t, err)
}

func TestCallbackDoubleDelivery(t *testing.T) {
	svc, _, enrollments, _ := newPaymentFixture()
	ctx := context.Background()
	_, _, err := svc.Initiate(ctx, "user-1", paidCourse())
	require.NoError(t, err)

	first := svc.HandleCallback(ctx, "A0001", "OK")
	second := svc.HandleCallback(ctx, "A0001", "OK")

	assert.Contains(t, first, "/payment/success")
	assert.Contains(t, second, "error=transaction_not_found")

	list, _ := enrollments.ListByUser(ctx, "user-1")
	assert.Len(t, list, 1)
}

func TestCallbackCanceledByUser(t *testing.T) {
	svc, txns, enrollments, gw := newPaymentFixture()
	ctx := context.Background()
	_, _, err := svc.Initiate(ctx, "user-1", paidCourse())
	require.NoError(t, err)

	redirect := svc.HandleCallback(ctx, "A0001", "NOK")
	assert.Contains(t, redirect, "/payment/failed?error=canceled")
	assert.Zero(t, gw.verifyCalls)

	// The cancellation touches nothing: the row stays PENDING for the
	// sweeper and no enrollment is created.
	txn, err := txns.GetPendingByAuthority(ctx, "A0001")
	require.NoError(t, err)
	assert.Equal(t, models.TxnPending, txn.Status)
	list, _ := enrollments.ListByUser(ctx, "user-1")
	assert.Empty(t, list)
}

func TestCallbackCompletesWhenAlreadyEnrolled(t *testing.T) {
	svc, txns, enrollments, _ := newPaymentFixture()
	ctx := context.Background()
	course := paidCourse()
	enrollments.add(models.Enrollment{UserID: "user-1", CourseID: course.ID, Status: models.EnrollmentCompleted})

	_, _, err := svc.Initiate(ctx, "user-1", course)
	require.NoError(t, err)
	const authority = "A0001"

	// The charge went through at the gateway, so the settlement must land
	// even though the enrollment already exists.
	redirect := svc.HandleCallback(ctx, authority, "OK")
	assert.Contains(t, redirect, "/payment/success")

	_, err = txns.GetPendingByAuthority(ctx, authority)
	assert.Error(t, err, "transaction should be settled COMPLETED")
	list, _ := enrollments.ListByUser(ctx, "user-1")
	assert.Len(t, list, 1)
}

func TestCallbackUnknownAuthority(t *testing.T) {
	svc, _, _, _ := newPaymentFixture()

	redirect := svc.HandleCallback(context.Background(), "missing", "OK")
	assert.Contains(t, redirect, "error=transaction_not_found")
}

func TestCallbackVerificationRejected(t *testing.T) {
	svc, txns, enrollments, gw := newPaymentFixture()
	ctx := context.Background()
	_, _, err := svc.Initiate(ctx, "user-1", paidCourse())
	require.NoError(t, err)

	gw.verifyErr = &gateway.ProviderError{Code: -51, Message: "session failed"}
	redirect := svc.HandleCallback(ctx, "A0001", "OK")
	assert.Contains(t, redirect, "error=verification_failed")

	_, err = txns.GetPendingByAuthority(ctx, "A0001")
	assert.Error(t, err, "transaction should no longer be pending")
	list, _ := enrollments.ListByUser(ctx, "user-1")
	assert.Empty(t, list)
}

func TestCallbackVerifyTransportError(t *testing.T) {
	svc, txns, enrollments, gw := newPaymentFixture()
	ctx := context.Background()
	_, _, err := svc.Initiate(ctx, "user-1", paidCourse())
	require.NoError(t, err)

	gw.verifyErr = fmt.Errorf("dial tcp: i/o timeout")
	redirect := svc.HandleCallback(ctx, "A0001", "OK")
	assert.Contains(t, redirect, "error=server_error")

	// A network blip does not settle anything; the charge may have gone
	// through at the gateway.
	txn, err := txns.GetPendingByAuthority(ctx, "A0001")
	require.NoError(t, err)
	assert.Equal(t, models.TxnPending, txn.Status)
	list, _ := enrollments.ListByUser(ctx, "user-1")
	assert.Empty(t, list)
}
