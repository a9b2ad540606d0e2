//go:build pact
// +build pact

package pacttest

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

const (
	ProviderName = "payments-api"
	ConsumerName = "cashdesk-terminal"

	StateRegistrySeeded = "cash desk 1 and manager 1001 exist"
	StatePaymentOpen    = "open payment 1 exists"
	StatePaymentMissing = "no payment with id 404"
)

const (
	ExistingCashDesk  = 1
	ManagerNumber     = 1001
	ExistingPaymentID = int64(1)
	MissingPaymentID  = int64(404)

	ManagerFirstName = "Anna"
	ManagerLastName  = "Schmidt"
	ExamplePayDate   = "2024-05-17T09:00:00Z"
)

// PactDir returns the workspace-level directory for generated pact files.
func PactDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "pacts")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact dir: %v", err)
	}
	return dir
}

// PactFile returns the canonical pact file path for the cash desk terminal consumer.
func PactFile(t testing.TB) string {
	t.Helper()
	return filepath.Join(PactDir(t), ConsumerName+"-"+ProviderName+".json")
}

// LogDir returns the log output directory for pact-go.
func LogDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "bin", "pact-logs")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact log dir: %v", err)
	}
	return dir
}

// ExampleNewPayment provides stable request data for payment creation.
func ExampleNewPayment() map[string]any {
	return map[string]any{
		"cashDeskNumber":             ExistingCashDesk,
		"employeeRegistrationNumber": ManagerNumber,
		"paymentDateTime":            ExamplePayDate,
		"paymentType":                "Cash",
		"paymentItems": []map[string]any{
			{"articleName": "Milk", "amount": 2, "price": "1.2"},
		},
	}
}

// projectRoot walks up from this file to the workspace root.
func projectRoot(t testing.TB) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("cannot determine caller for pact paths")
	}
	return filepath.Clean(filepath.Join(filepath.Dir(file), "..", ".."))
}
