package core

import (
	"testing"
	"time"
)

func TestTransactionValidate(t *testing.T) {
	good := Transaction{
		Description: "groceries",
		Amount:      Money{Cents: 4200},
		Type:        TypeExpense,
		Date:        date(2025, 3, 10),
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := map[string]Transaction{
		"zero date":    {Description: "a", Amount: Money{Cents: 1}, Type: TypeExpense},
		"empty desc":   {Description: "  ", Amount: Money{Cents: 1}, Type: TypeExpense, Date: date(2025, 1, 1)},
		"zero amount":  {Description: "a", Type: TypeExpense, Date: date(2025, 1, 1)},
		"unknown type": {Description: "a", Amount: Money{Cents: 1}, Type: "REFUND", Date: date(2025, 1, 1)},
	}
	for name, tx := range bads {
		if err := tx.Validate(); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}

func TestRecurringTransactionValidate(t *testing.T) {
	good := RecurringTransaction{
		Description: "rent",
		Amount:      Money{Cents: 90000},
		Type:        TypeExpense,
		Frequency:   Monthly,
		NextDue:     date(2025, 4, 1),
		Active:      true,
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bad := good
	bad.Frequency = "quarterly"
	if err := bad.Validate(); err == nil {
		t.Error("expected error for unknown frequency")
	}

	bad = good
	bad.StartDate = date(2025, 5, 1)
	bad.EndDate = date(2025, 4, 1)
	if err := bad.Validate(); err == nil {
		t.Error("expected error for end before start")
	}

	bad = good
	bad.NextDue = time.Time{}
	if err := bad.Validate(); err == nil {
		t.Error("expected error for zero next due")
	}
}

func TestAccountValidate(t *testing.T) {
	good := Account{Name: "Main", Type: AccountChecking}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if err := (Account{Name: "x", Type: "WALLET"}).Validate(); err == nil {
		t.Error("expected error for unknown account type")
	}
	if err := (Account{Name: "c", Type: AccountCredit, DueDay: 40}).Validate(); err == nil {
		t.Error("expected error for due day out of range")
	}
}

func TestCategoryLabel(t *testing.T) {
	labels := CategoryLabels{"cat-42": "Pets"}

	cases := []struct {
		name string
		cat  Category
		want string
	}{
		{"system", Category{System: CategoryGroceries}, "Groceries"},
		{"custom resolved", Category{Custom: "cat-42"}, "Pets"},
		{"custom unresolved falls back to id", Category{Custom: "cat-99"}, "cat-99"},
		{"zero value", Category{}, UncategorizedLabel},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.cat.Label(labels); got != tc.want {
				t.Errorf("Label() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestCategoryKeyDisjoint(t *testing.T) {
	sys := Category{System: CategoryOther}
	cus := Category{Custom: "OTHER"}
	if sys.Key() == cus.Key() {
		t.Error("system and custom keys must not collide")
	}
	if (Category{}).Key() != UncategorizedLabel {
		t.Errorf("zero category key = %q", (Category{}).Key())
	}
}
