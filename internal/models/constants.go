package models

// Account types
const (
	AccountTypeCredit   = "credit"
	AccountTypeChecking = "checking"
)

// Checking transaction types
const (
	TxTypeIncome   = "income"
	TxTypeTransfer = "transfer"
	TxTypeExpense  = "expense"
)

// Income sources
const (
	IncomeSourcePayroll   = "Payroll"
	IncomeSourceACHCredit = "ACH Credit"
	IncomeSourceDeposit   = "Deposit"
	IncomeSourceOther     = "Other Income"
)

// Sentinel categories
const (
	BankCategoryUncategorized = "Uncategorized"
	CategoryPersonal          = "Personal"
)

// BudgetCategories is the closed set of household budget labels. Every
// resolved transaction carries exactly one of these.
var BudgetCategories = []string{
	"Home Electricity", "Home Water/Trash", "Home Furniture", "Internet",
	"Phone Bill", "HOA Bill", "Home Maintenance", "Car Registration",
	"Discord Subscription", "Spotify Subscription", "Amazon Prime Subscription",
	"Gym Membership", "Chase Sapphire Preferred Fee", "Costco Membership",
	"Groceries", "Gas", "Restaurants", "Health / Doctors", "Car Maintenance",
	"Pest control", "Landscaping", "Games", "Vacation", "Personal",
}

// DefaultTags are the note tags offered before any custom tags exist.
var DefaultTags = []string{
	"Tax Deductible", "Reimbursable", "Gift", "Business", "Impulse Buy", "Split Cost",
}

// IsBudgetCategory reports whether name is a member of the fixed category set.
func IsBudgetCategory(name string) bool {
	for _, c := range BudgetCategories {
		if c == name {
			return true
		}
	}
	return false
}
