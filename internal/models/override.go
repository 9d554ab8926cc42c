package models

// OverrideKey identifies an override entry by canonical merchant and the
// bank-assigned category.
type OverrideKey struct {
	Merchant     string
	BankCategory string
}

// OverrideTable maps override keys to budget categories. It is the
// highest-precedence classification signal and is edited through the
// categorize command.
type OverrideTable map[OverrideKey]string

// Clone returns a shallow copy so a resolver can hold the table without
// seeing later edits.
func (t OverrideTable) Clone() OverrideTable {
	out := make(OverrideTable, len(t))
	for k, v := range t {
		out[k] = v
	}
	return out
}
