// Package kv implements the usecase repositories as JSON records over an
// injected key-value Store. Record IDs are ULIDs, so ascending key order is
// chronological order for every prefix.
package kv

const (
	memberPrefix      = "member:"
	transactionPrefix = "txn:"
	journalPrefix     = "journal:"
	stockPrefix       = "stock:"
	ratioPrefix       = "ratio:"
	auditPrefix       = "audit:"
)

func memberKey(id string) string      { return memberPrefix + id }
func transactionKey(id string) string { return transactionPrefix + id }
func journalKey(id string) string     { return journalPrefix + id }
func stockKey(code string) string     { return stockPrefix + code }
func auditKey(id string) string       { return auditPrefix + id }

func ratioKey(baseProduct, fromUnit, toUnit string) string {
	return ratioPrefix + baseProduct + "|" + fromUnit + "|" + toUnit
}
