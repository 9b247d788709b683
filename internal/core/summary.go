package core

// Money is an amount in integer cents.
type Money struct {
	Cents int64
}

// Summary holds the headline KPIs for a set of transactions.
type Summary struct {
	Revenue        Money
	Transactions   int
	AvgTransaction Money
}

// DailySales is revenue aggregated over one calendar day.
type DailySales struct {
	Date    Date
	Revenue Money
}

// ItemRevenue is revenue aggregated by item name.
type ItemRevenue struct {
	Item    string
	Revenue Money
}

// LocationRevenue is revenue aggregated by sales channel.
type LocationRevenue struct {
	Location Location
	Revenue  Money
}

// PaymentShare is the relative frequency of one payment method.
type PaymentShare struct {
	Method string
	Count  int
	Share  float64 // 0..1 fraction of all counted transactions
}
