package model

// Universe is the fixed set of source symbols ingested each cycle, grouped by
// category. It is built once at startup from config and threaded through the
// ingestor and scheduler instead of being read from globals.
type Universe struct {
	Stocks  []string
	Forex   []string
	Indices []string
	Crypto  []string
}

// Member pairs a source symbol with its category.
type Member struct {
	Category Category
	Symbol   string
}

// Members returns every (category, symbol) pair in a stable order:
// stocks, forex, indices, crypto.
func (u Universe) Members() []Member {
	members := make([]Member, 0, u.Size())
	for _, s := range u.Stocks {
		members = append(members, Member{CategoryStock, s})
	}
	for _, s := range u.Forex {
		members = append(members, Member{CategoryForex, s})
	}
	for _, s := range u.Indices {
		members = append(members, Member{CategoryIndex, s})
	}
	for _, s := range u.Crypto {
		members = append(members, Member{CategoryCrypto, s})
	}
	return members
}

// Size returns the number of symbols across all categories.
func (u Universe) Size() int {
	return len(u.Stocks) + len(u.Forex) + len(u.Indices) + len(u.Crypto)
}
