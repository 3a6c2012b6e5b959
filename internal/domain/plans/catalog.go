package plans

// The price table is fixed and currency-agnostic. 40 and 60 are the
// yearly SKUs of NORMAL and PRO respectively.
type CatalogEntry struct {
	Tier     string  `json:"plan"`
	Duration string  `json:"duration"`
	Price    float64 `json:"price"`
}

var catalog = []CatalogEntry{
	{Tier: TierNormal, Duration: DurationMonth, Price: 15},
	{Tier: TierNormal, Duration: DurationYear, Price: 40},
	{Tier: TierPro, Duration: DurationMonth, Price: 16},
	{Tier: TierPro, Duration: DurationYear, Price: 60},
}

// ResolveAmount maps a paid amount to a tier and duration bucket.
// Unrecognized amounts resolve to FREE so an unknown payment never
// grants paid access.
func ResolveAmount(amount float64) (tier string, duration string) {
	for _, e := range catalog {
		if e.Price == amount {
			return e.Tier, e.Duration
		}
	}
	return TierFree, DurationMonth
}

// Price is the reverse lookup used when creating gateway invoices.
func Price(tier, duration string) (float64, bool) {
	for _, e := range catalog {
		if e.Tier == tier && e.Duration == duration {
			return e.Price, true
		}
	}
	return 0, false
}

// Catalog returns the purchasable price points.
func Catalog() []CatalogEntry {
	out := make([]CatalogEntry, len(catalog))
	copy(out, catalog)
	return out
}
