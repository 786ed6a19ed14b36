package internal

type Account struct {
	Platform string
	Name     string
	Auth     string
}

func (a Account) ID() string {
	return a.Platform + "/" + a.Name
}

// Calendar is one configured event source: a provider calendar (for
// google) or a subscription URL (for ics), tied to the account that
// can read it.
type Calendar struct {
	ID         string
	Name       string
	ProviderID string
	Account    Account
}

func (c Calendar) String() string {
	return c.ID
}
