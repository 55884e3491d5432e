package types

const (
	// ModuleName defines the module name
	ModuleName = "amm"

	// StoreKey defines the primary module store key
	StoreKey = ModuleName

	// RouterKey defines the module's message routing key
	RouterKey = ModuleName

	// QuerierRoute defines the module's query routing key
	QuerierRoute = ModuleName

	// FactoryAccountName is the derivation key of the account allowed to initialize pairs.
	FactoryAccountName = "factory"

	// RouterAccountName is the derivation key of the escrow account holding
	// intermediate amounts while a route executes.
	RouterAccountName = "router"
)
