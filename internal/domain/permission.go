package domain

// Permission is a capability id granted to a requester.
type Permission int

const (
	PermSuperAdmin Permission = 100

	PermAccountViewOwn     Permission = 200
	PermAccountCreate      Permission = 210
	PermAccountUpdateOwn   Permission = 220
	PermAccountDepositOwn  Permission = 230
	PermAccountWithdrawOwn Permission = 240
	PermAccountAdmin       Permission = 250

	PermTransactionViewOwn Permission = 300
)

// DemoGrants is the permission set the demo deployment hands every requester.
// It is only ever applied through configuration.
var DemoGrants = []Permission{
	PermSuperAdmin,
	PermAccountViewOwn,
	PermAccountCreate,
	PermAccountUpdateOwn,
	PermAccountDepositOwn,
	PermAccountWithdrawOwn,
	PermAccountAdmin,
	PermTransactionViewOwn,
}

// PublicUserID is the user every seeded account belongs to.
const PublicUserID int64 = 1
