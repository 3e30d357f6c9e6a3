package model

import "time"

// Account roles as stored in accounts.role.  Admins manage the whole
// system, sellers represent branch staff and buyers are end customers.
const (
	RoleAdmin  = "admin"
	RoleSeller = "seller"
	RoleBuyer  = "buyer"
)

// Account represents a person or organization with system access, as
// stored in the `accounts` table.  The json tags are omitted here
// because these structs are used by the repository layer; handlers
// define separate response types so that PasswordHash can never leak
// into a serialized payload.
//
// Fields:
//  ID           – primary key identifier.
//  AccountName  – unique login name.
//  Role         – one of admin, seller, buyer.
//  Name         – display name.
//  Email        – unique email address.
//  PasswordHash – bcrypt hashed password.
//  Phone        – contact phone number.
//  Address      – postal address.
//  CarName      – vehicle model, buyer accounts only.
//  CarNumber    – vehicle plate number, buyer accounts only.
//  CarDaeNumber – vehicle chassis number, buyer accounts only.
//  CreatedAt    – timestamp of creation.
//  UpdatedAt    – timestamp of last update.
type Account struct {
	ID           uint64    // accounts.id
	AccountName  string    // accounts.account_name
	Role         string    // accounts.role
	Name         string    // accounts.name
	Email        string    // accounts.email
	PasswordHash string    // accounts.password_hash
	Phone        string    // accounts.phone
	Address      string    // accounts.address
	CarName      string    // accounts.car_name
	CarNumber    string    // accounts.car_number
	CarDaeNumber string    // accounts.car_dae_number
	CreatedAt    time.Time // accounts.created_at
	UpdatedAt    time.Time // accounts.updated_at
}

// RefreshToken models an entry in the `refresh_tokens` table.  Each
// refresh token belongs to an account and carries metadata for expiry
// and revocation.  The plain token is not stored; only its SHA-256 hash.
//
// Fields:
//  ID        – primary key identifier.
//  AccountID – owner of the token.
//  TokenHash – SHA-256 hex digest of the token value.
//  ExpiresAt – expiration timestamp of the token.
//  RevokedAt – when the token was revoked (null if still active).
//  CreatedAt – timestamp of creation.
type RefreshToken struct {
	ID        uint64     // refresh_tokens.id
	AccountID uint64     // refresh_tokens.account_id
	TokenHash string     // refresh_tokens.token_hash
	ExpiresAt time.Time  // refresh_tokens.expires_at
	RevokedAt *time.Time // refresh_tokens.revoked_at (nullable)
	CreatedAt time.Time  // refresh_tokens.created_at
}
