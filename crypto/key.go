package crypto

import (
	"errors"

	"hwmob/types"
)

// Account holds the view and spend keypairs derived for one account
// index. Accounts are stateless: the engine recomputes one on demand
// from the seed via the driver and never caches it across events.
type Account struct {
	ViewPrivate  RistrettoPrivate
	SpendPrivate RistrettoPrivate
}

// ViewPublic returns the account's view public key.
func (a Account) ViewPublic() RistrettoPublic { return a.ViewPrivate.Public() }

// SpendPublic returns the account's spend public key.
func (a Account) SpendPublic() RistrettoPublic { return a.SpendPrivate.Public() }

// AccountFromSeed derives an Account from the 32-byte ed25519 seed the
// driver returns for path m/44'/866'/i'/0/0: the seed is split into two
// independent Ristretto scalars by domain-separated hashing, matching
// the project's "one BIP-32 leaf, two derived scalars" SLIP-10
// convention.
func AccountFromSeed(seed [32]byte) Account {
	return Account{
		ViewPrivate:  hashToScalar([]byte("account_view"), seed[:]),
		SpendPrivate: hashToScalar([]byte("account_spend"), seed[:]),
	}
}

// AccountPath returns the BIP-32-style path for account index i:
// m/44'/866'/i'/0/0, all levels hardened except the trailing two.
func AccountPath(index uint32) []uint32 {
	const hardened = 0x80000000
	return []uint32{44 | hardened, 866 | hardened, index | hardened, 0, 0}
}

// Subaddress derives the public view/spend keys visible to counterparties
// for subaddress index j of an account:
//
//	spend_j = Hs(view_private, j)*G + spend_public
//	view_j  = view_private * spend_j
//
// matching the standard subaddress construction: the spend key shifts
// by a per-index scalar tied to the view key, and the subaddress view
// key is the account view scalar applied to that shifted spend point.
func (a Account) Subaddress(index uint64) (view, spend RistrettoPublic) {
	idxScalar := a.subaddressIndexScalar(index)
	spend = idxScalar.Public().Add(a.SpendPublic())
	view = ScalarMul(a.ViewPrivate, spend)
	return view, spend
}

// SubaddressSpendPrivate derives the private spend scalar for
// subaddress index j, needed to compute shared secrets and to recover
// onetime private keys addressed to that subaddress.
func (a Account) SubaddressSpendPrivate(index uint64) RistrettoPrivate {
	return a.subaddressIndexScalar(index).Add(a.SpendPrivate)
}

func (a Account) subaddressIndexScalar(index uint64) RistrettoPrivate {
	viewBytes := a.ViewPrivate.Bytes()
	return hashToScalar([]byte("subaddress"), viewBytes[:], uint64LE(index))
}

// KX computes the Ristretto Diffie-Hellman shared secret priv*pub,
// compressed to 32 bytes. Used both for stealth-address unblinding and
// for the category-1 memo HMAC.
func KX(priv RistrettoPrivate, pub RistrettoPublic) [32]byte {
	shared := ScalarMul(priv, pub)
	return shared.Bytes()
}

// RecoverOnetimePrivate recovers the spending scalar for a tx-out
// addressed to (accountView, subaddressSpend) given the transaction's
// ephemeral public key P:
//
//	shared = Hs(view_private * P)
//	x'     = shared + subaddress_spend_private
//
// The caller must verify x'*G equals the tx-out's target key before
// trusting the result (I1); on mismatch the scalar must be zeroized.
func RecoverOnetimePrivate(txPublic RistrettoPublic, viewPrivate, subaddressSpendPrivate RistrettoPrivate) RistrettoPrivate {
	secret := ScalarMul(viewPrivate, txPublic)
	secretBytes := secret.Bytes()
	shared := hashToScalar([]byte("onetime"), secretBytes[:])
	return shared.Add(subaddressSpendPrivate)
}

// ComputeKeyImage derives I = x*Hp(P) for a recovered onetime private
// key x and its public key P, uniquely identifying the spent output.
func ComputeKeyImage(onetimePrivate RistrettoPrivate, onetimePublic RistrettoPublic) types.KeyImage {
	pubBytes := onetimePublic.Bytes()
	hp := hashToPoint("key_image", pubBytes[:])
	img := ScalarMul(onetimePrivate, hp)
	imgBytes := img.Bytes()
	var out types.KeyImage
	copy(out[:], imgBytes[:])
	return out
}

// RecoverAndVerifyOnetime recovers the onetime private key for a ring
// entry and verifies it against the entry's claimed target key,
// returning ErrOnetimeMismatch (mapped by callers to
// OnetimeKeyRecoveryFailed) on failure. The returned private key must
// be zeroized by the caller on any later failure path.
func RecoverAndVerifyOnetime(txPublic, target RistrettoPublic, viewPrivate, subaddressSpendPrivate RistrettoPrivate) (RistrettoPrivate, error) {
	x := RecoverOnetimePrivate(txPublic, viewPrivate, subaddressSpendPrivate)
	if !x.Public().Equal(target) {
		x.Zeroize()
		return RistrettoPrivate{}, ErrOnetimeMismatch
	}
	return x, nil
}

// ErrOnetimeMismatch is returned when a recovered onetime key does not
// match the claimed target key of the real ring entry.
var ErrOnetimeMismatch = errors.New("crypto: recovered onetime key does not match target")

func uint64LE(v uint64) []byte {
	b := make([]byte, 8)
	for i := 0; i < 8; i++ {
		b[i] = byte(v >> (8 * i))
	}
	return b
}
