package core

// Profile is the minimal identity record for a Farcaster account.
//
// This is the "identity" - who someone is. It is produced by the sign-in
// provider or restored from the session store. A Profile is never mutated in
// place; a newer record supersedes it wholesale.
type Profile struct {
	FID         int64  `json:"fid"`
	Username    string `json:"username"`
	DisplayName string `json:"displayName"`
	PfpURL      string `json:"pfpUrl"`
}

// Valid reports whether the record carries a usable Farcaster id.
func (p *Profile) Valid() bool {
	return p != nil && p.FID > 0
}

// Equal reports field-wise equality. Used to skip redundant writes to the
// session store.
func (p *Profile) Equal(o *Profile) bool {
	if p == nil || o == nil {
		return p == o
	}
	return *p == *o
}

// VerifiedAccount links a Farcaster account to a verified handle on another
// platform.
type VerifiedAccount struct {
	Platform string `json:"platform"`
	Username string `json:"username"`
}

// Location is the optional place attached to a profile.
type Location struct {
	City    string `json:"city,omitempty"`
	State   string `json:"state,omitempty"`
	Country string `json:"country,omitempty"`
}

// RichProfile is a Profile plus the social-graph data the board renders.
//
// A RichProfile dominates a plain Profile: once held for a given fid it must
// not be replaced by a plain record for the same fid.
type RichProfile struct {
	Profile

	Bio                  string            `json:"bio,omitempty"`
	FollowerCount        int               `json:"followerCount"`
	FollowingCount       int               `json:"followingCount"`
	VerifiedAccounts     []VerifiedAccount `json:"verifiedAccounts,omitempty"`
	VerifiedEthAddresses []string          `json:"verifiedEthAddresses,omitempty"`
	Location             *Location         `json:"location,omitempty"`
}

// Clone returns a deep copy so snapshot holders cannot mutate shared state.
func (r *RichProfile) Clone() *RichProfile {
	if r == nil {
		return nil
	}
	dup := *r
	if len(r.VerifiedAccounts) > 0 {
		dup.VerifiedAccounts = make([]VerifiedAccount, len(r.VerifiedAccounts))
		copy(dup.VerifiedAccounts, r.VerifiedAccounts)
	}
	if len(r.VerifiedEthAddresses) > 0 {
		dup.VerifiedEthAddresses = make([]string, len(r.VerifiedEthAddresses))
		copy(dup.VerifiedEthAddresses, r.VerifiedEthAddresses)
	}
	if r.Location != nil {
		loc := *r.Location
		dup.Location = &loc
	}
	return &dup
}
