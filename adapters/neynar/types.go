package neynar

import "github.com/farfully/farfully/core"

// userEnvelope covers the two envelope shapes the endpoints return: the
// single-record form {"user": {...}} and the collection form
// {"users": [{...}]}.
type userEnvelope struct {
	User  *wireUser  `json:"user"`
	Users []wireUser `json:"users"`
}

func (e *userEnvelope) first() (*wireUser, error) {
	if e.User != nil {
		return e.User, nil
	}
	if len(e.Users) > 0 {
		return &e.Users[0], nil
	}
	return nil, core.ErrUserNotFound
}

// wireUser mirrors Neynar's snake_case user payload.
type wireUser struct {
	FID            int64  `json:"fid"`
	Username       string `json:"username"`
	DisplayName    string `json:"display_name"`
	PfpURL         string `json:"pfp_url"`
	FollowerCount  int    `json:"follower_count"`
	FollowingCount int    `json:"following_count"`

	Profile struct {
		Bio struct {
			Text string `json:"text"`
		} `json:"bio"`
		Location struct {
			Address struct {
				City    string `json:"city"`
				State   string `json:"state"`
				Country string `json:"country"`
			} `json:"address"`
		} `json:"location"`
	} `json:"profile"`

	VerifiedAccounts []struct {
		Platform string `json:"platform"`
		Username string `json:"username"`
	} `json:"verified_accounts"`

	VerifiedAddresses struct {
		EthAddresses []string `json:"eth_addresses"`
	} `json:"verified_addresses"`
}

func (u *wireUser) toProfile() (*core.RichProfile, error) {
	if u.FID <= 0 {
		return nil, core.ErrMissingFID
	}

	profile := &core.RichProfile{
		Profile: core.Profile{
			FID:         u.FID,
			Username:    u.Username,
			DisplayName: u.DisplayName,
			PfpURL:      u.PfpURL,
		},
		Bio:            u.Profile.Bio.Text,
		FollowerCount:  u.FollowerCount,
		FollowingCount: u.FollowingCount,
	}

	for _, account := range u.VerifiedAccounts {
		profile.VerifiedAccounts = append(profile.VerifiedAccounts, core.VerifiedAccount{
			Platform: account.Platform,
			Username: account.Username,
		})
	}
	profile.VerifiedEthAddresses = append(profile.VerifiedEthAddresses, u.VerifiedAddresses.EthAddresses...)

	address := u.Profile.Location.Address
	if address.City != "" || address.State != "" || address.Country != "" {
		profile.Location = &core.Location{
			City:    address.City,
			State:   address.State,
			Country: address.Country,
		}
	}

	return profile, nil
}
