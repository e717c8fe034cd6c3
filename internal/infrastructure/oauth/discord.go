package oauth

import (
	"context"
	"errors"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/endpoints"

	"github.com/luminara-systems/platform-api/internal/core/domain"
	"github.com/luminara-systems/platform-api/internal/core/ports"
)

// Discord exchanges authorization codes with discord.com and reads the
// current-user endpoint.
type Discord struct {
	cfg     *oauth2.Config
	userURL string
}

func NewDiscord(clientID, clientSecret, baseURL string) *Discord {
	return &Discord{
		cfg: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  baseURL + "/auth/discord/callback",
			Scopes:       []string{"identify", "email"},
			Endpoint:     endpoints.Discord,
		},
		userURL: "https://discord.com/api/users/@me",
	}
}

func (d *Discord) Name() string { return domain.ProviderDiscord }

func (d *Discord) AuthCodeURL(state string) string {
	return d.cfg.AuthCodeURL(state)
}

func (d *Discord) FetchIdentity(ctx context.Context, code string) (ports.Identity, error) {
	ctx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	tok, err := d.cfg.Exchange(ctx, code)
	if err != nil || tok.AccessToken == "" {
		return ports.Identity{}, errors.Join(domain.ErrOAuthExchange, err)
	}

	var profile struct {
		ID       string `json:"id"`
		Username string `json:"username"`
		Email    string `json:"email"`
	}
	if err := getJSON(ctx, d.cfg.Client(ctx, tok), d.userURL, &profile); err != nil {
		return ports.Identity{}, err
	}

	return ports.Identity{
		Provider:   domain.ProviderDiscord,
		ExternalID: profile.ID,
		Username:   profile.Username,
		Email:      profile.Email,
	}, nil
}
