package oauth

import (
	"context"
	"errors"
	"strconv"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/endpoints"

	"github.com/luminara-systems/platform-api/internal/core/domain"
	"github.com/luminara-systems/platform-api/internal/core/ports"
)

// GitHub exchanges authorization codes with github.com and reads the user and
// emails endpoints. The verified primary address becomes the identity email;
// accounts without one yield an empty email.
type GitHub struct {
	cfg       *oauth2.Config
	userURL   string
	emailsURL string
}

func NewGitHub(clientID, clientSecret, baseURL string) *GitHub {
	return &GitHub{
		cfg: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  baseURL + "/auth/github/callback",
			Scopes:       []string{"user:email"},
			Endpoint:     endpoints.GitHub,
		},
		userURL:   "https://api.github.com/user",
		emailsURL: "https://api.github.com/user/emails",
	}
}

func (g *GitHub) Name() string { return domain.ProviderGitHub }

func (g *GitHub) AuthCodeURL(state string) string {
	return g.cfg.AuthCodeURL(state)
}

func (g *GitHub) FetchIdentity(ctx context.Context, code string) (ports.Identity, error) {
	ctx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	tok, err := g.cfg.Exchange(ctx, code)
	if err != nil || tok.AccessToken == "" {
		return ports.Identity{}, errors.Join(domain.ErrOAuthExchange, err)
	}

	client := g.cfg.Client(ctx, tok)

	var profile struct {
		ID    int64  `json:"id"`
		Login string `json:"login"`
	}
	if err := getJSON(ctx, client, g.userURL, &profile); err != nil {
		return ports.Identity{}, err
	}

	var emails []struct {
		Email    string `json:"email"`
		Primary  bool   `json:"primary"`
		Verified bool   `json:"verified"`
	}
	if err := getJSON(ctx, client, g.emailsURL, &emails); err != nil {
		return ports.Identity{}, err
	}

	var primary string
	for _, e := range emails {
		if e.Primary && e.Verified {
			primary = e.Email
			break
		}
	}

	return ports.Identity{
		Provider:   domain.ProviderGitHub,
		ExternalID: strconv.FormatInt(profile.ID, 10),
		Username:   profile.Login,
		Email:      primary,
	}, nil
}
