package config

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/bufbuild/connect-go"
	idmv1 "github.com/tierklinik-dobersberg/apis/gen/go/tkd/idm/v1"
	"github.com/tierklinik-dobersberg/apis/gen/go/tkd/idm/v1/idmv1connect"
	"github.com/tierklinik-dobersberg/apis/pkg/log"
	"github.com/tierklinik-dobersberg/markdown-service/internal/goldmark-extensions/mentions"
	"github.com/tierklinik-dobersberg/markdown-service/internal/markdown"
	"github.com/tierklinik-dobersberg/markdown-service/internal/repo"
)

type Providers struct {
	Config Config

	// Repository is nil if no database is configured.
	Repository *repo.Repository

	// Users is nil if no IDM is configured.
	Users idmv1connect.UserServiceClient

	urlFilter markdown.URLFilter
}

func NewProviders(ctx context.Context, cfg Config) (*Providers, error) {
	p := &Providers{
		Config:    cfg,
		urlFilter: markdown.NewURLFilter(cfg.AutolinkedURLSchemes),
	}

	if cfg.DatabaseURL != "" {
		r, err := repo.NewRepository(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to prepare repository: %w", err)
		}

		p.Repository = r
	} else {
		log.L(ctx).Infof("no database configured, channel and post endpoints are disabled")
	}

	if cfg.IdmURL != "" {
		p.Users = idmv1connect.NewUserServiceClient(http.DefaultClient, cfg.IdmURL)
	}

	return p, nil
}

// ParserOverrides replace configured parser settings for a single request.
// Zero values keep the configured value.
type ParserOverrides struct {
	MinimumHashtagLength int
	AutolinkedURLSchemes []string
}

// NewPipeline creates a markdown pipeline for a single request. ctx is used
// when resolving mentions.
func (p *Providers) NewPipeline(ctx context.Context, overrides ParserOverrides) *markdown.Pipeline {
	opts := markdown.ParserOptions{
		Context:              ctx,
		URLFilter:            p.urlFilter,
		MinimumHashtagLength: p.Config.MinimumHashtagLength,
	}

	if overrides.MinimumHashtagLength > 0 {
		opts.MinimumHashtagLength = overrides.MinimumHashtagLength
	}

	if len(overrides.AutolinkedURLSchemes) > 0 {
		opts.URLFilter = markdown.NewURLFilter(overrides.AutolinkedURLSchemes)
	}

	if p.Users != nil {
		opts.MentionResolver = p.mentionResolver(ctx)
	}

	return markdown.NewPipeline(markdown.NewParser(opts))
}

func (p *Providers) mentionResolver(ctx context.Context) mentions.Resolver {
	return mentions.ResolverFunc(func(n *mentions.Node) (*idmv1.Profile, error) {
		res, err := p.Users.GetUser(ctx, connect.NewRequest(&idmv1.GetUserRequest{
			Search: &idmv1.GetUserRequest_Name{
				Name: string(n.Name),
			},
		}))

		if err != nil {
			var cerr *connect.Error
			if !errors.As(err, &cerr) || cerr.Code() != connect.CodeNotFound {
				log.L(ctx).Infof("failed to get user by name: %q: %s", string(n.Name), err)

				return nil, err
			}

			log.L(ctx).Debugf("failed to find user by name %q, trying by id", string(n.Name))

			res, err = p.Users.GetUser(ctx, connect.NewRequest(&idmv1.GetUserRequest{
				Search: &idmv1.GetUserRequest_Id{
					Id: string(n.Name),
				},
			}))
		}

		if err != nil {
			return nil, err
		}

		return res.Msg.GetProfile(), nil
	})
}

// Close releases the database connection, if any.
func (p *Providers) Close(ctx context.Context) error {
	if p.Repository == nil {
		return nil
	}

	return p.Repository.Close(ctx)
}
