package service

import (
	"context"
	"fmt"
	"net/http"
	"unicode/utf8"

	"github.com/bufbuild/connect-go"
	"github.com/hashicorp/go-multierror"
	"github.com/tierklinik-dobersberg/apis/pkg/log"
	"github.com/tierklinik-dobersberg/markdown-service/internal/config"
	"github.com/tierklinik-dobersberg/markdown-service/internal/markdown"
	"github.com/tierklinik-dobersberg/markdown-service/internal/models"
	"github.com/tierklinik-dobersberg/markdown-service/internal/render/html"
	"github.com/tierklinik-dobersberg/markdown-service/internal/render/instructions"
	"github.com/tierklinik-dobersberg/markdown-service/internal/render/term"
	"github.com/tierklinik-dobersberg/markdown-service/internal/repo"
	"google.golang.org/protobuf/types/known/structpb"
)

type Service struct {
	*config.Providers
}

func New(p *config.Providers) *Service {
	return &Service{
		Providers: p,
	}
}

type unaryFunc = func(context.Context, *connect.Request[structpb.Struct]) (*connect.Response[structpb.Struct], error)

// Register adds all service handlers to mux.
func (svc *Service) Register(mux *http.ServeMux, opts ...connect.HandlerOption) {
	for path, fn := range map[string]unaryFunc{
		RenderProcedure:        svc.Render,
		CreateChannelProcedure: svc.CreateChannel,
		ListChannelsProcedure:  svc.ListChannels,
		DeleteChannelProcedure: svc.DeleteChannel,
		CreatePostProcedure:    svc.CreatePost,
		UpdatePostProcedure:    svc.UpdatePost,
		GetPostProcedure:       svc.GetPost,
		ListPostsProcedure:     svc.ListPosts,
		GetThreadProcedure:     svc.GetThread,
	} {
		mux.Handle(path, connect.NewUnaryHandler(path, fn, opts...))
	}
}

func (svc *Service) Render(ctx context.Context, req *connect.Request[structpb.Struct]) (*connect.Response[structpb.Struct], error) {
	var msg RenderRequest
	if err := decode(req.Msg, &msg); err != nil {
		return nil, err
	}

	renderer, err := svc.newRenderer(ctx, msg.RenderSettings)
	if err != nil {
		return nil, err
	}

	rendered, err := renderer.render(msg.Text, msg.IsEdited)
	if err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}

	return encode(RenderResponse{
		Format:   renderer.format,
		Rendered: rendered,
	})
}

// Channel Management

func (svc *Service) CreateChannel(ctx context.Context, req *connect.Request[structpb.Struct]) (*connect.Response[structpb.Struct], error) {
	r, err := svc.repository()
	if err != nil {
		return nil, err
	}

	var msg CreateChannelRequest
	if err := decode(req.Msg, &msg); err != nil {
		return nil, err
	}

	if msg.Name == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("name must be set"))
	}

	if msg.DisplayName == "" {
		msg.DisplayName = msg.Name
	}

	model := &models.Channel{
		Name:        msg.Name,
		DisplayName: msg.DisplayName,
		Team:        msg.Team,
	}

	if _, err := r.CreateChannel(ctx, model); err != nil {
		return nil, err
	}

	channel, err := r.GetChannelByName(ctx, msg.Name)
	if err != nil {
		return nil, err
	}

	return encode(ChannelResponse{Channel: channel})
}

func (svc *Service) ListChannels(ctx context.Context, _ *connect.Request[structpb.Struct]) (*connect.Response[structpb.Struct], error) {
	r, err := svc.repository()
	if err != nil {
		return nil, err
	}

	channels, err := r.ListChannels(ctx)
	if err != nil {
		return nil, err
	}

	return encode(ListChannelsResponse{Channels: channels})
}

func (svc *Service) DeleteChannel(ctx context.Context, req *connect.Request[structpb.Struct]) (*connect.Response[structpb.Struct], error) {
	r, err := svc.repository()
	if err != nil {
		return nil, err
	}

	var msg DeleteChannelRequest
	if err := decode(req.Msg, &msg); err != nil {
		return nil, err
	}

	if err := r.DeleteChannel(ctx, msg.Name, true); err != nil {
		return nil, err
	}

	return encode(Empty{})
}

// Post Management

func (svc *Service) CreatePost(ctx context.Context, req *connect.Request[structpb.Struct]) (*connect.Response[structpb.Struct], error) {
	r, err := svc.repository()
	if err != nil {
		return nil, err
	}

	var msg CreatePostRequest
	if err := decode(req.Msg, &msg); err != nil {
		return nil, err
	}

	if msg.UserID == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("userId must be set"))
	}

	m := models.Post{
		ChannelID: msg.Channel,
		UserID:    msg.UserID,
		Message:   msg.Message,
	}

	if msg.ParentID != "" {
		parent, err := r.GetPost(ctx, msg.ParentID)
		if err != nil {
			return nil, err
		}

		m.ParentID = parent.ID
		m.ChannelID = parent.ChannelID

		m.RootID = parent.RootID
		if m.RootID.IsZero() {
			m.RootID = parent.ID
		}
	}

	if m.ChannelID == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("channel must be set if parentId is not"))
	}

	insertID, err := r.CreatePost(ctx, m)
	if err != nil {
		return nil, err
	}

	post, err := r.GetPost(ctx, insertID)
	if err != nil {
		return nil, err
	}

	return encode(PostResponse{Post: post.ToView()})
}

func (svc *Service) UpdatePost(ctx context.Context, req *connect.Request[structpb.Struct]) (*connect.Response[structpb.Struct], error) {
	r, err := svc.repository()
	if err != nil {
		return nil, err
	}

	var msg UpdatePostRequest
	if err := decode(req.Msg, &msg); err != nil {
		return nil, err
	}

	post, err := r.UpdatePostMessage(ctx, msg.ID, msg.Message)
	if err != nil {
		return nil, err
	}

	return encode(PostResponse{Post: post.ToView()})
}

func (svc *Service) GetPost(ctx context.Context, req *connect.Request[structpb.Struct]) (*connect.Response[structpb.Struct], error) {
	r, err := svc.repository()
	if err != nil {
		return nil, err
	}

	var msg GetPostRequest
	if err := decode(req.Msg, &msg); err != nil {
		return nil, err
	}

	post, err := r.GetPost(ctx, msg.ID)
	if err != nil {
		return nil, err
	}

	view := post.ToView()

	if msg.Render != nil {
		renderer, err := svc.newRenderer(ctx, *msg.Render)
		if err != nil {
			return nil, err
		}

		if err := renderer.renderView(&view); err != nil {
			return nil, err
		}
	}

	return encode(PostResponse{Post: view})
}

func (svc *Service) ListPosts(ctx context.Context, req *connect.Request[structpb.Struct]) (*connect.Response[structpb.Struct], error) {
	r, err := svc.repository()
	if err != nil {
		return nil, err
	}

	var msg ListPostsRequest
	if err := decode(req.Msg, &msg); err != nil {
		return nil, err
	}

	posts, err := r.ListPosts(ctx, msg.Channel)
	if err != nil {
		return nil, err
	}

	var renderer *postRenderer
	if msg.Render != nil {
		renderer, err = svc.newRenderer(ctx, *msg.Render)
		if err != nil {
			return nil, err
		}
	}

	res := ListPostsResponse{
		Posts: make([]models.PostView, len(posts)),
	}

	merr := new(multierror.Error)
	for idx, p := range posts {
		res.Posts[idx] = p.ToView()

		if renderer != nil {
			if err := renderer.renderView(&res.Posts[idx]); err != nil {
				merr.Errors = append(merr.Errors, err)
			}
		}
	}

	if err := merr.ErrorOrNil(); err != nil {
		return nil, err
	}

	return encode(res)
}

func (svc *Service) GetThread(ctx context.Context, req *connect.Request[structpb.Struct]) (*connect.Response[structpb.Struct], error) {
	r, err := svc.repository()
	if err != nil {
		return nil, err
	}

	var msg GetThreadRequest
	if err := decode(req.Msg, &msg); err != nil {
		return nil, err
	}

	thread, err := r.GetThread(ctx, msg.ID)
	if err != nil {
		return nil, err
	}

	view := thread.ToView(true)

	if msg.Render != nil {
		renderer, err := svc.newRenderer(ctx, *msg.Render)
		if err != nil {
			return nil, err
		}

		if err := renderer.renderThread(view); err != nil {
			return nil, err
		}
	}

	return encode(ThreadResponse{Thread: view})
}

func (svc *Service) repository() (*repo.Repository, error) {
	if svc.Providers == nil || svc.Repository == nil {
		return nil, connect.NewError(connect.CodeUnavailable, fmt.Errorf("no database configured"))
	}

	return svc.Repository, nil
}

// postRenderer renders messages with fixed settings to one of the
// supported formats.
type postRenderer struct {
	format   Format
	pipeline *markdown.Pipeline
	dispatch func(text string, opts markdown.RenderOptions) any
	settings RenderSettings
}

func (svc *Service) newRenderer(ctx context.Context, settings RenderSettings) (*postRenderer, error) {
	if settings.Format == "" {
		settings.Format = FormatHTML
	}

	if settings.MinimumHashtagLength < 0 {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("minimumHashtagLength must not be negative"))
	}

	pr := &postRenderer{
		format:   settings.Format,
		pipeline: svc.NewPipeline(ctx, settings.overrides()),
		settings: settings,
	}

	switch settings.Format {
	case FormatHTML:
		r := html.New(html.Options{
			ServerURL:       svc.Config.ServerURL,
			SiteURL:         svc.Config.SiteURL,
			ChannelMentions: svc.channelMentions(ctx),
		})

		pr.dispatch = func(text string, opts markdown.RenderOptions) any {
			return markdown.Render(pr.pipeline, r, text, opts)
		}

	case FormatText:
		r := term.New(term.DefaultStyles())

		pr.dispatch = func(text string, opts markdown.RenderOptions) any {
			return markdown.Render(pr.pipeline, r, text, opts)
		}

	case FormatInstructions:
		r := instructions.New()

		pr.dispatch = func(text string, opts markdown.RenderOptions) any {
			return markdown.Render(pr.pipeline, r, text, opts).AsInterface()
		}

	default:
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("unsupported format %q", settings.Format))
	}

	return pr, nil
}

func (pr *postRenderer) render(text string, isEdited bool) (any, error) {
	// protobuf strings must be valid UTF-8
	if !utf8.ValidString(text) {
		return nil, fmt.Errorf("message is not valid UTF-8")
	}

	return pr.dispatch(text, pr.settings.options(isEdited)), nil
}

func (pr *postRenderer) renderView(v *models.PostView) error {
	rendered, err := pr.render(v.Message, v.IsEdited)
	if err != nil {
		return fmt.Errorf("%q: %w", v.ID, err)
	}

	v.Rendered = rendered

	return nil
}

func (pr *postRenderer) renderThread(t *models.ThreadView) error {
	merr := new(multierror.Error)
	if err := pr.renderView(&t.Post); err != nil {
		merr.Errors = append(merr.Errors, err)
	}

	for _, reply := range t.Replies {
		if err := pr.renderThread(reply); err != nil {
			merr.Errors = append(merr.Errors, err)
		}
	}

	return merr.ErrorOrNil()
}

func (svc *Service) channelMentions(ctx context.Context) map[string]string {
	if svc.Providers == nil || svc.Repository == nil {
		return nil
	}

	m, err := svc.Repository.ChannelMentions(ctx)
	if err != nil {
		log.L(ctx).Errorf("failed to load channel mentions: %s", err)

		return nil
	}

	return m
}
