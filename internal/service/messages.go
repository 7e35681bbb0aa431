package service

import (
	"github.com/tierklinik-dobersberg/markdown-service/internal/config"
	"github.com/tierklinik-dobersberg/markdown-service/internal/markdown"
	"github.com/tierklinik-dobersberg/markdown-service/internal/models"
)

const ServiceName = "tkd.markdown.v1.MarkdownService"

const (
	RenderProcedure        = "/" + ServiceName + "/Render"
	CreateChannelProcedure = "/" + ServiceName + "/CreateChannel"
	ListChannelsProcedure  = "/" + ServiceName + "/ListChannels"
	DeleteChannelProcedure = "/" + ServiceName + "/DeleteChannel"
	CreatePostProcedure    = "/" + ServiceName + "/CreatePost"
	UpdatePostProcedure    = "/" + ServiceName + "/UpdatePost"
	GetPostProcedure       = "/" + ServiceName + "/GetPost"
	ListPostsProcedure     = "/" + ServiceName + "/ListPosts"
	GetThreadProcedure     = "/" + ServiceName + "/GetThread"
)

// Format selects the render target.
type Format string

const (
	FormatHTML         Format = "html"
	FormatText         Format = "text"
	FormatInstructions Format = "instructions"
)

type RenderSettings struct {
	Format             Format   `json:"format,omitempty"`
	MentionKeys        []string `json:"mentionKeys,omitempty"`
	DisableHashtags    bool     `json:"disableHashtags,omitempty"`
	DisableAtMentions  bool     `json:"disableAtMentions,omitempty"`
	DisableChannelLink bool     `json:"disableChannelLink,omitempty"`

	// MinimumHashtagLength and AutolinkedURLSchemes override the server
	// configuration if set.
	MinimumHashtagLength int      `json:"minimumHashtagLength,omitempty"`
	AutolinkedURLSchemes []string `json:"autolinkedURLSchemes,omitempty"`
}

func (s RenderSettings) overrides() config.ParserOverrides {
	return config.ParserOverrides{
		MinimumHashtagLength: s.MinimumHashtagLength,
		AutolinkedURLSchemes: s.AutolinkedURLSchemes,
	}
}

func (s RenderSettings) options(isEdited bool) markdown.RenderOptions {
	return markdown.RenderOptions{
		MentionKeys: s.MentionKeys,
		IsEdited:    isEdited,
		Features: markdown.Features{
			DisableHashtags:    s.DisableHashtags,
			DisableAtMentions:  s.DisableAtMentions,
			DisableChannelLink: s.DisableChannelLink,
		},
	}
}

type (
	RenderRequest struct {
		RenderSettings

		Text     string `json:"text"`
		IsEdited bool   `json:"isEdited,omitempty"`
	}

	RenderResponse struct {
		Format   Format `json:"format"`
		Rendered any    `json:"rendered"`
	}

	CreateChannelRequest struct {
		Name        string `json:"name"`
		DisplayName string `json:"displayName"`
		Team        string `json:"team,omitempty"`
	}

	ChannelResponse struct {
		Channel models.Channel `json:"channel"`
	}

	ListChannelsResponse struct {
		Channels []models.Channel `json:"channels"`
	}

	DeleteChannelRequest struct {
		Name string `json:"name"`
	}

	CreatePostRequest struct {
		Channel  string `json:"channel,omitempty"`
		ParentID string `json:"parentId,omitempty"`
		UserID   string `json:"userId"`
		Message  string `json:"message"`
	}

	UpdatePostRequest struct {
		ID      string `json:"id"`
		Message string `json:"message"`
	}

	GetPostRequest struct {
		ID     string          `json:"id"`
		Render *RenderSettings `json:"render,omitempty"`
	}

	PostResponse struct {
		Post models.PostView `json:"post"`
	}

	ListPostsRequest struct {
		Channel string          `json:"channel"`
		Render  *RenderSettings `json:"render,omitempty"`
	}

	ListPostsResponse struct {
		Posts []models.PostView `json:"posts"`
	}

	GetThreadRequest struct {
		ID     string          `json:"id"`
		Render *RenderSettings `json:"render,omitempty"`
	}

	ThreadResponse struct {
		Thread *models.ThreadView `json:"thread"`
	}

	Empty struct{}
)
