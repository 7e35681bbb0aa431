package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/bufbuild/connect-go"
	"google.golang.org/protobuf/types/known/structpb"
)

// Client calls the markdown service over connect.
type Client struct {
	httpClient connect.HTTPClient
	baseURL    string
	opts       []connect.ClientOption
}

func NewClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *Client {
	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		opts:       opts,
	}
}

// Call invokes procedure with req and decodes the response into res.
// res may be nil if the caller is not interested in the response.
func (c *Client) Call(ctx context.Context, procedure string, req any, res any) (*structpb.Struct, error) {
	msg, err := toStruct(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	cli := connect.NewClient[structpb.Struct, structpb.Struct](c.httpClient, c.baseURL+procedure, c.opts...)

	response, err := cli.CallUnary(ctx, connect.NewRequest(msg))
	if err != nil {
		return nil, err
	}

	if res != nil {
		if err := decode(response.Msg, res); err != nil {
			return nil, err
		}
	}

	return response.Msg, nil
}

func (c *Client) Render(ctx context.Context, req RenderRequest) (*RenderResponse, error) {
	var res RenderResponse
	if _, err := c.Call(ctx, RenderProcedure, req, &res); err != nil {
		return nil, err
	}

	return &res, nil
}
